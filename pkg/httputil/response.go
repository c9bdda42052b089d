package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/avetrov/reporthub/pkg/errors"
	"github.com/avetrov/reporthub/pkg/logger"
	"github.com/avetrov/reporthub/pkg/validator"
)

// Response is the JSON envelope returned by every endpoint: data on success,
// errorMessage plus errorCode on failure.
type Response struct {
	Data         any    `json:"data"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	ErrorCode    int    `json:"errorCode,omitempty"`
}

// OK builds a success envelope.
func OK(data any) Response {
	return Response{Data: data}
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope for err, mapping it to an HTTP status
// and numeric code. Internal errors are logged with the request-scoped logger
// when one is present in the context.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	status := apperrors.HTTPStatus(err)
	code := apperrors.WireCode(err)

	message := "internal server error"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{ErrorMessage: message, ErrorCode: code})
}

// WriteValidationError writes a 400 envelope for a failed request validation.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			ErrorMessage: valErr.Error(),
			ErrorCode:    apperrors.CodeInternal,
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		ErrorMessage: err.Error(),
		ErrorCode:    apperrors.CodeInternal,
	})
}

// DecodeJSON decodes the request body into dst, limiting it to 1 MiB.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(dst)
}
