package http

import (
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/avetrov/reporthub/pkg/errors"
	"github.com/avetrov/reporthub/pkg/httputil"
	"github.com/avetrov/reporthub/pkg/validator"

	"github.com/avetrov/reporthub/internal/service"
)

// AuthHandler serves the public authentication endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	tokens *service.TokenService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, tokens *service.TokenService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, logger: log}
}

type registerRequest struct {
	Login           string `json:"login" validate:"required,min=3,max=64"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	CreatedAt string `json:"createdAt"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	// Password confirmation is checked by the service so the mismatch comes
	// back with its own error code rather than a generic validation failure.
	user, err := h.auth.Register(r.Context(), req.Login, req.Password, req.PasswordConfirm)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(userResponse{
		ID:        user.ID,
		Login:     user.Login,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}))
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	pair, err := h.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(pair))
}

type refreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	pair, err := h.tokens.Refresh(r.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(pair))
}
