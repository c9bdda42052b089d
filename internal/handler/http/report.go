package http

import (
	"log/slog"
	"net/http"

	apperrors "github.com/avetrov/reporthub/pkg/errors"
	"github.com/avetrov/reporthub/pkg/httputil"
	"github.com/avetrov/reporthub/pkg/middleware"
	"github.com/avetrov/reporthub/pkg/validator"

	"github.com/avetrov/reporthub/internal/service"
)

// ReportHandler serves the authenticated report endpoints. The owning user
// comes from the access token, never from the request body.
type ReportHandler struct {
	reports *service.ReportService
	logger  *slog.Logger
}

func NewReportHandler(reports *service.ReportService, log *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: log}
}

type reportRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=128"`
	Description string `json:"description" validate:"max=4096"`
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	reports, err := h.reports.List(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(reports))
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	report, err := h.reports.Get(r.Context(), userID, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(report))
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req reportRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	report, err := h.reports.Create(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(report))
}

func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req reportRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	report, err := h.reports.Update(r.Context(), userID, id, req.Name, req.Description)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(report))
}

func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.reports.Delete(r.Context(), userID, id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(nil))
}
