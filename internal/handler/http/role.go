package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/avetrov/reporthub/pkg/errors"
	"github.com/avetrov/reporthub/pkg/httputil"
	"github.com/avetrov/reporthub/pkg/validator"

	"github.com/avetrov/reporthub/internal/service"
)

// RoleHandler serves the admin-only role management endpoints.
type RoleHandler struct {
	roles  *service.RoleService
	logger *slog.Logger
}

func NewRoleHandler(roles *service.RoleService, log *slog.Logger) *RoleHandler {
	return &RoleHandler{roles: roles, logger: log}
}

type roleRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	role, err := h.roles.CreateRole(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(role))
}

func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req roleRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	role, err := h.roles.UpdateRole(r.Context(), id, req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(role))
}

func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.roles.DeleteRole(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(nil))
}

type assignRoleRequest struct {
	Login string `json:"login" validate:"required"`
	Role  string `json:"role" validate:"required"`
}

func (h *RoleHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignRoleRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.roles.AssignRole(r.Context(), req.Login, req.Role); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(nil))
}

func (h *RoleHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req assignRoleRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.roles.RemoveRole(r.Context(), req.Login, req.Role); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(nil))
}

type reassignRoleRequest struct {
	Login    string `json:"login" validate:"required"`
	FromRole string `json:"fromRole" validate:"required"`
	ToRole   string `json:"toRole" validate:"required"`
}

func (h *RoleHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	var req reassignRoleRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.roles.ReassignRole(r.Context(), req.Login, req.FromRole, req.ToRole); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(nil))
}

func (h *RoleHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")
	if login == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("login is required"), h.logger)
		return
	}

	roles, err := h.roles.ListUserRoles(r.Context(), login)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(roles))
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("invalid " + name)
	}
	return id, nil
}
