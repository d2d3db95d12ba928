// Package permissionshttp exposes the permission matrix and role assignments over JSON.
package permissionshttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ecclesia-erp/ecclesia/internal/permissions"
	"github.com/ecclesia-erp/ecclesia/internal/platform/httpx"
	"github.com/ecclesia-erp/ecclesia/internal/roles"
)

type roleService interface {
	ListRoles(ctx context.Context) ([]roles.Role, error)
	RolePermissions(ctx context.Context, roleID int64) (roles.RoleMatrix, error)
	UpdateRolePermissions(ctx context.Context, roleID int64, ids []string) (roles.RoleMatrix, error)
}

// TemplateRecorder counts template applications.
type TemplateRecorder interface {
	TemplateApplied(name string)
}

// Handler wires HTTP endpoints for the permission matrix and role permissions.
type Handler struct {
	logger    *slog.Logger
	matrix    *permissions.Matrix
	roles     roleService
	validator *validator.Validate
	templates TemplateRecorder
}

// NewHandler constructs the handler. recorder may be nil.
func NewHandler(logger *slog.Logger, matrix *permissions.Matrix, svc roleService, recorder TemplateRecorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		matrix:    matrix,
		roles:     svc,
		validator: validator.New(),
		templates: recorder,
	}
}

// MountRoutes registers HTTP routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/permissions", func(r chi.Router) {
		r.Get("/catalog", h.getCatalog)
		r.Get("/templates", h.listTemplates)
		r.Post("/matrix", h.evaluateMatrix)
	})
	r.Route("/roles", func(r chi.Router) {
		r.Get("/", h.listRoles)
		r.Get("/{roleID}/permissions", h.getRolePermissions)
		r.Put("/{roleID}/permissions", h.updateRolePermissions)
	})
}

func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	view := h.matrix.Filter(query)
	categories := []permissions.Category(view)
	if categories == nil {
		categories = []permissions.Category{}
	}
	httpx.JSON(w, http.StatusOK, catalogResponse{
		Query:      query,
		Count:      view.Count(),
		Categories: categories,
	})
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	tmpls := h.matrix.Templates().Templates()
	out := make([]templateView, 0, len(tmpls))
	for _, t := range tmpls {
		out = append(out, templateView{Name: t.Name, Description: t.Description})
	}
	httpx.JSON(w, http.StatusOK, out)
}

// evaluateMatrix applies one action to a client-held selection without touching storage.
func (h *Handler) evaluateMatrix(w http.ResponseWriter, r *http.Request) {
	var req matrixRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validate(req); err != nil {
		h.respondError(w, r, err)
		return
	}
	sel, err := h.matrix.Seed(req.Selected)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Action != nil {
		sel, err = h.apply(sel, *req.Action)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, matrixResponse{
		Selected: sel.IDs(),
		Rollups:  h.matrix.Rollups(sel),
		Coverage: newCoverageView(h.matrix.Coverage(sel)),
	})
}

func (h *Handler) apply(sel permissions.Selection, action matrixAction) (permissions.Selection, error) {
	switch action.Type {
	case actionTogglePermission:
		return h.matrix.TogglePermission(sel, action.PermissionID)
	case actionToggleCategory:
		return h.matrix.ToggleCategory(sel, action.CategoryID, action.Enable)
	case actionApplyTemplate:
		next, err := h.matrix.ApplyTemplate(action.Template)
		if err != nil {
			return sel, err
		}
		if h.templates != nil {
			if tmpl, ok := h.matrix.Templates().Lookup(action.Template); ok {
				h.templates.TemplateApplied(tmpl.Name)
			}
		}
		return next, nil
	default:
		return sel, fmt.Errorf("%w: unsupported action %q", httpx.ErrValidation, action.Type)
	}
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	list, err := h.roles.ListRoles(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if list == nil {
		list = []roles.Role{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) getRolePermissions(w http.ResponseWriter, r *http.Request) {
	roleID, err := parseRoleID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	state, err := h.roles.RolePermissions(r.Context(), roleID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newRoleMatrixResponse(state))
}

func (h *Handler) updateRolePermissions(w http.ResponseWriter, r *http.Request) {
	roleID, err := parseRoleID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req updateRolePermissionsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validate(req); err != nil {
		h.respondError(w, r, err)
		return
	}
	state, err := h.roles.UpdateRolePermissions(r.Context(), roleID, req.Permissions)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newRoleMatrixResponse(state))
}

func parseRoleID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "roleID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid role id %q", httpx.ErrValidation, raw)
	}
	return id, nil
}

func newRoleMatrixResponse(state roles.RoleMatrix) roleMatrixResponse {
	return roleMatrixResponse{
		RoleID:   state.Role.ID,
		RoleName: state.Role.Name,
		Selected: state.Selected,
		Rollups:  state.Rollups,
		Coverage: newCoverageView(state.Coverage),
	}
}
