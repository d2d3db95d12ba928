package permissionshttp

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ecclesia-erp/ecclesia/internal/permissions"
	"github.com/ecclesia-erp/ecclesia/internal/platform/httpx"
	"github.com/ecclesia-erp/ecclesia/internal/roles"
)

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, permissions.ErrUnknownPermissionID),
		errors.Is(err, permissions.ErrUnknownCategoryID),
		errors.Is(err, permissions.ErrUnknownTemplateName):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unknown Reference", err.Error())
	case errors.Is(err, roles.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Role Not Found", err.Error())
	case errors.Is(err, roles.ErrCatalogNotSynced):
		h.logger.Error("role permissions rejected by storage", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.Problem(w, http.StatusConflict, "Catalog Not Synced", "permission catalog must be synced before saving")
	case errors.Is(err, permissions.ErrSave):
		h.logger.Error("role permissions save failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.WriteProblem(w, httpx.ProblemDetail{
			Title:     "Save Failed",
			Status:    http.StatusBadGateway,
			Detail:    "role permissions could not be saved; the edit was kept and may be retried",
			Retryable: true,
		})
	default:
		if !httpx.IsClientError(err) {
			h.logger.Error("permissions request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
	}
}

// validate runs struct validation and folds failures into httpx.ErrValidation.
func (h *Handler) validate(v any) error {
	err := h.validator.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", httpx.ErrValidation, strings.Join(msgs, "; "))
}
