package permissionshttp

import (
	"github.com/ecclesia-erp/ecclesia/internal/permissions"
)

// Matrix action types accepted by POST /permissions/matrix.
const (
	actionTogglePermission = "toggle_permission"
	actionToggleCategory   = "toggle_category"
	actionApplyTemplate    = "apply_template"
)

type matrixAction struct {
	Type         string `json:"type" validate:"required,oneof=toggle_permission toggle_category apply_template"`
	PermissionID string `json:"permission_id" validate:"required_if=Type toggle_permission"`
	CategoryID   string `json:"category_id" validate:"required_if=Type toggle_category"`
	Enable       bool   `json:"enable"`
	Template     string `json:"template" validate:"required_if=Type apply_template"`
}

type matrixRequest struct {
	Selected []string      `json:"selected" validate:"dive,required"`
	Action   *matrixAction `json:"action"`
}

type updateRolePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,dive,required"`
}

type coverageView struct {
	Selected int     `json:"selected"`
	Total    int     `json:"total"`
	Ratio    float64 `json:"ratio"`
}

type matrixResponse struct {
	Selected []string                     `json:"selected"`
	Rollups  []permissions.CategoryRollup `json:"rollups"`
	Coverage coverageView                 `json:"coverage"`
}

type catalogResponse struct {
	Query      string                 `json:"query,omitempty"`
	Count      int                    `json:"count"`
	Categories []permissions.Category `json:"categories"`
}

type templateView struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type roleMatrixResponse struct {
	RoleID   int64                        `json:"role_id"`
	RoleName string                       `json:"role_name"`
	Selected []string                     `json:"selected"`
	Rollups  []permissions.CategoryRollup `json:"rollups"`
	Coverage coverageView                 `json:"coverage"`
}

func newCoverageView(c permissions.Coverage) coverageView {
	return coverageView{Selected: c.Selected, Total: c.Total, Ratio: c.Ratio()}
}
