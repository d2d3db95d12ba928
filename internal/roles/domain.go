package roles

import (
	"errors"
	"time"

	"github.com/ecclesia-erp/ecclesia/internal/permissions"
)

var (
	// ErrNotFound indicates that the requested role does not exist.
	ErrNotFound = errors.New("roles: not found")
	// ErrCatalogNotSynced indicates stored permissions the database does not know;
	// run `ecclesia catalog sync`.
	ErrCatalogNotSynced = errors.New("roles: permission catalog not synced")
)

// Role represents a named permission grouping.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleMatrix is the permission matrix state of one role.
type RoleMatrix struct {
	Role     Role                         `json:"role"`
	Selected []string                     `json:"selected"`
	Rollups  []permissions.CategoryRollup `json:"rollups"`
	Coverage permissions.Coverage         `json:"coverage"`
}
