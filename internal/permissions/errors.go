package permissions

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPermissionID indicates a permission id absent from the loaded catalog.
	ErrUnknownPermissionID = errors.New("permissions: unknown permission id")
	// ErrUnknownCategoryID indicates a category id absent from the loaded catalog.
	ErrUnknownCategoryID = errors.New("permissions: unknown category id")
	// ErrUnknownTemplateName indicates a template that was never registered.
	ErrUnknownTemplateName = errors.New("permissions: unknown template name")
	// ErrDuplicatePermissionID occurs when a permission id is declared twice in a catalog.
	ErrDuplicatePermissionID = errors.New("permissions: duplicate permission id")
	// ErrDuplicateCategoryID occurs when a category id is declared twice in a catalog.
	ErrDuplicateCategoryID = errors.New("permissions: duplicate category id")
	// ErrDuplicateTemplate occurs when a template name is registered twice.
	ErrDuplicateTemplate = errors.New("permissions: duplicate template")
	// ErrInvalidCatalog reports structurally invalid catalog input.
	ErrInvalidCatalog = errors.New("permissions: invalid catalog")
	// ErrStoreRequired is returned when a session without a store loads or commits.
	ErrStoreRequired = errors.New("permissions: store required")
	// ErrSave matches every *SaveError via errors.Is.
	ErrSave = errors.New("permissions: save failed")
)

// SaveError wraps a persistence failure raised while committing a selection.
// The editor selection is untouched when it is returned, so the commit can be retried.
type SaveError struct {
	RoleID int64
	Err    error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("permissions: save role %d: %v", e.RoleID, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSave) hold for any SaveError.
func (e *SaveError) Is(target error) bool {
	return target == ErrSave
}

func unknownPermission(id string) error {
	return fmt.Errorf("%w: %q", ErrUnknownPermissionID, id)
}

func unknownCategory(id string) error {
	return fmt.Errorf("%w: %q", ErrUnknownCategoryID, id)
}
