package permissions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Editor is one editing session of a role's permissions. It owns its selection and
// replaces it only when an operation succeeds. An Editor is not safe for concurrent
// use; each session creates its own.
type Editor struct {
	id        string
	roleID    int64
	matrix    *Matrix
	store     Store
	logger    *slog.Logger
	observers []CommitObserver

	selection Selection
	saved     Selection
}

// EditorOption customises an Editor.
type EditorOption func(*Editor)

// WithLogger sets the logger used for commit outcomes.
func WithLogger(logger *slog.Logger) EditorOption {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObservers appends commit observers.
func WithObservers(observers ...CommitObserver) EditorOption {
	return func(e *Editor) {
		for _, o := range observers {
			if o != nil {
				e.observers = append(e.observers, o)
			}
		}
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) EditorOption {
	return func(e *Editor) {
		if id != "" {
			e.id = id
		}
	}
}

// NewEditor starts a session from an explicit selection, e.g. an empty one for a
// role that has never been saved.
func NewEditor(matrix *Matrix, store Store, roleID int64, initial Selection, opts ...EditorOption) *Editor {
	e := &Editor{
		id:        uuid.NewString(),
		roleID:    roleID,
		matrix:    matrix,
		store:     store,
		logger:    slog.Default(),
		selection: initial,
		saved:     initial,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OpenEditor loads the stored permissions of a role and starts a session seeded with them.
func OpenEditor(ctx context.Context, matrix *Matrix, store Store, roleID int64, opts ...EditorOption) (*Editor, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	ids, err := store.LoadRolePermissions(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("permissions: load role %d: %w", roleID, err)
	}
	sel, err := matrix.Seed(ids)
	if err != nil {
		return nil, fmt.Errorf("permissions: seed role %d: %w", roleID, err)
	}
	return NewEditor(matrix, store, roleID, sel, opts...), nil
}

// ID returns the session id.
func (e *Editor) ID() string { return e.id }

// RoleID returns the role being edited.
func (e *Editor) RoleID() int64 { return e.roleID }

// Selection returns the current selection.
func (e *Editor) Selection() Selection { return e.selection }

// TogglePermission flips one permission.
func (e *Editor) TogglePermission(id string) error {
	next, err := e.matrix.TogglePermission(e.selection, id)
	if err != nil {
		return err
	}
	e.selection = next
	return nil
}

// ToggleCategory enables or disables a whole category.
func (e *Editor) ToggleCategory(categoryID string, enable bool) error {
	next, err := e.matrix.ToggleCategory(e.selection, categoryID, enable)
	if err != nil {
		return err
	}
	e.selection = next
	return nil
}

// ApplyTemplate replaces the selection with the template's permissions.
func (e *Editor) ApplyTemplate(name string) error {
	next, err := e.matrix.ApplyTemplate(name)
	if err != nil {
		return err
	}
	e.selection = next
	return nil
}

// Replace swaps the selection for an explicit id list. Unknown ids are rejected and
// leave the session untouched.
func (e *Editor) Replace(ids []string) error {
	next, err := e.matrix.Seed(ids)
	if err != nil {
		return err
	}
	e.selection = next
	return nil
}

// Rollup returns the rollup of one category for the current selection.
func (e *Editor) Rollup(categoryID string) (Rollup, error) {
	return e.matrix.Rollup(e.selection, categoryID)
}

// Rollups returns every category rollup for the current selection.
func (e *Editor) Rollups() []CategoryRollup {
	return e.matrix.Rollups(e.selection)
}

// Coverage returns selected/total for the current selection.
func (e *Editor) Coverage() Coverage {
	return e.matrix.Coverage(e.selection)
}

// Filter projects the catalog; it never touches the selection.
func (e *Editor) Filter(query string) FilteredView {
	return e.matrix.Filter(query)
}

// Dirty reports whether the selection differs from the last saved state.
func (e *Editor) Dirty() bool {
	return !e.selection.Equal(e.saved)
}

// Diff returns what a commit would grant and revoke.
func (e *Editor) Diff() Diff {
	return e.selection.DiffFrom(e.saved)
}

// Commit saves the current selection. On failure it returns a *SaveError and leaves
// the session untouched so the caller can retry. A session without a store fails
// with ErrStoreRequired.
func (e *Editor) Commit(ctx context.Context) error {
	if e.store == nil {
		return ErrStoreRequired
	}
	sel := e.selection
	diff := sel.DiffFrom(e.saved)
	result := CommitResult{
		SessionID: e.id,
		RoleID:    e.roleID,
		Diff:      diff,
		Coverage:  e.matrix.Coverage(sel),
	}
	if err := e.store.SaveRolePermissions(ctx, e.roleID, sel.IDs()); err != nil {
		result.Err = &SaveError{RoleID: e.roleID, Err: err}
		e.logger.Warn("permissions commit failed",
			slog.String("session", e.id),
			slog.Int64("role_id", e.roleID),
			slog.Any("error", err))
		e.notify(ctx, result)
		return result.Err
	}
	e.saved = sel
	e.logger.Info("permissions committed",
		slog.String("session", e.id),
		slog.Int64("role_id", e.roleID),
		slog.Int("selected", result.Coverage.Selected),
		slog.Int("granted", len(diff.Granted)),
		slog.Int("revoked", len(diff.Revoked)))
	e.notify(ctx, result)
	return nil
}

func (e *Editor) notify(ctx context.Context, result CommitResult) {
	for _, o := range e.observers {
		o.PermissionsCommitted(ctx, result)
	}
}
