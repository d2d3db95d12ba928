package permissions

import "context"

// Store is the role storage collaborator used to seed and commit selections.
type Store interface {
	LoadRolePermissions(ctx context.Context, roleID int64) ([]string, error)
	SaveRolePermissions(ctx context.Context, roleID int64, ids []string) error
}

// CommitResult describes the outcome of one Editor.Commit call.
type CommitResult struct {
	SessionID string
	RoleID    int64
	Diff      Diff
	Coverage  Coverage
	Err       error
}

// CommitObserver is notified after every commit attempt, successful or not.
type CommitObserver interface {
	PermissionsCommitted(ctx context.Context, result CommitResult)
}

// CommitObserverFunc adapts a function to CommitObserver.
type CommitObserverFunc func(ctx context.Context, result CommitResult)

// PermissionsCommitted calls f(ctx, result).
func (f CommitObserverFunc) PermissionsCommitted(ctx context.Context, result CommitResult) {
	f(ctx, result)
}
