package roles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecclesia-erp/ecclesia/internal/permissions"
)

type memoryRoleRepo struct {
	roles   map[int64]Role
	grants  map[int64][]string
	saveErr error
	saves   int
}

func newMemoryRoleRepo() *memoryRoleRepo {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &memoryRoleRepo{
		roles: map[int64]Role{
			1: {ID: 1, Name: "Pastor", CreatedAt: now, UpdatedAt: now},
			2: {ID: 2, Name: "Secretary", CreatedAt: now, UpdatedAt: now},
		},
		grants: map[int64][]string{1: {"members.view", "members.edit"}},
	}
}

func (r *memoryRoleRepo) ListRoles(ctx context.Context) ([]Role, error) {
	return []Role{r.roles[1], r.roles[2]}, nil
}

func (r *memoryRoleRepo) GetRole(ctx context.Context, id int64) (Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return Role{}, ErrNotFound
	}
	return role, nil
}

func (r *memoryRoleRepo) LoadRolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	if _, ok := r.roles[roleID]; !ok {
		return nil, ErrNotFound
	}
	return append([]string{}, r.grants[roleID]...), nil
}

func (r *memoryRoleRepo) SaveRolePermissions(ctx context.Context, roleID int64, ids []string) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.grants[roleID] = append([]string{}, ids...)
	return nil
}

func newTestService(t *testing.T, repo *memoryRoleRepo, opts ...Option) *Service {
	t.Helper()
	matrix, err := permissions.NewMatrix(permissions.DefaultCatalog(), permissions.DefaultTemplates())
	require.NoError(t, err)
	return NewService(repo, matrix, opts...)
}

func TestServiceRolePermissions(t *testing.T) {
	svc := newTestService(t, newMemoryRoleRepo())

	state, err := svc.RolePermissions(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Pastor", state.Role.Name)
	require.Equal(t, []string{"members.edit", "members.view"}, state.Selected)
	require.Equal(t, 2, state.Coverage.Selected)
	require.Equal(t, 64, state.Coverage.Total)
	require.Len(t, state.Rollups, 10)

	_, err = svc.RolePermissions(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServiceUpdateRolePermissionsCommitsAndNotifies(t *testing.T) {
	repo := newMemoryRoleRepo()
	var seen []permissions.CommitResult
	observer := permissions.CommitObserverFunc(func(ctx context.Context, result permissions.CommitResult) {
		seen = append(seen, result)
	})
	svc := newTestService(t, repo, WithObservers(observer))

	state, err := svc.UpdateRolePermissions(context.Background(), 1, []string{"members.view", "finance.view"})
	require.NoError(t, err)
	require.Equal(t, []string{"finance.view", "members.view"}, state.Selected)
	require.Equal(t, []string{"finance.view", "members.view"}, repo.grants[1])

	require.Len(t, seen, 1)
	require.NoError(t, seen[0].Err)
	require.Equal(t, int64(1), seen[0].RoleID)
	require.Equal(t, []string{"finance.view"}, seen[0].Diff.Granted)
	require.Equal(t, []string{"members.edit"}, seen[0].Diff.Revoked)
}

func TestServiceUpdateRejectsUnknownIDsBeforeSaving(t *testing.T) {
	repo := newMemoryRoleRepo()
	svc := newTestService(t, repo)

	_, err := svc.UpdateRolePermissions(context.Background(), 1, []string{"members.view", "bogus.permission"})
	require.ErrorIs(t, err, permissions.ErrUnknownPermissionID)
	require.Zero(t, repo.saves)
	require.Equal(t, []string{"members.view", "members.edit"}, repo.grants[1])
}

func TestServiceUpdateSurfacesSaveError(t *testing.T) {
	repo := newMemoryRoleRepo()
	repo.saveErr = errors.New("deadlock detected")
	svc := newTestService(t, repo)

	_, err := svc.UpdateRolePermissions(context.Background(), 2, []string{"dashboard.view"})
	require.ErrorIs(t, err, permissions.ErrSave)
	var saveErr *permissions.SaveError
	require.ErrorAs(t, err, &saveErr)
	require.Equal(t, int64(2), saveErr.RoleID)

	_, err = svc.UpdateRolePermissions(context.Background(), 42, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServiceUsesInjectedStore(t *testing.T) {
	repo := newMemoryRoleRepo()
	store := &countingStore{roles: map[int64][]string{2: {"dashboard.view"}}}
	svc := newTestService(t, repo, WithStore(store))

	state, err := svc.RolePermissions(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, []string{"dashboard.view"}, state.Selected)
	require.Equal(t, 1, store.loads)
}

func TestPlanChanges(t *testing.T) {
	granted, revoked := planChanges(
		[]string{"a.view", "b.view", "c.view"},
		[]string{"c.view", "d.view", "a.view", "d.view"},
	)
	require.Equal(t, []string{"d.view"}, granted)
	require.Equal(t, []string{"b.view"}, revoked)

	granted, revoked = planChanges(nil, nil)
	require.Empty(t, granted)
	require.Empty(t, revoked)
}
