package roles

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ecclesia-erp/ecclesia/internal/permissions"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	permissions.Store
}

// Service handles role business logic.
type Service struct {
	repo      RepositoryPort
	store     permissions.Store
	matrix    *permissions.Matrix
	logger    *slog.Logger
	observers []permissions.CommitObserver
}

// Option customises the Service.
type Option func(*Service)

// WithStore routes permission loads and saves through store (e.g. a CachedStore)
// instead of the repository.
func WithStore(store permissions.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets the logger handed to editing sessions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObservers registers commit observers for every session.
func WithObservers(observers ...permissions.CommitObserver) Option {
	return func(s *Service) {
		s.observers = append(s.observers, observers...)
	}
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, matrix *permissions.Matrix, opts ...Option) *Service {
	s := &Service{repo: repo, store: repo, matrix: matrix, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Matrix exposes the permission matrix the service edits against.
func (s *Service) Matrix() *permissions.Matrix {
	return s.matrix
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// RolePermissions returns the stored matrix state of a role.
func (s *Service) RolePermissions(ctx context.Context, roleID int64) (RoleMatrix, error) {
	role, err := s.repo.GetRole(ctx, roleID)
	if err != nil {
		return RoleMatrix{}, err
	}
	ed, err := s.open(ctx, roleID)
	if err != nil {
		return RoleMatrix{}, err
	}
	return s.state(role, ed), nil
}

// UpdateRolePermissions replaces the permissions of a role and commits them. Unknown
// ids fail before anything is written.
func (s *Service) UpdateRolePermissions(ctx context.Context, roleID int64, ids []string) (RoleMatrix, error) {
	role, err := s.repo.GetRole(ctx, roleID)
	if err != nil {
		return RoleMatrix{}, err
	}
	ed, err := s.open(ctx, roleID)
	if err != nil {
		return RoleMatrix{}, err
	}
	if err := ed.Replace(ids); err != nil {
		return RoleMatrix{}, err
	}
	if err := ed.Commit(ctx); err != nil {
		return RoleMatrix{}, err
	}
	return s.state(role, ed), nil
}

func (s *Service) open(ctx context.Context, roleID int64) (*permissions.Editor, error) {
	ed, err := permissions.OpenEditor(ctx, s.matrix, s.store, roleID,
		permissions.WithLogger(s.logger),
		permissions.WithObservers(s.observers...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ed, nil
}

func (s *Service) state(role Role, ed *permissions.Editor) RoleMatrix {
	return RoleMatrix{
		Role:     role,
		Selected: ed.Selection().IDs(),
		Rollups:  ed.Rollups(),
		Coverage: ed.Coverage(),
	}
}
