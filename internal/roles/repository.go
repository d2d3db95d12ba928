package roles

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecclesia-erp/ecclesia/internal/permissions"
	"github.com/ecclesia-erp/ecclesia/internal/platform/db"
)

// Repository provides PostgreSQL backed role storage. It implements permissions.Store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListRoles returns all roles ordered by name.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// GetRole fetches a role by ID.
func (r *Repository) GetRole(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `SELECT id, name, description, created_at, updated_at FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// LoadRolePermissions returns the permission ids granted to a role.
func (r *Repository) LoadRolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return queryPermissionIDs(ctx, r.pool, roleID)
}

// SaveRolePermissions replaces the permissions of a role. Only the difference to the
// stored set is written, inside one transaction holding the role row lock.
func (r *Repository) SaveRolePermissions(ctx context.Context, roleID int64, ids []string) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var locked int64
		if err := tx.QueryRow(ctx, `SELECT id FROM roles WHERE id = $1 FOR UPDATE`, roleID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		existing, err := queryPermissionIDs(ctx, tx, roleID)
		if err != nil {
			return err
		}
		granted, revoked := planChanges(existing, ids)
		return applyChanges(ctx, tx, roleID, granted, revoked)
	})
	if db.IsCode(err, db.CodeForeignKeyViolation) {
		constraint := db.ConstraintName(err)
		if constraint == "role_permissions_role_id_fkey" {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %s", ErrCatalogNotSynced, constraint)
	}
	return err
}

// SyncCatalog upserts every category and permission of the catalog so role
// assignments can reference them.
func (r *Repository) SyncCatalog(ctx context.Context, catalog *permissions.Catalog) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for pos, cat := range catalog.Categories() {
			batch.Queue(`INSERT INTO permission_categories (id, name, description, position) VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, position = EXCLUDED.position`,
				cat.ID, cat.Name, cat.Description, pos)
			for _, p := range cat.Permissions {
				batch.Queue(`INSERT INTO permissions (id, category_id, name, description) VALUES ($1, $2, $3, $4)
					ON CONFLICT (id) DO UPDATE SET category_id = EXCLUDED.category_id, name = EXCLUDED.name, description = EXCLUDED.description`,
					p.ID, cat.ID, p.Name, p.Description)
			}
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// applyChanges writes a planned diff and bumps the role's updated_at, also when the
// diff is empty.
func applyChanges(ctx context.Context, tx execer, roleID int64, granted, revoked []string) error {
	if len(granted) > 0 {
		if _, err := tx.Exec(ctx,
			`INSERT INTO role_permissions (role_id, permission_id) SELECT $1, unnest($2::text[]) ON CONFLICT DO NOTHING`,
			roleID, granted); err != nil {
			return err
		}
	}
	if len(revoked) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = ANY($2::text[])`,
			roleID, revoked); err != nil {
			return err
		}
	}
	_, err := tx.Exec(ctx, `UPDATE roles SET updated_at = NOW() WHERE id = $1`, roleID)
	return err
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryPermissionIDs(ctx context.Context, q querier, roleID int64) ([]string, error) {
	rows, err := q.Query(ctx, `SELECT permission_id FROM role_permissions WHERE role_id = $1 ORDER BY permission_id`, roleID)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// planChanges returns the ids to insert and delete to turn existing into wanted.
func planChanges(existing, wanted []string) (granted, revoked []string) {
	have := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		have[id] = struct{}{}
	}
	keep := make(map[string]struct{}, len(wanted))
	for _, id := range wanted {
		if _, dup := keep[id]; dup {
			continue
		}
		keep[id] = struct{}{}
		if _, ok := have[id]; !ok {
			granted = append(granted, id)
		}
	}
	for id := range have {
		if _, ok := keep[id]; !ok {
			revoked = append(revoked, id)
		}
	}
	sort.Strings(granted)
	sort.Strings(revoked)
	return granted, revoked
}
