package roles

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ecclesia-erp/ecclesia/internal/permissions"
)

// CachedStore caches role permission lists in Redis in front of another Store.
// Redis failures fall through to the wrapped store.
type CachedStore struct {
	next   permissions.Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// NewCachedStore wraps next. A nil client disables caching.
func NewCachedStore(next permissions.Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{next: next, client: client, ttl: ttl, logger: logger}
}

func versionKey(roleID int64) string {
	return "roles:" + strconv.FormatInt(roleID, 10) + ":version"
}

func permissionsKey(roleID, version int64) string {
	return "roles:" + strconv.FormatInt(roleID, 10) + ":permissions:" + strconv.FormatInt(version, 10)
}

// version returns the cache generation of a role. A role never invalidated is at 0.
func (c *CachedStore) version(ctx context.Context, roleID int64) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(roleID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

// LoadRolePermissions serves from Redis when possible. Concurrent misses for the same
// role share one load. Entries are keyed by the role's generation read before the
// load, so a load racing a save can only fill a generation nobody reads anymore.
func (c *CachedStore) LoadRolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	if c.client == nil {
		return c.next.LoadRolePermissions(ctx, roleID)
	}
	ver, err := c.version(ctx, roleID)
	if err != nil {
		c.logger.Warn("role cache version failed", slog.Int64("role_id", roleID), slog.Any("error", err))
		return c.next.LoadRolePermissions(ctx, roleID)
	}
	key := permissionsKey(roleID, ver)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var ids []string
		if err := json.Unmarshal(payload, &ids); err == nil {
			return ids, nil
		}
		c.logger.Warn("role cache entry corrupt", slog.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("role cache get failed", slog.String("key", key), slog.Any("error", err))
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		ids, err := c.next.LoadRolePermissions(ctx, roleID)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(ids)
		if err == nil {
			err = c.client.Set(ctx, key, raw, c.ttl).Err()
		}
		if err != nil {
			c.logger.Warn("role cache set failed", slog.String("key", key), slog.Any("error", err))
		}
		return ids, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		ids := res.Val.([]string)
		return append([]string(nil), ids...), nil
	}
}

// SaveRolePermissions writes through and invalidates the role on success.
func (c *CachedStore) SaveRolePermissions(ctx context.Context, roleID int64, ids []string) error {
	if err := c.next.SaveRolePermissions(ctx, roleID, ids); err != nil {
		return err
	}
	c.Invalidate(ctx, roleID)
	return nil
}

// Invalidate moves the role to a new cache generation. Entries of older generations
// expire with their TTL.
func (c *CachedStore) Invalidate(ctx context.Context, roleID int64) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, versionKey(roleID)).Err(); err != nil {
		c.logger.Warn("role cache invalidate failed", slog.Int64("role_id", roleID), slog.Any("error", err))
	}
}
