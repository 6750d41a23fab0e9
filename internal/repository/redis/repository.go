package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mamadbah2/acai-manager/internal/config"
	"github.com/mamadbah2/acai-manager/internal/repository"
)

const keyNamespace = "acai"

type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Repository keeps collection snapshots as plain Redis strings.
type Repository struct {
	store cmdable
	raw   *redis.Client
}

// NewRepository connects to Redis and verifies connectivity.
func NewRepository(ctx context.Context, cfg config.RedisConfig) (*Repository, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	raw := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Repository{store: raw, raw: raw}, nil
}

// Load returns the value stored under key.
func (r *Repository) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := r.store.Get(ctx, namespaced(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Save replaces the value stored under key. Snapshots never expire.
func (r *Repository) Save(ctx context.Context, key string, value []byte) error {
	if err := r.store.Set(ctx, namespaced(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Repository) Close(context.Context) error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}

func namespaced(key string) string {
	return keyNamespace + ":" + key
}
