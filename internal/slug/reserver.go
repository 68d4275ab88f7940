package slug

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryReserver keeps reservations for the lifetime of the process.
type MemoryReserver struct {
	mu    sync.Mutex
	taken map[string]struct{}
}

func NewMemoryReserver() *MemoryReserver {
	return &MemoryReserver{taken: make(map[string]struct{})}
}

func (m *MemoryReserver) Reserve(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.taken[slug]; ok {
		return false, nil
	}
	m.taken[slug] = struct{}{}
	return true, nil
}

// Preload marks slugs that already exist in storage.
func (m *MemoryReserver) Preload(slugs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range slugs {
		m.taken[s] = struct{}{}
	}
}

// RedisReserver shares reservations through a Redis set so parallel seeders
// against the same database never hand out the same slug.
type RedisReserver struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisReserver(rdb *redis.Client, key string, ttl time.Duration) *RedisReserver {
	return &RedisReserver{rdb: rdb, key: key, ttl: ttl}
}

func (r *RedisReserver) Reserve(ctx context.Context, slug string) (bool, error) {
	added, err := r.rdb.SAdd(ctx, r.key, slug).Result()
	if err != nil {
		return false, err
	}
	if added == 1 && r.ttl > 0 {
		if err := r.rdb.Expire(ctx, r.key, r.ttl).Err(); err != nil {
			return true, err
		}
	}
	return added == 1, nil
}

// Reset drops every reservation held under the key.
func (r *RedisReserver) Reset(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}
