package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SharedDedup is the optional second-level duplicate guard for deployments
// running more than one notifier instance; the in-process cache only sees its
// own events.
type SharedDedup interface {
	// Seen records fingerprint and reports whether it was already present
	// inside the retention window.
	Seen(ctx context.Context, fingerprint string) (bool, error)
}

// RedisDedup implements SharedDedup with SETNX and a retention TTL.
type RedisDedup struct {
	client    *redis.Client
	keyspace  string
	retention time.Duration
}

func NewRedisDedup(client *redis.Client, keyspace string, retention time.Duration) *RedisDedup {
	if keyspace == "" {
		keyspace = "notify:fp"
	}
	if retention <= 0 {
		retention = time.Minute
	}
	return &RedisDedup{client: client, keyspace: keyspace, retention: retention}
}

func (d *RedisDedup) Seen(ctx context.Context, fingerprint string) (bool, error) {
	key := fmt.Sprintf("%s:%s", d.keyspace, fingerprint)
	set, err := d.client.SetNX(ctx, key, 1, d.retention).Result()
	if err != nil {
		return false, fmt.Errorf("dedup setnx: %w", err)
	}
	return !set, nil
}
