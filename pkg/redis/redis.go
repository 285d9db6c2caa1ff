// Package redis opens the client shared by the session store and the
// login rate limiter.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/techforgyms/techforgyms_backend/config"
)

var ErrNoAddr = errors.New("redis addr is empty")

func NewFromCentral(ctx context.Context, c config.RedisConfig) (*goredis.Client, error) {
	return New(ctx, Options(c))
}

// New returns a client that has answered PING. It does not retry; the edge
// treats a Redis outage after startup as a per-request degradation.
func New(ctx context.Context, opts *goredis.Options) (*goredis.Client, error) {
	if opts.Addr == "" {
		return nil, ErrNoAddr
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	slog.DebugContext(ctx, "redis connected", "addr", opts.Addr, "db", opts.DB, "pool_size", opts.PoolSize)
	return rdb, nil
}
