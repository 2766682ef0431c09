package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ClientConstructor builds a client from options; tests substitute a mock.
type ClientConstructor func(opt *redis.Options) *redis.Client

// Options configures Connect.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect creates a client and verifies it with PING.
func Connect(ctx context.Context, opts Options, newClient ClientConstructor, logger *slog.Logger) (*redis.Client, error) {
	if newClient == nil {
		newClient = redis.NewClient
	}
	client := newClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	logger.InfoContext(ctx, "connected to redis", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}
