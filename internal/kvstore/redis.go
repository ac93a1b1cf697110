// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kvstore

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps documents in Redis without expiry, so several
// instances of the site can share one content store.
type RedisBackend struct {
	client *redis.Client
	prefix string
	closed atomic.Bool
}

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Prefix is prepended to all keys (e.g., "instaview:")
	Prefix string

	// PoolSize is the maximum number of connections (0 = use default)
	PoolSize int

	// ConnectTimeout is the timeout for establishing a connection
	ConnectTimeout time.Duration

	// ReadTimeout is the timeout for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for write operations
	WriteTimeout time.Duration
}

// DefaultRedisOptions returns sensible defaults.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Prefix:         "instaview:",
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(opts RedisOptions) (*RedisBackend, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}

	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	if opts.ReadTimeout > 0 {
		redisOpts.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		redisOpts.WriteTimeout = opts.WriteTimeout
	}

	client := redis.NewClient(redisOpts)

	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisBackend{client: client, prefix: opts.Prefix}, nil
}

func (b *RedisBackend) prefixKey(key string) string {
	return b.prefix + key
}

// Get retrieves a document by key.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	val, err := b.client.Get(ctx, b.prefixKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

// Set stores a document with no expiration.
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if b.closed.Load() {
		return ErrClosed
	}
	return b.client.Set(ctx, b.prefixKey(key), value, 0).Err()
}

// Delete removes a document.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if b.closed.Load() {
		return ErrClosed
	}
	return b.client.Del(ctx, b.prefixKey(key)).Err()
}

// Close closes the Redis connection.
func (b *RedisBackend) Close() error {
	if b.closed.CompareAndSwap(false, true) {
		return b.client.Close()
	}
	return nil
}

var _ Backend = (*RedisBackend)(nil)
