// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package fetcher

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/instaview-go/internal/cache"
)

// Cached serves repeated fetches from a cache for a TTL.
type Cached struct {
	next  ContentFetcher
	cache *cache.TypedCache[json.RawMessage]
	scope func(context.Context) string
}

// NewCached wraps next. scope, when set, is mixed into the cache key so a
// change of backend does not serve entries fetched from the previous one.
func NewCached(next ContentFetcher, c cache.Cache, ttl time.Duration, scope func(context.Context) string) *Cached {
	return &Cached{next: next, cache: cache.NewTypedCache[json.RawMessage](c, ttl), scope: scope}
}

func (c *Cached) key(ctx context.Context, endpoint Endpoint, username string) string {
	key := "fetch:" + string(endpoint) + ":" + strings.ToLower(username)
	if c.scope != nil {
		key = c.scope(ctx) + ":" + key
	}
	return key
}

// Fetch returns a cached document or fetches and caches it. Cache failures
// are logged and never fail the fetch.
func (c *Cached) Fetch(ctx context.Context, endpoint Endpoint, username string) (json.RawMessage, error) {
	if err := Validate(endpoint, username); err != nil {
		return nil, err
	}

	key := c.key(ctx, endpoint, username)
	if data, ok := c.cache.Get(ctx, key); ok {
		return data, nil
	}

	data, err := c.next.Fetch(ctx, endpoint, username)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data); err != nil {
		slog.Warn("caching fetch result failed", "key", key, "error", err)
	}
	return data, nil
}

var _ ContentFetcher = (*Cached)(nil)
