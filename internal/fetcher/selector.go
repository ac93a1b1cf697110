// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package fetcher

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/olegiv/instaview-go/internal/content"
)

// Selector picks the mock or the backend per call from the stored API
// configuration, so an admin change applies to the next request.
type Selector struct {
	config  content.APIConfigStore
	mock    ContentFetcher
	options BackendOptions

	mu       sync.Mutex
	backends map[string]*Backend
}

// NewSelector creates a Selector. Backends are built lazily per server URL.
func NewSelector(config content.APIConfigStore, mock ContentFetcher, opts BackendOptions) *Selector {
	return &Selector{
		config:   config,
		mock:     mock,
		options:  opts,
		backends: make(map[string]*Backend),
	}
}

// Active returns the fetcher the current configuration selects.
func (s *Selector) Active(ctx context.Context) ContentFetcher {
	cfg := s.config.Get(ctx)
	if !cfg.BackendEnabled() {
		return s.mock
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.backends[cfg.ServerURL]
	if !ok {
		b = NewBackend(cfg.ServerURL, s.options)
		s.backends[cfg.ServerURL] = b
	}
	return b
}

// Source names the active source: "mock" or the backend URL.
func (s *Selector) Source(ctx context.Context) string {
	if b, ok := s.Active(ctx).(*Backend); ok {
		return b.ServerURL()
	}
	return "mock"
}

// Fetch delegates to the active fetcher.
func (s *Selector) Fetch(ctx context.Context, endpoint Endpoint, username string) (json.RawMessage, error) {
	return s.Active(ctx).Fetch(ctx, endpoint, username)
}

var _ ContentFetcher = (*Selector)(nil)
