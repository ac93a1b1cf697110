// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kvstore

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
)

// MemoryBackend is a process-local Backend. It is the fake used by tests
// and the fallback when no durable backend is configured.
type MemoryBackend struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed atomic.Bool
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Get retrieves a copy of the stored bytes.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	// Return a copy to prevent mutation
	result := make([]byte, len(val))
	copy(result, val)
	return result, nil
}

// Set stores a copy of value.
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	if m.closed.Load() {
		return ErrClosed
	}
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	m.mu.Lock()
	m.data[key] = valueCopy
	m.mu.Unlock()
	return nil
}

// Delete removes key.
func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *MemoryBackend) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close marks the backend closed.
func (m *MemoryBackend) Close() error {
	m.closed.Store(true)
	return nil
}

var _ Backend = (*MemoryBackend)(nil)
