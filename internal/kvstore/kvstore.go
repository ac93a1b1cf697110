// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package kvstore provides the keyed JSON store that backs every content
// repository. Reads never fail: absent, unreadable or malformed values fall
// back to a typed default.
package kvstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Error represents an error type for store operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNotFound is returned by a Backend when the key has no value.
	ErrNotFound Error = "kvstore: key not found"

	// ErrClosed is returned by a Backend used after Close.
	ErrClosed Error = "kvstore: backend closed"
)

// Backend is a durable key-value facility holding raw JSON documents.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the stored bytes, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the backend.
	Close() error
}

// Store wraps a Backend. A Store without a backend models an environment
// with no persistent storage: reads return defaults and writes are skipped.
type Store struct {
	backend Backend
}

// New creates a Store on top of backend. backend may be nil.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Available reports whether the store has a backend to persist to.
func (s *Store) Available() bool {
	return s != nil && s.backend != nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	if !s.Available() {
		return nil
	}
	return s.backend.Close()
}

// Delete removes key from the store.
func (s *Store) Delete(ctx context.Context, key string) error {
	if !s.Available() {
		return nil
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		slog.Error("deleting stored value failed", "key", key, "error", err, "category", "storage")
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Entry describes one persisted value: its key, the default returned when
// nothing usable is stored, and an optional structural check applied at
// decode time.
type Entry[T any] struct {
	Key string
	// Default builds a fresh default value. It must be deterministic so that
	// repeated reads of an empty store return equal values.
	Default func() T
	// Check rejects decoded values that violate structural invariants.
	Check func(T) error
	// Seed persists the default the first time the key is read while absent.
	Seed bool
}

var jsonNull = []byte("null")

// Read returns the stored value for the entry, or its default when the store
// is unavailable, the key is absent, or the stored document is malformed.
// Malformed documents are logged and left in place.
func (e Entry[T]) Read(ctx context.Context, s *Store) T {
	if !s.Available() {
		slog.Warn("storage unavailable, using default", "key", e.Key, "category", "storage")
		return e.Default()
	}

	data, err := s.backend.Get(ctx, e.Key)
	if err == nil && bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		err = ErrNotFound
	}
	if errors.Is(err, ErrNotFound) {
		def := e.Default()
		if e.Seed {
			// Failures are already logged by Write; the default is still valid.
			_ = e.Write(ctx, s, def)
		}
		return def
	}
	if err != nil {
		slog.Warn("reading stored value failed, using default", "key", e.Key, "error", err, "category", "storage")
		return e.Default()
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		slog.Warn("stored value is malformed, using default", "key", e.Key, "error", err, "category", "storage")
		return e.Default()
	}
	if e.Check != nil {
		if err := e.Check(value); err != nil {
			slog.Warn("stored value failed validation, using default", "key", e.Key, "error", err, "category", "storage")
			return e.Default()
		}
	}
	return value
}

// Write encodes value as JSON and stores it under the entry key.
// On a store without a backend the write is skipped and nil is returned.
// Encoding and backend failures are logged and returned. Unlike Read, Write
// never swallows a failure, so callers can report an unsaved change.
func (e Entry[T]) Write(ctx context.Context, s *Store, value T) error {
	if !s.Available() {
		slog.Warn("storage unavailable, write skipped", "key", e.Key, "category", "storage")
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		slog.Error("encoding value failed", "key", e.Key, "error", err, "category", "storage")
		return fmt.Errorf("encoding %s: %w", e.Key, err)
	}
	if err := s.backend.Set(ctx, e.Key, data); err != nil {
		slog.Error("writing value failed", "key", e.Key, "error", err, "category", "storage")
		return fmt.Errorf("writing %s: %w", e.Key, err)
	}
	return nil
}
