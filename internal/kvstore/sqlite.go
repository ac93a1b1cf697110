// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteBackend stores documents in the kv_entries table created by the
// store migrations. The database handle is owned by the caller.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend creates a backend on an opened and migrated database.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// Get retrieves a document by key.
func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts a document.
func (b *SQLiteBackend) Set(ctx context.Context, key string, value []byte) error {
	const query = `INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := b.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("upserting %s: %w", key, err)
	}
	return nil
}

// Delete removes a document.
func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; the database is closed by its owner.
func (b *SQLiteBackend) Close() error {
	return nil
}

var _ Backend = (*SQLiteBackend)(nil)
