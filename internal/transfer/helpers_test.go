// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"log/slog"
	"testing"

	"github.com/olegiv/instaview-go/internal/content"
	"github.com/olegiv/instaview-go/internal/kvstore"
)

// testSetup contains common test dependencies.
type testSetup struct {
	Repos    *content.Repositories
	Exporter *Exporter
	Importer *Importer
	Ctx      context.Context
}

// setupTest creates repositories on a fresh memory store.
func setupTest(t *testing.T) *testSetup {
	t.Helper()

	store := kvstore.New(kvstore.NewMemoryBackend())
	t.Cleanup(func() { _ = store.Close() })
	repos := content.NewRepositories(store)
	logger := slog.New(slog.DiscardHandler)

	return &testSetup{
		Repos:    repos,
		Exporter: NewExporter(repos, "https://instaview.example", logger),
		Importer: NewImporter(repos, logger),
		Ctx:      context.Background(),
	}
}
