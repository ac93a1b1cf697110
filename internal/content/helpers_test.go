// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"testing"
	"time"

	"github.com/olegiv/instaview-go/internal/kvstore"
)

// newTestStore returns a store on a fresh memory backend.
func newTestStore(t *testing.T) (*kvstore.Store, *kvstore.MemoryBackend) {
	t.Helper()
	mem := kvstore.NewMemoryBackend()
	s := kvstore.New(mem)
	t.Cleanup(func() { _ = s.Close() })
	return s, mem
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func ptr[T any](v T) *T {
	return &v
}
