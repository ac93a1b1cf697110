// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package demo resets the site content to its seeded defaults on a
// schedule, for public demo deployments.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/instaview-go/internal/content"
	"github.com/olegiv/instaview-go/internal/kvstore"
	"github.com/olegiv/instaview-go/internal/logging"
)

// lastResetKey stores the time of the last reset next to the content.
const lastResetKey = "instaview-demo-last-reset"

var lastReset = kvstore.Entry[time.Time]{
	Key:     lastResetKey,
	Default: func() time.Time { return time.Time{} },
}

// Reset deletes every content key so the next read returns the seeded
// defaults, then records now as the last reset time.
func Reset(ctx context.Context, s *kvstore.Store, now time.Time) error {
	for _, key := range content.Keys() {
		if err := s.Delete(ctx, key); err != nil {
			return fmt.Errorf("resetting content: %w", err)
		}
	}
	if err := lastReset.Write(ctx, s, now.UTC()); err != nil {
		return fmt.Errorf("writing reset timestamp: %w", err)
	}
	slog.Info("demo content reset complete", "category", logging.EventCategoryContent)
	return nil
}

// ResetIfNeeded resets the content when the last recorded reset is older
// than interval, or when no reset was ever recorded. It reports whether a
// reset ran.
func ResetIfNeeded(ctx context.Context, s *kvstore.Store, interval time.Duration, now time.Time) (bool, error) {
	last := lastReset.Read(ctx, s)
	if !last.IsZero() && now.Sub(last) < interval {
		slog.Info("demo reset not needed",
			"last_reset", last.UTC().Format(time.RFC3339),
			"next_reset", last.Add(interval).UTC().Format(time.RFC3339),
		)
		return false, nil
	}

	slog.Info("demo reset overdue, resetting content")
	if err := Reset(ctx, s, now); err != nil {
		return false, err
	}
	return true, nil
}

// Job returns a scheduler job that resets overdue content.
func Job(s *kvstore.Store, interval time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := ResetIfNeeded(ctx, s, interval, time.Now())
		return err
	}
}
