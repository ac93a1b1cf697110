// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	return New(slog.New(slog.DiscardHandler))
}

func TestNew(t *testing.T) {
	s := newTestScheduler(t)
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if len(s.List()) != 0 {
		t.Error("New() scheduler should have no jobs")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.Register("noop", "@every 1h", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	s.Start()
	s.Stop()
}

func TestRegister_Errors(t *testing.T) {
	s := newTestScheduler(t)
	noop := func(context.Context) error { return nil }

	if err := s.Register("bad", "not a schedule", noop); err == nil {
		t.Error("Register() should reject an invalid schedule")
	}
	if err := s.Register("job", "@every 1m", noop); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := s.Register("job", "@every 1m", noop); err == nil {
		t.Error("Register() should reject a duplicate name")
	}
}

func TestTriggerNow(t *testing.T) {
	s := newTestScheduler(t)
	var runs atomic.Int32
	if err := s.Register("count", "@every 1h", func(context.Context) error {
		runs.Add(1)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Register("fail", "@every 1h", func(context.Context) error {
		return errors.New("boom")
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.TriggerNow("count"); err != nil {
		t.Fatalf("TriggerNow() error = %v", err)
	}
	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
	if err := s.TriggerNow("fail"); err != nil {
		t.Errorf("TriggerNow() should swallow job errors, got %v", err)
	}
	if err := s.TriggerNow("missing"); err == nil {
		t.Error("TriggerNow() should fail for an unknown job")
	}
}

func TestList(t *testing.T) {
	s := newTestScheduler(t)
	noop := func(context.Context) error { return nil }
	for _, name := range []string{"zeta", "alpha"} {
		if err := s.Register(name, "@every 1h", noop); err != nil {
			t.Fatal(err)
		}
	}

	s.Start()
	defer s.Stop()

	jobs := s.List()
	if len(jobs) != 2 {
		t.Fatalf("List() returned %d jobs, want 2", len(jobs))
	}
	if jobs[0].Name != "alpha" || jobs[1].Name != "zeta" {
		t.Errorf("List() order = %s, %s", jobs[0].Name, jobs[1].Name)
	}
	if jobs[0].Schedule != "@every 1h" {
		t.Errorf("Schedule = %q", jobs[0].Schedule)
	}
	if jobs[0].NextRun.Before(time.Now()) {
		t.Errorf("NextRun = %v, want a future time", jobs[0].NextRun)
	}
}

func TestStop_CancelsJobContext(t *testing.T) {
	s := newTestScheduler(t)
	started := make(chan struct{})
	cancelled := make(chan struct{})
	if err := s.Register("wait", "@every 1h", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}); err != nil {
		t.Fatal(err)
	}

	go func() { _ = s.TriggerNow("wait") }()
	<-started
	s.Stop()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("job context was not cancelled by Stop")
	}
}
