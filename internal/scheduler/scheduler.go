// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs background maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is the work of one scheduled job.
type JobFunc func(ctx context.Context) error

type registeredJob struct {
	name     string
	schedule string
	entryID  cron.EntryID
	run      func()
}

// JobInfo describes a registered job for display.
type JobInfo struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	NextRun  time.Time `json:"next_run"`
	LastRun  time.Time `json:"last_run"`
}

// Scheduler runs registered jobs until stopped. Jobs receive a context
// that is cancelled by Stop.
type Scheduler struct {
	mu     sync.RWMutex
	cron   *cron.Cron
	jobs   map[string]*registeredJob
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(),
		jobs:   make(map[string]*registeredJob),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds a job under name with a cron schedule such as "@every 1h"
// or "0 3 * * *". Runs of the same job never overlap.
func (s *Scheduler) Register(name, schedule string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job already registered: %s", name)
	}

	job := &registeredJob{name: name, schedule: schedule}
	var running sync.Mutex
	job.run = func() {
		if !running.TryLock() {
			s.logger.Warn("scheduled job still running, skipping", "job", name)
			return
		}
		defer running.Unlock()

		started := time.Now()
		if err := fn(s.ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", name, "error", err)
			return
		}
		s.logger.Debug("scheduled job finished", "job", name, "duration", time.Since(started))
	}

	entryID, err := s.cron.AddFunc(schedule, job.run)
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}
	job.entryID = entryID
	s.jobs[name] = job
	return nil
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// TriggerNow runs the job synchronously, outside its schedule.
func (s *Scheduler) TriggerNow(name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}
	job.run()
	return nil
}

// List returns all registered jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]JobInfo, 0, len(s.jobs))
	for _, job := range s.jobs {
		entry := s.cron.Entry(job.entryID)
		result = append(result, JobInfo{
			Name:     job.name,
			Schedule: job.schedule,
			NextRun:  entry.Next,
			LastRun:  entry.Prev,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
