// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type profile struct {
	Username  string `json:"username"`
	Followers int    `json:"followers"`
}

func TestTypedCacheGetOrSet(t *testing.T) {
	mem := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = mem.Close() }()
	tc := NewTypedCache[profile](mem, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func() (profile, error) {
		calls++
		return profile{Username: "natgeo", Followers: 42}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := tc.GetOrSet(ctx, "natgeo", load)
		if err != nil {
			t.Fatalf("GetOrSet: %v", err)
		}
		if got.Username != "natgeo" || got.Followers != 42 {
			t.Errorf("GetOrSet = %+v", got)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestTypedCacheLoaderErrorNotCached(t *testing.T) {
	mem := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = mem.Close() }()
	tc := NewTypedCache[profile](mem, time.Minute)
	ctx := context.Background()

	boom := errors.New("boom")
	if _, err := tc.GetOrSet(ctx, "k", func() (profile, error) { return profile{}, boom }); !errors.Is(err, boom) {
		t.Fatalf("GetOrSet error = %v, want boom", err)
	}
	if _, ok := tc.Get(ctx, "k"); ok {
		t.Error("failed load was cached")
	}
}

func TestTypedCacheUndecodableValue(t *testing.T) {
	mem := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = mem.Close() }()
	ctx := context.Background()

	_ = mem.Set(ctx, "k", []byte("not json"), 0)
	tc := NewTypedCache[profile](mem, time.Minute)
	if _, ok := tc.Get(ctx, "k"); ok {
		t.Error("Get decoded garbage")
	}
}
