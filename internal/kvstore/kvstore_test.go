// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kvstore

import (
	"context"
	"errors"
	"testing"
)

type widget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func widgetEntry(seed bool) Entry[widget] {
	return Entry[widget]{
		Key:     "widget",
		Default: func() widget { return widget{Name: "default", Count: 1} },
		Check: func(w widget) error {
			if w.Name == "" {
				return errors.New("name is required")
			}
			return nil
		},
		Seed: seed,
	}
}

// failingBackend fails every operation.
type failingBackend struct{}

var errBackend = errors.New("backend down")

func (failingBackend) Get(context.Context, string) ([]byte, error) { return nil, errBackend }
func (failingBackend) Set(context.Context, string, []byte) error   { return errBackend }
func (failingBackend) Delete(context.Context, string) error        { return errBackend }
func (failingBackend) Close() error                                { return nil }

func TestReadDefaultOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryBackend()
	s := New(mem)
	e := widgetEntry(false)

	first := e.Read(ctx, s)
	second := e.Read(ctx, s)

	if first != (widget{Name: "default", Count: 1}) {
		t.Errorf("first read = %+v, want default", first)
	}
	if first != second {
		t.Errorf("reads differ: %+v vs %+v", first, second)
	}
	if len(mem.Keys()) != 0 {
		t.Errorf("unseeded read persisted keys %v", mem.Keys())
	}
}

func TestReadSeedsAbsentKey(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryBackend()
	s := New(mem)

	_ = widgetEntry(true).Read(ctx, s)

	data, err := mem.Get(ctx, "widget")
	if err != nil {
		t.Fatalf("seed not persisted: %v", err)
	}
	if string(data) != `{"name":"default","count":1}` {
		t.Errorf("seeded document = %s", data)
	}
}

func TestWriteThenRead(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())
	e := widgetEntry(false)

	want := widget{Name: "custom", Count: 7}
	if err := e.Write(ctx, s, want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := e.Read(ctx, s); got != want {
		t.Errorf("Read = %+v, want %+v", got, want)
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{"name":`},
		{"wrong shape", `[1,2,3]`},
		{"fails check", `{"name":"","count":3}`},
		{"json null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mem := NewMemoryBackend()
			_ = mem.Set(ctx, "widget", []byte(tt.raw))

			got := widgetEntry(false).Read(ctx, New(mem))
			if got != (widget{Name: "default", Count: 1}) {
				t.Errorf("Read = %+v, want default", got)
			}
		})
	}
}

func TestReadMalformedIsNotOverwrittenBySeed(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryBackend()
	_ = mem.Set(ctx, "widget", []byte(`{broken`))

	_ = widgetEntry(true).Read(ctx, New(mem))

	data, _ := mem.Get(ctx, "widget")
	if string(data) != `{broken` {
		t.Errorf("malformed document replaced with %s", data)
	}
}

func TestUnavailableStore(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	e := widgetEntry(true)

	if s.Available() {
		t.Fatal("store without backend reports available")
	}
	if got := e.Read(ctx, s); got.Name != "default" {
		t.Errorf("Read = %+v, want default", got)
	}
	if err := e.Write(ctx, s, widget{Name: "x"}); err != nil {
		t.Errorf("Write on unavailable store = %v, want nil", err)
	}
	if err := s.Delete(ctx, "widget"); err != nil {
		t.Errorf("Delete on unavailable store = %v, want nil", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}

func TestFailingBackend(t *testing.T) {
	ctx := context.Background()
	s := New(failingBackend{})
	e := widgetEntry(false)

	if got := e.Read(ctx, s); got.Name != "default" {
		t.Errorf("Read = %+v, want default", got)
	}
	if err := e.Write(ctx, s, widget{Name: "x"}); !errors.Is(err, errBackend) {
		t.Errorf("Write error = %v, want %v", err, errBackend)
	}
	if err := s.Delete(ctx, "widget"); !errors.Is(err, errBackend) {
		t.Errorf("Delete error = %v, want %v", err, errBackend)
	}
}

func TestWriteEncodingError(t *testing.T) {
	ctx := context.Background()
	e := Entry[func()]{Key: "fn", Default: func() func() { return nil }}

	if err := e.Write(ctx, New(NewMemoryBackend()), func() {}); err == nil {
		t.Error("expected encoding error for func value")
	}
}

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}

	value := []byte("abc")
	_ = m.Set(ctx, "b", value)
	_ = m.Set(ctx, "a", []byte("x"))
	value[0] = 'z'

	got, err := m.Get(ctx, "b")
	if err != nil || string(got) != "abc" {
		t.Errorf("Get = %q, %v; want abc", got, err)
	}
	if keys := m.Keys(); len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys = %v", keys)
	}

	_ = m.Delete(ctx, "b")
	if _, err := m.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v", err)
	}

	_ = m.Close()
	if err := m.Set(ctx, "a", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close = %v, want ErrClosed", err)
	}
}
