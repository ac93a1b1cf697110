// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/instaview-go/internal/model"
)

func TestSeoRepository_Default(t *testing.T) {
	s, mem := newTestStore(t)
	repo := NewSeoRepository(s)
	ctx := context.Background()

	got := repo.Get(ctx)
	assert.Equal(t, "InstaView - Anonymous Instagram Stories Viewer", got.Title)
	assert.Equal(t, "/favicon.ico", got.Favicon)
	assert.Empty(t, got.Logo)
	assert.Equal(t, got, repo.Get(ctx))
	assert.Empty(t, mem.Keys())
}

func TestSeoRepository_PartialUpdate(t *testing.T) {
	s, _ := newTestStore(t)
	repo := NewSeoRepository(s)
	ctx := context.Background()
	before := repo.Get(ctx)

	updated, err := repo.Update(ctx, model.SeoSettingsPatch{Title: ptr("New Title")})
	require.NoError(t, err)

	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, before.Description, updated.Description)
	assert.Equal(t, before.Keywords, updated.Keywords)
	assert.Equal(t, before.Favicon, updated.Favicon)
	assert.Equal(t, before.Logo, updated.Logo)
	assert.Equal(t, updated, repo.Get(ctx))
}

func TestSeoRepository_RejectsInvalid(t *testing.T) {
	s, _ := newTestStore(t)
	repo := NewSeoRepository(s)
	ctx := context.Background()

	_, err := repo.Update(ctx, model.SeoSettingsPatch{Title: ptr(""), Logo: ptr("javascript:alert(1)")})
	ve, ok := model.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "logo")
	assert.Equal(t, DefaultSeoSettings(), repo.Get(ctx))
}

func TestSeoRepository_SaveRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	repo := NewSeoRepository(s)
	ctx := context.Background()

	want := model.SeoSettings{
		Title:       "Viewer",
		Description: "desc",
		Keywords:    "a, b",
		Favicon:     "https://cdn.example.com/icon.png",
		Logo:        "/static/logo.svg",
	}
	require.NoError(t, repo.Save(ctx, want))
	assert.Equal(t, want, repo.Get(ctx))
	assert.Equal(t, []string{"a", "b"}, repo.Get(ctx).KeywordList())
}

func TestAPIConfigRepository(t *testing.T) {
	s, _ := newTestStore(t)
	repo := NewAPIConfigRepository(s)
	ctx := context.Background()

	assert.Equal(t, model.APIConfig{}, repo.Get(ctx))
	assert.False(t, repo.Get(ctx).BackendEnabled())

	_, err := repo.Update(ctx, model.APIConfigPatch{UseBackend: ptr(true)})
	_, ok := model.AsValidationError(err)
	assert.True(t, ok, "enabling the backend without a URL is rejected")

	cfg, err := repo.Update(ctx, model.APIConfigPatch{
		UseBackend: ptr(true),
		ServerURL:  ptr("https://api.example.com/instagram"),
	})
	require.NoError(t, err)
	assert.True(t, cfg.BackendEnabled())

	cfg, err = repo.Update(ctx, model.APIConfigPatch{UseBackend: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/instagram", cfg.ServerURL, "unpatched fields are kept")
	assert.False(t, cfg.BackendEnabled())

	require.NoError(t, repo.Save(ctx, model.APIConfig{UseSupabase: true, ServerURL: "https://fn.example.com"}))
	assert.True(t, repo.Get(ctx).BackendEnabled())
}
