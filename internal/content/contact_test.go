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

func TestContactRepository(t *testing.T) {
	s, _ := newTestStore(t)
	repo := NewContactRepository(s)
	ctx := context.Background()

	got := repo.Get(ctx)
	assert.Equal(t, "admin@example.com", got.NotificationEmail)
	require.Len(t, got.FormFields, 4)
	assert.False(t, got.FormFields[3].Active)

	updated, err := repo.Update(ctx, model.ContactSettingsPatch{NotificationEmail: ptr("team@instaview.example")})
	require.NoError(t, err)
	assert.Equal(t, "team@instaview.example", updated.NotificationEmail)
	assert.Equal(t, got.SuccessMessage, updated.SuccessMessage)
	assert.Equal(t, got.FormFields, updated.FormFields)

	_, err = repo.Update(ctx, model.ContactSettingsPatch{NotificationEmail: ptr("not-an-email")})
	ve, ok := model.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Contains(t, ve.Fields, "notificationEmail")
	assert.Equal(t, "team@instaview.example", repo.Get(ctx).NotificationEmail)
}

func TestContactRepository_SaveRejectsDuplicateFields(t *testing.T) {
	s, _ := newTestStore(t)
	repo := NewContactRepository(s)

	c := DefaultContactSettings()
	c.FormFields = append(c.FormFields, c.FormFields[0])
	assert.Error(t, repo.Save(context.Background(), c))
}

func TestRepositoriesShareOneStore(t *testing.T) {
	s, mem := newTestStore(t)
	repos := NewRepositories(s)
	ctx := context.Background()

	repos.Posts.GetAll(ctx)
	repos.Ads.GetAll(ctx)
	_, err := repos.Pages.Save(ctx, model.Page{Title: "About"})
	require.NoError(t, err)
	_, err = repos.Seo.Update(ctx, model.SeoSettingsPatch{Logo: ptr("/logo.png")})
	require.NoError(t, err)

	assert.Equal(t, []string{KeyAdminSettings, KeyBlogPosts, KeyPages, KeySeoSettings}, mem.Keys())
}
