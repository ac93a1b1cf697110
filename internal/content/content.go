// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content provides one repository per content domain. Each
// repository owns a key in the keyed store, its default value, and the
// domain operations the admin API and the public site need.
package content

import (
	"context"
	"errors"

	"github.com/olegiv/instaview-go/internal/kvstore"
	"github.com/olegiv/instaview-go/internal/model"
)

// Storage keys. Each key belongs to exactly one repository.
const (
	KeyPages              = "instaview-pages"
	KeyBlogPosts          = "instaview-blog-posts"
	KeyAdminSettings      = "instaview-admin-settings"
	KeySeoSettings        = "instaview-seo-settings"
	KeyAPIConfig          = "instaview-api-config"
	KeyLanguages          = "supported-languages"
	KeyTranslationAPIKey  = "translation-api-key"
	KeyTranslationService = "translation-service"
	KeyContactSettings    = "instaview-contact-settings"
)

// Keys returns every storage key owned by the repositories.
func Keys() []string {
	return []string{
		KeyPages,
		KeyBlogPosts,
		KeyAdminSettings,
		KeySeoSettings,
		KeyAPIConfig,
		KeyLanguages,
		KeyTranslationAPIKey,
		KeyTranslationService,
		KeyContactSettings,
	}
}

// Sentinel errors returned by repository operations.
var (
	ErrNotFound  = errors.New("content: not found")
	ErrSlugTaken = errors.New("content: slug already in use")
)

// PageStore is the page repository as seen by its consumers.
type PageStore interface {
	GetAll(ctx context.Context) []model.Page
	SaveAll(ctx context.Context, pages []model.Page) error
	Get(ctx context.Context, id string) (model.Page, error)
	GetBySlug(ctx context.Context, slug string) (model.Page, error)
	Save(ctx context.Context, page model.Page) (model.Page, error)
	Delete(ctx context.Context, id string) error
}

// PostStore is the blog post repository as seen by its consumers.
type PostStore interface {
	GetAll(ctx context.Context) []model.BlogPost
	SaveAll(ctx context.Context, posts []model.BlogPost) error
	Get(ctx context.Context, id string) (model.BlogPost, error)
	Save(ctx context.Context, post model.BlogPost) (model.BlogPost, error)
	Delete(ctx context.Context, id string) error
	Published(ctx context.Context) []model.BlogPost
}

// AdStore is the ad unit repository as seen by its consumers.
type AdStore interface {
	GetSettings(ctx context.Context) model.AdminSettings
	UpdateSettings(ctx context.Context, patch model.AdminSettingsPatch) (model.AdminSettings, error)
	GetAll(ctx context.Context) []model.AdUnit
	SaveAll(ctx context.Context, units []model.AdUnit) error
	Toggle(ctx context.Context, id string) (model.AdUnit, error)
	Update(ctx context.Context, id string, patch model.AdUnitPatch) (model.AdUnit, error)
	ForLocation(ctx context.Context, location model.Location) []model.AdUnit
}

// SeoStore is the SEO settings repository as seen by its consumers.
type SeoStore interface {
	Get(ctx context.Context) model.SeoSettings
	Save(ctx context.Context, s model.SeoSettings) error
	Update(ctx context.Context, patch model.SeoSettingsPatch) (model.SeoSettings, error)
}

// APIConfigStore is the API configuration repository as seen by its consumers.
type APIConfigStore interface {
	Get(ctx context.Context) model.APIConfig
	Save(ctx context.Context, c model.APIConfig) error
	Update(ctx context.Context, patch model.APIConfigPatch) (model.APIConfig, error)
}

// LanguageStore is the language settings repository as seen by its consumers.
type LanguageStore interface {
	Get(ctx context.Context) model.LanguageSettings
	Add(ctx context.Context, code, name string) (model.LanguageSettings, error)
	ToggleActive(ctx context.Context, code string) (model.LanguageSettings, error)
	SetDefault(ctx context.Context, code string) (model.LanguageSettings, error)
	Delete(ctx context.Context, code string) (model.LanguageSettings, error)
	SaveService(ctx context.Context, service, apiKey string) (model.LanguageSettings, error)
	Replace(ctx context.Context, settings model.LanguageSettings) error
}

// ContactStore is the contact settings repository as seen by its consumers.
type ContactStore interface {
	Get(ctx context.Context) model.ContactSettings
	Save(ctx context.Context, c model.ContactSettings) error
	Update(ctx context.Context, patch model.ContactSettingsPatch) (model.ContactSettings, error)
}

// Repositories bundles every repository built on one store.
type Repositories struct {
	Pages     *PageRepository
	Posts     *PostRepository
	Ads       *AdRepository
	Seo       *SeoRepository
	APIConfig *APIConfigRepository
	Languages *LanguageRepository
	Contact   *ContactRepository
}

// NewRepositories creates all repositories on s.
func NewRepositories(s *kvstore.Store) *Repositories {
	return &Repositories{
		Pages:     NewPageRepository(s),
		Posts:     NewPostRepository(s),
		Ads:       NewAdRepository(s),
		Seo:       NewSeoRepository(s),
		APIConfig: NewAPIConfigRepository(s),
		Languages: NewLanguageRepository(s),
		Contact:   NewContactRepository(s),
	}
}

var (
	_ PageStore      = (*PageRepository)(nil)
	_ PostStore      = (*PostRepository)(nil)
	_ AdStore        = (*AdRepository)(nil)
	_ SeoStore       = (*SeoRepository)(nil)
	_ APIConfigStore = (*APIConfigRepository)(nil)
	_ LanguageStore  = (*LanguageRepository)(nil)
	_ ContactStore   = (*ContactRepository)(nil)
)
