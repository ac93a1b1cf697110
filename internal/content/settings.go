// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"sync"

	"github.com/olegiv/instaview-go/internal/kvstore"
	"github.com/olegiv/instaview-go/internal/model"
)

// SeoRepository stores the site-wide SEO settings under KeySeoSettings.
type SeoRepository struct {
	mu    sync.Mutex
	store *kvstore.Store
	entry kvstore.Entry[model.SeoSettings]
}

// NewSeoRepository creates an SEO settings repository on s.
func NewSeoRepository(s *kvstore.Store) *SeoRepository {
	return &SeoRepository{
		store: s,
		entry: kvstore.Entry[model.SeoSettings]{
			Key:     KeySeoSettings,
			Default: DefaultSeoSettings,
		},
	}
}

// Get returns the current settings.
func (r *SeoRepository) Get(ctx context.Context) model.SeoSettings {
	return r.entry.Read(ctx, r.store)
}

// Save replaces the settings.
func (r *SeoRepository) Save(ctx context.Context, s model.SeoSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entry.Write(ctx, r.store, s)
}

// Update merges the supplied fields into the current settings.
func (r *SeoRepository) Update(ctx context.Context, patch model.SeoSettingsPatch) (model.SeoSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := patch.Apply(r.entry.Read(ctx, r.store))
	if err := merged.Validate(); err != nil {
		return model.SeoSettings{}, err
	}
	if err := r.entry.Write(ctx, r.store, merged); err != nil {
		return model.SeoSettings{}, err
	}
	return merged, nil
}

// APIConfigRepository stores the fetch configuration under KeyAPIConfig.
type APIConfigRepository struct {
	mu    sync.Mutex
	store *kvstore.Store
	entry kvstore.Entry[model.APIConfig]
}

// NewAPIConfigRepository creates an API configuration repository on s.
func NewAPIConfigRepository(s *kvstore.Store) *APIConfigRepository {
	return &APIConfigRepository{
		store: s,
		entry: kvstore.Entry[model.APIConfig]{
			Key:     KeyAPIConfig,
			Default: DefaultAPIConfig,
		},
	}
}

// Get returns the current configuration.
func (r *APIConfigRepository) Get(ctx context.Context) model.APIConfig {
	return r.entry.Read(ctx, r.store)
}

// Save replaces the configuration.
func (r *APIConfigRepository) Save(ctx context.Context, c model.APIConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entry.Write(ctx, r.store, c)
}

// Update merges the supplied fields into the current configuration.
func (r *APIConfigRepository) Update(ctx context.Context, patch model.APIConfigPatch) (model.APIConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := patch.Apply(r.entry.Read(ctx, r.store))
	if err := merged.Validate(); err != nil {
		return model.APIConfig{}, err
	}
	if err := r.entry.Write(ctx, r.store, merged); err != nil {
		return model.APIConfig{}, err
	}
	return merged, nil
}
