// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"sync"

	"github.com/olegiv/instaview-go/internal/kvstore"
	"github.com/olegiv/instaview-go/internal/model"
)

// ContactRepository stores the contact form settings under KeyContactSettings.
type ContactRepository struct {
	mu    sync.Mutex
	store *kvstore.Store
	entry kvstore.Entry[model.ContactSettings]
}

// NewContactRepository creates a contact settings repository on s.
func NewContactRepository(s *kvstore.Store) *ContactRepository {
	return &ContactRepository{
		store: s,
		entry: kvstore.Entry[model.ContactSettings]{
			Key:     KeyContactSettings,
			Default: DefaultContactSettings,
		},
	}
}

// Get returns the current contact settings.
func (r *ContactRepository) Get(ctx context.Context) model.ContactSettings {
	return r.entry.Read(ctx, r.store)
}

// Save replaces the contact settings.
func (r *ContactRepository) Save(ctx context.Context, c model.ContactSettings) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entry.Write(ctx, r.store, c)
}

// Update merges the supplied fields into the current settings.
func (r *ContactRepository) Update(ctx context.Context, patch model.ContactSettingsPatch) (model.ContactSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := patch.Apply(r.entry.Read(ctx, r.store))
	if err := merged.Validate(); err != nil {
		return model.ContactSettings{}, err
	}
	if err := r.entry.Write(ctx, r.store, merged); err != nil {
		return model.ContactSettings{}, err
	}
	return merged, nil
}
