// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"sync"

	"github.com/olegiv/instaview-go/internal/kvstore"
	"github.com/olegiv/instaview-go/internal/model"
)

// AdRepository stores the admin settings wrapper, which holds the ad units,
// under KeyAdminSettings. Every change persists the full unit set.
type AdRepository struct {
	mu    sync.Mutex
	store *kvstore.Store
	entry kvstore.Entry[model.AdminSettings]
}

// NewAdRepository creates an ad unit repository on s.
func NewAdRepository(s *kvstore.Store) *AdRepository {
	return &AdRepository{
		store: s,
		entry: kvstore.Entry[model.AdminSettings]{
			Key:     KeyAdminSettings,
			Default: DefaultAdminSettings,
			Check:   model.CheckAdminSettings,
			Seed:    true,
		},
	}
}

// GetSettings returns the stored admin settings.
func (r *AdRepository) GetSettings(ctx context.Context) model.AdminSettings {
	return r.entry.Read(ctx, r.store)
}

// UpdateSettings merges patch into the stored settings.
func (r *AdRepository) UpdateSettings(ctx context.Context, patch model.AdminSettingsPatch) (model.AdminSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings := patch.Apply(r.entry.Read(ctx, r.store))
	if err := validateUnits(settings.AdUnits); err != nil {
		return model.AdminSettings{}, err
	}
	if err := r.entry.Write(ctx, r.store, settings); err != nil {
		return model.AdminSettings{}, err
	}
	return settings, nil
}

// GetAll returns every ad unit.
func (r *AdRepository) GetAll(ctx context.Context) []model.AdUnit {
	return r.GetSettings(ctx).AdUnits
}

// SaveAll replaces the ad unit set, keeping the other admin settings.
func (r *AdRepository) SaveAll(ctx context.Context, units []model.AdUnit) error {
	_, err := r.UpdateSettings(ctx, model.AdminSettingsPatch{AdUnits: &units})
	return err
}

// Get returns the unit with id.
func (r *AdRepository) Get(ctx context.Context, id string) (model.AdUnit, error) {
	for _, u := range r.GetAll(ctx) {
		if u.ID == id {
			return u, nil
		}
	}
	return model.AdUnit{}, ErrNotFound
}

// Toggle flips the enabled flag of the unit with id.
func (r *AdRepository) Toggle(ctx context.Context, id string) (model.AdUnit, error) {
	return r.modify(ctx, id, func(u model.AdUnit) model.AdUnit {
		u.Enabled = !u.Enabled
		return u
	})
}

// Update applies patch to the unit with id.
func (r *AdRepository) Update(ctx context.Context, id string, patch model.AdUnitPatch) (model.AdUnit, error) {
	return r.modify(ctx, id, patch.Apply)
}

func (r *AdRepository) modify(ctx context.Context, id string, fn func(model.AdUnit) model.AdUnit) (model.AdUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings := r.entry.Read(ctx, r.store)
	for i, u := range settings.AdUnits {
		if u.ID != id {
			continue
		}
		updated := fn(u)
		updated.ID = u.ID
		if err := updated.Validate(); err != nil {
			return model.AdUnit{}, err
		}
		settings.AdUnits[i] = updated
		if err := r.entry.Write(ctx, r.store, settings); err != nil {
			return model.AdUnit{}, err
		}
		return updated, nil
	}
	return model.AdUnit{}, ErrNotFound
}

// ForLocation returns the enabled units placed at location, in stored order.
func (r *AdRepository) ForLocation(ctx context.Context, location model.Location) []model.AdUnit {
	var units []model.AdUnit
	for _, u := range r.GetAll(ctx) {
		if u.Enabled && u.Location == location {
			units = append(units, u)
		}
	}
	return units
}

func validateUnits(units []model.AdUnit) error {
	for _, u := range units {
		if err := u.Validate(); err != nil {
			return err
		}
	}
	return model.CheckAdminSettings(model.AdminSettings{AdUnits: units})
}
