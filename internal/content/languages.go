// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"strings"
	"sync"

	"github.com/olegiv/instaview-go/internal/kvstore"
	"github.com/olegiv/instaview-go/internal/model"
)

// LanguageRepository stores the site languages under KeyLanguages and the
// translation service setup under KeyTranslationService and
// KeyTranslationAPIKey.
type LanguageRepository struct {
	mu        sync.Mutex
	store     *kvstore.Store
	languages kvstore.Entry[[]model.Language]
	service   kvstore.Entry[string]
	apiKey    kvstore.Entry[string]
}

// NewLanguageRepository creates a language repository on s.
func NewLanguageRepository(s *kvstore.Store) *LanguageRepository {
	return &LanguageRepository{
		store: s,
		languages: kvstore.Entry[[]model.Language]{
			Key:     KeyLanguages,
			Default: DefaultLanguages,
			Check: func(langs []model.Language) error {
				return model.CheckLanguageSettings(model.LanguageSettings{Languages: langs})
			},
		},
		service: kvstore.Entry[string]{
			Key:     KeyTranslationService,
			Default: func() string { return model.TranslationServiceGoogle },
			Check: func(s string) error {
				if !model.IsValidTranslationService(s) {
					return model.NewFieldError("service", "unknown translation service "+s)
				}
				return nil
			},
		},
		apiKey: kvstore.Entry[string]{
			Key:     KeyTranslationAPIKey,
			Default: func() string { return "" },
		},
	}
}

// Get returns the languages together with the translation service setup.
func (r *LanguageRepository) Get(ctx context.Context) model.LanguageSettings {
	return model.LanguageSettings{
		Languages: r.languages.Read(ctx, r.store),
		APIKey:    r.apiKey.Read(ctx, r.store),
		Service:   r.service.Read(ctx, r.store),
	}
}

// Add appends an active, non-default language.
func (r *LanguageRepository) Add(ctx context.Context, code, name string) (model.LanguageSettings, error) {
	code = strings.TrimSpace(code)
	return r.modify(ctx, func(s *model.LanguageSettings) error {
		if err := s.ValidateNewLanguage(code, name); err != nil {
			return err
		}
		s.Languages = append(s.Languages, model.Language{
			Code:   code,
			Name:   strings.TrimSpace(name),
			Active: true,
		})
		return nil
	})
}

// ToggleActive flips the active flag of the language with code.
func (r *LanguageRepository) ToggleActive(ctx context.Context, code string) (model.LanguageSettings, error) {
	return r.modify(ctx, func(s *model.LanguageSettings) error {
		i := s.Find(code)
		if i < 0 {
			return ErrNotFound
		}
		s.Languages[i].Active = !s.Languages[i].Active
		return nil
	})
}

// SetDefault makes the language with code the only default.
func (r *LanguageRepository) SetDefault(ctx context.Context, code string) (model.LanguageSettings, error) {
	return r.modify(ctx, func(s *model.LanguageSettings) error {
		if s.Find(code) < 0 {
			return ErrNotFound
		}
		for i := range s.Languages {
			s.Languages[i].IsDefault = s.Languages[i].Code == code
		}
		return nil
	})
}

// Delete removes the language with code. The default language cannot be removed.
func (r *LanguageRepository) Delete(ctx context.Context, code string) (model.LanguageSettings, error) {
	return r.modify(ctx, func(s *model.LanguageSettings) error {
		i := s.Find(code)
		if i < 0 {
			return ErrNotFound
		}
		if s.Languages[i].IsDefault {
			return model.NewFieldError("code", "Cannot remove default language. Please set another language as default first.")
		}
		s.Languages = append(s.Languages[:i], s.Languages[i+1:]...)
		return nil
	})
}

// SaveService stores the translation service and its API key.
func (r *LanguageRepository) SaveService(ctx context.Context, service, apiKey string) (model.LanguageSettings, error) {
	if !model.IsValidTranslationService(service) {
		return model.LanguageSettings{}, model.NewFieldError("service", "Unknown translation service")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.service.Write(ctx, r.store, service); err != nil {
		return model.LanguageSettings{}, err
	}
	if err := r.apiKey.Write(ctx, r.store, apiKey); err != nil {
		return model.LanguageSettings{}, err
	}
	return r.Get(ctx), nil
}

// Replace stores settings as a whole, languages and translation service
// setup included.
func (r *LanguageRepository) Replace(ctx context.Context, settings model.LanguageSettings) error {
	if err := model.CheckLanguageSettings(settings); err != nil {
		return err
	}
	if !model.IsValidTranslationService(settings.Service) {
		return model.NewFieldError("service", "Unknown translation service")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.languages.Write(ctx, r.store, settings.Languages); err != nil {
		return err
	}
	if err := r.service.Write(ctx, r.store, settings.Service); err != nil {
		return err
	}
	return r.apiKey.Write(ctx, r.store, settings.APIKey)
}

func (r *LanguageRepository) modify(ctx context.Context, fn func(*model.LanguageSettings) error) (model.LanguageSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings := r.Get(ctx)
	if err := fn(&settings); err != nil {
		return model.LanguageSettings{}, err
	}
	if err := r.languages.Write(ctx, r.store, settings.Languages); err != nil {
		return model.LanguageSettings{}, err
	}
	return settings, nil
}
