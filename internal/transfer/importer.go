// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/instaview-go/internal/content"
	"github.com/olegiv/instaview-go/internal/model"
	"github.com/olegiv/instaview-go/internal/util"
)

// ErrInvalidImport is returned when the import data fails validation.
// The accompanying ImportResult lists the rejected items.
var ErrInvalidImport = errors.New("transfer: import data is invalid")

// Importer merges an ExportData into the repositories.
type Importer struct {
	repos  *content.Repositories
	logger *slog.Logger
	newID  func() string
	now    func() time.Time
}

// NewImporter creates a new Importer.
func NewImporter(repos *content.Repositories, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		repos:  repos,
		logger: logger,
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
	}
}

// importPlan holds the merged state of every entity the import touches.
// A nil field is left untouched.
type importPlan struct {
	pages     []model.Page
	posts     []model.BlogPost
	ads       *model.AdminSettings
	seo       *model.SeoSettings
	apiConfig *model.APIConfig
	languages *model.LanguageSettings
	contact   *model.ContactSettings
}

// Import validates data, merges it with the stored content according to
// opts, and writes the result unless opts.DryRun is set. Nothing is written
// when validation fails.
func (i *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	if !opts.ConflictStrategy.IsValid() {
		opts.ConflictStrategy = ConflictSkip
	}
	result := NewImportResult(opts.DryRun)

	if errs := i.Validate(data); len(errs) > 0 {
		for _, e := range errs {
			result.AddError(e.Entity, e.ID, e.Message)
		}
		return result, ErrInvalidImport
	}

	plan := i.plan(ctx, data, opts, result)
	if errs := plan.check(); len(errs) > 0 {
		for _, e := range errs {
			result.AddError(e.Entity, e.ID, e.Message)
		}
		return result, ErrInvalidImport
	}

	if opts.DryRun {
		return result, nil
	}

	if err := plan.apply(ctx, i.repos); err != nil {
		return nil, fmt.Errorf("writing imported content: %w", err)
	}

	i.logger.Info("content imported",
		"created", result.TotalCreated(),
		"updated", result.TotalUpdated(),
		"skipped", result.TotalSkipped(),
		"conflict_strategy", opts.ConflictStrategy)
	return result, nil
}

// ImportFromReader decodes an export from r and imports it.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var data ExportData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return i.Import(ctx, &data, opts)
}

// Validate checks the export on its own, without looking at stored content.
func (i *Importer) Validate(data *ExportData) []ImportError {
	if data == nil {
		return []ImportError{{Entity: "export", Message: "no data"}}
	}
	var errs []ImportError
	if data.Version != ExportVersion {
		errs = append(errs, ImportError{
			Entity:  "export",
			Message: fmt.Sprintf("unsupported export version %q", data.Version),
		})
		return errs
	}

	pageIDs := make(map[string]bool)
	pageSlugs := make(map[string]bool)
	for _, p := range data.Pages {
		errs = appendErrors(errs, EntityPages, p.ID, p.Validate())
		errs = checkUnique(errs, EntityPages, p.ID, "id", p.ID, pageIDs)
		errs = checkUnique(errs, EntityPages, p.ID, "slug", p.Slug, pageSlugs)
	}

	postIDs := make(map[string]bool)
	postSlugs := make(map[string]bool)
	for _, p := range data.Posts {
		p = normalizePost(p)
		errs = appendErrors(errs, EntityPosts, p.ID, p.Validate())
		errs = checkUnique(errs, EntityPosts, p.ID, "id", p.ID, postIDs)
		errs = checkUnique(errs, EntityPosts, p.ID, "slug", p.Slug, postSlugs)
	}

	if data.Ads != nil {
		for _, u := range data.Ads.AdUnits {
			errs = appendErrors(errs, EntityAdUnits, u.ID, u.Validate())
		}
		errs = appendErrors(errs, EntityAdUnits, "", model.CheckAdminSettings(*data.Ads))
	}

	if data.Seo != nil {
		errs = appendErrors(errs, EntitySeo, "", data.Seo.Validate())
	}
	if data.APIConfig != nil {
		errs = appendErrors(errs, EntityAPIConfig, "", data.APIConfig.Validate())
	}
	if data.Contact != nil {
		errs = appendErrors(errs, EntityContact, "", data.Contact.Validate())
	}

	if data.Languages != nil {
		errs = appendErrors(errs, EntityLanguages, "", model.CheckLanguageSettings(*data.Languages))
		if s := data.Languages.Service; s != "" && !model.IsValidTranslationService(s) {
			errs = append(errs, ImportError{Entity: EntityLanguages, Message: "service: Unknown translation service"})
		}
	}

	return errs
}

func (i *Importer) plan(ctx context.Context, data *ExportData, opts ImportOptions, result *ImportResult) *importPlan {
	plan := &importPlan{}
	strategy := opts.ConflictStrategy

	if opts.ImportPages && len(data.Pages) > 0 {
		plan.pages = merge(EntityPages, i.repos.Pages.GetAll(ctx), data.Pages, pageKeys(i.newID), strategy, result)
		now := i.now().UTC()
		for n := range plan.pages {
			if plan.pages[n].CreatedAt.IsZero() {
				plan.pages[n].CreatedAt = now
			}
		}
	}

	if opts.ImportPosts && len(data.Posts) > 0 {
		incoming := make([]model.BlogPost, len(data.Posts))
		now := i.now().UTC()
		for n, p := range data.Posts {
			p = normalizePost(p)
			if p.PublishDate.IsZero() {
				p.PublishDate = now
			}
			incoming[n] = p
		}
		plan.posts = merge(EntityPosts, i.repos.Posts.GetAll(ctx), incoming, postKeys(i.newID), strategy, result)
	}

	if opts.ImportAds && data.Ads != nil {
		ads := i.repos.Ads.GetSettings(ctx)
		ads.AdUnits = merge(EntityAdUnits, ads.AdUnits, data.Ads.AdUnits, adUnitKeys, strategy, result)
		if strategy == ConflictOverwrite && data.Ads.GoogleLanguageAPI != "" {
			ads.GoogleLanguageAPI = data.Ads.GoogleLanguageAPI
		}
		plan.ads = &ads
	}

	if opts.ImportSettings {
		if data.Seo != nil {
			plan.seo = replaceSingleton(EntitySeo, *data.Seo, strategy, result)
		}
		if data.APIConfig != nil {
			plan.apiConfig = replaceSingleton(EntityAPIConfig, *data.APIConfig, strategy, result)
		}
	}

	if opts.ImportContact && data.Contact != nil {
		plan.contact = replaceSingleton(EntityContact, *data.Contact, strategy, result)
	}

	if opts.ImportLanguages && data.Languages != nil {
		languages := mergeLanguages(i.repos.Languages.Get(ctx), *data.Languages, strategy, result)
		plan.languages = &languages
	}

	return plan
}

// check verifies the merged collections before anything is written.
func (p *importPlan) check() []ImportError {
	var errs []ImportError
	if p.pages != nil {
		errs = appendErrors(errs, EntityPages, "", model.CheckPages(p.pages))
	}
	if p.posts != nil {
		errs = appendErrors(errs, EntityPosts, "", model.CheckPosts(p.posts))
	}
	if p.ads != nil {
		errs = appendErrors(errs, EntityAdUnits, "", model.CheckAdminSettings(*p.ads))
	}
	if p.languages != nil {
		errs = appendErrors(errs, EntityLanguages, "", model.CheckLanguageSettings(*p.languages))
	}
	return errs
}

func (p *importPlan) apply(ctx context.Context, repos *content.Repositories) error {
	if p.pages != nil {
		if err := repos.Pages.SaveAll(ctx, p.pages); err != nil {
			return fmt.Errorf("pages: %w", err)
		}
	}
	if p.posts != nil {
		if err := repos.Posts.SaveAll(ctx, p.posts); err != nil {
			return fmt.Errorf("posts: %w", err)
		}
	}
	if p.ads != nil {
		patch := model.AdminSettingsPatch{AdUnits: &p.ads.AdUnits, GoogleLanguageAPI: &p.ads.GoogleLanguageAPI}
		if _, err := repos.Ads.UpdateSettings(ctx, patch); err != nil {
			return fmt.Errorf("ad units: %w", err)
		}
	}
	if p.seo != nil {
		if err := repos.Seo.Save(ctx, *p.seo); err != nil {
			return fmt.Errorf("seo settings: %w", err)
		}
	}
	if p.apiConfig != nil {
		if err := repos.APIConfig.Save(ctx, *p.apiConfig); err != nil {
			return fmt.Errorf("api config: %w", err)
		}
	}
	if p.languages != nil {
		if err := repos.Languages.Replace(ctx, *p.languages); err != nil {
			return fmt.Errorf("languages: %w", err)
		}
	}
	if p.contact != nil {
		if err := repos.Contact.Save(ctx, *p.contact); err != nil {
			return fmt.Errorf("contact settings: %w", err)
		}
	}
	return nil
}

// keys tells merge how to identify items of one entity.
type keys[T any] struct {
	id    func(T) string
	slug  func(T) string
	setID func(T, string) T
	newID func() string
}

func pageKeys(newID func() string) keys[model.Page] {
	return keys[model.Page]{
		id:    func(p model.Page) string { return p.ID },
		slug:  func(p model.Page) string { return p.Slug },
		setID: func(p model.Page, id string) model.Page { p.ID = id; return p },
		newID: newID,
	}
}

func postKeys(newID func() string) keys[model.BlogPost] {
	return keys[model.BlogPost]{
		id:    func(p model.BlogPost) string { return p.ID },
		slug:  func(p model.BlogPost) string { return p.Slug },
		setID: func(p model.BlogPost, id string) model.BlogPost { p.ID = id; return p },
		newID: newID,
	}
}

var adUnitKeys = keys[model.AdUnit]{
	id:    func(u model.AdUnit) string { return u.ID },
	slug:  func(model.AdUnit) string { return "" },
	setID: func(u model.AdUnit, id string) model.AdUnit { u.ID = id; return u },
}

var languageKeys = keys[model.Language]{
	id:    func(l model.Language) string { return l.Code },
	slug:  func(model.Language) string { return "" },
	setID: func(l model.Language, code string) model.Language { l.Code = code; return l },
}

// merge folds incoming into existing. An incoming item matches an existing
// one by id, then by slug. Matches are skipped or overwritten according to
// strategy; overwritten items keep the existing id. Unmatched items are
// appended, with a fresh id when they have none.
func merge[T any](entity string, existing, incoming []T, k keys[T], strategy ConflictStrategy, result *ImportResult) []T {
	merged := append([]T(nil), existing...)
	byID := make(map[string]int, len(merged))
	bySlug := make(map[string]int, len(merged))
	for n, item := range merged {
		byID[k.id(item)] = n
		if slug := k.slug(item); slug != "" {
			bySlug[slug] = n
		}
	}

	for _, item := range incoming {
		n, found := -1, false
		if id := k.id(item); id != "" {
			n, found = byID[id]
		}
		if !found {
			if slug := k.slug(item); slug != "" {
				n, found = bySlug[slug]
			}
		}

		if found {
			if strategy == ConflictSkip {
				result.IncrementSkipped(entity)
				continue
			}
			item = k.setID(item, k.id(merged[n]))
			delete(bySlug, k.slug(merged[n]))
			merged[n] = item
			if slug := k.slug(item); slug != "" {
				bySlug[slug] = n
			}
			result.IncrementUpdated(entity)
			continue
		}

		if k.id(item) == "" && k.newID != nil {
			item = k.setID(item, k.newID())
		}
		merged = append(merged, item)
		byID[k.id(item)] = len(merged) - 1
		if slug := k.slug(item); slug != "" {
			bySlug[slug] = len(merged) - 1
		}
		result.IncrementCreated(entity)
	}
	return merged
}

// mergeLanguages merges languages by code. The imported default language
// wins only when overwriting; the translation service is taken over on
// overwrite, and an empty imported API key never clears the stored one.
func mergeLanguages(existing, incoming model.LanguageSettings, strategy ConflictStrategy, result *ImportResult) model.LanguageSettings {
	current := append([]model.Language(nil), existing.Languages...)
	langs := append([]model.Language(nil), incoming.Languages...)

	importedDefault, hasImportedDefault := incoming.Default()
	if strategy == ConflictOverwrite && hasImportedDefault {
		for n := range current {
			current[n].IsDefault = false
		}
	} else if _, ok := existing.Default(); ok {
		for n := range langs {
			langs[n].IsDefault = false
		}
	}

	merged := existing
	merged.Languages = merge(EntityLanguages, current, langs, languageKeys, strategy, result)
	if strategy == ConflictOverwrite && hasImportedDefault {
		for n := range merged.Languages {
			merged.Languages[n].IsDefault = merged.Languages[n].Code == importedDefault.Code
		}
	}

	if strategy == ConflictOverwrite {
		if incoming.Service != "" {
			merged.Service = incoming.Service
		}
		if incoming.APIKey != "" {
			merged.APIKey = incoming.APIKey
		}
	}
	return merged
}

// replaceSingleton decides the fate of a settings document. Settings always
// exist, so skipping keeps the stored value.
func replaceSingleton[T any](entity string, incoming T, strategy ConflictStrategy, result *ImportResult) *T {
	if strategy == ConflictSkip {
		result.IncrementSkipped(entity)
		return nil
	}
	result.IncrementUpdated(entity)
	return &incoming
}

// normalizePost derives a missing slug from the title.
func normalizePost(p model.BlogPost) model.BlogPost {
	if p.Slug == "" {
		p.Slug = util.Slugify(p.Title)
	}
	return p
}

// appendErrors flattens err into one ImportError per failed field.
func appendErrors(errs []ImportError, entity, id string, err error) []ImportError {
	if err == nil {
		return errs
	}
	ve, ok := model.AsValidationError(err)
	if !ok {
		return append(errs, ImportError{Entity: entity, ID: id, Message: err.Error()})
	}
	fields := make([]string, 0, len(ve.Fields))
	for f := range ve.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		errs = append(errs, ImportError{Entity: entity, ID: id, Message: f + ": " + ve.Fields[f]})
	}
	return errs
}

func checkUnique(errs []ImportError, entity, id, field, value string, seen map[string]bool) []ImportError {
	if value == "" {
		return errs
	}
	if seen[value] {
		return append(errs, ImportError{Entity: entity, ID: id, Message: fmt.Sprintf("%s: duplicate %s %q", field, field, value)})
	}
	seen[value] = true
	return errs
}
