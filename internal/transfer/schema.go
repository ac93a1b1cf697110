// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer provides backup and restore of InstaView site content
// as a single JSON document.
package transfer

import (
	"time"

	"github.com/olegiv/instaview-go/internal/model"
)

// ExportVersion is the current version of the export format.
const ExportVersion = "1.0"

// Entity names used as keys in ImportResult counters.
const (
	EntityPages     = "pages"
	EntityPosts     = "posts"
	EntityAdUnits   = "ad_units"
	EntitySeo       = "seo"
	EntityAPIConfig = "api_config"
	EntityLanguages = "languages"
	EntityContact   = "contact"
)

// ExportData represents the complete export structure.
type ExportData struct {
	Version    string                  `json:"version"`
	ExportedAt time.Time               `json:"exported_at"`
	Site       ExportSite              `json:"site"`
	Pages      []model.Page            `json:"pages,omitempty"`
	Posts      []model.BlogPost        `json:"posts,omitempty"`
	Ads        *model.AdminSettings    `json:"ads,omitempty"`
	Seo        *model.SeoSettings      `json:"seo,omitempty"`
	APIConfig  *model.APIConfig        `json:"api_config,omitempty"`
	Languages  *model.LanguageSettings `json:"languages,omitempty"`
	Contact    *model.ContactSettings  `json:"contact,omitempty"`
}

// ExportSite contains basic site information.
type ExportSite struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Post status filters accepted by ExportOptions.PostStatus.
const (
	PostStatusAll       = "all"
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

// ExportOptions configures what to include in the export.
type ExportOptions struct {
	IncludePages     bool   `json:"include_pages"`
	IncludePosts     bool   `json:"include_posts"`
	IncludeAds       bool   `json:"include_ads"`
	IncludeSettings  bool   `json:"include_settings"`
	IncludeLanguages bool   `json:"include_languages"`
	IncludeContact   bool   `json:"include_contact"`
	IncludeSecrets   bool   `json:"include_secrets"`
	PostStatus       string `json:"post_status"`
}

// DefaultExportOptions returns options that include everything except
// API keys.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		IncludePages:     true,
		IncludePosts:     true,
		IncludeAds:       true,
		IncludeSettings:  true,
		IncludeLanguages: true,
		IncludeContact:   true,
		IncludeSecrets:   false,
		PostStatus:       PostStatusAll,
	}
}

// ConflictStrategy decides what happens when imported content already exists.
type ConflictStrategy string

const (
	// ConflictSkip keeps the existing item.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite replaces the existing item with the imported one.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// IsValid reports whether s is a known strategy.
func (s ConflictStrategy) IsValid() bool {
	return s == ConflictSkip || s == ConflictOverwrite
}

// ImportOptions configures an import.
type ImportOptions struct {
	DryRun           bool             `json:"dry_run"`
	ConflictStrategy ConflictStrategy `json:"conflict_strategy"`
	ImportPages      bool             `json:"import_pages"`
	ImportPosts      bool             `json:"import_posts"`
	ImportAds        bool             `json:"import_ads"`
	ImportSettings   bool             `json:"import_settings"`
	ImportLanguages  bool             `json:"import_languages"`
	ImportContact    bool             `json:"import_contact"`
}

// DefaultImportOptions returns options that import everything and keep
// existing content on conflict.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		ConflictStrategy: ConflictSkip,
		ImportPages:      true,
		ImportPosts:      true,
		ImportAds:        true,
		ImportSettings:   true,
		ImportLanguages:  true,
		ImportContact:    true,
	}
}

// ImportError describes one rejected item.
type ImportError struct {
	Entity  string `json:"entity"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// ImportResult reports what an import did, or would do for a dry run.
type ImportResult struct {
	Success bool           `json:"success"`
	DryRun  bool           `json:"dry_run"`
	Created map[string]int `json:"created"`
	Updated map[string]int `json:"updated"`
	Skipped map[string]int `json:"skipped"`
	Errors  []ImportError  `json:"errors,omitempty"`
}

// NewImportResult creates an empty successful result.
func NewImportResult(dryRun bool) *ImportResult {
	return &ImportResult{
		Success: true,
		DryRun:  dryRun,
		Created: make(map[string]int),
		Updated: make(map[string]int),
		Skipped: make(map[string]int),
	}
}

// IncrementCreated counts a created item of entity.
func (r *ImportResult) IncrementCreated(entity string) { r.Created[entity]++ }

// IncrementUpdated counts an updated item of entity.
func (r *ImportResult) IncrementUpdated(entity string) { r.Updated[entity]++ }

// IncrementSkipped counts a skipped item of entity.
func (r *ImportResult) IncrementSkipped(entity string) { r.Skipped[entity]++ }

// AddError records a rejected item and marks the result failed.
func (r *ImportResult) AddError(entity, id, message string) {
	r.Success = false
	r.Errors = append(r.Errors, ImportError{Entity: entity, ID: id, Message: message})
}

// TotalCreated returns the number of created items across entities.
func (r *ImportResult) TotalCreated() int { return sum(r.Created) }

// TotalUpdated returns the number of updated items across entities.
func (r *ImportResult) TotalUpdated() int { return sum(r.Updated) }

// TotalSkipped returns the number of skipped items across entities.
func (r *ImportResult) TotalSkipped() int { return sum(r.Skipped) }

func sum(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
