// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/olegiv/instaview-go/internal/content"
	"github.com/olegiv/instaview-go/internal/model"
)

// Exporter reads site content from the repositories into an ExportData.
type Exporter struct {
	repos   *content.Repositories
	siteURL string
	logger  *slog.Logger
	now     func() time.Time
}

// NewExporter creates a new Exporter.
func NewExporter(repos *content.Repositories, siteURL string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		repos:   repos,
		siteURL: siteURL,
		logger:  logger,
		now:     time.Now,
	}
}

// Export generates an ExportData structure based on the provided options.
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) (*ExportData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seo := e.repos.Seo.Get(ctx)
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: e.now().UTC(),
		Site:       ExportSite{Name: seo.Title, URL: e.siteURL},
	}

	if opts.IncludePages {
		data.Pages = e.repos.Pages.GetAll(ctx)
	}

	if opts.IncludePosts {
		data.Posts = filterPosts(e.repos.Posts.GetAll(ctx), opts.PostStatus)
	}

	if opts.IncludeAds {
		ads := e.repos.Ads.GetSettings(ctx)
		if !opts.IncludeSecrets {
			ads.GoogleLanguageAPI = ""
		}
		data.Ads = &ads
	}

	if opts.IncludeSettings {
		apiConfig := e.repos.APIConfig.Get(ctx)
		data.Seo = &seo
		data.APIConfig = &apiConfig
	}

	if opts.IncludeLanguages {
		languages := e.repos.Languages.Get(ctx)
		if !opts.IncludeSecrets {
			languages.APIKey = ""
		}
		data.Languages = &languages
	}

	if opts.IncludeContact {
		contact := e.repos.Contact.Get(ctx)
		data.Contact = &contact
	}

	e.logger.Info("content exported",
		"pages", len(data.Pages),
		"posts", len(data.Posts),
		"secrets", opts.IncludeSecrets)
	return data, nil
}

// ExportToWriter writes the export as indented JSON to w.
func (e *Exporter) ExportToWriter(ctx context.Context, opts ExportOptions, w io.Writer) error {
	data, err := e.Export(ctx, opts)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func filterPosts(posts []model.BlogPost, status string) []model.BlogPost {
	switch status {
	case PostStatusPublished, PostStatusDraft:
	default:
		return posts
	}
	filtered := make([]model.BlogPost, 0, len(posts))
	for _, p := range posts {
		if string(p.Status) == status {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
