// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/olegiv/instaview-go/internal/util"
)

// Page is a custom page authored in the admin console and served at /page/{slug}.
// Content is trusted HTML.
type Page struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks an admin-submitted page. The slug must already be normalized.
func (p Page) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(p.Title) == "" {
		v.Add("title", "Title is required")
	}
	if p.Slug == "" {
		v.Add("slug", "Slug is required")
	} else if !util.IsValidSlug(p.Slug) {
		v.Add("slug", "Invalid slug format (use lowercase letters, numbers, and hyphens)")
	}
	return v.Err()
}

// CheckPages verifies the structural invariants of a stored page collection:
// every page has an id, and ids and slugs are unique.
func CheckPages(pages []Page) error {
	v := &ValidationError{}
	ids := make(map[string]bool, len(pages))
	slugs := make(map[string]bool, len(pages))
	for _, p := range pages {
		if p.ID == "" {
			v.Add("id", "page without id")
			continue
		}
		if ids[p.ID] {
			v.Add("id", "duplicate page id "+p.ID)
		}
		ids[p.ID] = true
		if p.Slug != "" {
			if slugs[p.Slug] {
				v.Add("slug", "duplicate page slug "+p.Slug)
			}
			slugs[p.Slug] = true
		}
	}
	return v.Err()
}
