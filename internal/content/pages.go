// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/instaview-go/internal/kvstore"
	"github.com/olegiv/instaview-go/internal/model"
	"github.com/olegiv/instaview-go/internal/util"
)

// PageRepository stores custom pages under KeyPages.
type PageRepository struct {
	mu    sync.Mutex
	store *kvstore.Store
	entry kvstore.Entry[[]model.Page]
	now   func() time.Time
	newID func() string
}

// NewPageRepository creates a page repository on s.
func NewPageRepository(s *kvstore.Store) *PageRepository {
	return &PageRepository{
		store: s,
		entry: kvstore.Entry[[]model.Page]{
			Key:     KeyPages,
			Default: func() []model.Page { return []model.Page{} },
			Check:   model.CheckPages,
		},
		now:   time.Now,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// GetAll returns every page in stored order.
func (r *PageRepository) GetAll(ctx context.Context) []model.Page {
	return r.entry.Read(ctx, r.store)
}

// SaveAll replaces the whole collection.
func (r *PageRepository) SaveAll(ctx context.Context, pages []model.Page) error {
	if err := model.CheckPages(pages); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entry.Write(ctx, r.store, pages)
}

// Get returns the page with id.
func (r *PageRepository) Get(ctx context.Context, id string) (model.Page, error) {
	for _, p := range r.GetAll(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Page{}, ErrNotFound
}

// GetBySlug returns the page with slug.
func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (model.Page, error) {
	for _, p := range r.GetAll(ctx) {
		if p.Slug == slug {
			return p, nil
		}
	}
	return model.Page{}, ErrNotFound
}

// Save normalizes the page slug and stores the page. A page whose id is
// already stored is replaced in place; any other page is appended, with an
// id and creation time assigned when missing. Saving a slug used by another
// page fails with ErrSlugTaken.
func (r *PageRepository) Save(ctx context.Context, page model.Page) (model.Page, error) {
	if page.Slug == "" {
		page.Slug = page.Title
	}
	page.Slug = util.NormalizeSlug(page.Slug)
	if err := page.Validate(); err != nil {
		return model.Page{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pages := r.entry.Read(ctx, r.store)
	idx := -1
	for i, p := range pages {
		if p.ID == page.ID && page.ID != "" {
			idx = i
			continue
		}
		if p.Slug == page.Slug {
			return model.Page{}, fmt.Errorf("%w: %s", ErrSlugTaken, page.Slug)
		}
	}

	if idx >= 0 {
		if page.CreatedAt.IsZero() {
			page.CreatedAt = pages[idx].CreatedAt
		}
		pages[idx] = page
	} else {
		if page.ID == "" {
			page.ID = r.newID()
		}
		if page.CreatedAt.IsZero() {
			page.CreatedAt = r.now().UTC()
		}
		pages = append(pages, page)
	}

	if err := r.entry.Write(ctx, r.store, pages); err != nil {
		return model.Page{}, err
	}
	return page, nil
}

// Delete removes the page with id.
func (r *PageRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pages := r.entry.Read(ctx, r.store)
	for i, p := range pages {
		if p.ID == id {
			pages = append(pages[:i], pages[i+1:]...)
			return r.entry.Write(ctx, r.store, pages)
		}
	}
	return ErrNotFound
}
