// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/instaview-go/internal/kvstore"
	"github.com/olegiv/instaview-go/internal/model"
	"github.com/olegiv/instaview-go/internal/util"
)

// PostRepository stores blog posts under KeyBlogPosts. An empty store is
// seeded with DefaultBlogPosts on first read.
type PostRepository struct {
	mu    sync.Mutex
	store *kvstore.Store
	entry kvstore.Entry[[]model.BlogPost]
	now   func() time.Time
	newID func() string
}

// NewPostRepository creates a blog post repository on s.
func NewPostRepository(s *kvstore.Store) *PostRepository {
	return &PostRepository{
		store: s,
		entry: kvstore.Entry[[]model.BlogPost]{
			Key:     KeyBlogPosts,
			Default: DefaultBlogPosts,
			Check:   model.CheckPosts,
			Seed:    true,
		},
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// GetAll returns every post, drafts included, in stored order.
func (r *PostRepository) GetAll(ctx context.Context) []model.BlogPost {
	return r.entry.Read(ctx, r.store)
}

// SaveAll replaces the whole collection. Posts without a slug get one
// derived from their title.
func (r *PostRepository) SaveAll(ctx context.Context, posts []model.BlogPost) error {
	normalized := make([]model.BlogPost, len(posts))
	for i, p := range posts {
		if p.Slug == "" {
			p.Slug = util.Slugify(p.Title)
		}
		normalized[i] = p
	}
	if err := model.CheckPosts(normalized); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entry.Write(ctx, r.store, normalized)
}

// Get returns the post with id regardless of status.
func (r *PostRepository) Get(ctx context.Context, id string) (model.BlogPost, error) {
	for _, p := range r.GetAll(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return model.BlogPost{}, ErrNotFound
}

// Published returns the published posts, newest first.
func (r *PostRepository) Published(ctx context.Context) []model.BlogPost {
	var published []model.BlogPost
	for _, p := range r.GetAll(ctx) {
		if p.IsPublished() {
			published = append(published, p)
		}
	}
	sort.SliceStable(published, func(i, j int) bool {
		return published[i].PublishDate.After(published[j].PublishDate)
	})
	return published
}

// Save stores a post. A post with an empty id gets a fresh id and is
// prepended; a post whose id is stored replaces it in place and has its
// modification time stamped. An empty slug is derived from the title.
func (r *PostRepository) Save(ctx context.Context, post model.BlogPost) (model.BlogPost, error) {
	if post.Slug == "" {
		post.Slug = util.Slugify(post.Title)
	}
	if post.Keywords == nil {
		post.Keywords = []string{}
	}
	if err := post.Validate(); err != nil {
		return model.BlogPost{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	posts := r.entry.Read(ctx, r.store)
	ids := make(map[string]bool, len(posts))
	idx := -1
	for i, p := range posts {
		ids[p.ID] = true
		if post.ID != "" && p.ID == post.ID {
			idx = i
			continue
		}
		if p.Slug == post.Slug {
			return model.BlogPost{}, fmt.Errorf("%w: %s", ErrSlugTaken, post.Slug)
		}
	}

	now := r.now().UTC()
	if idx >= 0 {
		post.LastModified = &now
		posts[idx] = post
	} else {
		if post.ID == "" {
			post.ID = r.freshID(ids)
		}
		if post.PublishDate.IsZero() {
			post.PublishDate = now
		}
		posts = append([]model.BlogPost{post}, posts...)
	}

	if err := r.entry.Write(ctx, r.store, posts); err != nil {
		return model.BlogPost{}, err
	}
	return post, nil
}

// freshID returns an id not present in taken.
func (r *PostRepository) freshID(taken map[string]bool) string {
	for {
		if id := r.newID(); id != "" && !taken[id] {
			return id
		}
	}
}

// Delete removes the post with id.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := r.entry.Read(ctx, r.store)
	for i, p := range posts {
		if p.ID == id {
			posts = append(posts[:i], posts[i+1:]...)
			return r.entry.Write(ctx, r.store, posts)
		}
	}
	return ErrNotFound
}
