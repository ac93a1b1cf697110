// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/olegiv/instaview-go/internal/util"
)

// PostStatus is the publication state of a blog post.
type PostStatus string

// Blog post statuses
const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// IsValid reports whether s is a known status.
func (s PostStatus) IsValid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// BlogPost is an article shown on /blog once published.
type BlogPost struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	ContentImages []string   `json:"contentImages,omitempty"`
	Keywords      []string   `json:"keywords"`
	Author        string     `json:"author"`
	PublishDate   time.Time  `json:"publishDate"`
	LastModified  *time.Time `json:"lastModified,omitempty"`
	Status        PostStatus `json:"status"`
	ImageAlt      string     `json:"imageAlt,omitempty"`
}

// IsPublished returns true if the post is visible on the public blog.
func (p *BlogPost) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsDraft returns true if the post is a draft.
func (p *BlogPost) IsDraft() bool {
	return p.Status == PostStatusDraft
}

// Validate checks an admin-submitted post.
func (p BlogPost) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(p.Title) == "" {
		v.Add("title", "Title is required")
	}
	if p.Slug == "" {
		v.Add("slug", "Slug is required")
	} else if !util.IsValidPostSlug(p.Slug) {
		v.Add("slug", "Invalid slug format")
	}
	if !p.Status.IsValid() {
		v.Add("status", "Status must be draft or published")
	}
	if p.FeaturedImage != "" && !util.IsValidAssetURL(p.FeaturedImage) {
		v.Add("featuredImage", "Featured image must be a URL or absolute path")
	}
	for _, img := range p.ContentImages {
		if !util.IsValidAssetURL(img) {
			v.Add("contentImages", "Content images must be URLs or absolute paths")
			break
		}
	}
	return v.Err()
}

// ParseKeywords splits a comma-separated keyword input, trimming blanks.
func ParseKeywords(input string) []string {
	keywords := []string{}
	for _, k := range strings.Split(input, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// CheckPosts verifies the structural invariants of a stored post collection.
func CheckPosts(posts []BlogPost) error {
	v := &ValidationError{}
	ids := make(map[string]bool, len(posts))
	slugs := make(map[string]bool, len(posts))
	for _, p := range posts {
		if p.ID == "" {
			v.Add("id", "post without id")
			continue
		}
		if ids[p.ID] {
			v.Add("id", "duplicate post id "+p.ID)
		}
		ids[p.ID] = true
		if p.Slug != "" {
			if slugs[p.Slug] {
				v.Add("slug", "duplicate post slug "+p.Slug)
			}
			slugs[p.Slug] = true
		}
		if !p.Status.IsValid() {
			v.Add("status", "unknown status "+string(p.Status))
		}
	}
	return v.Err()
}
