// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"

	"github.com/olegiv/instaview-go/internal/util"
)

// SeoSettings holds the site-wide head metadata.
type SeoSettings struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Favicon     string `json:"favicon"`
	Logo        string `json:"logo"`
}

// KeywordList splits the comma-joined keywords.
func (s SeoSettings) KeywordList() []string {
	return ParseKeywords(s.Keywords)
}

// Validate checks admin-submitted SEO settings.
func (s SeoSettings) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(s.Title) == "" {
		v.Add("title", "Title is required")
	}
	if s.Favicon != "" && !util.IsValidAssetURL(s.Favicon) {
		v.Add("favicon", "Favicon must be a URL or absolute path")
	}
	if s.Logo != "" && !util.IsValidAssetURL(s.Logo) {
		v.Add("logo", "Logo must be a URL or absolute path")
	}
	return v.Err()
}

// SeoSettingsPatch is a partial update; nil fields keep their current value.
type SeoSettingsPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Keywords    *string `json:"keywords,omitempty"`
	Favicon     *string `json:"favicon,omitempty"`
	Logo        *string `json:"logo,omitempty"`
}

// Apply merges the patch into s.
func (p SeoSettingsPatch) Apply(s SeoSettings) SeoSettings {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Keywords != nil {
		s.Keywords = *p.Keywords
	}
	if p.Favicon != nil {
		s.Favicon = *p.Favicon
	}
	if p.Logo != nil {
		s.Logo = *p.Logo
	}
	return s
}

// APIConfig selects where public content fetches go.
type APIConfig struct {
	UseSupabase bool   `json:"useSupabase,omitempty"`
	UseBackend  bool   `json:"useBackend"`
	ServerURL   string `json:"serverUrl,omitempty"`
}

// BackendEnabled reports whether fetches should go to the configured server.
func (c APIConfig) BackendEnabled() bool {
	return (c.UseBackend || c.UseSupabase) && c.ServerURL != ""
}

// Validate checks an admin-submitted API configuration.
func (c APIConfig) Validate() error {
	if c.ServerURL != "" && !util.IsValidHTTPURL(c.ServerURL) {
		return NewFieldError("serverUrl", "Server URL must be an http or https URL")
	}
	if c.UseBackend && c.ServerURL == "" {
		return NewFieldError("serverUrl", "Server URL is required when the backend is enabled")
	}
	return nil
}

// APIConfigPatch is a partial update of APIConfig.
type APIConfigPatch struct {
	UseSupabase *bool   `json:"useSupabase,omitempty"`
	UseBackend  *bool   `json:"useBackend,omitempty"`
	ServerURL   *string `json:"serverUrl,omitempty"`
}

// Apply merges the patch into c.
func (p APIConfigPatch) Apply(c APIConfig) APIConfig {
	if p.UseSupabase != nil {
		c.UseSupabase = *p.UseSupabase
	}
	if p.UseBackend != nil {
		c.UseBackend = *p.UseBackend
	}
	if p.ServerURL != nil {
		c.ServerURL = *p.ServerURL
	}
	return c
}
