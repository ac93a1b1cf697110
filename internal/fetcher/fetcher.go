// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package fetcher retrieves public Instagram content for the viewer, either
// from canned demo data or from a configured backend server.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Endpoint names a kind of profile content.
type Endpoint string

// Supported endpoints.
const (
	EndpointProfile    Endpoint = "profile"
	EndpointStories    Endpoint = "stories"
	EndpointPosts      Endpoint = "posts"
	EndpointHighlights Endpoint = "highlights"
	EndpointReels      Endpoint = "reels"
)

// IsValid reports whether e is a supported endpoint.
func (e Endpoint) IsValid() bool {
	switch e {
	case EndpointProfile, EndpointStories, EndpointPosts, EndpointHighlights, EndpointReels:
		return true
	}
	return false
}

var (
	// ErrInvalidEndpoint is returned for an endpoint outside the supported set.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrInvalidUsername is returned for a username Instagram would not accept.
	ErrInvalidUsername = errors.New("invalid username")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

// ContentFetcher returns the JSON document for one endpoint of a profile.
type ContentFetcher interface {
	Fetch(ctx context.Context, endpoint Endpoint, username string) (json.RawMessage, error)
}

// Validate checks a fetch request before it reaches any implementation.
func Validate(endpoint Endpoint, username string) error {
	if !endpoint.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	return nil
}

// Story is one story item.
type Story struct {
	ID        string `json:"id"`
	MediaType string `json:"mediaType"`
	MediaURL  string `json:"mediaUrl"`
	Timestamp string `json:"timestamp"`
	Username  string `json:"username"`
}

// Media is a post or reel.
type Media struct {
	ID        string `json:"id"`
	MediaType string `json:"mediaType"`
	MediaURL  string `json:"mediaUrl"`
	Caption   string `json:"caption,omitempty"`
	Likes     int    `json:"likes"`
	Comments  int    `json:"comments"`
	Timestamp string `json:"timestamp"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Profile is the profile summary.
type Profile struct {
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	ProfilePicture string `json:"profilePicture"`
	Bio            string `json:"bio"`
	Followers      int    `json:"followers"`
	Following      int    `json:"following"`
	PostsCount     int    `json:"postsCount"`
	IsPrivate      bool   `json:"isPrivate"`
}
