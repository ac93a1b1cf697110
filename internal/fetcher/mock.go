// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Mock serves demo content. It is active whenever no backend is configured.
type Mock struct {
	delay time.Duration
	now   func() time.Time
}

// NewMock creates a Mock that waits delay before answering.
func NewMock(delay time.Duration) *Mock {
	return &Mock{delay: delay, now: time.Now}
}

// Fetch returns canned content for username.
func (m *Mock) Fetch(ctx context.Context, endpoint Endpoint, username string) (json.RawMessage, error) {
	if err := Validate(endpoint, username); err != nil {
		return nil, err
	}

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	slog.Debug("serving mock content", "endpoint", endpoint, "username", username)

	now := m.now().UTC()
	var doc any
	switch endpoint {
	case EndpointProfile:
		doc = mockProfile(username)
	case EndpointStories:
		doc = map[string][]Story{"stories": mockStories(username, now)}
	case EndpointHighlights:
		doc = map[string][]Story{"highlights": mockHighlights(username, now)}
	case EndpointReels:
		doc = map[string][]Media{"reels": mockReels(now)}
	case EndpointPosts:
		doc = map[string][]Media{"posts": mockPosts(now)}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding mock %s: %w", endpoint, err)
	}
	return data, nil
}

func stamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000Z")
}

func mockProfile(username string) Profile {
	return Profile{
		Username:       username,
		FullName:       "Demo User",
		ProfilePicture: "https://via.placeholder.com/150",
		Bio:            "Sharing moments from around the world.",
		Followers:      12840,
		Following:      312,
		PostsCount:     3,
	}
}

func mockStories(username string, now time.Time) []Story {
	stories := make([]Story, 3)
	for i := range stories {
		s := Story{
			ID:        fmt.Sprintf("story%d", i+1),
			MediaType: "IMAGE",
			MediaURL:  fmt.Sprintf("https://source.unsplash.com/random/800x1000?sig=%d", i+100),
			Timestamp: stamp(now.Add(-time.Duration(i+1) * time.Hour)),
			Username:  username,
		}
		if i == 2 {
			s.MediaType = "VIDEO"
			s.MediaURL = "https://player.vimeo.com/external/394276111.sd.mp4?profile_id=164"
		}
		stories[i] = s
	}
	return stories
}

func mockHighlights(username string, now time.Time) []Story {
	highlights := make([]Story, 2)
	for i := range highlights {
		highlights[i] = Story{
			ID:        fmt.Sprintf("highlight%d", i+1),
			MediaType: "IMAGE",
			MediaURL:  fmt.Sprintf("https://source.unsplash.com/random/800x1000?sig=%d", i+300),
			Timestamp: stamp(now.Add(-time.Duration(i+30) * 24 * time.Hour)),
			Username:  username,
		}
	}
	return highlights
}

func mockReels(now time.Time) []Media {
	return []Media{
		{
			ID:        "reel1",
			MediaType: "VIDEO",
			MediaURL:  "https://player.vimeo.com/external/470407576.sd.mp4?profile_id=164",
			Caption:   "Beach day! #summervibes",
			Likes:     4210,
			Comments:  187,
			Timestamp: stamp(now.Add(-7 * 24 * time.Hour)),
			Thumbnail: "https://source.unsplash.com/random/1080x1920?sig=400",
		},
		{
			ID:        "reel2",
			MediaType: "VIDEO",
			MediaURL:  "https://player.vimeo.com/external/371713390.sd.mp4?profile_id=164",
			Caption:   "Coffee art #barista",
			Likes:     2875,
			Comments:  96,
			Timestamp: stamp(now.Add(-8 * 24 * time.Hour)),
			Thumbnail: "https://source.unsplash.com/random/1080x1920?sig=401",
		},
	}
}

func mockPosts(now time.Time) []Media {
	captions := []string{"Sunrise over the harbor", "Weekend market finds", "City lights"}
	types := []string{"IMAGE", "CAROUSEL", "IMAGE"}
	posts := make([]Media, len(captions))
	for i := range posts {
		url := fmt.Sprintf("https://source.unsplash.com/random/1080x1080?sig=%d", i+200)
		posts[i] = Media{
			ID:        fmt.Sprintf("post%d", i+1),
			MediaType: types[i],
			MediaURL:  url,
			Caption:   captions[i],
			Likes:     1500 - i*320,
			Comments:  64 - i*17,
			Timestamp: stamp(now.Add(-time.Duration(i+1) * 48 * time.Hour)),
			Thumbnail: url,
		}
	}
	return posts
}

var _ ContentFetcher = (*Mock)(nil)
