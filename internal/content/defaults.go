// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"time"

	"github.com/olegiv/instaview-go/internal/model"
)

// DefaultBlogPosts returns the two sample posts seeded into an empty store.
func DefaultBlogPosts() []model.BlogPost {
	return []model.BlogPost{
		{
			ID:    "1",
			Title: "How to View Instagram Stories Anonymously",
			Slug:  "how-to-view-instagram-stories-anonymously",
			Content: "<p>Lorem ipsum dolor sit amet, consectetur adipiscing elit. Vivamus lacinia odio vitae vestibulum vestibulum. " +
				"Cras porttitor commodo suscipit. Quisque quis ipsum in metus condimentum aliquam. Suspendisse dignissim ante sit amet nulla ullamcorper, in commodo erat rutrum.</p>" +
				"<p>Nullam hendrerit lectus non fringilla dictum. Fusce dapibus, leo ut malesuada aliquam, eros dolor varius felis, at sagittis ipsum dolor in turpis. " +
				"Curabitur maximus mi in metus hendrerit, id finibus ante elementum. Vestibulum ante ipsum primis in faucibus orci luctus et ultrices posuere cubilia curae; " +
				"Ut at dolor metus. Suspendisse dapibus sapien in diam dignissim, sit amet elementum massa hendrerit.</p>" +
				"<h2>Main Techniques</h2><ul><li>Using third-party apps</li><li>Browser extensions</li><li>Using airplane mode</li></ul>" +
				"<p>Sed ut dignissim libero, in finibus purus. Curabitur et risus nec justo porttitor finibus. Phasellus molestie, justo et pellentesque gravida, " +
				"ante est auctor risus, non facilisis nulla nisi non dolor.</p>",
			Excerpt:       "Learn the best techniques to view Instagram stories without being detected by the account owner.",
			FeaturedImage: "https://via.placeholder.com/1200x600",
			Keywords:      []string{"instagram", "stories", "anonymous", "privacy"},
			Author:        "Admin",
			PublishDate:   time.Date(2023, time.April, 6, 10, 0, 0, 0, time.UTC),
			Status:        model.PostStatusPublished,
		},
		{
			ID:    "2",
			Title: "Instagram Privacy Features You Should Know About",
			Slug:  "instagram-privacy-features",
			Content: "<p>Lorem ipsum dolor sit amet, consectetur adipiscing elit. Vivamus lacinia odio vitae vestibulum vestibulum. " +
				"Cras porttitor commodo suscipit. Quisque quis ipsum in metus condimentum aliquam.</p>" +
				"<p>Suspendisse dignissim ante sit amet nulla ullamcorper, in commodo erat rutrum. Nullam hendrerit lectus non fringilla dictum. " +
				"Fusce dapibus, leo ut malesuada aliquam, eros dolor varius felis, at sagittis ipsum dolor in turpis.</p>" +
				"<h2>Key Privacy Features</h2><ul><li>Two-factor authentication</li><li>Private accounts</li><li>Story controls</li><li>Restricted accounts</li></ul>" +
				"<p>Curabitur maximus mi in metus hendrerit, id finibus ante elementum. Vestibulum ante ipsum primis in faucibus orci luctus et ultrices posuere cubilia curae; " +
				"Ut at dolor metus.</p>",
			Excerpt:       "Discover the hidden privacy features on Instagram that can help protect your account and data.",
			FeaturedImage: "https://via.placeholder.com/1200x600",
			Keywords:      []string{"instagram", "privacy", "security", "features"},
			Author:        "Admin",
			PublishDate:   time.Date(2023, time.April, 4, 14, 30, 0, 0, time.UTC),
			Status:        model.PostStatusPublished,
		},
	}
}

// DefaultAdminSettings returns five enabled ad units, one per location.
func DefaultAdminSettings() model.AdminSettings {
	locations := model.Locations()
	units := make([]model.AdUnit, 0, len(locations))
	for i, loc := range locations {
		n := string(rune('1' + i))
		units = append(units, model.AdUnit{
			ID:       n,
			Name:     "Ad Unit " + n,
			Code:     "<!-- Ad code for slot " + n + " -->",
			Location: loc,
			Enabled:  true,
		})
	}
	return model.AdminSettings{AdUnits: units}
}

// DefaultSeoSettings returns the stock site metadata.
func DefaultSeoSettings() model.SeoSettings {
	return model.SeoSettings{
		Title:       "InstaView - Anonymous Instagram Stories Viewer",
		Description: "View Instagram stories anonymously without being detected. Free, easy-to-use, and secure.",
		Keywords:    "instagram viewer, anonymous, stories, instagram, social media",
		Favicon:     "/favicon.ico",
	}
}

// DefaultAPIConfig returns a configuration that serves mock data.
func DefaultAPIConfig() model.APIConfig {
	return model.APIConfig{}
}

// DefaultLanguages returns the stock language list with English as default.
func DefaultLanguages() []model.Language {
	return []model.Language{
		{Code: "en", Name: "English", IsDefault: true, Active: true},
		{Code: "es", Name: "Español", Active: true},
		{Code: "fr", Name: "Français", Active: true},
		{Code: "de", Name: "Deutsch", Active: true},
		{Code: "zh", Name: "中文", Active: true},
		{Code: "hi", Name: "हिंदी", Active: true},
		{Code: "ar", Name: "العربية", Active: true},
		{Code: "ru", Name: "Русский", Active: true},
	}
}

// DefaultContactSettings returns the stock contact form.
func DefaultContactSettings() model.ContactSettings {
	return model.ContactSettings{
		NotificationEmail: "admin@example.com",
		SuccessMessage:    "Thank you for your message. We'll get back to you soon!",
		FormFields: []model.FormField{
			{ID: "1", Name: "name", Label: "Name", Type: model.FieldTypeText, Required: true, Active: true},
			{ID: "2", Name: "email", Label: "Email", Type: model.FieldTypeEmail, Required: true, Active: true},
			{ID: "3", Name: "message", Label: "Message", Type: model.FieldTypeTextarea, Required: true, Active: true},
			{ID: "4", Name: "phone", Label: "Phone Number", Type: model.FieldTypeText},
		},
	}
}
