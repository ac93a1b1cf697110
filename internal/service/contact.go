// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/olegiv/instaview-go/internal/content"
	"github.com/olegiv/instaview-go/internal/logging"
	"github.com/olegiv/instaview-go/internal/model"
	"github.com/olegiv/instaview-go/internal/seo"
)

// ContactForm is the state of the public contact form.
type ContactForm struct {
	Fields []model.FormField
	Values map[string]string
	Errors map[string]string
	// Message is the configured success message, set once a submission
	// was accepted.
	Message string
}

func (s *SiteService) contactSettings(ctx context.Context) model.ContactSettings {
	if s.contact == nil {
		return content.DefaultContactSettings()
	}
	return s.contact.Get(ctx)
}

// ContactForm returns an empty contact form with the active fields.
func (s *SiteService) ContactForm(ctx context.Context) ContactForm {
	return ContactForm{
		Fields: s.contactSettings(ctx).ActiveFields(),
		Values: map[string]string{},
	}
}

// SubmitContact validates a contact form submission. An accepted
// submission is logged and answered with the success message; nothing is
// delivered. A rejected one returns the form with the submitted values and
// a *model.ValidationError.
func (s *SiteService) SubmitContact(ctx context.Context, values map[string]string) (ContactForm, error) {
	settings := s.contactSettings(ctx)
	form := ContactForm{Fields: settings.ActiveFields(), Values: map[string]string{}}

	if err := settings.CheckSubmission(values); err != nil {
		for _, f := range form.Fields {
			form.Values[f.Name] = strings.TrimSpace(values[f.Name])
		}
		if ve, ok := model.AsValidationError(err); ok {
			form.Errors = ve.Fields
		}
		return form, err
	}

	slog.Info("contact form submitted",
		"category", logging.EventCategoryContent,
		"notify", settings.NotificationEmail,
		"fields", len(form.Fields))
	form.Message = settings.SuccessMessage
	return form, nil
}

// ContactMeta returns the contact page metadata.
func (s *SiteService) ContactMeta(ctx context.Context) seo.Meta {
	return seo.ContactMeta(s.SiteConfig(ctx))
}
