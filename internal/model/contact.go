// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"

	"github.com/olegiv/instaview-go/internal/util"
)

// Contact form field types
const (
	FieldTypeText     = "text"
	FieldTypeEmail    = "email"
	FieldTypeTextarea = "textarea"
)

// FormField describes one input of the public contact form.
type FormField struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Active   bool   `json:"active"`
}

// MaxContactValueLength caps the length of one submitted contact form value.
const MaxContactValueLength = 5000

// ContactSettings configures the public contact page.
type ContactSettings struct {
	NotificationEmail string      `json:"notificationEmail"`
	SuccessMessage    string      `json:"successMessage"`
	FormFields        []FormField `json:"formFields"`
}

// Validate checks admin-submitted contact settings.
func (c ContactSettings) Validate() error {
	v := &ValidationError{}
	if !util.IsValidEmail(c.NotificationEmail) {
		v.Add("notificationEmail", "A valid notification email is required")
	}
	if strings.TrimSpace(c.SuccessMessage) == "" {
		v.Add("successMessage", "Success message is required")
	}
	ids := make(map[string]bool, len(c.FormFields))
	for _, f := range c.FormFields {
		switch {
		case f.ID == "" || f.Name == "" || strings.TrimSpace(f.Label) == "":
			v.Add("formFields", "Every field needs an id, a name and a label")
		case ids[f.ID]:
			v.Add("formFields", "Duplicate field id "+f.ID)
		case f.Type != FieldTypeText && f.Type != FieldTypeEmail && f.Type != FieldTypeTextarea:
			v.Add("formFields", "Unknown field type "+f.Type)
		}
		ids[f.ID] = true
	}
	return v.Err()
}

// ActiveFields returns the fields shown on the public form, in order.
func (c ContactSettings) ActiveFields() []FormField {
	fields := make([]FormField, 0, len(c.FormFields))
	for _, f := range c.FormFields {
		if f.Active {
			fields = append(fields, f)
		}
	}
	return fields
}

// CheckSubmission validates a public form submission against the active
// fields. Errors are keyed by field name; values of inactive fields are
// ignored.
func (c ContactSettings) CheckSubmission(values map[string]string) error {
	v := &ValidationError{}
	for _, f := range c.ActiveFields() {
		value := strings.TrimSpace(values[f.Name])
		switch {
		case value == "":
			if f.Required {
				v.Add(f.Name, f.Label+" is required")
			}
		case len(value) > MaxContactValueLength:
			v.Add(f.Name, f.Label+" is too long")
		case f.Type == FieldTypeEmail && !util.IsValidEmail(value):
			v.Add(f.Name, "Enter a valid email address")
		}
	}
	return v.Err()
}

// ContactSettingsPatch is a partial update of ContactSettings.
type ContactSettingsPatch struct {
	NotificationEmail *string      `json:"notificationEmail,omitempty"`
	SuccessMessage    *string      `json:"successMessage,omitempty"`
	FormFields        *[]FormField `json:"formFields,omitempty"`
}

// Apply merges the patch into c.
func (p ContactSettingsPatch) Apply(c ContactSettings) ContactSettings {
	if p.NotificationEmail != nil {
		c.NotificationEmail = *p.NotificationEmail
	}
	if p.SuccessMessage != nil {
		c.SuccessMessage = *p.SuccessMessage
	}
	if p.FormFields != nil {
		c.FormFields = append([]FormField(nil), (*p.FormFields)...)
	}
	return c
}
