// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Location names a fixed placement slot on the public home page.
type Location string

// Ad placement slots, in page order.
const (
	LocationAfterSearch       Location = "After Search Section"
	LocationAfterHowItWorks   Location = "After How It Works"
	LocationAfterFeatures     Location = "After Features"
	LocationAfterTestimonials Location = "After Testimonials"
	LocationAfterFAQ          Location = "After FAQ"
)

// Locations returns every placement slot in page order.
func Locations() []Location {
	return []Location{
		LocationAfterSearch,
		LocationAfterHowItWorks,
		LocationAfterFeatures,
		LocationAfterTestimonials,
		LocationAfterFAQ,
	}
}

// IsValid reports whether l is one of the placement slots.
func (l Location) IsValid() bool {
	for _, known := range Locations() {
		if l == known {
			return true
		}
	}
	return false
}

// AdUnit is a raw HTML/script snippet rendered at a placement slot.
type AdUnit struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Code     string   `json:"code"`
	Location Location `json:"location"`
	Enabled  bool     `json:"enabled"`
}

// Validate checks an admin-edited ad unit.
func (a AdUnit) Validate() error {
	v := &ValidationError{}
	if a.ID == "" {
		v.Add("id", "ID is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		v.Add("name", "Name is required")
	}
	if !a.Location.IsValid() {
		v.Add("location", "Unknown ad location")
	}
	return v.Err()
}

// AdUnitPatch holds the fields of an ad unit an admin may change.
// Nil fields are left untouched.
type AdUnitPatch struct {
	Name     *string   `json:"name,omitempty"`
	Code     *string   `json:"code,omitempty"`
	Location *Location `json:"location,omitempty"`
	Enabled  *bool     `json:"enabled,omitempty"`
}

// Apply returns a copy of unit with the patch applied.
func (p AdUnitPatch) Apply(unit AdUnit) AdUnit {
	if p.Name != nil {
		unit.Name = *p.Name
	}
	if p.Code != nil {
		unit.Code = *p.Code
	}
	if p.Location != nil {
		unit.Location = *p.Location
	}
	if p.Enabled != nil {
		unit.Enabled = *p.Enabled
	}
	return unit
}

// AdminSettings is the persisted wrapper around ad units and misc admin options.
type AdminSettings struct {
	AdUnits           []AdUnit `json:"adUnits"`
	GoogleLanguageAPI string   `json:"googleLanguageApi,omitempty"`
}

// AdminSettingsPatch is a partial update of AdminSettings.
type AdminSettingsPatch struct {
	AdUnits           *[]AdUnit `json:"adUnits,omitempty"`
	GoogleLanguageAPI *string   `json:"googleLanguageApi,omitempty"`
}

// Apply returns a copy of s with the patch applied.
func (p AdminSettingsPatch) Apply(s AdminSettings) AdminSettings {
	if p.AdUnits != nil {
		s.AdUnits = append([]AdUnit(nil), (*p.AdUnits)...)
	}
	if p.GoogleLanguageAPI != nil {
		s.GoogleLanguageAPI = *p.GoogleLanguageAPI
	}
	return s
}

// CheckAdminSettings verifies stored admin settings: unit ids are unique and
// every location belongs to the closed set.
func CheckAdminSettings(s AdminSettings) error {
	v := &ValidationError{}
	ids := make(map[string]bool, len(s.AdUnits))
	for _, u := range s.AdUnits {
		if u.ID == "" {
			v.Add("adUnits", "ad unit without id")
			continue
		}
		if ids[u.ID] {
			v.Add("adUnits", "duplicate ad unit id "+u.ID)
		}
		ids[u.ID] = true
		if !u.Location.IsValid() {
			v.Add("adUnits", "unknown location "+string(u.Location))
		}
	}
	return v.Err()
}
