// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string `json:"version"`             // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string `json:"gitCommit,omitempty"` // Short git commit hash (e.g., "abc1234")
	BuildTime string `json:"buildTime,omitempty"` // Build timestamp in RFC3339 format
}

// Resolve fills empty fields with placeholders for development builds.
func (i Info) Resolve() Info {
	if i.Version == "" {
		i.Version = "dev"
	}
	if i.GitCommit == "" {
		i.GitCommit = "unknown"
	}
	if i.BuildTime == "" {
		i.BuildTime = "unknown"
	}
	return i
}

// String formats the info for -version output.
func (i Info) String() string {
	r := i.Resolve()
	return fmt.Sprintf("instaview %s (commit %s, built %s)", r.Version, r.GitCommit, r.BuildTime)
}
