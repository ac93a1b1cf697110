// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import "testing"

func TestResolve(t *testing.T) {
	var info Info
	got := info.Resolve()

	if got.Version != "dev" {
		t.Errorf("Version = %q, want %q", got.Version, "dev")
	}
	if got.GitCommit != "unknown" {
		t.Errorf("GitCommit = %q, want %q", got.GitCommit, "unknown")
	}
	if got.BuildTime != "unknown" {
		t.Errorf("BuildTime = %q, want %q", got.BuildTime, "unknown")
	}
}

func TestResolveKeepsInjectedValues(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc1234",
		BuildTime: "2025-01-30T12:00:00Z",
	}
	if got := info.Resolve(); got != info {
		t.Errorf("Resolve() = %+v, want %+v", got, info)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "injected",
			info: Info{Version: "v1.2.3", GitCommit: "abc1234", BuildTime: "2025-01-30T12:00:00Z"},
			want: "instaview v1.2.3 (commit abc1234, built 2025-01-30T12:00:00Z)",
		},
		{
			name: "zero value",
			want: "instaview dev (commit unknown, built unknown)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
