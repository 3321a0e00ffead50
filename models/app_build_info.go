// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package models

// AppBuildInfo carries build-time metadata injected via linker flags and
// surfaced in the TUI version overlay.
type AppBuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// NewAppBuildInfo normalises empty build metadata to "N/A".
func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	if version == "" {
		version = "N/A"
	}
	if date == "" {
		date = "N/A"
	}
	if commit == "" {
		commit = "N/A"
	}
	return AppBuildInfo{Version: version, Date: date, Commit: commit}
}
