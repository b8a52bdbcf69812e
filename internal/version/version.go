// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build metadata, overridden with -ldflags "-X pii-redactor/internal/version.Version=..."
var (
	Version   = "0.0.0-development"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns a one-line version string
func Info() string {
	commit, date := buildMetadata()
	return fmt.Sprintf("pii-redactor %s (commit: %s, built: %s, go: %s, platform: %s/%s)",
		Version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number
func Short() string {
	return Version
}

// buildMetadata falls back to the VCS stamp embedded by the go tool when the
// linker flags were not set.
func buildMetadata() (commit, date string) {
	commit, date = GitCommit, BuildDate
	if commit != "unknown" && date != "unknown" {
		return commit, date
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return commit, date
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if commit == "unknown" && len(setting.Value) >= 7 {
				commit = setting.Value[:7]
			}
		case "vcs.time":
			if date == "unknown" {
				date = setting.Value
			}
		}
	}
	return commit, date
}
