/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package version reports the build version of the nMapping+ binaries.
package version

import "runtime/debug"

// These variables are set via ldflags during build:
//
//	-X github.com/carverauto/nmapping/pkg/version.version=1.2.0
//	-X github.com/carverauto/nmapping/pkg/version.buildID=$(git rev-parse --short HEAD)
//
//nolint:gochecknoglobals // These are intentionally global for ldflags injection
var (
	version = "dev"
	buildID = ""
)

// GetVersion returns the current version
func GetVersion() string {
	return version
}

// GetBuildID returns the ldflags build ID, falling back to the VCS revision recorded by
// the Go toolchain.
func GetBuildID() string {
	if buildID != "" {
		return buildID
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return setting.Value[:7]
		}
	}

	return "unknown"
}

// GetFullVersion returns version with build ID
func GetFullVersion() string {
	return version + " (build: " + GetBuildID() + ")"
}
