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

// Package extract pulls labeled fields, sections and service lines out of markdown reports.
package extract

import (
	"regexp"
	"strings"
)

// placeholder is written by the report generator when a value was not discovered.
const placeholder = "Unknown"

// LabelPattern returns a case-insensitive pattern matching `**<label>:** <value>` on one line.
// The value is the first capture group.
func LabelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)\*\*` + regexp.QuoteMeta(label) + `:\*\*[ \t]*(.+)$`)
}

// Field returns the value captured by the first match of label in text. Surrounding bold markers
// and whitespace are removed. A missing match, an empty value and the "Unknown" placeholder all
// yield "".
func Field(text string, label *regexp.Regexp) string {
	if label == nil {
		return ""
	}

	m := label.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}

	return CleanValue(m[1])
}

// CleanValue trims whitespace and bold markers and maps the placeholder to "".
func CleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "**")
	v = strings.TrimSuffix(v, "**")
	v = strings.TrimSpace(v)

	if v == placeholder {
		return ""
	}

	return v
}
