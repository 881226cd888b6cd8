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

package report

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/carverauto/nmapping/pkg/models"
)

const ipv4Pattern = `\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`

var (
	scanNameRe = regexp.MustCompile(`^([A-Za-z0-9-]+)_(\d{4}-\d{2}-\d{2})\.([A-Za-z0-9]+)$`)

	linkedDeviceRe = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+\[\[(` + ipv4Pattern + `)\]\]`)
	anyIPRe        = regexp.MustCompile(`\b` + ipv4Pattern + `\b`)
	newDevicesRe   = regexp.MustCompile(`(?i)^\s*#{1,6}\s*New Devices\b`)
	bulletIPRe     = regexp.MustCompile(`^[ \t]*[-*+][ \t]+(?:\[\[)?(` + ipv4Pattern + `)(?:\]\])?(?:\s|$)`)
)

// ParseScanSummary builds the record for one scan-summary document. Type and date come from the
// file name; counts come from the body.
func ParseScanSummary(filename, text string) (*models.ScanSummaryRecord, error) {
	base := filepath.Base(filename)

	m := scanNameRe.FindStringSubmatch(base)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScanName, base)
	}

	if _, err := time.Parse(time.DateOnly, m[2]); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScanDate, m[2])
	}

	return &models.ScanSummaryRecord{
		ScanType:     m[1],
		ScanDate:     m[2],
		DevicesFound: CountDevices(text),
		NewDevices:   CountNewDevices(text),
		ScanFile:     base,
	}, nil
}

// CountDevices counts wiki-link bullets of IPs. When there are none it counts every dotted quad
// in the text, which overcounts addresses mentioned in prose.
func CountDevices(text string) int {
	if n := len(linkedDeviceRe.FindAllStringSubmatch(text, -1)); n > 0 {
		return n
	}

	return len(anyIPRe.FindAllString(text, -1))
}

// CountNewDevices counts IP bullets in the paragraph that follows a "New Devices" heading.
// Blank lines directly after the heading are skipped; the next blank line or heading ends the list.
func CountNewDevices(text string) int {
	lines := strings.Split(text, "\n")

	start := -1

	for i, line := range lines {
		if newDevicesRe.MatchString(line) {
			start = i + 1
			break
		}
	}

	if start < 0 {
		return 0
	}

	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	count := 0

	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			break
		}

		if bulletIPRe.MatchString(line) {
			count++
		}
	}

	return count
}
