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

package extract

import (
	"regexp"
	"strings"
)

var (
	portStateRe = regexp.MustCompile(`(?i)\d+/(tcp|udp)\s+(open|filtered|closed)`)
	portRe      = regexp.MustCompile(`(?i)Port\s+\d+`)
)

// Services keeps the lines of section that describe a port, trimmed and in source order,
// joined by newlines. Lines in other formats are dropped.
func Services(section string) string {
	var kept []string

	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if portStateRe.MatchString(line) || portRe.MatchString(line) {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}
