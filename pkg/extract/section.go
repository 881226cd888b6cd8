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

const fence = "```"

// HeadingPattern returns a case-insensitive pattern for a literal heading line such as
// "## OS & Services". Trailing text after the heading title is allowed.
func HeadingPattern(heading string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*` + regexp.QuoteMeta(strings.TrimSpace(heading)) + `(?:\W|$)`)
}

// Section returns the first section whose heading line matches heading, from the heading line up to
// the next heading of the same or a higher level. Lines inside fenced code blocks are never headings.
// A missing heading yields "".
func Section(text string, heading *regexp.Regexp) string {
	if heading == nil || text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")

	start, level := -1, 0
	inFence := false

	for i, line := range lines {
		if isFence(line) {
			inFence = !inFence
			continue
		}

		if inFence {
			continue
		}

		if start < 0 {
			if lvl := headingLevel(line); lvl > 0 && heading.MatchString(line) {
				start, level = i, lvl
			}

			continue
		}

		if lvl := headingLevel(line); lvl > 0 && lvl <= level {
			return strings.TrimSpace(strings.Join(lines[start:i], "\n"))
		}
	}

	if start < 0 {
		return ""
	}

	return strings.TrimSpace(strings.Join(lines[start:], "\n"))
}

// headingLevel returns the number of leading '#' of an ATX heading line, or 0.
func headingLevel(line string) int {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return 0
	}

	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}

	if n == 0 || n > 6 {
		return 0
	}

	if n < len(trimmed) && trimmed[n] != ' ' && trimmed[n] != '\t' {
		return 0
	}

	return n
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), fence)
}
