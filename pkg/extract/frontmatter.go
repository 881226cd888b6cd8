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
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

var (
	ErrUnterminatedFrontMatter = errors.New("front-matter block is not terminated")
	ErrInvalidFrontMatter      = errors.New("front-matter block is not a YAML mapping")
)

// SplitFrontMatter separates a leading YAML block delimited by "---" lines from the body.
// Text without a block is returned unchanged with nil metadata. When the block is malformed
// the whole text is returned as body together with the error, so callers can log and carry on.
func SplitFrontMatter(text string) (map[string]any, string, error) {
	trimmed := strings.TrimPrefix(text, "\ufeff")

	first, rest, found := strings.Cut(trimmed, "\n")
	if !found || strings.TrimSpace(first) != frontMatterDelim {
		return nil, text, nil
	}

	var block []string

	lines := strings.Split(rest, "\n")
	end := -1

	for i, line := range lines {
		if strings.TrimRight(line, " \t\r") == frontMatterDelim {
			end = i
			break
		}

		block = append(block, line)
	}

	if end < 0 {
		return nil, text, ErrUnterminatedFrontMatter
	}

	meta := make(map[string]any)

	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &meta); err != nil {
		return nil, text, fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	return meta, strings.Join(lines[end+1:], "\n"), nil
}

// MetaString returns meta[key] as a cleaned string. Scalars are formatted, other values ignored.
func MetaString(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return CleanValue(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return val.Format(time.DateOnly)
		}

		return val.Format(time.DateTime)
	case int, int64, float64, bool:
		return CleanValue(fmt.Sprint(val))
	default:
		return ""
	}
}
