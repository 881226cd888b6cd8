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

// Package status derives a device's freshness from its last-seen date.
package status

import (
	"strings"
	"time"

	"github.com/carverauto/nmapping/pkg/models"
)

const (
	recentlySeenDays = 1
	inactiveDays     = 7
)

// dateLayouts are tried in order; the first that parses wins. Day-first comes before
// month-first, so "03/04/2024" is read as 3 April.
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"02/01/2006",
	"01/02/2006",
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Classifier maps last-seen strings to a DeviceStatus relative to its clock.
type Classifier struct {
	clock Clock
}

// NewClassifier returns a Classifier reading the given clock, or the wall clock when nil.
func NewClassifier(clock Clock) *Classifier {
	if clock == nil {
		clock = realClock{}
	}

	return &Classifier{clock: clock}
}

// Classify never fails: empty or unparsable input is DeviceStatusUnknown.
func (c *Classifier) Classify(lastSeen string) models.DeviceStatus {
	seen, ok := ParseDate(lastSeen)
	if !ok {
		return models.DeviceStatusUnknown
	}

	return ForDays(c.DaysSince(seen))
}

// DaysSince returns the number of calendar days between seen and today in the clock's location.
// Dates in the future give a negative count.
func (c *Classifier) DaysSince(seen time.Time) int {
	now := c.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(seen.Year(), seen.Month(), seen.Day(), 0, 0, 0, 0, time.UTC)

	return int(today.Sub(day).Hours() / 24)
}

// ForDays maps an elapsed day count to a status. Negative counts are treated as today.
func ForDays(days int) models.DeviceStatus {
	switch {
	case days <= 0:
		return models.DeviceStatusOnline
	case days <= recentlySeenDays:
		return models.DeviceStatusRecentlySeen
	case days <= inactiveDays:
		return models.DeviceStatusInactive
	default:
		return models.DeviceStatusOffline
	}
}

// ParseDate parses the leading whitespace-delimited token of text against the known layouts.
func ParseDate(text string) (time.Time, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return time.Time{}, false
	}

	token := fields[0]

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
