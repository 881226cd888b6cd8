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
	"net/netip"
	"regexp"

	"github.com/carverauto/nmapping/pkg/extract"
	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
	"github.com/carverauto/nmapping/pkg/status"
)

var (
	macLabel       = extract.LabelPattern("MAC")
	vendorLabel    = extract.LabelPattern("Vendor")
	hostnameLabel  = extract.LabelPattern("Hostname")
	firstSeenLabel = extract.LabelPattern("First Seen")
	lastSeenLabel  = extract.LabelPattern("Last Seen")

	osServicesHeading      = extract.HeadingPattern("## OS & Services")
	vulnerabilitiesHeading = extract.HeadingPattern("## Vulnerabilities")
)

// DeviceBuilder composes the extractors into a DeviceRecord.
type DeviceBuilder struct {
	classifier *status.Classifier
	logger     logger.Logger
}

// NewDeviceBuilder returns a builder classifying status with classifier.
func NewDeviceBuilder(classifier *status.Classifier, log logger.Logger) *DeviceBuilder {
	if classifier == nil {
		classifier = status.NewClassifier(nil)
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &DeviceBuilder{classifier: classifier, logger: log}
}

// Build extracts a record for ip from text. Malformed text yields empty fields and an unknown
// status; the only error is an ip that is not a dotted-quad IPv4 address.
func (b *DeviceBuilder) Build(ip, text string) (*models.DeviceRecord, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	meta, body, err := extract.SplitFrontMatter(text)
	if err != nil {
		b.logger.Warn().Err(err).Str("ip", ip).Msg("Ignoring malformed front-matter")
	}

	osInfo := extract.Section(body, osServicesHeading)
	lastSeen := field(body, meta, lastSeenLabel, "last_seen")

	return &models.DeviceRecord{
		IP:              addr.String(),
		MAC:             field(body, meta, macLabel, "mac"),
		Vendor:          field(body, meta, vendorLabel, "vendor"),
		Hostname:        field(body, meta, hostnameLabel, "hostname"),
		FirstSeen:       field(body, meta, firstSeenLabel, "first_seen"),
		LastSeen:        lastSeen,
		Status:          b.classifier.Classify(lastSeen),
		OSInfo:          osInfo,
		Services:        extract.Services(osInfo),
		Vulnerabilities: extract.Section(body, vulnerabilitiesHeading),
	}, nil
}

// field prefers the body label and falls back to the front-matter key.
func field(body string, meta map[string]any, label *regexp.Regexp, key string) string {
	if v := extract.Field(body, label); v != "" {
		return v
	}

	return extract.MetaString(meta, key)
}
