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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
	"github.com/carverauto/nmapping/pkg/status"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

func newTestBuilder(now time.Time) *DeviceBuilder {
	return NewDeviceBuilder(status.NewClassifier(fixedClock{now: now}), logger.NewTestLogger())
}

const device10005 = `# 10.0.0.5

**MAC:** AA:BB:CC:DD:EE:FF
**Vendor:** Acme
**Last Seen:** 2024-03-01

## OS & Services
22/tcp open
not a service line

## Vulnerabilities
- none found
`

func TestBuildScenario(t *testing.T) {
	b := newTestBuilder(time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC))

	rec, err := b.Build("10.0.0.5", device10005)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", rec.IP)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", rec.MAC)
	assert.Equal(t, "Acme", rec.Vendor)
	assert.Empty(t, rec.Hostname)
	assert.Empty(t, rec.FirstSeen)
	assert.Equal(t, "2024-03-01", rec.LastSeen)
	assert.Equal(t, "22/tcp open", rec.Services)
	assert.Equal(t, "## OS & Services\n22/tcp open\nnot a service line", rec.OSInfo)
	assert.Equal(t, "## Vulnerabilities\n- none found", rec.Vulnerabilities)
	assert.Equal(t, models.DeviceStatusInactive, rec.Status)
	assert.Empty(t, rec.Notes)
}

func TestBuildIsDeterministic(t *testing.T) {
	b := newTestBuilder(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	first, err := b.Build("10.0.0.5", device10005)
	require.NoError(t, err)

	second, err := b.Build("10.0.0.5", device10005)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, models.DeviceStatusOnline, first.Status)
}

func TestBuildMalformedDocument(t *testing.T) {
	b := newTestBuilder(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	junk := "\x00\x01\xff\xfe garbage ###### ** : ** \n\n\x7f---\n]]]["

	rec, err := b.Build("192.168.1.10", junk)
	require.NoError(t, err)

	assert.Equal(t, &models.DeviceRecord{IP: "192.168.1.10", Status: models.DeviceStatusUnknown}, rec)
}

func TestBuildFrontMatter(t *testing.T) {
	b := newTestBuilder(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))

	doc := "---\nhostname: nas.local\nlast_seen: 2024-03-01\nvendor: Unknown\n---\n**Vendor:** Synology\n"

	rec, err := b.Build("10.0.0.7", doc)
	require.NoError(t, err)

	assert.Equal(t, "nas.local", rec.Hostname)
	assert.Equal(t, "Synology", rec.Vendor)
	assert.Equal(t, "2024-03-01", rec.LastSeen)
	assert.Equal(t, models.DeviceStatusRecentlySeen, rec.Status)
}

func TestBuildMalformedFrontMatterFallsBack(t *testing.T) {
	b := newTestBuilder(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	doc := "---\nhostname: [broken\n**MAC:** 00:11:22:33:44:55\n"

	rec, err := b.Build("10.0.0.8", doc)
	require.NoError(t, err)
	assert.Equal(t, "00:11:22:33:44:55", rec.MAC)
}

func TestBuildInvalidIP(t *testing.T) {
	b := newTestBuilder(time.Now())

	for _, ip := range []string{"", "300.1.1.1", "10.0.0", "::1", "010.0.0.1"} {
		_, err := b.Build(ip, device10005)
		require.ErrorIs(t, err, ErrInvalidIP, ip)
	}
}

func TestParseScanSummaryScenario(t *testing.T) {
	doc := `# Discovery scan 2024-03-01

## Devices
- [[10.0.0.1]]
- [[10.0.0.2]]
- [[10.0.0.3]]

## New Devices
- 10.0.0.3
`

	rec, err := ParseScanSummary("discovery_2024-03-01.md", doc)
	require.NoError(t, err)

	assert.Equal(t, "discovery", rec.ScanType)
	assert.Equal(t, "2024-03-01", rec.ScanDate)
	assert.Equal(t, 3, rec.DevicesFound)
	assert.Equal(t, 1, rec.NewDevices)
	assert.Equal(t, "discovery_2024-03-01.md", rec.ScanFile)
}

func TestParseScanSummaryNewDevicesLinked(t *testing.T) {
	doc := "- [[10.0.0.1]]\n- [[10.0.0.2]]\n- [[10.0.0.3]]\n\n## New Devices\n\n- [[10.0.0.3]]\n- [[10.0.0.4]] (printer)\n\nLater paragraph\n- 10.0.0.9\n"

	rec, err := ParseScanSummary("/data/fingerprint_2024-03-02.md", doc)
	require.NoError(t, err)

	assert.Equal(t, "fingerprint", rec.ScanType)
	assert.Equal(t, 5, rec.DevicesFound)
	assert.Equal(t, 2, rec.NewDevices)
	assert.Equal(t, "fingerprint_2024-03-02.md", rec.ScanFile)
}

func TestParseScanSummaryFallbackCount(t *testing.T) {
	doc := "Hosts up: 192.168.1.1, 192.168.1.20 and 192.168.1.20 again; gateway 192.168.1.254"

	rec, err := ParseScanSummary("vuln_2024-01-15.md", doc)
	require.NoError(t, err)

	assert.Equal(t, 4, rec.DevicesFound)
	assert.Zero(t, rec.NewDevices)
}

func TestParseScanSummaryCountsRepeatedLinks(t *testing.T) {
	doc := "- [[10.0.0.1]]\n- [[10.0.0.2]]\n- [[10.0.0.2]]\n- [[10.0.0.3]]\n"

	rec, err := ParseScanSummary("discovery_2024-03-01.md", doc)
	require.NoError(t, err)

	assert.Equal(t, 4, rec.DevicesFound)
	assert.Equal(t, 4, CountDevices(doc))
}

func TestParseScanSummaryNewDevicesStopsAtHeading(t *testing.T) {
	doc := "### new devices\n- 10.1.1.1\n* 10.1.1.2\n## Other\n- 10.1.1.3\n"

	assert.Equal(t, 2, CountNewDevices(doc))
	assert.Zero(t, CountNewDevices("## Devices\n- 10.1.1.1"))
}

func TestParseScanSummaryBadNames(t *testing.T) {
	tests := []struct {
		name string
		want error
	}{
		{name: "discovery.md", want: ErrInvalidScanName},
		{name: "discovery_2024-3-1.md", want: ErrInvalidScanName},
		{name: "discovery_2024-03-01", want: ErrInvalidScanName},
		{name: "discovery_2024-13-01.md", want: ErrInvalidScanDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScanSummary(tt.name, "")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseScanSummaryOtherExtension(t *testing.T) {
	rec, err := ParseScanSummary("custom-sweep_2024-05-05.txt", "")
	require.NoError(t, err)
	assert.Equal(t, "custom-sweep", rec.ScanType)
	assert.Zero(t, rec.DevicesFound)
}
