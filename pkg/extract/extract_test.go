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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deviceDoc = `# 10.0.0.5

**MAC:** AA:BB:CC:DD:EE:FF
**Vendor:** Acme
**Hostname:** Unknown
**First Seen:** 2024-02-01
**Last Seen:** 2024-03-01 10:22:01

## OS & Services

- OS: Linux 5.x
- 22/tcp open  ssh
- not a service line
- Port 8080 (http-proxy)

### Notes

- banner: OpenSSH

## Vulnerabilities

- CVE-2023-0001

` + "```" + `
## not a heading
` + "```" + `
`

func TestField(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label string
		want  string
	}{
		{name: "simple", text: deviceDoc, label: "MAC", want: "AA:BB:CC:DD:EE:FF"},
		{name: "case insensitive label", text: "**vendor:** Acme", label: "Vendor", want: "Acme"},
		{name: "placeholder", text: deviceDoc, label: "Hostname", want: ""},
		{name: "lowercase placeholder kept", text: "**Hostname:** unknown", label: "Hostname", want: "unknown"},
		{name: "missing", text: deviceDoc, label: "Serial", want: ""},
		{name: "bold value", text: "**Vendor:** **Acme Corp**", label: "Vendor", want: "Acme Corp"},
		{name: "first match wins", text: "**Vendor:** First\n**Vendor:** Second", label: "Vendor", want: "First"},
		{name: "value keeps time", text: deviceDoc, label: "Last Seen", want: "2024-03-01 10:22:01"},
		{name: "empty value does not span lines", text: "**MAC:**\n**Vendor:** Acme", label: "MAC", want: ""},
		{name: "crlf", text: "**MAC:** 00:11:22:33:44:55\r\n", label: "MAC", want: "00:11:22:33:44:55"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Field(tt.text, LabelPattern(tt.label)))
		})
	}
}

func TestFieldNilPattern(t *testing.T) {
	assert.Empty(t, Field(deviceDoc, nil))
}

func TestSection(t *testing.T) {
	got := Section(deviceDoc, HeadingPattern("## OS & Services"))

	assert.Equal(t, "## OS & Services\n\n- OS: Linux 5.x\n- 22/tcp open  ssh\n- not a service line\n"+
		"- Port 8080 (http-proxy)\n\n### Notes\n\n- banner: OpenSSH", got)
}

func TestSectionRunsToEndIgnoringFencedHeadings(t *testing.T) {
	got := Section(deviceDoc, HeadingPattern("## Vulnerabilities"))

	assert.Contains(t, got, "CVE-2023-0001")
	assert.Contains(t, got, "## not a heading")
}

func TestSectionMissing(t *testing.T) {
	assert.Empty(t, Section(deviceDoc, HeadingPattern("## Open Ports")))
	assert.Empty(t, Section("", HeadingPattern("## OS & Services")))
	assert.Empty(t, Section(deviceDoc, nil))
}

func TestSectionEmptyBody(t *testing.T) {
	doc := "## OS & Services\n## Vulnerabilities\n- none"

	assert.Equal(t, "## OS & Services", Section(doc, HeadingPattern("## OS & Services")))
}

func TestSectionCaseInsensitive(t *testing.T) {
	doc := "## os & services\n22/tcp open\n# Top"

	assert.Equal(t, "## os & services\n22/tcp open", Section(doc, HeadingPattern("## OS & Services")))
}

func TestHeadingLevel(t *testing.T) {
	assert.Equal(t, 2, headingLevel("## Title"))
	assert.Equal(t, 1, headingLevel("   # Title"))
	assert.Equal(t, 0, headingLevel("#hashtag"))
	assert.Equal(t, 0, headingLevel("    # indented code"))
	assert.Equal(t, 0, headingLevel("####### too deep"))
	assert.Equal(t, 3, headingLevel("###"))
}

func TestServices(t *testing.T) {
	section := Section(deviceDoc, HeadingPattern("## OS & Services"))

	assert.Equal(t, "- 22/tcp open  ssh\n- Port 8080 (http-proxy)", Services(section))
}

func TestServicesFormats(t *testing.T) {
	section := "53/UDP Filtered domain\n443/tcp closed\n80/sctp open\nport 25\nPorts: none\n  161/udp open snmp  "

	assert.Equal(t, "53/UDP Filtered domain\n443/tcp closed\nport 25\n161/udp open snmp", Services(section))
	assert.Empty(t, Services(""))
}

func TestSplitFrontMatter(t *testing.T) {
	text := "---\nmac: 00:11:22:33:44:55\nfirst_seen: 2024-01-02\ntags: [a, b]\n---\n**Vendor:** Acme\n"

	meta, body, err := SplitFrontMatter(text)
	require.NoError(t, err)

	assert.Equal(t, "**Vendor:** Acme\n", body)
	assert.Equal(t, "00:11:22:33:44:55", MetaString(meta, "mac"))
	assert.Equal(t, "2024-01-02", MetaString(meta, "first_seen"))
	assert.Empty(t, MetaString(meta, "tags"))
	assert.Empty(t, MetaString(meta, "missing"))
}

func TestSplitFrontMatterAbsent(t *testing.T) {
	meta, body, err := SplitFrontMatter(deviceDoc)
	require.NoError(t, err)
	assert.Nil(t, meta)
	assert.Equal(t, deviceDoc, body)
}

func TestSplitFrontMatterMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "unterminated", text: "---\nmac: x\n**MAC:** y", want: ErrUnterminatedFrontMatter},
		{name: "not yaml", text: "---\nmac: [unclosed\n---\nbody", want: ErrInvalidFrontMatter},
		{name: "scalar", text: "---\njust text\n---\nbody", want: ErrInvalidFrontMatter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, err := SplitFrontMatter(tt.text)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, meta)
			assert.Equal(t, tt.text, body)
		})
	}
}

func TestMetaStringPlaceholder(t *testing.T) {
	meta := map[string]any{"vendor": "Unknown", "port": 22}

	assert.Empty(t, MetaString(meta, "vendor"))
	assert.Equal(t, "22", MetaString(meta, "port"))
}
