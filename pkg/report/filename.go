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

// Package report turns device and scan-summary documents into storage records.
package report

import (
	"net/netip"
	"regexp"
	"strings"
)

// Kind tags a document by the record it produces.
type Kind int

const (
	KindIgnored Kind = iota
	KindDevice
	KindScanSummary
)

func (k Kind) String() string {
	switch k {
	case KindDevice:
		return "device"
	case KindScanSummary:
		return "scan_summary"
	default:
		return "ignored"
	}
}

// ScanTypes are the scan-summary prefixes produced by the scanner.
var ScanTypes = []string{"discovery", "fingerprint", "vuln"}

var (
	deviceFileRe = regexp.MustCompile(`^(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})\.md$`)
	scanFileRe   = regexp.MustCompile(`^(` + strings.Join(ScanTypes, "|") + `)_(\d{4}-\d{2}-\d{2})\.md$`)
)

// Document is a classified source file name. IP is set for KindDevice; ScanType and ScanDate
// for KindScanSummary.
type Document struct {
	Name     string
	Kind     Kind
	IP       string
	ScanType string
	ScanDate string
}

// ClassifyFilename decides which parser, if any, handles name. The device and scan patterns
// cannot both match. A dotted-quad name that is not an IPv4 address, such as 999.0.0.1.md,
// is ignored rather than handed to the device builder.
func ClassifyFilename(name string) Document {
	doc := Document{Name: name, Kind: KindIgnored}

	if m := deviceFileRe.FindStringSubmatch(name); m != nil {
		if addr, err := netip.ParseAddr(m[1]); err != nil || !addr.Is4() {
			return doc
		}

		doc.Kind = KindDevice
		doc.IP = m[1]

		return doc
	}

	if m := scanFileRe.FindStringSubmatch(name); m != nil {
		doc.Kind = KindScanSummary
		doc.ScanType = m[1]
		doc.ScanDate = m[2]
	}

	return doc
}
