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

	"github.com/carverauto/nmapping/pkg/models"
)

// ParseFailure describes why one document produced no record.
type ParseFailure struct {
	File string
	Kind models.FailureKind
	Err  error
}

func (f *ParseFailure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.File, f.Kind, f.Err)
}

func (f *ParseFailure) Unwrap() error {
	return f.Err
}

// SyncFailure converts the failure for reporting.
func (f *ParseFailure) SyncFailure() models.SyncFailure {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}

	return models.SyncFailure{File: f.File, Kind: f.Kind, Error: msg}
}

// Result is the outcome of processing one document: exactly one of Device, Scan or Failure is set.
type Result struct {
	Document Document
	Device   *models.DeviceRecord
	Scan     *models.ScanSummaryRecord
	Failure  *ParseFailure
}

// OK reports whether the document produced a record.
func (r Result) OK() bool {
	return r.Failure == nil && (r.Device != nil || r.Scan != nil)
}

// Failed builds a failed Result.
func Failed(doc Document, kind models.FailureKind, err error) Result {
	return Result{Document: doc, Failure: &ParseFailure{File: doc.Name, Kind: kind, Err: err}}
}

// Parse runs the builder or parser that matches doc over text.
func Parse(b *DeviceBuilder, doc Document, text string) Result {
	switch doc.Kind {
	case KindDevice:
		rec, err := b.Build(doc.IP, text)
		if err != nil {
			return Failed(doc, models.FailureParse, err)
		}

		return Result{Document: doc, Device: rec}
	case KindScanSummary:
		rec, err := ParseScanSummary(doc.Name, text)
		if err != nil {
			return Failed(doc, models.FailureParse, err)
		}

		return Result{Document: doc, Scan: rec}
	default:
		return Failed(doc, models.FailureParse, ErrUnsupportedDocType)
	}
}
