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

import "errors"

var (
	ErrInvalidIP          = errors.New("not a valid IPv4 address")
	ErrInvalidScanName    = errors.New("scan summary filename must be <type>_<YYYY-MM-DD>.<ext>")
	ErrInvalidScanDate    = errors.New("scan summary filename carries an invalid date")
	ErrUnsupportedDocType = errors.New("unsupported document kind")
)
