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

package db

import "errors"

var (

	// Core database errors.

	ErrDatabaseError = errors.New("database error")
	ErrNilRecord     = errors.New("record is nil")

	// Operation errors.

	ErrFailedToScan    = errors.New("failed to scan")
	ErrFailedToQuery   = errors.New("failed to query")
	ErrFailedToInsert  = errors.New("failed to insert")
	ErrFailedToUpdate  = errors.New("failed to update")
	ErrFailedToInit    = errors.New("failed to initialize schema")
	ErrFailedOpenDB    = errors.New("failed to open database")
	ErrDeviceNotFound  = errors.New("device not found")
	ErrUnsupportedType = errors.New("unsupported database type")

	// CNPG connection errors.

	ErrCNPGConfigMissing = errors.New("cnpg: connection config is required")
	ErrCNPGTLSDisabled   = errors.New("cnpg: tls configured but sslmode is disable")
	ErrCNPGTLSIncomplete = errors.New("cnpg tls: cert_file, key_file, and ca_file are required")
)
