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

package models

import "time"

// DeviceStatus is the freshness classification derived from a device's last-seen date.
type DeviceStatus string

const (
	DeviceStatusUnknown      DeviceStatus = "unknown"
	DeviceStatusOnline       DeviceStatus = "online"
	DeviceStatusRecentlySeen DeviceStatus = "recently_seen"
	DeviceStatusInactive     DeviceStatus = "inactive"
	DeviceStatusOffline      DeviceStatus = "offline"
)

// AllDeviceStatuses lists every status in display order.
var AllDeviceStatuses = []DeviceStatus{
	DeviceStatusOnline,
	DeviceStatusRecentlySeen,
	DeviceStatusInactive,
	DeviceStatusOffline,
	DeviceStatusUnknown,
}

// Valid reports whether s is one of the known statuses.
func (s DeviceStatus) Valid() bool {
	for _, known := range AllDeviceStatuses {
		if s == known {
			return true
		}
	}

	return false
}

// DeviceRecord is the normalized form of one device document. IP is the natural key.
//
// Every field except Notes and CreatedAt is derived from the source document and is
// replaced on each sync. Notes is owned by users of the dashboard.
type DeviceRecord struct {
	IP              string       `json:"ip"`
	MAC             string       `json:"mac"`
	Vendor          string       `json:"vendor"`
	Hostname        string       `json:"hostname"`
	FirstSeen       string       `json:"first_seen"`
	LastSeen        string       `json:"last_seen"`
	Status          DeviceStatus `json:"status"`
	OSInfo          string       `json:"os_info"`
	Services        string       `json:"services"`
	Vulnerabilities string       `json:"vulnerabilities"`
	Notes           string       `json:"notes"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ScanSummaryRecord describes one scan run, keyed by (ScanType, ScanDate).
type ScanSummaryRecord struct {
	ScanType     string    `json:"scan_type"`
	ScanDate     string    `json:"scan_date"`
	DevicesFound int       `json:"devices_found"`
	NewDevices   int       `json:"new_devices"`
	ScanFile     string    `json:"scan_file"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
