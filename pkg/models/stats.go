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

// ProjectInfo identifies the running dashboard.
type ProjectInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// DashboardStats holds per-status device counts.
type DashboardStats struct {
	TotalDevices    int       `json:"total_devices"`
	OnlineDevices   int       `json:"online_devices"`
	OfflineDevices  int       `json:"offline_devices"`
	RecentlySeen    int       `json:"recently_seen"`
	InactiveDevices int       `json:"inactive_devices"`
	UnknownDevices  int       `json:"unknown_devices"`
	LastUpdated     time.Time `json:"last_updated"`
}

// DashboardData is the payload served to dashboard clients.
type DashboardData struct {
	Devices     []*DeviceRecord      `json:"devices"`
	RecentScans []*ScanSummaryRecord `json:"recent_scans"`
	Stats       DashboardStats       `json:"stats"`
	ProjectInfo ProjectInfo          `json:"project_info"`
	LastSync    *SyncResult          `json:"last_sync,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// ComputeStats tallies devices by status. Records with an unrecognized status count as unknown.
func ComputeStats(devices []*DeviceRecord, now time.Time) DashboardStats {
	stats := DashboardStats{
		TotalDevices: len(devices),
		LastUpdated:  now,
	}

	for _, d := range devices {
		if d == nil {
			continue
		}

		switch d.Status {
		case DeviceStatusOnline:
			stats.OnlineDevices++
		case DeviceStatusOffline:
			stats.OfflineDevices++
		case DeviceStatusRecentlySeen:
			stats.RecentlySeen++
		case DeviceStatusInactive:
			stats.InactiveDevices++
		default:
			stats.UnknownDevices++
		}
	}

	return stats
}
