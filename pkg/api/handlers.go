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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/netip"

	"github.com/gorilla/mux"

	"github.com/carverauto/nmapping/pkg/db"
	"github.com/carverauto/nmapping/pkg/models"
	"github.com/carverauto/nmapping/pkg/sync"
	"github.com/carverauto/nmapping/pkg/version"
)

const maxNotesBody = 64 << 10

func (s *APIServer) projectInfo() models.ProjectInfo {
	return models.ProjectInfo{
		Name:        ProjectName,
		Version:     version.GetVersion(),
		Description: ProjectDescription,
	}
}

// dashboardData loads devices, recent scans and their statistics.
func (s *APIServer) dashboardData(ctx context.Context) (*models.DashboardData, error) {
	data := &models.DashboardData{
		Devices:     []*models.DeviceRecord{},
		RecentScans: []*models.ScanSummaryRecord{},
		ProjectInfo: s.projectInfo(),
	}

	devices, err := s.store.ListDevices(ctx)
	if err != nil {
		data.Stats = models.ComputeStats(nil, s.now())
		return data, err
	}

	scans, err := s.store.ListRecentScans(ctx, recentScanLimit)
	if err != nil {
		data.Stats = models.ComputeStats(nil, s.now())
		return data, err
	}

	data.Devices = devices
	data.RecentScans = scans
	data.Stats = models.ComputeStats(devices, s.now())

	if s.syncer != nil {
		if last, _ := s.syncer.LastResult(); last != nil {
			data.LastSync = last
		}
	}

	return data, nil
}

func (s *APIServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := s.dashboardData(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Error getting dashboard data")

		data.Error = err.Error()
		s.encodeJSONResponse(w, http.StatusInternalServerError, data)

		return
	}

	s.encodeJSONResponse(w, http.StatusOK, data)
}

func (s *APIServer) handleStats(w http.ResponseWriter, r *http.Request) {
	devices, err := s.store.ListDevices(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing devices for stats")
		writeError(w, "Failed to load statistics", http.StatusInternalServerError)

		return
	}

	s.encodeJSONResponse(w, http.StatusOK, models.ComputeStats(devices, s.now()))
}

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:    "healthy",
		Project:   ProjectName,
		Version:   version.GetVersion(),
		Timestamp: s.now(),
		Database:  "ok",
	}

	if err := s.store.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
	}

	if s.syncer != nil {
		last, err := s.syncer.LastResult()
		resp.LastSync = last

		if err != nil {
			resp.SyncError = err.Error()
		}

		resp.Sync = s.syncer.Metrics()
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	s.encodeJSONResponse(w, status, resp)
}

// deviceIP returns the {ip} route variable, writing a 400 when it is not an IPv4 address.
func deviceIP(w http.ResponseWriter, r *http.Request) (string, bool) {
	ip := mux.Vars(r)["ip"]

	if addr, err := netip.ParseAddr(ip); err != nil || !addr.Is4() {
		writeError(w, "Invalid IP address", http.StatusBadRequest)
		return "", false
	}

	return ip, true
}

func (s *APIServer) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	ip, ok := deviceIP(w, r)
	if !ok {
		return
	}

	device, err := s.store.GetDevice(r.Context(), ip)
	if errors.Is(err, db.ErrDeviceNotFound) {
		writeError(w, "Device not found", http.StatusNotFound)
		return
	}

	if err != nil {
		s.logger.Error().Err(err).Str("ip", ip).Msg("Error fetching device")
		writeError(w, "Failed to fetch device", http.StatusInternalServerError)

		return
	}

	s.encodeJSONResponse(w, http.StatusOK, device)
}

func (s *APIServer) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	ip, ok := deviceIP(w, r)
	if !ok {
		return
	}

	var req models.NotesRequest

	if err := json.NewDecoder(io.LimitReader(r.Body, maxNotesBody)).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := s.store.UpdateDeviceNotes(r.Context(), ip, req.Notes)
	if errors.Is(err, db.ErrDeviceNotFound) {
		writeError(w, "Device not found", http.StatusNotFound)
		return
	}

	if err != nil {
		s.logger.Error().Err(err).Str("ip", ip).Msg("Error updating device notes")
		writeError(w, "Failed to update notes", http.StatusInternalServerError)

		return
	}

	device, err := s.store.GetDevice(r.Context(), ip)
	if err != nil {
		s.logger.Error().Err(err).Str("ip", ip).Msg("Error fetching device after notes update")
		writeError(w, "Failed to fetch device", http.StatusInternalServerError)

		return
	}

	s.encodeJSONResponse(w, http.StatusOK, device)
}

func (s *APIServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.syncer == nil {
		writeError(w, "Sync service not configured", http.StatusServiceUnavailable)
		return
	}

	// the cycle outlives the request
	result, err := s.syncer.RunOnce(context.WithoutCancel(r.Context()), sync.TriggerAPI)
	if err != nil {
		s.logger.Error().Err(err).Msg("On-demand sync failed")

		s.encodeJSONResponse(w, http.StatusInternalServerError, models.RefreshResponse{
			Success: false,
			Message: err.Error(),
			Result:  result,
		})

		return
	}

	s.encodeJSONResponse(w, http.StatusOK, models.RefreshResponse{
		Success: true,
		Message: ProjectName + " data refreshed successfully",
		Result:  result,
	})
}

func (s *APIServer) handleReprocess(w http.ResponseWriter, r *http.Request) {
	ip, ok := deviceIP(w, r)
	if !ok {
		return
	}

	if s.syncer == nil {
		writeError(w, "Sync service not configured", http.StatusServiceUnavailable)
		return
	}

	res := s.syncer.Reprocess(r.Context(), ip+".md")

	if res.Failure != nil {
		failure := res.Failure.SyncFailure()

		status := http.StatusUnprocessableEntity
		if res.Failure.Kind == models.FailureRead && errors.Is(res.Failure, fs.ErrNotExist) {
			status = http.StatusNotFound
		}

		s.encodeJSONResponse(w, status, models.ReprocessResponse{Success: false, Failure: &failure})

		return
	}

	s.SyncCompleted(r.Context(), nil)

	s.encodeJSONResponse(w, http.StatusOK, models.ReprocessResponse{Success: true, Device: res.Device})
}

func (s *APIServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	var initial *Message

	if data, err := s.dashboardData(r.Context()); err == nil {
		initial = &Message{Type: MessageTypeDashboardUpdate, Data: data, Timestamp: s.now()}
	} else {
		s.logger.Warn().Err(err).Msg("Connecting WebSocket client without initial snapshot")
	}

	if err := s.hub.Serve(w, r, initial); err != nil {
		s.logger.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Str("origin", r.Header.Get("Origin")).
			Msg("Failed to upgrade to WebSocket")
	}
}
