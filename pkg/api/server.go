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

// Package api provides the HTTP API server for the nMapping+ dashboard
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	srHttp "github.com/carverauto/nmapping/pkg/http"
	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
)

const (
	ProjectName        = "nMapping+"
	ProjectDescription = "Self-hosted network mapping with real-time web dashboard"

	recentScanLimit = 10

	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 2 * time.Minute
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// APIServer serves the dashboard JSON API and the live-update WebSocket.
type APIServer struct {
	router     *mux.Router
	handler    http.Handler
	store      Store
	syncer     SyncService
	hub        *Hub
	corsConfig models.CORSConfig
	apiKey     string
	logger     logger.Logger
	now        func() time.Time
}

// NewAPIServer creates a new API server instance with the given configuration
func NewAPIServer(store Store, config models.CORSConfig, options ...func(server *APIServer)) *APIServer {
	s := &APIServer{
		router:     mux.NewRouter(),
		store:      store,
		corsConfig: config,
		logger:     logger.NewTestLogger(),
		now:        time.Now,
	}

	for _, o := range options {
		o(s)
	}

	s.hub = NewHub(s.checkWebSocketOrigin, s.logger)
	s.setupRoutes()

	return s
}

// WithSyncService enables the refresh and reprocess endpoints.
func WithSyncService(svc SyncService) func(*APIServer) {
	return func(server *APIServer) {
		server.syncer = svc
	}
}

// WithAPIKey requires key on mutating endpoints.
func WithAPIKey(key string) func(*APIServer) {
	return func(server *APIServer) {
		server.apiKey = key
	}
}

// WithLogger sets the logger for the API server
func WithLogger(log logger.Logger) func(*APIServer) {
	return func(server *APIServer) {
		server.logger = log
	}
}

// setupRoutes configures the HTTP routes for the API server.
func (s *APIServer) setupRoutes() {
	s.router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/device/{ip}", s.handleGetDevice).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(srHttp.APIKeyMiddleware(s.apiKey, s.logger))
	protected.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost, http.MethodGet)
	protected.HandleFunc("/device/{ip}/notes", s.handleUpdateNotes).Methods(http.MethodPut)
	protected.HandleFunc("/device/{ip}/reprocess", s.handleReprocess).Methods(http.MethodPost)

	// CORS wraps the router so preflight requests never reach method matching.
	s.handler = srHttp.CommonMiddleware(s.router, s.corsConfig, s.logger)
}

func (s *APIServer) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	return srHttp.OriginAllowed(origin, s.corsConfig.AllowedOrigins)
}

// Handler returns the root HTTP handler.
func (s *APIServer) Handler() http.Handler {
	return s.handler
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *APIServer) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  defaultReadTimeout,  // Timeout for reading the entire request, including the body.
		WriteTimeout: defaultWriteTimeout, // Refresh runs a full sync cycle inside the request.
		IdleTimeout:  defaultIdleTimeout,  // Timeout for idle connections waiting in the Keep-Alive state.
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// SyncCompleted pushes fresh dashboard data to WebSocket clients after each cycle.
func (s *APIServer) SyncCompleted(ctx context.Context, result *models.SyncResult) {
	data, err := s.dashboardData(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load dashboard data for broadcast")
		return
	}

	if result != nil {
		data.LastSync = result
	}

	s.hub.Broadcast(&Message{Type: MessageTypeDashboardUpdate, Data: data})
}

func (s *APIServer) encodeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("Error encoding response")
	}
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)

	errResponse := models.ErrorResponse{
		Message: message,
		Status:  statusCode,
	}

	if err := json.NewEncoder(w).Encode(errResponse); err != nil {
		// Fallback in case encoding fails
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
