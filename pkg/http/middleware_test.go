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

// pkg/http/middleware_test.go
package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
)

func okHandler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte("OK"))
		if err != nil {
			t.Errorf("Error writing response: %v", err)
		}
	})
}

func TestCommonMiddleware_CORS(t *testing.T) {
	log := logger.NewTestLogger()

	corsConfig := models.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
	}

	handler := CommonMiddleware(okHandler(t), corsConfig, log)

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")

	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("CORS origin not set correctly: got %v", rr.Header().Get("Access-Control-Allow-Origin"))
	}

	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Errorf("credentials header missing")
	}

	// Test unallowed origin
	req = httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	req.Header.Set("Origin", "http://evil.com")

	rr = httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") == "http://evil.com" {
		t.Errorf("CORS allowed an unpermitted origin")
	}
}

func TestCommonMiddleware_PreflightShortCircuits(t *testing.T) {
	called := false

	handler := CommonMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}), models.CORSConfig{}, logger.NewTestLogger())

	req := httptest.NewRequest(http.MethodOptions, "/api/refresh", http.NoBody)
	req.Header.Set("Origin", "http://anywhere.example")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || called {
		t.Errorf("preflight: code=%d called=%v", rr.Code, called)
	}

	if rr.Header().Get("Access-Control-Allow-Origin") != "http://anywhere.example" {
		t.Errorf("open CORS config should echo the origin")
	}
}

func TestAPIKeyMiddleware_Unauthorized(t *testing.T) {
	log := logger.NewTestLogger()

	opts := APIKeyOptions{
		APIKey:          "test-key",
		ExcludePaths:    []string{"/health"},
		LogUnauthorized: true,
		Logger:          log,
	}

	handler := APIKeyMiddlewareWithOptions(opts)(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/test", http.NoBody)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusUnauthorized {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rr = httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("excluded path: got %v want %v", status, http.StatusOK)
	}
}

func TestAPIKeyMiddleware_Authorized(t *testing.T) {
	handler := APIKeyMiddleware("test-key", logger.NewTestLogger())(okHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", http.NoBody)
	req.Header.Set(APIKeyHeader, "test-key")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("header key: got %v want %v", rr.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/refresh?api_key=test-key", http.NoBody)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("query key: got %v want %v", rr.Code, http.StatusOK)
	}
}

func TestAPIKeyMiddleware_DisabledWithoutKey(t *testing.T) {
	handler := APIKeyMiddleware("", logger.NewTestLogger())(okHandler(t))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/device/10.0.0.1/notes", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Errorf("got %v want %v", rr.Code, http.StatusOK)
	}
}
