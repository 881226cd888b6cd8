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

package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/nmapping/pkg/models"
)

func TestSanitizeForLog_RemovesSensitiveFields(t *testing.T) {
	cfg := &models.DashboardConfig{
		SourceDir: "/data/scanner",
		APIKey:    "top-secret",
		Database: models.DatabaseConfig{
			Type: models.DatabaseTypePostgres,
			Postgres: &models.CNPGDatabase{
				Host:     "db",
				Database: "nmapping",
				Password: "hunter2",
			},
		},
	}

	data, err := SanitizeForLog(cfg)
	require.NoError(t, err)
	require.NotContains(t, string(data), "top-secret")
	require.NotContains(t, string(data), "hunter2")

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &result))

	require.Equal(t, "/data/scanner", result["source_dir"])
	require.NotContains(t, result, "api_key")

	db := result["database"].(map[string]interface{})
	pg := db["postgres"].(map[string]interface{})
	require.Equal(t, "db", pg["host"])
	require.NotContains(t, pg, "password")
}

func TestSanitizeForLog_KeepsNestedValues(t *testing.T) {
	cfg := &models.DashboardConfig{
		SourceDir:    "/data",
		SyncInterval: models.Duration(5 * time.Minute),
		CORS:         models.CORSConfig{AllowedOrigins: []string{"http://a"}},
		Database: models.DatabaseConfig{
			Type: models.DatabaseTypePostgres,
			Postgres: &models.CNPGDatabase{
				Host:               "db",
				Password:           "pw",
				ExtraRuntimeParams: map[string]string{"search_path": "nmapping"},
			},
		},
	}

	data, err := SanitizeForLog(cfg)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, "5m0s", result["sync_interval"])
	assert.NotContains(t, result, "nats")

	cors := result["cors"].(map[string]interface{})
	assert.Equal(t, []interface{}{"http://a"}, cors["allowed_origins"])

	pg := result["database"].(map[string]interface{})["postgres"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"search_path": "nmapping"}, pg["extra_runtime_params"])
	assert.NotContains(t, pg, "password")
}

func TestSanitizeForLog_Nil(t *testing.T) {
	data, err := SanitizeForLog(nil)
	require.NoError(t, err)
	require.Nil(t, data)

	var cfg *models.DashboardConfig

	data, err = SanitizeForLog(cfg)
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestSanitizeForLog_RejectsScalars(t *testing.T) {
	_, err := SanitizeForLog("plain")
	require.ErrorIs(t, err, errSanitizeNotStruct)
}
