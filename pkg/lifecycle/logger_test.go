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

package lifecycle

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/nmapping/pkg/logger"
)

func TestCreateComponentLogger(t *testing.T) {
	l, err := CreateComponentLogger("sync", &logger.Config{Level: "warn", Output: "stderr"})
	require.NoError(t, err)

	impl, ok := l.(*LoggerImpl)
	require.True(t, ok)
	assert.Equal(t, zerolog.WarnLevel, impl.logger.GetLevel())

	l.SetLevel(zerolog.ErrorLevel)
	assert.Equal(t, zerolog.ErrorLevel, impl.logger.GetLevel())
}

func TestCreateComponentLoggerBadLevel(t *testing.T) {
	_, err := CreateComponentLogger("sync", &logger.Config{Level: "loud"})
	require.Error(t, err)
}

func TestInitializeLoggerNilConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	require.NoError(t, InitializeLogger(nil))
	assert.Equal(t, zerolog.ErrorLevel, logger.GetLogger().GetLevel())
}
