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

package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/nmapping/pkg/models"
)

var errTestFixture = errors.New("fixture error")

type publishedMsg struct {
	subject string
	data    []byte
	opts    []jetstream.PublishOpt
}

type fakeJetStream struct {
	published []publishedMsg
	err       error
}

func (f *fakeJetStream) Publish(
	_ context.Context, subject string, data []byte, opts ...jetstream.PublishOpt,
) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.published = append(f.published, publishedMsg{subject: subject, data: data, opts: opts})

	return &jetstream.PubAck{Stream: "NMAPPING", Sequence: uint64(len(f.published))}, nil
}

func TestEnsureSubjectList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subjects []string
		subject  string
		want     []string
	}{
		{
			name:     "adds subject when list empty",
			subjects: nil,
			subject:  "nmapping.sync.completed",
			want:     []string{"nmapping.sync.completed"},
		},
		{
			name:     "keeps list when wildcard matches",
			subjects: []string{"nmapping.sync.*"},
			subject:  "nmapping.sync.completed",
			want:     []string{"nmapping.sync.*"},
		},
		{
			name:     "keeps list when greater wildcard matches",
			subjects: []string{"nmapping.>"},
			subject:  "nmapping.sync.completed",
			want:     []string{"nmapping.>"},
		},
		{
			name:     "appends when unmatched",
			subjects: []string{"nmapping.scan.*"},
			subject:  "nmapping.sync.completed",
			want:     []string{"nmapping.scan.*", "nmapping.sync.completed"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := ensureSubjectList(append([]string(nil), tc.subjects...), tc.subject)
			assert.Equal(t, tc.want, result)
		})
	}
}

func TestMatchesSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		subject  string
		expected bool
	}{
		{"exact match", "nmapping.sync.completed", "nmapping.sync.completed", true},
		{"single wildcard", "nmapping.*.completed", "nmapping.sync.completed", true},
		{"greater wildcard", "nmapping.>", "nmapping.sync.completed", true},
		{"greater wildcard needs a token", "nmapping.>", "nmapping", false},
		{"no match length", "nmapping.*", "nmapping.sync.completed", false},
		{"pattern longer than subject", "nmapping.sync.completed.x", "nmapping.sync.completed", false},
		{"no match tokens", "nmapping.scan.*", "nmapping.sync.completed", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := matchesSubject(tc.pattern, tc.subject); got != tc.expected {
				t.Fatalf("matchesSubject(%q, %q) = %t, want %t", tc.pattern, tc.subject, got, tc.expected)
			}
		})
	}
}

func TestIsStreamMissingErr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"jetstream no stream response", jetstream.ErrNoStreamResponse, true},
		{"jetstream stream not found", jetstream.ErrStreamNotFound, true},
		{"nats no stream response", nats.ErrNoStreamResponse, true},
		{"nats stream not found", nats.ErrStreamNotFound, true},
		{"nats no responders", nats.ErrNoResponders, true},
		{"other error", errTestFixture, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := isStreamMissingErr(tc.err); got != tc.expected {
				t.Fatalf("isStreamMissingErr(%v) = %t, want %t", tc.err, got, tc.expected)
			}
		})
	}
}

func TestPublishSyncCompleted(t *testing.T) {
	t.Parallel()

	js := &fakeJetStream{}
	publisher := NewEventPublisher(js, "NMAPPING", "nmapping.sync.completed", nil)

	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	result := &models.SyncResult{
		RunID:            "run-1",
		SourceDir:        "/data/vault",
		DevicesProcessed: 4,
		ScansProcessed:   2,
		Failures:         []models.SyncFailure{{File: "Devices/bad.md", Error: "missing ip"}},
		StartedAt:        started,
		FinishedAt:       started.Add(1500 * time.Millisecond),
	}

	require.NoError(t, publisher.PublishSyncCompleted(context.Background(), result))
	require.Len(t, js.published, 1)

	msg := js.published[0]
	assert.Equal(t, "nmapping.sync.completed", msg.subject)
	assert.Len(t, msg.opts, 1)

	var event struct {
		models.CloudEvent
		Data models.SyncCompletedEventData `json:"data"`
	}

	require.NoError(t, json.Unmarshal(msg.data, &event))
	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, SyncCompletedType, event.Type)
	assert.Equal(t, EventSource, event.Source)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "run-1", event.Data.RunID)
	assert.Equal(t, 4, event.Data.DevicesProcessed)
	assert.Equal(t, 2, event.Data.ScansProcessed)
	assert.Equal(t, 1, event.Data.Failures)
	assert.Equal(t, int64(1500), event.Data.DurationMs)
}

func TestPublishSyncCompletedErrors(t *testing.T) {
	t.Parallel()

	publisher := NewEventPublisher(&fakeJetStream{}, "NMAPPING", "nmapping.sync.completed", nil)
	require.Error(t, publisher.PublishSyncCompleted(context.Background(), nil))

	failing := NewEventPublisher(&fakeJetStream{err: errTestFixture}, "NMAPPING", "nmapping.sync.completed", nil)
	err := failing.PublishSyncCompleted(context.Background(), &models.SyncResult{RunID: "run-2"})
	require.ErrorIs(t, err, errTestFixture)
}

func TestTLSConfig(t *testing.T) {
	t.Parallel()

	cfg, err := TLSConfig(&models.NATSConfig{URL: "nats://localhost:4222"})
	require.NoError(t, err)
	assert.Nil(t, cfg)

	_, err = TLSConfig(&models.NATSConfig{
		URL: "tls://localhost:4222",
		TLS: &models.TLSConfig{CertFile: "client.pem"},
	})
	require.ErrorIs(t, err, ErrTLSIncomplete)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ca.pem"), []byte("not a certificate"), 0o600))

	_, err = TLSConfig(&models.NATSConfig{
		URL:     "tls://localhost:4222",
		CertDir: dir,
		TLS:     &models.TLSConfig{CertFile: "client.pem", KeyFile: "client-key.pem", CAFile: "ca.pem"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client certificate")
}

func TestConnectOptions(t *testing.T) {
	t.Parallel()

	opts, err := ConnectOptions(&models.NATSConfig{URL: "nats://localhost:4222", CredsFile: "/etc/nats/user.creds"}, nil)
	require.NoError(t, err)

	var o nats.Options
	for _, opt := range opts {
		require.NoError(t, opt(&o))
	}

	assert.Equal(t, connectionName, o.Name)
	assert.Equal(t, defaultConnectTimeout, o.Timeout)
	assert.Equal(t, -1, o.MaxReconnect)
	assert.NotNil(t, o.UserJWT)
	assert.Nil(t, o.TLSConfig)
}
