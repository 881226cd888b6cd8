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

// Package natsutil publishes sync events to NATS JetStream.
package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
)

const (
	EventSource           = "nmapping/dashboard"
	SyncCompletedType     = "com.carverauto.nmapping.sync.completed"
	cloudEventsSpec       = "1.0"
	defaultConnectTimeout = 10 * time.Second
	connectionName        = "nmapping-dashboard"
)

var errNilResult = errors.New("sync result is nil")

// jsPublisher is the slice of jetstream.JetStream the publisher needs.
type jsPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// EventPublisher provides methods for publishing CloudEvents to NATS JetStream.
type EventPublisher struct {
	js      jsPublisher
	stream  string
	subject string
	logger  logger.Logger
}

// NewEventPublisher creates a new EventPublisher that publishes on subject.
func NewEventPublisher(js jsPublisher, streamName, subject string, log logger.Logger) *EventPublisher {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &EventPublisher{
		js:      js,
		stream:  streamName,
		subject: subject,
		logger:  log,
	}
}

// PublishSyncCompleted publishes a sync-completed CloudEvent. The event ID doubles as the
// JetStream message ID so retried publishes are de-duplicated.
func (p *EventPublisher) PublishSyncCompleted(ctx context.Context, result *models.SyncResult) error {
	if result == nil {
		return errNilResult
	}

	data := models.NewSyncCompletedEventData(result)
	ts := data.Timestamp

	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	event := models.CloudEvent{
		SpecVersion:     cloudEventsSpec,
		ID:              uuid.New().String(),
		Source:          EventSource,
		Type:            SyncCompletedType,
		DataContentType: "application/json",
		Subject:         p.subject,
		Time:            &ts,
		Data:            data,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal sync completed event: %w", err)
	}

	ack, err := p.js.Publish(ctx, p.subject, eventBytes, jetstream.WithMsgID(event.ID))
	if err != nil {
		return fmt.Errorf("failed to publish sync completed event: %w", err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("subject", p.subject).
		Str("stream", ack.Stream).
		Uint64("seq", ack.Sequence).
		Msg("Published sync completed event")

	return nil
}

// ConnectWithEventPublisher connects to cfg.URL, makes sure the stream captures cfg.Subject
// and returns a publisher plus the connection the caller must close.
func ConnectWithEventPublisher(
	ctx context.Context, cfg *models.NATSConfig, log logger.Logger, extraOpts ...nats.Option,
) (*EventPublisher, *nats.Conn, error) {
	opts, err := ConnectOptions(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	nc, err := nats.Connect(cfg.URL, append(opts, extraOpts...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if err := ensureStream(ctx, js, cfg.Stream, cfg.Subject); err != nil {
		nc.Close()
		return nil, nil, err
	}

	return NewEventPublisher(js, cfg.Stream, cfg.Subject, log), nc, nil
}

// ConnectOptions builds the nats.Option set for cfg: name, TLS, credentials and reconnect
// logging.
func ConnectOptions(cfg *models.NATSConfig, log logger.Logger) ([]nats.Option, error) {
	opts := []nats.Option{
		nats.Name(connectionName),
		nats.Timeout(defaultConnectTimeout),
		nats.MaxReconnects(-1),
	}

	if log != nil {
		opts = append(opts,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Warn().Err(err).Msg("NATS disconnected")
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
			}),
		)
	}

	tlsConfig, err := TLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	if tlsConfig != nil {
		opts = append(opts, nats.Secure(tlsConfig))
	}

	if cfg.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(cfg.CredsFile))
	}

	return opts, nil
}

func ensureStream(ctx context.Context, js jetstream.JetStream, streamName, subject string) error {
	stream, err := js.Stream(ctx, streamName)
	if err != nil {
		if !isStreamMissingErr(err) {
			return fmt.Errorf("failed to look up stream %s: %w", streamName, err)
		}

		_, err = js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     streamName,
			Subjects: []string{subject},
		})
		if err != nil {
			return fmt.Errorf("failed to create stream %s: %w", streamName, err)
		}

		return nil
	}

	cfg := stream.CachedInfo().Config
	subjects := ensureSubjectList(append([]string(nil), cfg.Subjects...), subject)

	if len(subjects) == len(cfg.Subjects) {
		return nil
	}

	cfg.Subjects = subjects

	if _, err := js.UpdateStream(ctx, cfg); err != nil {
		return fmt.Errorf("failed to add subject %s to stream %s: %w", subject, streamName, err)
	}

	return nil
}

// ensureSubjectList appends subject unless an existing pattern already captures it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, pattern := range subjects {
		if matchesSubject(pattern, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject applies NATS wildcard rules: '*' matches one token, '>' the rest.
func matchesSubject(pattern, subject string) bool {
	pTokens := strings.Split(pattern, ".")
	sTokens := strings.Split(subject, ".")

	for i, p := range pTokens {
		if p == ">" {
			return len(sTokens) > i
		}

		if i >= len(sTokens) {
			return false
		}

		if p != "*" && p != sTokens[i] {
			return false
		}
	}

	return len(pTokens) == len(sTokens)
}

func isStreamMissingErr(err error) bool {
	return errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrNoResponders)
}
