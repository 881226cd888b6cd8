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

// Package main runs the nMapping+ dashboard: storage, the background sync service, the
// source-directory watcher and the HTTP/WebSocket API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/nmapping/pkg/api"
	"github.com/carverauto/nmapping/pkg/config"
	"github.com/carverauto/nmapping/pkg/db"
	"github.com/carverauto/nmapping/pkg/lifecycle"
	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
	"github.com/carverauto/nmapping/pkg/natsutil"
	"github.com/carverauto/nmapping/pkg/sync"
	"github.com/carverauto/nmapping/pkg/version"
	"github.com/carverauto/nmapping/pkg/watcher"
)

var (
	errFailedToLoadConfig = errors.New("failed to load config")
)

const natsBreakerName = "nats"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/nmapping/dashboard.json", "Path to dashboard config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgLoader := config.NewConfig(nil)

	var cfg models.DashboardConfig

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	dashLogger, err := lifecycle.CreateComponentLogger("dashboard", cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if safe, err := config.SanitizeForLog(&cfg); err == nil {
		dashLogger.Debug().RawJSON("config", safe).Msg("Loaded configuration")
	}

	dashLogger.Info().Str("version", version.GetFullVersion()).Msg("Starting nMapping+ dashboard")

	store, err := db.New(ctx, &cfg.Database, dashLogger)
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(); err != nil {
			dashLogger.Error().Err(err).Msg("Error closing database")
		}
	}()

	metrics := sync.NewInMemoryMetrics(dashLogger)
	syncer := sync.NewSyncer(store, nil, dashLogger, sync.WithWorkers(cfg.Workers))

	opts := []sync.ServiceOption{sync.WithMetrics(metrics)}

	if cfg.Git.Enabled {
		opts = append(opts, sync.WithPuller(sync.NewGitPuller(cfg.Git, cfg.SourceDir, dashLogger)))
	}

	if cfg.NATS != nil && cfg.NATS.URL != "" {
		publisher, closeNATS, err := connectPublisher(ctx, cfg.NATS, metrics, dashLogger)
		if err != nil {
			return err
		}

		defer closeNATS()

		opts = append(opts, sync.WithPublisher(publisher))
	}

	svc := sync.NewService(syncer, cfg.SourceDir, time.Duration(cfg.SyncInterval), dashLogger, opts...)

	server := api.NewAPIServer(store, cfg.CORS,
		api.WithSyncService(svc),
		api.WithAPIKey(cfg.APIKey),
		api.WithLogger(dashLogger),
	)
	svc.AddListener(server)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := svc.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		return nil
	})

	if cfg.Watch.Enabled {
		w, err := watcher.New(cfg.SourceDir, time.Duration(cfg.Watch.Debounce), svc, dashLogger)
		if err != nil {
			return err
		}

		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	g.Go(func() error {
		return server.Start(gctx, cfg.ListenAddr)
	})

	err = g.Wait()

	dashLogger.Info().Msg("Dashboard stopped")

	return err
}

func connectPublisher(
	ctx context.Context, cfg *models.NATSConfig, metrics sync.Metrics, log logger.Logger,
) (sync.Publisher, func(), error) {
	events, nc, err := natsutil.ConnectWithEventPublisher(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("url", cfg.URL).Str("subject", cfg.Subject).Msg("Publishing sync events to NATS")

	publisher := sync.NewCircuitBreakerPublisher(events, natsBreakerName, sync.DefaultCircuitBreakerConfig(), metrics, log)

	return publisher, nc.Close, nil
}
