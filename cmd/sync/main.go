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

// Package main runs a single sync pass over the source directory and prints the result.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/carverauto/nmapping/pkg/config"
	"github.com/carverauto/nmapping/pkg/db"
	"github.com/carverauto/nmapping/pkg/lifecycle"
	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
	"github.com/carverauto/nmapping/pkg/sync"
)

var (
	errFailedToLoadConfig = errors.New("failed to load config")
	errDocumentsFailed    = errors.New("one or more documents failed")
)

func main() {
	if err := run(); err != nil {
		log.Printf("sync failed: %v", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/nmapping/dashboard.json", "Path to dashboard config file")
	pull := flag.Bool("pull", false, "Pull the source directory with git before syncing")
	strict := flag.Bool("strict", false, "Exit non-zero when any document fails")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg models.DashboardConfig

	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	// stdout carries the result document
	logCfg := cfg.Logging
	if logCfg == nil {
		logCfg = logger.DefaultConfig()
	}

	logCfg.Output = "stderr"

	syncLogger, err := lifecycle.CreateComponentLogger("sync", logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := db.New(ctx, &cfg.Database, syncLogger)
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(); err != nil {
			syncLogger.Error().Err(err).Msg("Error closing database")
		}
	}()

	if *pull {
		if err := sync.NewGitPuller(cfg.Git, cfg.SourceDir, syncLogger).Pull(ctx); err != nil {
			return err
		}
	}

	syncer := sync.NewSyncer(store, nil, syncLogger, sync.WithWorkers(cfg.Workers))

	result, syncErr := syncer.SyncAll(ctx, cfg.SourceDir)
	if result != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	}

	if syncErr != nil {
		return syncErr
	}

	if *strict && result.FailureCount() > 0 {
		return fmt.Errorf("%w: %d", errDocumentsFailed, result.FailureCount())
	}

	return nil
}
