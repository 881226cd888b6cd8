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

// Package watcher turns file-system changes under the source directory into debounced
// sync triggers.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/sync"
)

var errNilTarget = errors.New("watcher target is nil")

// Triggerer receives a request for a sync cycle.
type Triggerer interface {
	Trigger(reason string)
}

// Watcher watches a directory tree for markdown changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	debounce time.Duration
	target   Triggerer
	logger   logger.Logger
}

// New creates a Watcher over root and every non-hidden directory below it.
func New(root string, debounce time.Duration, target Triggerer, log logger.Logger) (*Watcher, error) {
	if target == nil {
		return nil, errNilTarget
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		root:     root,
		debounce: debounce,
		target:   target,
		logger:   log,
	}

	if err := w.addTree(root); err != nil {
		_ = fsw.Close()

		return nil, err
	}

	return w, nil
}

// Run delivers one sync.TriggerWatch per burst of relevant events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Debug().Err(err).Msg("Error closing file watcher")
		}
	}()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn().Err(err).Msg("File watcher error")
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if w.handle(event) {
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			w.logger.Debug().Str("root", w.root).Msg("Source directory changed")
			w.target.Trigger(sync.TriggerWatch)
		}
	}
}

// handle reports whether event should (re)arm the debounce timer.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if isHidden(w.root, event.Name) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn().Err(err).Str("dir", event.Name).Msg("Failed to watch new directory")
			}

			return true
		}
	}

	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}

	return isMarkdown(event.Name)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != dir && isHidden(dir, path) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}

		return nil
	})
}

func isMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

// isHidden reports whether any element of path below root starts with a dot.
func isHidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}

	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != ".." {
			return true
		}
	}

	return false
}
