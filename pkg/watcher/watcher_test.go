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

package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/nmapping/pkg/sync"
)

type triggerRecorder struct {
	reasons chan string
}

func (r *triggerRecorder) Trigger(reason string) {
	r.reasons <- reason
}

func startWatcher(t *testing.T, root string, debounce time.Duration) *triggerRecorder {
	t.Helper()

	rec := &triggerRecorder{reasons: make(chan string, 16)}

	w, err := New(root, debounce, rec, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		_ = w.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})

	return rec
}

func TestWatcherTriggersOnMarkdownWrite(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Devices"), 0o755))

	rec := startWatcher(t, root, 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "Devices", "192.168.1.10.md"), []byte("# Device"), 0o600))
	}

	select {
	case reason := <-rec.reasons:
		assert.Equal(t, sync.TriggerWatch, reason)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a watch trigger")
	}

	select {
	case <-rec.reasons:
		t.Fatal("burst of writes should coalesce into one trigger")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	rec := startWatcher(t, root, 50*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "HEAD.md"), []byte("x"), 0o600))

	select {
	case reason := <-rec.reasons:
		t.Fatalf("unexpected trigger %q", reason)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	rec := startWatcher(t, root, 50*time.Millisecond)

	scans := filepath.Join(root, "Scans")
	require.NoError(t, os.MkdirAll(scans, 0o755))

	select {
	case <-rec.reasons:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a trigger for the new directory")
	}

	// give the watcher time to register the directory before writing into it
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(scans, "Discovery Scan 2025-03-01.md"), []byte("# Scan"), 0o600))

	select {
	case <-rec.reasons:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a trigger for a file in the new directory")
	}
}

func TestNewRequiresTarget(t *testing.T) {
	_, err := New(t.TempDir(), time.Second, nil, nil)
	require.ErrorIs(t, err, errNilTarget)
}

func TestIsHidden(t *testing.T) {
	root := filepath.Join("/", "vault")

	assert.False(t, isHidden(root, root))
	assert.False(t, isHidden(root, filepath.Join(root, "Devices", "a.md")))
	assert.True(t, isHidden(root, filepath.Join(root, ".obsidian", "a.md")))
	assert.True(t, isHidden(root, filepath.Join(root, "Devices", ".a.md.swp")))
}

func TestIsMarkdown(t *testing.T) {
	assert.True(t, isMarkdown("a.md"))
	assert.True(t, isMarkdown("B.MD"))
	assert.False(t, isMarkdown("a.txt"))
	assert.False(t, isMarkdown("md"))
}
