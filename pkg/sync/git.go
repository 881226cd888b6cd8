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

package sync

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
)

const defaultPullTimeout = 60 * time.Second

// GitPuller updates a git checkout of the report repository.
type GitPuller struct {
	binary  string
	dir     string
	remote  string
	branch  string
	timeout time.Duration
	logger  logger.Logger
}

// NewGitPuller returns a Puller running `git pull` inside dir.
func NewGitPuller(cfg models.GitConfig, dir string, log logger.Logger) *GitPuller {
	g := &GitPuller{
		binary:  cfg.Binary,
		dir:     dir,
		remote:  cfg.Remote,
		branch:  cfg.Branch,
		timeout: time.Duration(cfg.Timeout),
		logger:  log,
	}

	if g.binary == "" {
		g.binary = "git"
	}

	if g.timeout <= 0 {
		g.timeout = defaultPullTimeout
	}

	return g
}

func (g *GitPuller) args() []string {
	args := []string{"pull"}

	if g.remote != "" {
		args = append(args, g.remote)

		if g.branch != "" {
			args = append(args, g.branch)
		}
	}

	return args
}

// Pull implements Puller.
func (g *GitPuller) Pull(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	args := g.args()

	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = g.dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s", g.binary, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}

	g.logger.Debug().
		Str("dir", g.dir).
		Str("output", strings.TrimSpace(string(out))).
		Msg("Source pulled")

	return nil
}
