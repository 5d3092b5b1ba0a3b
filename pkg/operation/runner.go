// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/textswap/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📋 Job is one action over one document
type Job struct {
	Path    string
	Options Options
}

// 🏃 Runner performs one action per job and tracks the documents
type Runner struct {
	logger   *zerolog.Logger
	reporter status.StatusReporter
	async    bool
	limit    int
}

// 🏗️ NewRunner creates a new runner. With async, jobs run concurrently, each
// as an independent invocation.
func NewRunner(logger *zerolog.Logger, reporter status.StatusReporter, async bool) *Runner {
	return &Runner{
		logger:   logger,
		reporter: reporter,
		async:    async,
		limit:    8,
	}
}

// 🏃 Run performs every job. A failing job does not stop the others; their
// errors are joined. Outcomes are returned in job order.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]*Outcome, error) {
	ctx = r.logger.WithContext(ctx)

	r.reporter.StartOperation(ctx, len(jobs))
	defer r.reporter.FinishOperation(ctx)

	outcomes := make([]*Outcome, len(jobs))
	errs := make([]error, len(jobs))

	if r.async {
		r.runAsync(ctx, jobs, outcomes, errs)
	} else {
		r.runSync(ctx, jobs, outcomes, errs)
	}

	return outcomes, errors.Join(errs...)
}

// 🔄 runSync runs jobs one after the other
func (r *Runner) runSync(ctx context.Context, jobs []Job, outcomes []*Outcome, errs []error) {
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			errs[i] = errors.Errorf("%s: operation cancelled: %w", job.Path, err)
			continue
		}
		outcomes[i], errs[i] = r.runJob(ctx, job)
	}
}

// ⚡ runAsync runs jobs concurrently, at most limit at a time
func (r *Runner) runAsync(ctx context.Context, jobs []Job, outcomes []*Outcome, errs []error) {
	var g errgroup.Group
	g.SetLimit(r.limit)

	var mu sync.Mutex
	for i, job := range jobs {
		g.Go(func() error {
			outcome, err := r.runJob(ctx, job)
			mu.Lock()
			outcomes[i], errs[i] = outcome, err
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
}

func (r *Runner) runJob(ctx context.Context, job Job) (*Outcome, error) {
	defer r.reporter.Advance(ctx)

	outcome, err := PerformSingleAction(ctx, job.Options)

	info := status.DocumentInfo{Path: job.Path}
	switch {
	case err != nil:
		info.Status = status.StatusFailed
		info.Error = err
		err = errors.Errorf("%s: %w", job.Path, err)
	case outcome.Changed():
		info.Status = status.StatusModified
		info.Replacements = outcome.Total()
	default:
		info.Status = status.StatusUnchanged
	}
	r.reporter.TrackDocument(ctx, info)

	return outcome, err
}
