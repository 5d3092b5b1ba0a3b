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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/textswap/pkg/feedback"
	"github.com/walteh/textswap/pkg/field"
	"github.com/walteh/textswap/pkg/log"
	"github.com/walteh/textswap/pkg/replace"
	"github.com/walteh/textswap/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNoActiveTarget means there is no page or document to act on.
	ErrNoActiveTarget = errors.Base("no active target")

	// ErrNoActiveRules means every find text is empty. It is not a failure.
	ErrNoActiveRules = errors.Base("no active rules")
)

// 🎯 Target is something whose fields an action rewrites
type Target interface {
	field.Collector

	// Name identifies the target to the user (URL, path, ...)
	Name() string

	// Type is the kind of target: page, document, clipboard
	Type() string

	// Banner returns the target's own feedback channel, or nil
	Banner() feedback.Banner

	// Commit persists rewritten fields. It is only called when at least one
	// replacement was made.
	Commit(ctx context.Context, res *replace.Result) error
}

// 🔍 Resolver finds the target of an action
type Resolver interface {
	Resolve(ctx context.Context) (Target, error)
}

// ResolverFunc adapts a function to a Resolver
type ResolverFunc func(ctx context.Context) (Target, error)

func (f ResolverFunc) Resolve(ctx context.Context) (Target, error) { return f(ctx) }

// 🔧 Options configures a single action
type Options struct {
	// Resolver finds the target. Errors wrapping ErrNoActiveTarget are
	// reported through Notifier.
	Resolver Resolver

	// Store is the configuration store the rules are read from
	Store rules.Source

	// Notifier is used when no banner can be shown
	Notifier feedback.Notifier

	// Banner is used for targets without a banner of their own. Optional.
	Banner feedback.Banner

	// Console prints one line per field. Optional.
	Console *log.Logger
}

func (o Options) validate() error {
	if o.Resolver == nil {
		return errors.New("resolver is required")
	}
	if o.Store == nil {
		return errors.New("store is required")
	}
	if o.Notifier == nil {
		return errors.New("notifier is required")
	}
	return nil
}

// 📦 Outcome describes a finished action
type Outcome struct {
	// ID correlates the log lines of one invocation
	ID string

	// Target is the name of the target acted on
	Target string

	// Rules are the active rules that were applied
	Rules rules.Set

	// Result is nil when no fields were processed
	Result *replace.Result

	// Skipped is set to ErrNoActiveRules when there was nothing to apply
	Skipped error

	// Shown is the last message presented to the user
	Shown feedback.Message
}

// Total returns the number of replacements made
func (o *Outcome) Total() int {
	if o == nil || o.Result == nil {
		return 0
	}
	return o.Result.Total
}

// Changed reports whether any field was rewritten
func (o *Outcome) Changed() bool {
	return o.Total() > 0
}

// 🚀 PerformSingleAction runs the rules from the store over the active target
// and reports the outcome to the user. No active rules is not an error: the
// outcome carries ErrNoActiveRules in Skipped.
func PerformSingleAction(ctx context.Context, opts Options) (*Outcome, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("invocation", id).Logger()
	ctx = logger.WithContext(ctx)

	logger.Debug().Msg("performing single action")

	target, err := opts.Resolver.Resolve(ctx)
	if err != nil {
		note := feedback.FailureNotification(err)
		if errors.Is(err, ErrNoActiveTarget) {
			note = feedback.NoTarget()
		}
		if nerr := opts.Notifier.Notify(ctx, note); nerr != nil {
			logger.Error().Err(nerr).Msg("failed to send notification")
		}
		return nil, errors.Errorf("resolving target: %w", err)
	}

	banner := target.Banner()
	if banner == nil {
		banner = opts.Banner
	}

	outcome := &Outcome{ID: id, Target: target.Name()}

	if opts.Console != nil {
		opts.Console.StartTargetOperation(ctx, log.TargetOperation{ID: id, Target: target.Name(), Type: target.Type()})
		defer func() { opts.Console.EndTargetOperation(ctx, outcome.Total()) }()
	}

	msg, err := perform(ctx, target, opts, outcome)
	if err != nil {
		logger.Error().Err(err).Str("target", target.Name()).Msg("action failed")
		outcome.Shown = feedback.Failure(err)
		if banner == nil || banner.Show(ctx, outcome.Shown) != nil {
			if nerr := opts.Notifier.Notify(ctx, feedback.FailureNotification(err)); nerr != nil {
				logger.Error().Err(nerr).Msg("failed to send notification")
			}
		}
		return outcome, err
	}

	outcome.Shown = msg
	if banner != nil {
		if err := banner.Show(ctx, msg); err != nil {
			logger.Warn().Err(err).Msg("failed to show banner")
			if nerr := opts.Notifier.Notify(ctx, feedback.FailureNotification(err)); nerr != nil {
				logger.Error().Err(nerr).Msg("failed to send notification")
			}
		}
	}

	logger.Info().Str("target", target.Name()).Int("replacements", outcome.Total()).Msg("action complete")
	return outcome, nil
}

func perform(ctx context.Context, target Target, opts Options, outcome *Outcome) (feedback.Message, error) {
	logger := zerolog.Ctx(ctx)

	set := rules.FromSource(ctx, opts.Store).Active()
	outcome.Rules = set
	for i, r := range set {
		logger.Debug().Int("rule", i+1).Str("rule_text", r.String()).Msg("active rule")
	}

	if len(set) == 0 {
		logger.Warn().Msg("no search texts provided for any step")
		outcome.Skipped = errors.WithStack(ErrNoActiveRules)
		return feedback.NoActiveRules(), nil
	}

	fields, err := target.Collect(ctx)
	if err != nil {
		return feedback.Message{}, errors.Errorf("collecting fields: %w", err)
	}

	res, err := replace.Apply(ctx, fields, set)
	if err != nil {
		return feedback.Message{}, errors.Errorf("applying rules: %w", err)
	}
	outcome.Result = res

	if opts.Console != nil {
		for _, f := range res.Fields {
			opts.Console.LogFieldOperation(ctx, log.FieldOperation{
				Field:        f.Name,
				Kind:         f.Kind.String(),
				Replacements: f.Replacements,
			})
		}
	}

	if res.Total == 0 {
		return feedback.NoChanges(), nil
	}

	if err := target.Commit(ctx, res); err != nil {
		return feedback.Message{}, errors.Errorf("committing %s: %w", target.Name(), err)
	}

	return feedback.Replaced(res.Total), nil
}
