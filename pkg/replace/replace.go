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

// Package replace applies a rule set to every field of a target.
//
// Fields are processed field-major: each field runs through all rules in
// order before the next field is read. MaxOccurrences caps replacements per
// field, so a match-heavy field never starves the ones after it.
package replace

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/textswap/pkg/field"
	"github.com/walteh/textswap/pkg/rules"
	"github.com/walteh/textswap/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// FieldReport describes what happened to one field.
type FieldReport struct {
	Name         string
	Kind         field.Kind
	Replacements int
	RuleCounts   []int
}

// Changed reports whether the field was rewritten.
func (r FieldReport) Changed() bool {
	return r.Replacements > 0
}

// Result aggregates a run over all fields of a target.
type Result struct {
	// Total is the sum over fields of the replacements made in them.
	Total int

	// RuleTotals holds, per rule, the replacements made across all fields.
	RuleTotals []int

	// Fields has one report per collected field, in processing order.
	Fields []FieldReport
}

// Changed returns the reports of the rewritten fields.
func (r *Result) Changed() []FieldReport {
	var changed []FieldReport
	for _, f := range r.Fields {
		if f.Changed() {
			changed = append(changed, f)
		}
	}
	return changed
}

// Apply runs the active rules of set over fields. A field is written back and
// notified once, and only when at least one rule replaced something in it;
// untouched fields are never written.
func Apply(ctx context.Context, fields []field.Field, set rules.Set) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	active := set.Active()

	result := &Result{
		RuleTotals: make([]int, len(active)),
		Fields:     make([]FieldReport, 0, len(fields)),
	}

	if len(active) == 0 {
		logger.Debug().Msg("no active rules, skipping fields")
		return result, nil
	}

	for _, f := range fields {
		report, err := applyField(ctx, f, active)
		if err != nil {
			return nil, err
		}
		for i, n := range report.RuleCounts {
			result.RuleTotals[i] += n
		}
		result.Total += report.Replacements
		result.Fields = append(result.Fields, report)
	}

	logger.Debug().Int("fields", len(fields)).Int("total", result.Total).Msg("finished processing fields")
	return result, nil
}

func applyField(ctx context.Context, f field.Field, active rules.Set) (FieldReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("field", f.Name()).Str("kind", f.Kind().String()).Logger()

	original, err := f.Text(ctx)
	if err != nil {
		return FieldReport{}, errors.Errorf("reading %s: %w", f.Name(), err)
	}

	updated, counts := text.ApplyAll(original, active)
	report := FieldReport{
		Name:         f.Name(),
		Kind:         f.Kind(),
		Replacements: text.Sum(counts),
		RuleCounts:   counts,
	}

	for i, n := range counts {
		logger.Debug().Int("rule", i+1).Int("replacements", n).Msg("rule applied")
	}

	if !report.Changed() {
		return report, nil
	}

	if err := f.SetText(ctx, updated); err != nil {
		return FieldReport{}, errors.Errorf("writing %s: %w", f.Name(), err)
	}
	if err := field.NotifyChanged(ctx, f); err != nil {
		return FieldReport{}, err
	}

	logger.Debug().Int("replacements", report.Replacements).Msg("field updated")
	return report, nil
}
