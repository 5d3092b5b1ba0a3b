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

// Package rules holds the ordered find/replace rules applied by textswap.
package rules

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog"
)

// Store keys used by the persisted configuration.
const (
	KeyNumPairs       = "numPairs"
	keyFindText       = "findText"
	keyReplaceText    = "replaceWithText"
	keyMaxOccurrences = "maxOccurrences"
)

// MaxPairs bounds the number of pairs read from a store. Larger numPairs values
// are clamped.
const MaxPairs = 1000

// FindTextKey returns the store key holding the find text of pair i (1-based).
func FindTextKey(i int) string { return keyFindText + strconv.Itoa(i) }

// ReplaceTextKey returns the store key holding the replacement text of pair i (1-based).
func ReplaceTextKey(i int) string { return keyReplaceText + strconv.Itoa(i) }

// MaxOccurrencesKey returns the store key holding the occurrence cap of pair i (1-based).
func MaxOccurrencesKey(i int) string { return keyMaxOccurrences + strconv.Itoa(i) }

// Rule is a single literal find/replace instruction.
type Rule struct {
	// Find is the literal text to look for. An empty Find makes the rule inert.
	Find string `json:"find" yaml:"find"`

	// Replace is the text written in place of each match.
	Replace string `json:"replace" yaml:"replace"`

	// MaxOccurrences caps the number of replacements per field. Zero means unlimited.
	MaxOccurrences int `json:"max_occurrences" yaml:"max_occurrences"`
}

// Active reports whether the rule can match anything.
func (r Rule) Active() bool {
	return r.Find != ""
}

// Unlimited reports whether the rule replaces every occurrence.
func (r Rule) Unlimited() bool {
	return r.MaxOccurrences <= 0
}

// String returns a short human readable form of the rule
func (r Rule) String() string {
	limit := "all"
	if !r.Unlimited() {
		limit = strconv.Itoa(r.MaxOccurrences)
	}
	return fmt.Sprintf("%q -> %q (max: %s)", r.Find, r.Replace, limit)
}

// Set is an ordered list of rules. Order is significant: later rules see the
// output of earlier ones.
type Set []Rule

// Active returns the rules with a non-empty find text, preserving order.
func (s Set) Active() Set {
	active := make(Set, 0, len(s))
	for _, r := range s {
		if r.Active() {
			active = append(active, r)
		}
	}
	return active
}

// HasActive reports whether at least one rule is active.
func (s Set) HasActive() bool {
	for _, r := range s {
		if r.Active() {
			return true
		}
	}
	return false
}

// Source is a read-only key-value view of the persisted configuration.
type Source interface {
	Lookup(key string) (any, bool)
}

// FromSource builds the rule set for pairs 1..numPairs. Inactive pairs are kept
// in place so that indexes line up with the store; callers filter with Active.
func FromSource(ctx context.Context, src Source) Set {
	logger := zerolog.Ctx(ctx)

	numPairs := 0
	if v, ok := src.Lookup(KeyNumPairs); ok {
		n, ok := toInt(v)
		if !ok {
			logger.Warn().Interface("value", v).Msg("numPairs is not a number, ignoring pairs")
		}
		numPairs = n
	}

	if numPairs > MaxPairs {
		logger.Warn().Int("value", numPairs).Int("max", MaxPairs).Msg("numPairs exceeds limit, clamping")
		numPairs = MaxPairs
	}

	set := Set{}
	for i := 1; i <= numPairs; i++ {
		rule := Rule{
			Find:    lookupText(src, FindTextKey(i)),
			Replace: lookupText(src, ReplaceTextKey(i)),
		}

		if v, ok := src.Lookup(MaxOccurrencesKey(i)); ok {
			n, ok := toInt(v)
			switch {
			case !ok:
				logger.Debug().Int("pair", i).Interface("value", v).Msg("max occurrences is not a number, using unlimited")
			case n < 0:
				logger.Warn().Int("pair", i).Int("value", n).Msg("negative max occurrences, using unlimited")
			default:
				rule.MaxOccurrences = n
			}
		}

		logger.Debug().Int("pair", i).Str("rule", rule.String()).Bool("active", rule.Active()).Msg("loaded replace pair")
		set = append(set, rule)
	}

	return set
}

func lookupText(src Source, key string) string {
	v, ok := src.Lookup(key)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool, int, int64, float64:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// toInt converts the numeric types produced by the JSON, YAML and HCL decoders.
// Fractions truncate toward zero.
func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(max(min(t, math.MaxInt32), math.MinInt32)), true
	case uint64:
		return int(min(t, math.MaxInt32)), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		if t >= math.MaxInt32 {
			return math.MaxInt32, true
		}
		if t <= math.MinInt32 {
			return math.MinInt32, true
		}
		return int(t), true
	default:
		return 0, false
	}
}
