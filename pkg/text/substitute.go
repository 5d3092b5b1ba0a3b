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

// Package text implements literal, occurrence-limited text substitution.
package text

import (
	"strings"

	"github.com/walteh/textswap/pkg/rules"
)

// Substitute replaces occurrences of rule.Find in s with rule.Replace.
//
// Matching is literal, case-sensitive, left to right and non-overlapping. When
// rule.MaxOccurrences is positive only the leftmost MaxOccurrences matches are
// replaced. The replacement text is never rescanned. The returned count is the
// number of matches replaced, even when Find and Replace are equal.
func Substitute(s string, rule rules.Rule) (string, int) {
	if rule.Find == "" || s == "" {
		return s, 0
	}

	limit := -1
	if !rule.Unlimited() {
		limit = rule.MaxOccurrences
	}

	var (
		b     strings.Builder
		count int
		rest  = s
	)
	for limit < 0 || count < limit {
		idx := strings.Index(rest, rule.Find)
		if idx < 0 {
			break
		}
		if count == 0 {
			b.Grow(len(s))
		}
		b.WriteString(rest[:idx])
		b.WriteString(rule.Replace)
		rest = rest[idx+len(rule.Find):]
		count++
	}

	if count == 0 {
		return s, 0
	}

	b.WriteString(rest)
	return b.String(), count
}

// ApplyAll runs every rule of set over s in order, feeding each rule the output
// of the previous one. It returns the final text and the count per rule.
func ApplyAll(s string, set rules.Set) (string, []int) {
	counts := make([]int, len(set))
	for i, rule := range set {
		s, counts[i] = Substitute(s, rule)
	}
	return s, counts
}

// Sum adds up per-rule counts.
func Sum(counts []int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
