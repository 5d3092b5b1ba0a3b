package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/textswap/pkg/rules"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		rule      rules.Rule
		want      string
		wantCount int
	}{
		{
			name:      "replace_all",
			text:      "cat cat cat",
			rule:      rules.Rule{Find: "cat", Replace: "dog"},
			want:      "dog dog dog",
			wantCount: 3,
		},
		{
			name:      "limited",
			text:      "cat cat cat",
			rule:      rules.Rule{Find: "cat", Replace: "dog", MaxOccurrences: 2},
			want:      "dog dog cat",
			wantCount: 2,
		},
		{
			name:      "limit_above_matches",
			text:      "cat cat",
			rule:      rules.Rule{Find: "cat", Replace: "dog", MaxOccurrences: 5},
			want:      "dog dog",
			wantCount: 2,
		},
		{
			name:      "empty_text",
			text:      "",
			rule:      rules.Rule{Find: "cat", Replace: "dog"},
			want:      "",
			wantCount: 0,
		},
		{
			name:      "empty_find",
			text:      "anything at all",
			rule:      rules.Rule{Find: "", Replace: "x"},
			want:      "anything at all",
			wantCount: 0,
		},
		{
			name:      "equal_find_and_replace_still_counts",
			text:      "aaa",
			rule:      rules.Rule{Find: "a", Replace: "a"},
			want:      "aaa",
			wantCount: 3,
		},
		{
			name:      "non_overlapping",
			text:      "aaaa",
			rule:      rules.Rule{Find: "aa", Replace: "b"},
			want:      "bb",
			wantCount: 2,
		},
		{
			name:      "non_overlapping_odd",
			text:      "aaa",
			rule:      rules.Rule{Find: "aa", Replace: "b"},
			want:      "ba",
			wantCount: 1,
		},
		{
			name:      "case_sensitive",
			text:      "Cat cat CAT",
			rule:      rules.Rule{Find: "cat", Replace: "dog"},
			want:      "Cat dog CAT",
			wantCount: 1,
		},
		{
			name:      "literal_not_pattern",
			text:      "a.b a*b (a)",
			rule:      rules.Rule{Find: ".", Replace: "!"},
			want:      "a!b a*b (a)",
			wantCount: 1,
		},
		{
			name:      "replacement_not_rescanned",
			text:      "a",
			rule:      rules.Rule{Find: "a", Replace: "aa"},
			want:      "aa",
			wantCount: 1,
		},
		{
			name:      "delete",
			text:      "x-y-z",
			rule:      rules.Rule{Find: "-", Replace: ""},
			want:      "xyz",
			wantCount: 2,
		},
		{
			name:      "multibyte",
			text:      "héllo héllo",
			rule:      rules.Rule{Find: "é", Replace: "e", MaxOccurrences: 1},
			want:      "hello héllo",
			wantCount: 1,
		},
		{
			name:      "no_match",
			text:      "Hello World",
			rule:      rules.Rule{Find: "Goodbye", Replace: "Hi"},
			want:      "Hello World",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, count := Substitute(tt.text, tt.rule)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestSubstituteLeavesRemainingOccurrences(t *testing.T) {
	text := strings.Repeat("ab ", 10)
	for m := 1; m <= 12; m++ {
		got, count := Substitute(text, rules.Rule{Find: "ab", Replace: "X", MaxOccurrences: m})
		want := min(m, 10)
		assert.Equal(t, want, count, "count for cap %d", m)
		assert.Equal(t, want, strings.Count(got, "X"), "replaced for cap %d", m)
		assert.Equal(t, 10-want, strings.Count(got, "ab"), "untouched for cap %d", m)
		assert.True(t, strings.HasPrefix(got, strings.Repeat("X ", want)), "leftmost replaced first for cap %d", m)
	}
}

func TestApplyAll(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		set        rules.Set
		want       string
		wantCounts []int
	}{
		{
			name: "chained_rules",
			text: "a",
			set: rules.Set{
				{Find: "a", Replace: "b"},
				{Find: "b", Replace: "c"},
			},
			want:       "c",
			wantCounts: []int{1, 1},
		},
		{
			name: "inert_rule_in_middle",
			text: "Hello World",
			set: rules.Set{
				{Find: "Hello", Replace: "Hi"},
				{Find: "", Replace: "nope"},
				{Find: "World", Replace: "Universe"},
			},
			want:       "Hi Universe",
			wantCounts: []int{1, 0, 1},
		},
		{
			name:       "no_rules",
			text:       "unchanged",
			set:        rules.Set{},
			want:       "unchanged",
			wantCounts: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, counts := ApplyAll(tt.text, tt.set)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCounts, counts)
			assert.Equal(t, Sum(tt.wantCounts), Sum(counts))
		})
	}
}
