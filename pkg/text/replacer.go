package text

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/textswap/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made across all rules
	ReplacementCount int

	// RuleCounts holds the replacements made by each rule, indexed like the rule set
	RuleCounts []int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content
	ReplaceText(ctx context.Context, content io.Reader, set rules.Set) (*ReplacementResult, error)
}

// SimpleTextReplacer implements TextReplacer on top of Substitute
type SimpleTextReplacer struct{}

var _ TextReplacer = (*SimpleTextReplacer)(nil)

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, set rules.Set) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	modified, counts := ApplyAll(string(originalContent), set)

	logger := zerolog.Ctx(ctx)
	for i, n := range counts {
		if !set[i].Active() {
			continue
		}
		logger.Debug().Int("rule", i+1).Int("replacements", n).Msg("rule applied")
	}

	result := &ReplacementResult{
		OriginalContent:  originalContent,
		ModifiedContent:  originalContent,
		RuleCounts:       counts,
		ReplacementCount: Sum(counts),
	}
	if result.ReplacementCount > 0 {
		result.WasModified = true
		result.ModifiedContent = []byte(modified)
	}

	return result, nil
}
