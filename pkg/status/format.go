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

package status

import (
	"fmt"
)

// 🎨 Formatter renders status messages
type Formatter interface {
	// FormatDocument formats the outcome of one document
	FormatDocument(info DocumentInfo) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string
}

// DefaultFormatter is the emoji formatter used by Manager
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

func (f *DefaultFormatter) FormatDocument(info DocumentInfo) string {
	switch info.Status {
	case StatusModified:
		noun := "replacements"
		if info.Replacements == 1 {
			noun = "replacement"
		}
		return fmt.Sprintf("📝 Modified %s (%d %s)", info.Path, info.Replacements, noun)
	case StatusFailed:
		if info.Error != nil {
			return fmt.Sprintf("❌ Failed %s: %v", info.Path, info.Error)
		}
		return fmt.Sprintf("❌ Failed %s", info.Path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", info.Path)
	}
}

func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}
