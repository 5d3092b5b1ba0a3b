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

package feedback

import (
	"context"
	_ "embed"

	"gitlab.com/tozd/go/errors"
)

//go:embed snackbar.js
var snackbarScript string

// Evaluator runs a JavaScript function inside a page.
type Evaluator interface {
	Eval(ctx context.Context, js string, args ...any) error
}

// PageBanner shows messages as a snackbar at the top of a page.
type PageBanner struct {
	page Evaluator
}

var _ Banner = (*PageBanner)(nil)

// NewPageBanner returns a banner drawing on page.
func NewPageBanner(page Evaluator) *PageBanner {
	return &PageBanner{page: page}
}

// Show injects the snackbar and displays m. A second call replaces the
// previous message and restarts its timer.
func (b *PageBanner) Show(ctx context.Context, m Message) error {
	if err := b.page.Eval(ctx, snackbarScript, m.Normal, m.Important, m.DisplayDuration().Milliseconds()); err != nil {
		return errors.Errorf("showing snackbar: %w", err)
	}
	return nil
}
