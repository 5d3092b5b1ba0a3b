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
	"bytes"
	"context"
	"os"

	"github.com/atotto/clipboard"
	"github.com/walteh/textswap/pkg/feedback"
	"github.com/walteh/textswap/pkg/field"
	"github.com/walteh/textswap/pkg/field/browser"
	fieldclipboard "github.com/walteh/textswap/pkg/field/clipboard"
	"github.com/walteh/textswap/pkg/field/htmldoc"
	"github.com/walteh/textswap/pkg/replace"
	"github.com/walteh/textswap/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🌐 PageTarget is the active tab of a browser
type PageTarget struct {
	page *browser.Page
}

var _ Target = (*PageTarget)(nil)

func (t *PageTarget) Collect(ctx context.Context) ([]field.Field, error) { return t.page.Collect(ctx) }

func (t *PageTarget) Name() string { return t.page.URL() }

func (t *PageTarget) Type() string { return "page" }

func (t *PageTarget) Banner() feedback.Banner { return feedback.NewPageBanner(t.page) }

// Commit is a no-op: page fields are live.
func (t *PageTarget) Commit(ctx context.Context, res *replace.Result) error { return nil }

// PageResolver resolves the page the user is looking at
func PageResolver(session *browser.Session) Resolver {
	return ResolverFunc(func(ctx context.Context) (Target, error) {
		page, err := session.ActivePage(ctx)
		if errors.Is(err, browser.ErrNoPage) {
			return nil, errors.Errorf("%w: %s", ErrNoActiveTarget, err.Error())
		}
		if err != nil {
			return nil, err
		}
		return &PageTarget{page: page}, nil
	})
}

// 📄 DocumentTarget is an HTML file on disk
type DocumentTarget struct {
	path   string
	doc    *htmldoc.Document
	store  status.DocumentStore
	backup bool
}

var _ Target = (*DocumentTarget)(nil)

// OpenDocument reads and parses the HTML document at path
func OpenDocument(ctx context.Context, store status.DocumentStore, path string, backup bool) (*DocumentTarget, error) {
	content, err := store.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Errorf("%w: %s", ErrNoActiveTarget, err.Error())
		}
		return nil, err
	}

	doc, err := htmldoc.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}

	return &DocumentTarget{path: path, doc: doc, store: store, backup: backup}, nil
}

// DocumentResolver opens path on every resolution
func DocumentResolver(store status.DocumentStore, path string, backup bool) Resolver {
	return ResolverFunc(func(ctx context.Context) (Target, error) {
		return OpenDocument(ctx, store, path, backup)
	})
}

func (t *DocumentTarget) Collect(ctx context.Context) ([]field.Field, error) { return t.doc.Collect(ctx) }

func (t *DocumentTarget) Name() string { return t.path }

func (t *DocumentTarget) Type() string { return "document" }

func (t *DocumentTarget) Banner() feedback.Banner { return nil }

// Document exposes the parsed document, e.g. to register listeners
func (t *DocumentTarget) Document() *htmldoc.Document { return t.doc }

// Commit renders the document and writes it back atomically
func (t *DocumentTarget) Commit(ctx context.Context, res *replace.Result) error {
	if !t.doc.Dirty() {
		return nil
	}

	if t.backup {
		if err := t.store.BackupFile(ctx, t.path); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := t.doc.Render(&buf); err != nil {
		return err
	}

	return t.store.WriteFileAtomic(ctx, t.path, buf.Bytes())
}

// 📋 ClipboardTarget is the system clipboard
type ClipboardTarget struct {
	field.Collector
}

var _ Target = (*ClipboardTarget)(nil)

func (t *ClipboardTarget) Name() string { return "clipboard" }

func (t *ClipboardTarget) Type() string { return "clipboard" }

func (t *ClipboardTarget) Banner() feedback.Banner { return nil }

// Commit is a no-op: the clipboard is written by its field.
func (t *ClipboardTarget) Commit(ctx context.Context, res *replace.Result) error { return nil }

// ClipboardResolver resolves the clipboard held by backend
func ClipboardResolver(backend fieldclipboard.Backend) Resolver {
	return ResolverFunc(func(ctx context.Context) (Target, error) {
		if backend == fieldclipboard.System && clipboard.Unsupported {
			return nil, errors.Errorf("%w: no clipboard utility available", ErrNoActiveTarget)
		}
		return &ClipboardTarget{Collector: fieldclipboard.Collector(backend)}, nil
	})
}
