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

// Package htmldoc collects the editable fields of a parsed HTML document.
package htmldoc

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/walteh/textswap/pkg/field"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/net/html"
)

// DispatchedEvent is a change notification as seen by document listeners.
type DispatchedEvent struct {
	field.Event

	// Target names the field the event was dispatched on.
	Target string

	// Path lists the target followed by the ancestors the event bubbles through.
	// It only holds the target when the event does not bubble.
	Path []string
}

// Listener observes events dispatched on the document's fields.
type Listener func(ev DispatchedEvent)

// Document is an HTML document whose form fields can be rewritten.
type Document struct {
	root *html.Node
	doc  *goquery.Document

	mu        sync.Mutex
	listeners []Listener
	dirty     bool
}

var _ field.Collector = (*Document)(nil)

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Errorf("parsing HTML: %w", err)
	}
	return &Document{
		root: root,
		doc:  goquery.NewDocumentFromNode(root),
	}, nil
}

// ParseString is Parse for an in-memory document.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// AddListener registers l for every event dispatched on the document's fields.
func (d *Document) AddListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Dirty reports whether any field was rewritten since the document was parsed.
func (d *Document) Dirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirty
}

// Render writes the document back out as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return errors.Errorf("rendering HTML: %w", err)
	}
	return nil
}

// Collect returns the value-bearing fields followed by the content-bearing
// ones, each in document order.
func (d *Document) Collect(ctx context.Context) ([]field.Field, error) {
	var fields []field.Field

	d.doc.Find(field.ValueSelector).Each(func(i int, s *goquery.Selection) {
		node := s.Get(0)
		if node.Data == "textarea" {
			fields = append(fields, &textField{doc: d, node: node, name: describe(node, i), kind: field.ValueBearing})
			return
		}
		fields = append(fields, &valueField{doc: d, node: node, sel: s, name: describe(node, i)})
	})

	// Nested editables are part of their outermost editable ancestor's text.
	d.doc.Find(field.ContentSelector).Each(func(i int, s *goquery.Selection) {
		if s.ParentsFiltered(field.ContentSelector).Length() > 0 {
			return
		}
		node := s.Get(0)
		fields = append(fields, &textField{doc: d, node: node, name: describe(node, i), kind: field.ContentBearing})
	})

	zerolog.Ctx(ctx).Debug().Int("fields", len(fields)).Msg("collected document fields")
	return fields, nil
}

func (d *Document) markDirty() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = true
}

func (d *Document) dispatch(target *html.Node, name string, ev field.Event) {
	path := []string{name}
	if ev.Bubbles {
		for n := target.Parent; n != nil && n.Type == html.ElementNode; n = n.Parent {
			path = append(path, describe(n, -1))
		}
		path = append(path, "#document")
	}

	d.mu.Lock()
	listeners := append([]Listener(nil), d.listeners...)
	d.mu.Unlock()

	for _, l := range listeners {
		l(DispatchedEvent{Event: ev, Target: name, Path: path})
	}
}

// describe builds a short CSS-like name for n. idx is the position within its
// selection and is only used when n has neither id nor name.
func describe(n *html.Node, idx int) string {
	var b strings.Builder
	b.WriteString(n.Data)
	if id := attr(n, "id"); id != "" {
		b.WriteString("#" + id)
		return b.String()
	}
	if name := attr(n, "name"); name != "" {
		fmt.Fprintf(&b, "[name=%s]", name)
		return b.String()
	}
	if idx >= 0 {
		fmt.Fprintf(&b, ":nth(%d)", idx)
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
