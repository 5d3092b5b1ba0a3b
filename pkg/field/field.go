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

package field

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// Selectors for the two disjoint sets of editable targets on a page.
const (
	// ValueSelector matches value-bearing elements.
	ValueSelector = "input[type=text], input[type=search], input[type=url], input[type=tel], input[type=password], textarea"

	// ContentSelector matches content-bearing elements. Inputs and textareas are
	// excluded so an element never lands in both sets.
	ContentSelector = `[contenteditable="true"]:not(input):not(textarea)`
)

// Kind tells how a field stores its text.
type Kind int

const (
	// ValueBearing fields keep their text in a single scalar property (inputs, textareas).
	ValueBearing Kind = iota
	// ContentBearing fields expose their rendered text content (contenteditable regions).
	ContentBearing
)

func (k Kind) String() string {
	switch k {
	case ValueBearing:
		return "value"
	case ContentBearing:
		return "content"
	default:
		return "unknown"
	}
}

// Field is an editable text surface. Implementations resolve their Kind once
// when they are collected.
type Field interface {
	// Name identifies the field in logs (e.g. "textarea#notes").
	Name() string
	Kind() Kind
	Text(ctx context.Context) (string, error)
	SetText(ctx context.Context, text string) error
	DispatchEvent(ctx context.Context, ev Event) error
}

// Collector discovers the editable fields of a single target. Fields are
// collected fresh on every call.
type Collector interface {
	Collect(ctx context.Context) ([]Field, error)
}

// CollectorFunc adapts a function to a Collector.
type CollectorFunc func(ctx context.Context) ([]Field, error)

func (f CollectorFunc) Collect(ctx context.Context) ([]Field, error) { return f(ctx) }

// EventType names a change notification.
type EventType string

const (
	EventInput  EventType = "input"
	EventChange EventType = "change"
)

// Event is a notification dispatched on a field after its text was rewritten.
type Event struct {
	Type    EventType
	Bubbles bool
}

// ChangeEvents are dispatched, in this order, after a field is rewritten.
var ChangeEvents = []EventType{EventInput, EventChange}

// NotifyChanged dispatches the input and change events on f so listeners bound
// on f or any of its ancestors observe the edit like a user edit.
func NotifyChanged(ctx context.Context, f Field) error {
	for _, typ := range ChangeEvents {
		if err := f.DispatchEvent(ctx, Event{Type: typ, Bubbles: true}); err != nil {
			return errors.Errorf("dispatching %s event on %s: %w", typ, f.Name(), err)
		}
	}
	return nil
}
