package field

import (
	"context"
	"sync"
)

// Memory is an in-memory field. It records every write and dispatched event,
// which makes it useful for previews and tests.
type Memory struct {
	name string
	kind Kind

	mu     sync.Mutex
	text   string
	writes int
	events []Event
}

var _ Field = (*Memory)(nil)

// NewMemory creates an in-memory field holding text.
func NewMemory(name string, kind Kind, text string) *Memory {
	return &Memory{name: name, kind: kind, text: text}
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) Kind() Kind { return m.kind }

func (m *Memory) Text(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) SetText(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.writes++
	return nil
}

func (m *Memory) DispatchEvent(ctx context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

// Writes returns how many times SetText was called.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Events returns a copy of the dispatched events.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Static returns a Collector that always yields fields.
func Static(fields ...Field) Collector {
	return CollectorFunc(func(ctx context.Context) ([]Field, error) {
		return fields, nil
	})
}
