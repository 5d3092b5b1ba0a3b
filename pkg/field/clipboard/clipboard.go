// Package clipboard exposes the system clipboard as a single value-bearing field.
package clipboard

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/walteh/textswap/pkg/field"
	"gitlab.com/tozd/go/errors"
)

// Backend reads and writes clipboard text.
type Backend interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemBackend struct{}

func (systemBackend) ReadAll() (string, error) { return clipboard.ReadAll() }

func (systemBackend) WriteAll(text string) error { return clipboard.WriteAll(text) }

// System is the OS clipboard.
var System Backend = systemBackend{}

// Field is the clipboard seen as an editable field.
type Field struct {
	backend Backend
}

var _ field.Field = (*Field)(nil)

// New creates a clipboard field on top of backend.
func New(backend Backend) *Field {
	return &Field{backend: backend}
}

// Collector returns a collector yielding the clipboard field. It fails when no
// clipboard utility is available.
func Collector(backend Backend) field.Collector {
	return field.CollectorFunc(func(ctx context.Context) ([]field.Field, error) {
		if backend == System && clipboard.Unsupported {
			return nil, errors.New("no clipboard utility available")
		}
		return []field.Field{New(backend)}, nil
	})
}

func (f *Field) Name() string { return "clipboard" }

func (f *Field) Kind() field.Kind { return field.ValueBearing }

func (f *Field) Text(ctx context.Context) (string, error) {
	s, err := f.backend.ReadAll()
	if err != nil {
		return "", errors.Errorf("reading clipboard: %w", err)
	}
	return s, nil
}

func (f *Field) SetText(ctx context.Context, text string) error {
	if err := f.backend.WriteAll(text); err != nil {
		return errors.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// DispatchEvent is a no-op: nothing observes the clipboard.
func (f *Field) DispatchEvent(ctx context.Context, ev field.Event) error {
	zerolog.Ctx(ctx).Trace().Str("event", string(ev.Type)).Msg("clipboard has no listeners")
	return nil
}
