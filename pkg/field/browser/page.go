package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"
	"github.com/walteh/textswap/pkg/field"
	"gitlab.com/tozd/go/errors"
)

// Page is a browser tab whose editable elements can be rewritten.
type Page struct {
	page    *rod.Page
	timeout time.Duration
}

var _ field.Collector = (*Page)(nil)

func newPage(p *rod.Page, timeout time.Duration) *Page {
	return &Page{page: p, timeout: timeout}
}

// URL returns the page location, or an empty string when it cannot be read.
func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Eval runs a JavaScript function in the page with args.
func (p *Page) Eval(ctx context.Context, js string, args ...any) error {
	if _, err := p.page.Context(ctx).Timeout(p.timeout).Eval(js, args...); err != nil {
		return errors.Errorf("evaluating script: %w", err)
	}
	return nil
}

// Collect returns the value-bearing elements followed by the content-bearing
// ones. The kind of each element is fixed here.
func (p *Page) Collect(ctx context.Context) ([]field.Field, error) {
	page := p.page.Context(ctx).Timeout(p.timeout)

	var fields []field.Field
	for _, set := range []struct {
		selector string
		kind     field.Kind
	}{
		{field.ValueSelector, field.ValueBearing},
		{field.ContentSelector, field.ContentBearing},
	} {
		els, err := page.Elements(set.selector)
		if err != nil {
			return nil, errors.Errorf("querying %q: %w", set.selector, err)
		}
		for i, el := range els {
			if set.kind == field.ContentBearing && nestedEditable(el) {
				continue
			}
			fields = append(fields, &elementField{
				el:      el,
				kind:    set.kind,
				name:    elementName(el, i),
				timeout: p.timeout,
			})
		}
	}

	zerolog.Ctx(ctx).Debug().Int("fields", len(fields)).Str("url", p.URL()).Msg("collected page fields")
	return fields, nil
}

// nestedEditable reports whether el sits inside another editable element, whose
// textContent already covers it.
func nestedEditable(el *rod.Element) bool {
	res, err := el.Eval(`(sel) => this.parentElement != null && this.parentElement.closest(sel) != null`, field.ContentSelector)
	if err != nil {
		return false
	}
	return res.Value.Bool()
}

func elementName(el *rod.Element, idx int) string {
	res, err := el.Eval(`() => {
		const tag = this.tagName.toLowerCase();
		if (this.id) return tag + '#' + this.id;
		const name = this.getAttribute('name');
		if (name) return tag + '[name=' + name + ']';
		return '';
	}`)
	if err == nil {
		if s := res.Value.Str(); s != "" {
			return s
		}
	}
	return fmt.Sprintf("element:nth(%d)", idx)
}

// elementField reads and writes either this.value or this.textContent.
type elementField struct {
	el      *rod.Element
	kind    field.Kind
	name    string
	timeout time.Duration
}

// bound scopes the element to ctx and the page timeout.
func (f *elementField) bound(ctx context.Context) *rod.Element {
	return f.el.Context(ctx).Timeout(f.timeout)
}

func (f *elementField) Name() string { return f.name }

func (f *elementField) Kind() field.Kind { return f.kind }

func (f *elementField) property() string {
	if f.kind == field.ContentBearing {
		return "textContent"
	}
	return "value"
}

func (f *elementField) Text(ctx context.Context) (string, error) {
	res, err := f.bound(ctx).Eval(fmt.Sprintf(`() => this.%s ?? ''`, f.property()))
	if err != nil {
		return "", errors.Errorf("reading %s: %w", f.property(), err)
	}
	return res.Value.Str(), nil
}

func (f *elementField) SetText(ctx context.Context, text string) error {
	if _, err := f.bound(ctx).Eval(fmt.Sprintf(`(v) => { this.%s = v }`, f.property()), text); err != nil {
		return errors.Errorf("writing %s: %w", f.property(), err)
	}
	return nil
}

func (f *elementField) DispatchEvent(ctx context.Context, ev field.Event) error {
	_, err := f.bound(ctx).Eval(`(type, bubbles) => { this.dispatchEvent(new Event(type, { bubbles })) }`, string(ev.Type), ev.Bubbles)
	if err != nil {
		return errors.Errorf("dispatching %s: %w", ev.Type, err)
	}
	return nil
}
