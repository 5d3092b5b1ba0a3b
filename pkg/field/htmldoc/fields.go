package htmldoc

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/walteh/textswap/pkg/field"
	"golang.org/x/net/html"
)

// valueField is an <input> whose text lives in its value attribute.
type valueField struct {
	doc  *Document
	node *html.Node
	sel  *goquery.Selection
	name string
}

func (f *valueField) Name() string { return f.name }

func (f *valueField) Kind() field.Kind { return field.ValueBearing }

func (f *valueField) Text(ctx context.Context) (string, error) {
	return f.sel.AttrOr("value", ""), nil
}

func (f *valueField) SetText(ctx context.Context, text string) error {
	f.sel.SetAttr("value", text)
	f.doc.markDirty()
	return nil
}

func (f *valueField) DispatchEvent(ctx context.Context, ev field.Event) error {
	f.doc.dispatch(f.node, f.name, ev)
	return nil
}

// textField is an element whose text is its text content: a textarea (whose
// source text is its value) or a contenteditable region.
type textField struct {
	doc  *Document
	node *html.Node
	name string
	kind field.Kind
}

func (f *textField) Name() string { return f.name }

func (f *textField) Kind() field.Kind { return f.kind }

func (f *textField) Text(ctx context.Context) (string, error) {
	var b strings.Builder
	collectText(f.node, &b)
	return b.String(), nil
}

// SetText replaces every child with a single text node, like assigning textContent.
func (f *textField) SetText(ctx context.Context, text string) error {
	for c := f.node.FirstChild; c != nil; {
		next := c.NextSibling
		f.node.RemoveChild(c)
		c = next
	}
	if text != "" {
		f.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	f.doc.markDirty()
	return nil
}

func (f *textField) DispatchEvent(ctx context.Context, ev field.Event) error {
	f.doc.dispatch(f.node, f.name, ev)
	return nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
