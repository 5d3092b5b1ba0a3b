package browser

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textswap/pkg/field"
	"github.com/walteh/textswap/pkg/replace"
	"github.com/walteh/textswap/pkg/rules"
)

func TestConfigTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, Config{}.Timeout())
	assert.Equal(t, 1500*time.Millisecond, Config{TimeoutMs: 1500}.Timeout())
}

const fixture = `<html><body>
<form id="f">
<input type="text" id="name" value="cat cat">
<textarea id="notes">a cat</textarea>
<input type="text" id="other" value="nothing">
</form>
<div contenteditable="true" id="editor">cat <p contenteditable="true" id="inner">cat</p></div>
<script>
window.seen = [];
document.addEventListener('input', (e) => window.seen.push('input:' + e.target.id));
document.addEventListener('change', (e) => window.seen.push('change:' + e.target.id));
</script>
</body></html>`

func openFixture(t *testing.T, html string) *rod.Page {
	t.Helper()
	if os.Getenv("TEXTSWAP_BROWSER_TESTS") == "" {
		t.Skip("set TEXTSWAP_BROWSER_TESTS=1 to run browser tests")
	}

	s, err := Connect(context.Background(), Config{Headless: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	rp, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	require.NoError(t, err)
	require.NoError(t, rp.SetDocumentContent(html))
	return rp
}

// TestPageIntegration drives a real headless browser. Set TEXTSWAP_BROWSER_TESTS=1 to run it.
func TestPageIntegration(t *testing.T) {
	rp := openFixture(t, fixture)
	ctx := context.Background()

	page := newPage(rp, Config{}.Timeout())
	fields, err := page.Collect(ctx)
	require.NoError(t, err)
	require.Len(t, fields, 4)
	assert.Equal(t, "input#name", fields[0].Name())
	assert.Equal(t, field.ContentBearing, fields[3].Kind())

	result, err := replace.Apply(ctx, fields, rules.Set{{Find: "cat", Replace: "dog", MaxOccurrences: 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)

	res, err := rp.Eval(`() => [
		document.getElementById('name').value,
		document.getElementById('notes').value,
		document.getElementById('editor').textContent,
		window.seen.join(','),
	]`)
	require.NoError(t, err)
	got := res.Value.Arr()
	require.Len(t, got, 4)
	assert.Equal(t, "dog cat", got[0].Str())
	assert.Equal(t, "a dog", got[1].Str())
	assert.Equal(t, "dog cat", got[2].Str())
	assert.Equal(t, "input:name,change:name,input:notes,change:notes,input:editor,change:editor", got[3].Str())
}

func TestFieldCallsHonorTimeout(t *testing.T) {
	rp := openFixture(t, `<html><body><input type="text" id="slow" value="cat"></body></html>`)
	ctx := context.Background()

	_, err := rp.Eval(`() => Object.defineProperty(document.getElementById('slow'), 'value', { get: () => new Promise(() => {}) })`)
	require.NoError(t, err)

	page := newPage(rp, 200*time.Millisecond)
	fields, err := page.Collect(ctx)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	start := time.Now()
	_, err = fields[0].Text(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
}
