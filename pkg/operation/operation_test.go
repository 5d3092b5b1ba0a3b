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
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textswap/pkg/config"
	"github.com/walteh/textswap/pkg/feedback"
	"github.com/walteh/textswap/pkg/field"
	"github.com/walteh/textswap/pkg/field/htmldoc"
	"github.com/walteh/textswap/pkg/log"
	"github.com/walteh/textswap/pkg/replace"
	"github.com/walteh/textswap/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockBanner is a mock implementation of feedback.Banner
type MockBanner struct {
	mock.Mock
}

func (m *MockBanner) Show(ctx context.Context, msg feedback.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// 🔧 MockNotifier is a mock implementation of feedback.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n feedback.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// memoryTarget is a Target over in-memory fields
type memoryTarget struct {
	field.Collector
	banner  feedback.Banner
	commits int
	commit  error
}

func (t *memoryTarget) Name() string { return "memory" }

func (t *memoryTarget) Type() string { return "memory" }

func (t *memoryTarget) Banner() feedback.Banner { return t.banner }

func (t *memoryTarget) Commit(ctx context.Context, res *replace.Result) error {
	t.commits++
	return t.commit
}

func resolveTo(t Target) Resolver {
	return ResolverFunc(func(ctx context.Context) (Target, error) { return t, nil })
}

func store(pairs ...any) *config.Store {
	values := map[string]any{"numPairs": len(pairs) / 3}
	for i := 0; i+2 < len(pairs); i += 3 {
		n := i/3 + 1
		values["findText"+strconv.Itoa(n)] = pairs[i]
		values["replaceWithText"+strconv.Itoa(n)] = pairs[i+1]
		values["maxOccurrences"+strconv.Itoa(n)] = pairs[i+2]
	}
	return config.NewStore(values)
}

func TestPerformSingleAction(t *testing.T) {
	tests := []struct {
		name        string
		store       *config.Store
		fields      []string
		wantTotal   int
		wantTexts   []string
		wantMessage feedback.Message
		wantSkipped bool
		wantCommits int
	}{
		{
			name:        "replaces_in_every_field",
			store:       store("cat", "dog", 0),
			fields:      []string{"cat cat cat", "a cat"},
			wantTotal:   4,
			wantTexts:   []string{"dog dog dog", "a dog"},
			wantMessage: feedback.Replaced(4),
			wantCommits: 1,
		},
		{
			name:        "cap_applies_per_field",
			store:       store("cat", "dog", 2),
			fields:      []string{"cat cat cat", "cat cat cat"},
			wantTotal:   4,
			wantTexts:   []string{"dog dog cat", "dog dog cat"},
			wantMessage: feedback.Replaced(4),
			wantCommits: 1,
		},
		{
			name:        "rules_chain_in_order",
			store:       store("a", "b", 0, "b", "c", 0),
			fields:      []string{"a"},
			wantTotal:   2,
			wantTexts:   []string{"c"},
			wantMessage: feedback.Replaced(2),
			wantCommits: 1,
		},
		{
			name:        "no_matches",
			store:       store("zzz", "y", 0),
			fields:      []string{"hello"},
			wantTexts:   []string{"hello"},
			wantMessage: feedback.NoChanges(),
		},
		{
			name:        "no_active_rules",
			store:       store("", "y", 0),
			fields:      []string{"hello"},
			wantTexts:   []string{"hello"},
			wantMessage: feedback.NoActiveRules(),
			wantSkipped: true,
		},
		{
			name:        "empty_store",
			store:       config.NewStore(nil),
			fields:      []string{"hello"},
			wantTexts:   []string{"hello"},
			wantMessage: feedback.NoActiveRules(),
			wantSkipped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.New(zerolog.TestWriter{T: t}).Level(zerolog.DebugLevel)
			ctx := logger.WithContext(context.Background())

			mems := make([]*field.Memory, len(tt.fields))
			fields := make([]field.Field, len(tt.fields))
			for i, text := range tt.fields {
				mems[i] = field.NewMemory("f"+strconv.Itoa(i), field.ValueBearing, text)
				fields[i] = mems[i]
			}

			banner := &MockBanner{}
			banner.On("Show", mock.Anything, tt.wantMessage).Return(nil).Once()
			notifier := &MockNotifier{}

			target := &memoryTarget{Collector: field.Static(fields...), banner: banner}

			outcome, err := PerformSingleAction(ctx, Options{
				Resolver: resolveTo(target),
				Store:    tt.store,
				Notifier: notifier,
			})
			require.NoError(t, err)

			assert.NotEmpty(t, outcome.ID)
			assert.Equal(t, "memory", outcome.Target)
			assert.Equal(t, tt.wantTotal, outcome.Total())
			assert.Equal(t, tt.wantMessage, outcome.Shown)
			assert.Equal(t, tt.wantSkipped, errors.Is(outcome.Skipped, ErrNoActiveRules))
			assert.Equal(t, tt.wantCommits, target.commits)

			for i, m := range mems {
				got, _ := m.Text(ctx)
				assert.Equal(t, tt.wantTexts[i], got, "field %d", i)
				if got == tt.fields[i] {
					assert.Zero(t, m.Writes(), "untouched field should not be written")
					assert.Empty(t, m.Events(), "untouched field should not be notified")
				}
			}

			banner.AssertExpectations(t)
			notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		})
	}
}

func TestPerformSingleActionInvocationIDs(t *testing.T) {
	banner := &MockBanner{}
	banner.On("Show", mock.Anything, mock.Anything).Return(nil)

	opts := Options{
		Resolver: resolveTo(&memoryTarget{Collector: field.Static(), banner: banner}),
		Store:    store("a", "b", 0),
		Notifier: &MockNotifier{},
	}

	first, err := PerformSingleAction(context.Background(), opts)
	require.NoError(t, err)
	second, err := PerformSingleAction(context.Background(), opts)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestPerformSingleActionNoTarget(t *testing.T) {
	notifier := &MockNotifier{}
	notifier.On("Notify", mock.Anything, feedback.NoTarget()).Return(nil).Once()

	_, err := PerformSingleAction(context.Background(), Options{
		Resolver: ResolverFunc(func(ctx context.Context) (Target, error) {
			return nil, errors.Errorf("%w: no tabs", ErrNoActiveTarget)
		}),
		Store:    store("a", "b", 0),
		Notifier: notifier,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoActiveTarget)
	notifier.AssertExpectations(t)
}

func TestPerformSingleActionFailures(t *testing.T) {
	collectErr := errors.New("page context is gone")

	tests := []struct {
		name       string
		target     func(banner feedback.Banner) *memoryTarget
		bannerErr  error
		useBanner  bool
		wantNotify bool
		wantErr    string
	}{
		{
			name: "collect_failure_shown_on_banner",
			target: func(b feedback.Banner) *memoryTarget {
				return &memoryTarget{
					Collector: field.CollectorFunc(func(ctx context.Context) ([]field.Field, error) { return nil, collectErr }),
					banner:    b,
				}
			},
			useBanner: true,
			wantErr:   "collecting fields: page context is gone",
		},
		{
			name: "banner_failure_falls_back_to_notification",
			target: func(b feedback.Banner) *memoryTarget {
				return &memoryTarget{
					Collector: field.CollectorFunc(func(ctx context.Context) ([]field.Field, error) { return nil, collectErr }),
					banner:    b,
				}
			},
			useBanner:  true,
			bannerErr:  errors.New("snackbar failed"),
			wantNotify: true,
			wantErr:    "collecting fields",
		},
		{
			name: "no_banner_uses_notification",
			target: func(b feedback.Banner) *memoryTarget {
				return &memoryTarget{
					Collector: field.CollectorFunc(func(ctx context.Context) ([]field.Field, error) { return nil, collectErr }),
				}
			},
			wantNotify: true,
			wantErr:    "collecting fields",
		},
		{
			name: "commit_failure",
			target: func(b feedback.Banner) *memoryTarget {
				return &memoryTarget{
					Collector: field.Static(field.NewMemory("f", field.ValueBearing, "a")),
					banner:    b,
					commit:    errors.New("disk full"),
				}
			},
			useBanner: true,
			wantErr:   "committing memory: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			banner := &MockBanner{}
			banner.On("Show", mock.Anything, mock.MatchedBy(func(m feedback.Message) bool {
				return strings.HasPrefix(m.Normal, "An error occurred during operation: ")
			})).Return(tt.bannerErr)

			notifier := &MockNotifier{}
			notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

			var b feedback.Banner
			if tt.useBanner {
				b = banner
			}

			outcome, err := PerformSingleAction(context.Background(), Options{
				Resolver: resolveTo(tt.target(b)),
				Store:    store("a", "b", 0),
				Notifier: notifier,
			})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			require.NotNil(t, outcome)
			assert.Contains(t, outcome.Shown.Normal, "Check logs for more details.")

			if tt.wantNotify {
				notifier.AssertCalled(t, "Notify", mock.Anything, mock.Anything)
			} else {
				notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestPerformSingleActionFallbackBanner(t *testing.T) {
	fallback := &MockBanner{}
	fallback.On("Show", mock.Anything, feedback.Replaced(1)).Return(nil).Once()

	_, err := PerformSingleAction(context.Background(), Options{
		Resolver: resolveTo(&memoryTarget{Collector: field.Static(field.NewMemory("f", field.ValueBearing, "a"))}),
		Store:    store("a", "b", 0),
		Notifier: &MockNotifier{},
		Banner:   fallback,
	})

	require.NoError(t, err)
	fallback.AssertExpectations(t)
}

func TestPerformSingleActionConsole(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	_, err := PerformSingleAction(context.Background(), Options{
		Resolver: resolveTo(&memoryTarget{Collector: field.Static(
			field.NewMemory("input#a", field.ValueBearing, "cat"),
			field.NewMemory("div#b", field.ContentBearing, "dog"),
		)}),
		Store:    store("cat", "lion", 0),
		Notifier: &MockNotifier{},
		Console:  log.New(buf, zerolog.Nop()),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "◆ memory • memory")
	assert.Contains(t, out, "input#a")
	assert.Contains(t, out, "1 replaced")
	assert.Contains(t, out, "no change")
}

func TestOptionsValidate(t *testing.T) {
	_, err := PerformSingleAction(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolver is required")
}

func TestDocumentTarget(t *testing.T) {
	dir := t.TempDir()
	path := "form.html"
	require.NoError(t, os.WriteFile(filepath.Join(dir, path), []byte(
		`<html><body><form><input type="text" id="q" value="cat and cat"><textarea>no match</textarea></form></body></html>`,
	), 0644))

	logger := zerolog.Nop()
	mgr := status.New(dir, &logger)

	var events []htmldoc.DispatchedEvent
	resolver := ResolverFunc(func(ctx context.Context) (Target, error) {
		target, err := OpenDocument(ctx, mgr, path, true)
		if err != nil {
			return nil, err
		}
		target.Document().AddListener(func(ev htmldoc.DispatchedEvent) { events = append(events, ev) })
		return target, nil
	})

	outcome, err := PerformSingleAction(context.Background(), Options{
		Resolver: resolver,
		Store:    store("cat", "dog", 1),
		Notifier: &MockNotifier{},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Total())

	content, err := os.ReadFile(filepath.Join(dir, path))
	require.NoError(t, err)
	assert.Contains(t, string(content), `value="dog and cat"`)
	assert.Contains(t, string(content), `<textarea>no match</textarea>`)

	backup, err := os.ReadFile(filepath.Join(dir, path+".bak"))
	require.NoError(t, err)
	assert.Contains(t, string(backup), `value="cat and cat"`)

	require.Len(t, events, 2)
	assert.Equal(t, field.EventInput, events[0].Type)
	assert.Equal(t, field.EventChange, events[1].Type)
	assert.Equal(t, "input#q", events[0].Target)
}

func TestDocumentResolverMissingFile(t *testing.T) {
	logger := zerolog.Nop()
	mgr := status.New(t.TempDir(), &logger)

	_, err := DocumentResolver(mgr, "missing.html", false).Resolve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoActiveTarget)
}
