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

// Package browser collects editable fields from a live browser page over the
// DevTools protocol.
package browser

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrNoPage is returned when the browser has no page to operate on.
var ErrNoPage = errors.Base("no open page in browser")

// Config holds browser connection settings.
type Config struct {
	// DebuggerURL is the DevTools websocket URL of a running browser. When empty
	// a browser is launched.
	DebuggerURL string `json:"debugger_url" yaml:"debugger_url"`

	// Bin overrides the browser binary used when launching.
	Bin string `json:"bin" yaml:"bin"`

	// Headless launches the browser without a window.
	Headless bool `json:"headless" yaml:"headless"`

	// URL is opened in a new page after launching. Ignored when attaching.
	URL string `json:"url" yaml:"url"`

	// TimeoutMs bounds every DevTools call made while running an action.
	TimeoutMs int `json:"timeout_ms" yaml:"timeout_ms"`
}

// Timeout returns the per-action timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Session is a connection to a browser.
type Session struct {
	cfg      Config
	browser  *rod.Browser
	launched bool
}

// Connect attaches to cfg.DebuggerURL or launches a new browser.
func Connect(ctx context.Context, cfg Config) (*Session, error) {
	logger := zerolog.Ctx(ctx)

	controlURL := cfg.DebuggerURL
	launched := false
	if controlURL == "" {
		l := launcher.New().Headless(cfg.Headless)
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, errors.Errorf("launching browser: %w", err)
		}
		controlURL = u
		launched = true
		logger.Debug().Str("control_url", controlURL).Msg("launched browser")
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, errors.Errorf("connecting to browser: %w", err)
	}

	s := &Session{cfg: cfg, browser: b, launched: launched}

	if launched && cfg.URL != "" {
		p, err := b.Page(proto.TargetCreateTarget{URL: cfg.URL})
		if err != nil {
			_ = s.Close()
			return nil, errors.Errorf("opening %s: %w", cfg.URL, err)
		}
		if err := p.WaitLoad(); err != nil {
			_ = s.Close()
			return nil, errors.Errorf("loading %s: %w", cfg.URL, err)
		}
	}

	return s, nil
}

// Close disconnects from the browser, shutting it down if it was launched.
func (s *Session) Close() error {
	if s.launched {
		return s.browser.Close()
	}
	return nil
}

// ActivePage returns the page the user is looking at: the first page that is
// visible and focused, else the first visible page.
func (s *Session) ActivePage(ctx context.Context) (*Page, error) {
	logger := zerolog.Ctx(ctx)

	timeout := s.cfg.Timeout()

	pages, err := s.browser.Context(ctx).Timeout(timeout).Pages()
	if err != nil {
		return nil, errors.Errorf("listing pages: %w", err)
	}

	var visible *rod.Page
	for _, p := range pages {
		res, err := p.Context(ctx).Timeout(timeout).Eval(`() => ({
			visible: document.visibilityState === 'visible',
			focused: document.hasFocus(),
		})`)
		if err != nil {
			logger.Debug().Err(err).Msg("skipping page that cannot be inspected")
			continue
		}
		state := res.Value.Map()
		if !state["visible"].Bool() {
			continue
		}
		if state["focused"].Bool() {
			return newPage(p, timeout), nil
		}
		if visible == nil {
			visible = p
		}
	}

	if visible == nil {
		return nil, errors.WithStack(ErrNoPage)
	}
	return newPage(visible, timeout), nil
}
