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

package feedback

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📦 ConsoleBanner draws messages as a box on a terminal
type ConsoleBanner struct {
	out   io.Writer
	title string
}

var _ Banner = (*ConsoleBanner)(nil)

// 🏭 NewConsoleBanner creates a banner titled with the target it reports on
func NewConsoleBanner(out io.Writer, title string) *ConsoleBanner {
	return &ConsoleBanner{out: out, title: title}
}

// Show renders m. The duration is ignored.
func (b *ConsoleBanner) Show(ctx context.Context, m Message) error {
	lines := []string{}
	if m.Normal != "" {
		lines = append(lines, m.Normal)
	}
	if m.Important != "" {
		lines = append(lines, pterm.Bold.Sprint(m.Important))
	}

	box := pterm.DefaultBox
	if b.title != "" {
		box = *box.WithTitle(b.title)
	}

	if _, err := fmt.Fprintln(b.out, box.Sprint(strings.Join(lines, "\n"))); err != nil {
		return errors.Errorf("writing banner: %w", err)
	}
	return nil
}

// 🔔 ConsoleNotifier prints notifications as error lines
type ConsoleNotifier struct {
	out io.Writer
}

var _ Notifier = (*ConsoleNotifier)(nil)

// 🏭 NewConsoleNotifier creates a notifier writing to out
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

func (n *ConsoleNotifier) Notify(ctx context.Context, note Notification) error {
	zerolog.Ctx(ctx).Error().Str("title", note.Title).Msg(note.Message)

	title := color.New(color.Bold, color.FgRed).Sprint(note.Title)
	if _, err := fmt.Fprintf(n.out, "❌ %s: %s\n", title, note.Message); err != nil {
		return errors.Errorf("writing notification: %w", err)
	}
	return nil
}
