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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fieldIndent = 4  // spaces to indent field entries
	nameWidth   = 35 // Base width for field name
	kindWidth   = 10 // Width for field kind
)

// 🎯 FieldOperation is one rewritten (or skipped) field
type FieldOperation struct {
	Field        string // Field name
	Kind         string // value / content
	Replacements int    // Number of replacements made
}

// 📦 TargetOperation is one run over a target
type TargetOperation struct {
	ID     string // Invocation id
	Target string // Page URL, document path or "clipboard"
	Type   string // page / document / clipboard / stdin
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *TargetOperation
	fields    []FieldOperation
}

// 🏭 New creates a new logger writing user lines to console and structured
// records to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFieldOperation formats a field operation for display
func (l *Logger) formatFieldOperation(op FieldOperation) string {
	symbol, symbolColor := "-", color.FgYellow
	if op.Replacements > 0 {
		symbol, symbolColor = "⟳", color.FgBlue
	}

	status := "no change"
	if op.Replacements > 0 {
		status = fmt.Sprintf("%d replaced", op.Replacements)
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fieldIndent, ""),
		color.New(symbolColor).Sprint(symbol),
		fmt.Sprintf("%-*s", nameWidth, op.Field),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", kindWidth, op.Kind)),
		status)
}

// 📝 LogFieldOperation logs a field operation
func (l *Logger) LogFieldOperation(ctx context.Context, op FieldOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fields = append(l.fields, op)

	fmt.Fprintln(l.console, l.formatFieldOperation(op))

	l.zlog.Info().
		Str("field", op.Field).
		Str("kind", op.Kind).
		Int("replacements", op.Replacements).
		Msg("field operation")
}

// 📝 StartTargetOperation starts a run over a target
func (l *Logger) StartTargetOperation(ctx context.Context, op TargetOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.fields = nil

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Target),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Type))

	l.zlog.Info().
		Str("id", op.ID).
		Str("target", op.Target).
		Str("type", op.Type).
		Msg("starting target operation")
}

// 📝 EndTargetOperation ends the current target operation
func (l *Logger) EndTargetOperation(ctx context.Context, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	changed := 0
	for _, f := range l.fields {
		if f.Replacements > 0 {
			changed++
		}
	}

	l.zlog.Info().
		Str("id", l.currentOp.ID).
		Str("target", l.currentOp.Target).
		Int("fields", len(l.fields)).
		Int("changed", changed).
		Int("total", total).
		Msg("target operation complete")

	l.currentOp = nil
	l.fields = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("textswap")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
