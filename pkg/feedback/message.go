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

// Package feedback reports the outcome of an action to the user, either on the
// page that was rewritten or, when there is no page, as a notification.
package feedback

import (
	"context"
	"fmt"
	"time"
)

// DefaultDuration is how long a banner stays visible when a message sets none.
const DefaultDuration = 3 * time.Second

// maxDetail bounds the error text shown to the user.
const maxDetail = 200

// Message is a banner: a primary line, an optional emphasized line and a
// display duration.
type Message struct {
	Normal    string
	Important string
	Duration  time.Duration
}

// DisplayDuration returns Duration, or DefaultDuration when unset.
func (m Message) DisplayDuration() time.Duration {
	if m.Duration <= 0 {
		return DefaultDuration
	}
	return m.Duration
}

// Banner shows a transient message in the context of a target.
type Banner interface {
	Show(ctx context.Context, m Message) error
}

// Notification is a system level message used when no banner is available.
type Notification struct {
	Title   string
	Message string
}

// Notifier delivers notifications outside of any page.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NoActiveRules is shown when every find text is empty.
func NoActiveRules() Message {
	return Message{Normal: "Please provide text for at least one search step."}
}

// NoChanges is shown when the rules matched nothing.
func NoChanges() Message {
	return Message{Normal: "No changes made by replacement rules."}
}

// Replaced is shown after n > 0 replacements.
func Replaced(n int) Message {
	noun := "occurrences"
	if n == 1 {
		noun = "occurrence"
	}
	return Message{
		Normal:    fmt.Sprintf("Replacement performed on %d %s.", n, noun),
		Important: "Check replaced values.",
		Duration:  8 * time.Second,
	}
}

// Failure is shown when an action fails after a target was found.
func Failure(err error) Message {
	return Message{
		Normal:   fmt.Sprintf("An error occurred during operation: %s\n\nCheck logs for more details.", Detail(err)),
		Duration: 10 * time.Second,
	}
}

// NoTarget is the notification sent when there is nothing to act on.
func NoTarget() Notification {
	return Notification{
		Title:   "textswap",
		Message: "Error: Could not get active target to perform action.",
	}
}

// FailureNotification is sent when a failure cannot be shown on a banner.
func FailureNotification(err error) Notification {
	return Notification{
		Title:   "textswap error",
		Message: "Error: " + Detail(err),
	}
}

// Detail returns the user facing text of err, truncated to a readable length.
func Detail(err error) string {
	if err == nil {
		return "An unknown error occurred."
	}
	msg := []rune(err.Error())
	if len(msg) <= maxDetail {
		return string(msg)
	}
	return string(msg[:maxDetail-1]) + "…"
}
