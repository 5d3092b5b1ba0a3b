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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textswap/pkg/feedback"
)

type memoryClipboard struct {
	text string
}

func (c *memoryClipboard) ReadAll() (string, error) { return c.text, nil }

func (c *memoryClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func TestClipboardTarget(t *testing.T) {
	board := &memoryClipboard{text: "hello world, hello"}

	banner := &MockBanner{}
	banner.On("Show", mock.Anything, feedback.Replaced(2)).Return(nil).Once()

	outcome, err := PerformSingleAction(context.Background(), Options{
		Resolver: ClipboardResolver(board),
		Store:    store("hello", "bye", 0),
		Notifier: &MockNotifier{},
		Banner:   banner,
	})
	require.NoError(t, err)

	assert.Equal(t, "clipboard", outcome.Target)
	assert.Equal(t, 2, outcome.Total())
	assert.Equal(t, "bye world, bye", board.text)
	banner.AssertExpectations(t)
}
