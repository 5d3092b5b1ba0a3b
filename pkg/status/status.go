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

package status

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 DocumentStatus is the outcome of rewriting one document
type DocumentStatus int

const (
	StatusUnknown   DocumentStatus = iota
	StatusModified                 // At least one field changed, document written back
	StatusUnchanged                // No replacements, document left as is
	StatusFailed                   // The action failed for this document
)

// String returns a string representation of DocumentStatus
func (s DocumentStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 DocumentInfo contains what is known about a processed document
type DocumentInfo struct {
	Path         string         // Path relative to the base directory
	Status       DocumentStatus // Current status
	Replacements int            // Replacements made in the document
	Error        error          // Any error associated with this document
}

// 💾 DocumentStore reads and writes documents
type DocumentStore interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	BackupFile(ctx context.Context, path string) error
}

// 📈 StatusReporter tracks document status and reports progress
type StatusReporter interface {
	TrackDocument(ctx context.Context, info DocumentInfo)
	ListDocuments(ctx context.Context) []DocumentInfo

	StartOperation(ctx context.Context, total int)
	Advance(ctx context.Context)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both DocumentStore and StatusReporter
type Manager struct {
	baseDir   string
	logger    *zerolog.Logger
	formatter Formatter

	mu   sync.RWMutex
	docs map[string]DocumentInfo

	total     int
	processed int
}

var (
	_ DocumentStore  = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🏭 New creates a new status manager rooted at baseDir
func New(baseDir string, logger *zerolog.Logger) *Manager {
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		logger:    logger,
		formatter: NewDefaultFormatter(),
		docs:      make(map[string]DocumentInfo),
	}
}

// 🔒 getAbsPath resolves path against the base directory
func (m *Manager) getAbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

// DocumentStore implementation

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFileAtomic writes content next to path and renames it into place,
// keeping the permissions of an existing file.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath := m.getAbsPath(path)
	tempPath := absPath + ".tmp"

	mode := os.FileMode(0644)
	if fi, err := os.Stat(absPath); err == nil {
		mode = fi.Mode().Perm()
	}

	if err := os.WriteFile(tempPath, content, mode); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// BackupFile copies path to path.bak. Missing files are not an error.
func (m *Manager) BackupFile(ctx context.Context, path string) error {
	absPath := m.getAbsPath(path)

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Errorf("checking file existence: %w", err)
	}

	if err := copyFile(absPath, absPath+".bak"); err != nil {
		return errors.Errorf("creating backup: %w", err)
	}

	return nil
}

// StatusReporter implementation

func (m *Manager) TrackDocument(ctx context.Context, info DocumentInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[info.Path] = info

	event := m.logger.Info()
	if info.Status == StatusFailed {
		event = m.logger.Error().Err(info.Error)
	}
	event.Str("path", info.Path).
		Str("status", info.Status.String()).
		Int("replacements", info.Replacements).
		Msg(m.formatter.FormatDocument(info))
}

// ListDocuments returns every tracked document ordered by path
func (m *Manager) ListDocuments(ctx context.Context) []DocumentInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]DocumentInfo, 0, len(m.docs))
	for _, info := range m.docs {
		docs = append(docs, info)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.logger.Info().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

// Advance marks one more document as processed. Safe for concurrent use.
func (m *Manager) Advance(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed++
	m.logger.Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

// Summary counts tracked documents per status and sums their replacements
func (m *Manager) Summary(ctx context.Context) (counts map[DocumentStatus]int, replacements int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts = make(map[DocumentStatus]int)
	for _, info := range m.docs {
		counts[info.Status]++
		replacements += info.Replacements
	}
	return counts, replacements
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	return copyAndClose(destination, source)
}

// copyAndClose copies src into dst and closes dst. A failed close is reported
// since the copy may not have been flushed.
func copyAndClose(dst io.WriteCloser, src io.Reader) (err error) {
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = errors.Errorf("closing destination file: %w", cerr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.Errorf("copying file: %w", err)
	}

	return nil
}
