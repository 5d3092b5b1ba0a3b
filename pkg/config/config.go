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

package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultFile is the store file looked up when no path is given.
const DefaultFile = ".textswaprc"

// ErrUnsupportedFormat is returned for files no parser can read.
var ErrUnsupportedFormat = errors.Base("unsupported config format")

// 🔌 Parser is the interface for store parsers
type Parser interface {
	// 📝 Parse parses the store from bytes
	Parse(ctx context.Context, data []byte, filename string) (map[string]any, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Store is the persisted key-value mapping the rules are built from.
// It is read once per invocation and never written.
type Store struct {
	values   map[string]any
	location string
}

// NewStore wraps values in a Store.
func NewStore(values map[string]any) *Store {
	if values == nil {
		values = map[string]any{}
	}
	return &Store{values: values}
}

// Lookup returns the value stored under key.
func (s *Store) Lookup(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the stored keys, sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Location returns the file the store was loaded from, if any.
func (s *Store) Location() string {
	return s.location
}

// 🎯 Load reads the store at path. The format follows the file extension;
// DefaultFile (and any *.textswaprc) is tried as YAML, then as HCL.
func Load(ctx context.Context, path string) (*Store, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading store")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading store file: %w", err)
	}

	values, err := parse(ctx, data, path)
	if err != nil {
		return nil, err
	}

	return &Store{values: values, location: path}, nil
}

func parse(ctx context.Context, data []byte, path string) (map[string]any, error) {
	if isRC(path) {
		values, yamlErr := (&YAMLParser{}).Parse(ctx, data, path)
		if yamlErr == nil {
			return values, nil
		}
		values, hclErr := (&HCLParser{}).Parse(ctx, data, path)
		if hclErr == nil {
			return values, nil
		}
		return nil, errors.Errorf("failed to parse %s as YAML (%s) or HCL: %w", filepath.Base(path), yamlErr.Error(), hclErr)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	values, err := p.Parse(ctx, data, path)
	if err != nil {
		return nil, errors.Errorf("parsing store: %w", err)
	}
	return values, nil
}

func isRC(path string) bool {
	return strings.HasSuffix(strings.ToLower(filepath.Base(path)), DefaultFile)
}
