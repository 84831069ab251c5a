// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package queryreg implements GitAI's capture-query registry (C2): load
// per-language capture queries from an embedded TOML default, merge in a
// user override file when one is configured, compile lazily via
// go-tree-sitter, and cache compiled queries by (language, kind).
package queryreg

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed default.toml
var embeddedFS embed.FS

// Kind identifies one of the four capture-query roles a language table may
// define.
type Kind string

const (
	KindFunction Kind = "function_query"
	KindClass    Kind = "class_query"
	KindComment  Kind = "comment_query"
	KindCall     Kind = "call_query"
)

// languageTable is one language's four raw query strings, as they appear
// in the TOML document.
type languageTable struct {
	FunctionQuery string `toml:"function_query"`
	ClassQuery    string `toml:"class_query"`
	CommentQuery  string `toml:"comment_query"`
	CallQuery     string `toml:"call_query"`
}

func (t languageTable) get(kind Kind) string {
	switch kind {
	case KindFunction:
		return t.FunctionQuery
	case KindClass:
		return t.ClassQuery
	case KindComment:
		return t.CommentQuery
	case KindCall:
		return t.CallQuery
	default:
		return ""
	}
}

// Registry resolves and lazily compiles capture queries for each
// supported language, caching compiled *sitter.Query by (language, kind).
type Registry struct {
	mu        sync.RWMutex
	tables    map[string]languageTable // language name -> merged table
	compiled  map[cacheKey]*sitter.Query
	compileMu sync.Mutex
}

type cacheKey struct {
	language string
	kind     Kind
}

// New loads the embedded default query document and, if overridePath is
// non-empty and exists, merges a user override on top of it: a language
// table present in the override replaces only the query kinds it sets,
// inheriting the embedded default for any kind it omits.
func New(overridePath string) (*Registry, error) {
	defaults, err := loadTOML(embeddedFS, "default.toml")
	if err != nil {
		return nil, fmt.Errorf("load embedded default queries: %w", err)
	}

	r := &Registry{
		tables:   defaults,
		compiled: make(map[cacheKey]*sitter.Query),
	}

	if overridePath != "" {
		overrides, err := loadTOMLFile(overridePath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// No override file at that path: the embedded defaults stand.
		case err != nil:
			return nil, fmt.Errorf("load query override %s: %w", overridePath, err)
		default:
			r.mergeOverrides(overrides)
		}
	}

	return r, nil
}

func (r *Registry) mergeOverrides(overrides map[string]languageTable) {
	for lang, override := range overrides {
		base, ok := r.tables[lang]
		if !ok {
			r.tables[lang] = override
			continue
		}
		if override.FunctionQuery != "" {
			base.FunctionQuery = override.FunctionQuery
		}
		if override.ClassQuery != "" {
			base.ClassQuery = override.ClassQuery
		}
		if override.CommentQuery != "" {
			base.CommentQuery = override.CommentQuery
		}
		if override.CallQuery != "" {
			base.CallQuery = override.CallQuery
		}
		r.tables[lang] = base
	}
}

// RawQuery returns the uncompiled capture-query text for a language/kind,
// or "" if the language or kind is not configured.
func (r *Registry) RawQuery(language string, kind Kind) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tables[language].get(kind)
}

// Compiled returns the lazily-compiled *sitter.Query for (language, kind)
// against the given grammar, caching the result. Returns (nil, nil) if
// the language/kind has no configured query (e.g. optional call_query).
func (r *Registry) Compiled(language string, kind Kind, grammar *sitter.Language) (*sitter.Query, error) {
	key := cacheKey{language, kind}

	r.mu.RLock()
	if q, ok := r.compiled[key]; ok {
		r.mu.RUnlock()
		return q, nil
	}
	r.mu.RUnlock()

	raw := r.RawQuery(language, kind)
	if raw == "" {
		return nil, nil
	}

	r.compileMu.Lock()
	defer r.compileMu.Unlock()

	r.mu.RLock()
	if q, ok := r.compiled[key]; ok {
		r.mu.RUnlock()
		return q, nil
	}
	r.mu.RUnlock()

	q, err := sitter.NewQuery([]byte(raw), grammar)
	if err != nil {
		return nil, fmt.Errorf("compile %s %s query: %w", language, kind, err)
	}

	r.mu.Lock()
	r.compiled[key] = q
	r.mu.Unlock()

	return q, nil
}

func loadTOML(fsys embed.FS, name string) (map[string]languageTable, error) {
	data, err := fsys.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return parseTOML(data)
}

func loadTOMLFile(path string) (map[string]languageTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTOML(data)
}

func parseTOML(data []byte) (map[string]languageTable, error) {
	tables := map[string]languageTable{}
	if err := toml.Unmarshal(data, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}
