// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package diffanalysis

import (
	"regexp"
	"strings"
)

// FileStatus classifies a diff file header by its mode markers.
type FileStatus string

const (
	StatusAdded    FileStatus = "Added"
	StatusRemoved  FileStatus = "Removed"
	StatusModified FileStatus = "Modified"
)

// ClassifyFileStatus inspects the raw per-file diff header lines (the
// lines between `diff --git` and the first `@@` hunk) for `new file
// mode` / `deleted file mode` markers, defaulting to Modified.
func ClassifyFileStatus(rawHeader string) FileStatus {
	switch {
	case strings.Contains(rawHeader, "new file mode"):
		return StatusAdded
	case strings.Contains(rawHeader, "deleted file mode"):
		return StatusRemoved
	default:
		return StatusModified
	}
}

// symbolPatterns maps a provisional language tag to regexes over a
// single added/removed diff line, each with a named "name" capture
// group. This is deliberately coarse — see spec.md §4.5's note that
// diff-only extraction is a fallback, not a replacement for full
// before/after structural comparison.
var symbolPatterns = map[string][]*regexp.Regexp{
	"go": {
		regexp.MustCompile(`^\s*func\s+(?:\([^)]*\)\s*)?(?P<name>\w+)\s*\(`),
		regexp.MustCompile(`^\s*type\s+(?P<name>\w+)\s+(?:struct|interface)\b`),
	},
	"typescript": {
		regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(?P<name>\w+)\s*\(`),
		regexp.MustCompile(`^\s*(?:export\s+)?class\s+(?P<name>\w+)\b`),
		regexp.MustCompile(`^\s*(?:export\s+)?interface\s+(?P<name>\w+)\b`),
	},
	"javascript": {
		regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(?P<name>\w+)\s*\(`),
		regexp.MustCompile(`^\s*(?:export\s+)?class\s+(?P<name>\w+)\b`),
	},
	"python": {
		regexp.MustCompile(`^\s*def\s+(?P<name>\w+)\s*\(`),
		regexp.MustCompile(`^\s*class\s+(?P<name>\w+)\b`),
	},
	"rust": {
		regexp.MustCompile(`^\s*(?:pub\s+)?fn\s+(?P<name>\w+)\s*\(`),
		regexp.MustCompile(`^\s*(?:pub\s+)?struct\s+(?P<name>\w+)\b`),
		regexp.MustCompile(`^\s*(?:pub\s+)?trait\s+(?P<name>\w+)\b`),
	},
}

// HeuristicSymbol is one provisional symbol token surfaced from raw diff
// text without a parsed AST.
type HeuristicSymbol struct {
	Name  string
	Kind  string // "function", "class", "interface" — best-effort
	Added bool   // true if found on a + line, false if on a - line
}

// ExtractHeuristicSymbols scans a FileDiff's added/removed lines for the
// given language's symbol patterns.
func ExtractHeuristicSymbols(fd FileDiff, language string) []HeuristicSymbol {
	patterns := symbolPatterns[language]
	if len(patterns) == 0 {
		return nil
	}

	var out []HeuristicSymbol
	for _, h := range fd.Hunks {
		for _, line := range h.Lines {
			if line.Kind == LineContext {
				continue
			}
			for _, re := range patterns {
				m := re.FindStringSubmatch(line.Text)
				if m == nil {
					continue
				}
				name := m[re.SubexpIndex("name")]
				if name == "" {
					continue
				}
				out = append(out, HeuristicSymbol{
					Name:  name,
					Kind:  kindFromPattern(re.String()),
					Added: line.Kind == LineAdded,
				})
			}
		}
	}
	return out
}

func kindFromPattern(pattern string) string {
	switch {
	case strings.Contains(pattern, "interface"):
		return "interface"
	case strings.Contains(pattern, "class") || strings.Contains(pattern, "struct") || strings.Contains(pattern, "trait"):
		return "class"
	default:
		return "function"
	}
}
