// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package diffanalysis

import (
	"strconv"
	"strings"
)

// LineKind tags one line of a parsed hunk.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
)

// Line is one line of a diff hunk, with its line number in the relevant
// side (Added lines carry a "new" line number, Removed lines an "old"
// one; context lines carry both).
type Line struct {
	Kind LineKind
	Text string
	// OldLine/NewLine are 1-based; 0 means not applicable to that side.
	OldLine int
	NewLine int
}

// Hunk is one `@@ -a,b +c,d @@` block.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	Lines              []Line
}

// FileDiff is one file's unified diff: its path(s) and hunks.
type FileDiff struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
	// Binary is true for `Binary files a/... and b/... differ` entries,
	// which carry no hunks.
	Binary bool
}

// ParseUnifiedDiff parses the output of `git diff` (or any unified diff
// with `diff --git` file headers) into one FileDiff per changed file.
func ParseUnifiedDiff(diff string) []FileDiff {
	var files []FileDiff
	var current *FileDiff
	var hunk *Hunk

	flushHunk := func() {
		if hunk != nil && current != nil {
			current.Hunks = append(current.Hunks, *hunk)
			hunk = nil
		}
	}
	flushFile := func() {
		flushHunk()
		if current != nil {
			files = append(files, *current)
			current = nil
		}
	}

	lines := strings.Split(diff, "\n")
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flushFile()
			old, new := parseDiffGitHeader(line)
			current = &FileDiff{OldPath: old, NewPath: new}

		case strings.HasPrefix(line, "Binary files "):
			if current != nil {
				current.Binary = true
			}

		case strings.HasPrefix(line, "--- "):
			if current != nil {
				current.OldPath = stripDiffPrefix(line[4:])
			}

		case strings.HasPrefix(line, "+++ "):
			if current != nil {
				current.NewPath = stripDiffPrefix(line[4:])
			}

		case strings.HasPrefix(line, "@@ "):
			flushHunk()
			h, ok := parseHunkHeader(line)
			if ok {
				hunk = &h
			}

		case hunk != nil && strings.HasPrefix(line, "+"):
			hunk.Lines = append(hunk.Lines, Line{Kind: LineAdded, Text: line[1:], NewLine: hunk.NewStart + countKind(hunk.Lines, LineAdded, LineContext)})

		case hunk != nil && strings.HasPrefix(line, "-"):
			hunk.Lines = append(hunk.Lines, Line{Kind: LineRemoved, Text: line[1:], OldLine: hunk.OldStart + countKind(hunk.Lines, LineRemoved, LineContext)})

		case hunk != nil && strings.HasPrefix(line, " "):
			hunk.Lines = append(hunk.Lines, Line{
				Kind:    LineContext,
				Text:    line[1:],
				OldLine: hunk.OldStart + countKind(hunk.Lines, LineRemoved, LineContext),
				NewLine: hunk.NewStart + countKind(hunk.Lines, LineAdded, LineContext),
			})
		}
	}
	flushFile()
	return files
}

// countKind counts how many lines already appended to a hunk belong to
// either of two kinds (used to compute the running old/new line number
// for the next line without storing extra cursor state).
func countKind(lines []Line, a, b LineKind) int {
	n := 0
	for _, l := range lines {
		if l.Kind == a || l.Kind == b {
			n++
		}
	}
	return n
}

func parseDiffGitHeader(line string) (oldPath, newPath string) {
	rest := strings.TrimPrefix(line, "diff --git ")
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return stripDiffPrefix(parts[0]), stripDiffPrefix(parts[1])
}

func stripDiffPrefix(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "a/") || strings.HasPrefix(p, "b/") {
		return p[2:]
	}
	return p
}

// parseHunkHeader parses "@@ -a,b +c,d @@ optional context" into start
// and length fields. A missing ",len" means len=1, per unified diff spec.
func parseHunkHeader(line string) (Hunk, bool) {
	body := strings.TrimPrefix(line, "@@ ")
	end := strings.Index(body, " @@")
	if end < 0 {
		return Hunk{}, false
	}
	ranges := strings.Fields(body[:end])
	if len(ranges) != 2 {
		return Hunk{}, false
	}
	oldStart, oldLen, ok1 := parseRange(ranges[0], "-")
	newStart, newLen, ok2 := parseRange(ranges[1], "+")
	if !ok1 || !ok2 {
		return Hunk{}, false
	}
	return Hunk{OldStart: oldStart, OldLines: oldLen, NewStart: newStart, NewLines: newLen}, true
}

func parseRange(field, prefix string) (start, length int, ok bool) {
	field = strings.TrimPrefix(field, prefix)
	parts := strings.SplitN(field, ",", 2)
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	length = 1
	if len(parts) == 2 {
		length, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, false
		}
	}
	return start, length, true
}
