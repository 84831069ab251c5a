// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

const defaultScore = 85

var scoreMarkers = []string{"评分", "Score", "score"}

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// ExtractScore scans an AI response line by line for one of the score
// markers, then takes the first numeric token in [0,100] on that line.
// Absent a match, it returns the default score of 85, per spec.md §4.6
// step 10.
func ExtractScore(response string) int {
	scanner := bufio.NewScanner(strings.NewReader(response))
	for scanner.Scan() {
		line := scanner.Text()
		if !containsAny(line, scoreMarkers) {
			continue
		}
		if n, ok := firstScoreInRange(line); ok {
			return n
		}
	}
	return defaultScore
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func firstScoreInRange(line string) (int, bool) {
	for _, raw := range numberPattern.FindAllString(line, -1) {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		n := int(f)
		if n >= 0 && n <= 100 {
			return n, true
		}
	}
	return 0, false
}

// ApplyPenalties subtracts 10 per Critical/High-severity finding and 5
// per critical-node-impact finding from the base score, saturating at 0,
// per spec.md §4.6 step 10.
func ApplyPenalties(base int, findings []Finding) int {
	score := base
	for _, f := range findings {
		if f.Severity == SeverityCritical || f.Severity == SeverityHigh {
			score -= 10
		}
		if f.Title == criticalNodeFindingTitle {
			score -= 5
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

const criticalNodeFindingTitle = "critical node change"
