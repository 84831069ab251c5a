// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import (
	"strings"
	"text/template"
)

// PromptVersion is bumped whenever promptTemplate's text changes in a way
// that should invalidate existing cache entries — it's folded into C7's
// cache key.
const PromptVersion = "v1"

var promptTemplate = template.Must(template.New("review").Parse(`Review the following code change.

Diff:
{{.Diff}}
{{if .Structural}}
Structural analysis result:
{{.Structural}}
{{end}}{{if .DependencyInsights}}
Dependency insights:
{{.DependencyInsights}}
{{end}}{{if .IssueContext}}
Relevant issue context:
{{.IssueContext}}

Please analyze deviation based on the issue context above:
1. Whether the change covers the issue's key tasks and acceptance criteria.
2. Whether there are changes unrelated to the issue, or deviations from the expected implementation.
{{end}}
Please provide:
1. An overall quality assessment.
2. Potential issues.
3. Suggested improvements.
4. A score from 1 to 100 (write it as "Score: N").
`))

// PromptInput is the data threaded through promptTemplate.
type PromptInput struct {
	Diff               string
	Structural         string
	DependencyInsights string
	IssueContext       string
}

// BuildPrompt renders the review prompt, per spec.md §4.6 step 8.
func BuildPrompt(in PromptInput) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, in); err != nil {
		return "", err
	}
	return b.String(), nil
}
