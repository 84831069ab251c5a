// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package issues defines GitAI's issue-tracker collaborator: fetching
// issue context for the deviation-analysis section of a review prompt,
// grounded on review/executor.rs's DevOps issue-context injection.
package issues

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Issue is one tracked work item's context, as surfaced to the review
// prompt: enough to judge whether a diff's changes match its intent.
type Issue struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	Title     string   `json:"title"`
	Priority  string   `json:"priority,omitempty"`
	Assignee  string   `json:"assignee,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	URL       string   `json:"url,omitempty"`
	AIContext string   `json:"ai_context,omitempty"`
}

// Tracker is the interface C6 depends on for issue context.
type Tracker interface {
	GetIssues(ctx context.Context, ids []string, spaceID string) ([]Issue, error)
}

// HTTPTracker fetches issue context from an HTTP JSON API.
type HTTPTracker struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// GetIssues requests the given issue ids, optionally scoped to a space,
// from <BaseURL>/issues?ids=...&space=....
func (t HTTPTracker) GetIssues(ctx context.Context, ids []string, spaceID string) ([]Issue, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	if spaceID != "" {
		q.Set("space", spaceID)
	}

	reqURL := strings.TrimRight(t.BaseURL, "/") + "/issues?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch issues: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch issues: unexpected status %d", resp.StatusCode)
	}

	var issues []Issue
	if err := json.NewDecoder(resp.Body).Decode(&issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return issues, nil
}

// NewHTTPTracker builds an HTTPTracker with a sane default timeout.
func NewHTTPTracker(baseURL, token string) HTTPTracker {
	return HTTPTracker{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FormatContext renders issues into the "relevant issue context" prompt
// section, one bullet per issue, mirroring executor.rs's
// id/status/title/priority/assignee/labels/url layout.
func FormatContext(issues []Issue) string {
	if len(issues) == 0 {
		return ""
	}
	var b strings.Builder
	for _, issue := range issues {
		priority := issue.Priority
		if priority == "" {
			priority = "unset"
		}
		assignee := issue.Assignee
		if assignee == "" {
			assignee = "unassigned"
		}
		labels := "none"
		if len(issue.Labels) > 0 {
			labels = strings.Join(issue.Labels, ", ")
		}
		fmt.Fprintf(&b, "- [%s] %s (%s) priority=%s assignee=%s labels=%s %s\n",
			issue.ID, issue.Title, issue.Status, priority, assignee, labels, issue.URL)
		if issue.AIContext != "" {
			fmt.Fprintf(&b, "  context: %s\n", issue.AIContext)
		}
	}
	return b.String()
}
