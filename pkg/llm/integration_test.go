// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration
// +build integration

package llm

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestOpenAICompatibleServer_Integration exercises Chat against a real
// OpenAI-compatible endpoint (Ollama's /v1 shim, vLLM, or similar), the
// same call shape the review orchestrator uses via BuildChatMessages.
// Skipped unless LLM_SERVER_URL points at a running server.
func TestOpenAICompatibleServer_Integration(t *testing.T) {
	serverURL := os.Getenv("LLM_SERVER_URL")
	if serverURL == "" {
		t.Skip("LLM_SERVER_URL not set, skipping live integration test")
	}
	model := os.Getenv("LLM_SERVER_MODEL")
	if model == "" {
		t.Skip("LLM_SERVER_MODEL not set, skipping live integration test")
	}

	provider, err := NewProvider(ProviderConfig{
		Type:         "openai",
		BaseURL:      serverURL,
		DefaultModel: model,
		Timeout:      2 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}

	t.Logf("Provider: %s", provider.Name())

	ctx := context.Background()
	resp, err := provider.Chat(ctx, ChatRequest{
		Messages:    BuildChatMessages(SystemPrompts.CodeReview, "What is 2+2? Answer with just the number."),
		MaxTokens:   10,
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}

	t.Logf("Response: %s", resp.Message.Content)
	t.Logf("Tokens: %d prompt + %d output = %d total", resp.PromptTokens, resp.OutputTokens, resp.TotalTokens)
	t.Logf("Duration: %v", resp.Duration)
}
