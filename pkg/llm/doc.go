// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package llm provides a unified interface for Large Language Model providers.
//
// This package abstracts the differences between various LLM APIs, providing
// a consistent interface for text generation and chat completions. It is used
// by GitAI's review pipeline (C6) to turn a diff and its structural/dependency
// context into a natural-language review.
//
// # Supported Providers
//
// The following LLM providers are supported:
//   - Ollama: Local models, no API key required (default)
//   - OpenAI: GPT-4, GPT-4o-mini, and OpenAI-compatible APIs
//   - Anthropic: Claude models
//   - Mock: For testing without real API calls
//
// # Quick Start
//
// Create a provider explicitly:
//
//	provider, err := llm.NewProvider(llm.ProviderConfig{
//	    Type:   "openai",
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := provider.Generate(ctx, llm.GenerateRequest{
//	    Prompt: "Explain this Go code: ...",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Text)
//
// # Chat Completions
//
// The review orchestrator drives providers through Chat rather than
// Generate, so a provider's system prompt and the diff-derived user prompt
// stay as separate turns:
//
//	messages := llm.BuildChatMessages(
//	    llm.SystemPrompts.CodeReview, // system prompt
//	    prompt,                      // the diff-derived review prompt from BuildPrompt
//	)
//
//	resp, err := provider.Chat(ctx, llm.ChatRequest{
//	    Messages: messages,
//	    Model:    defaultModel,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Message.Content)
//
// # Provider Configuration
//
// ProviderConfig.Type selects the backend ("ollama", "openai", "anthropic",
// or "mock"); config.yaml's llm section is how gitai's subcommands populate
// it, rather than reading environment variables directly.
//
// Ollama (local, free):
//   - BaseURL: Server URL (default: http://localhost:11434)
//   - DefaultModel: Model name (e.g., "llama2", "codellama")
//
// OpenAI:
//   - APIKey: API key (required)
//   - BaseURL: API URL for compatible services (e.g., Azure)
//   - DefaultModel: Model name (default: gpt-4o-mini)
//
// Anthropic:
//   - APIKey: API key (required)
//   - DefaultModel: Model name (default: claude-3-5-sonnet-20241022)
//
// # Error Handling
//
// All provider methods return descriptive errors that include context about
// the failure. Network errors, API errors, and validation errors are all
// wrapped with appropriate context.
//
//	resp, err := provider.Generate(ctx, req)
//	if err != nil {
//	    // Error includes provider name and context
//	    // e.g., "openai chat error (status 401): invalid api key"
//	    return err
//	}
package llm
