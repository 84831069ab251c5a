// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package llm

// SystemPrompts holds system prompts for priming a chat-based Provider,
// one per code-facing task. The review pipeline (C6) uses CodeReview;
// CodeExplain and CodeRefactor have no caller in this module.
var SystemPrompts = struct {
	CodeReview   string
	CodeExplain  string
	CodeRefactor string
}{
	CodeReview: `You are an expert code reviewer. Analyze the provided diff for:
- Bugs and potential issues
- Security vulnerabilities
- Performance problems
- Code style and best practices
- Maintainability concerns
Provide specific, actionable feedback with line numbers when possible.`,

	CodeExplain: `You are a helpful programming tutor. Explain the provided code clearly and concisely.
Break down complex logic into understandable steps. Use analogies when helpful.
Identify key patterns and techniques used.`,

	CodeRefactor: `You are an expert software engineer specializing in code refactoring.
Improve the provided code while maintaining functionality. Focus on:
- Readability and clarity
- Performance optimizations
- Design patterns where appropriate
- Reducing complexity
Show before and after with explanations.`,
}

// BuildChatMessages prepends a system prompt (and any prior turns) to a
// user prompt, the shape every Provider.Chat call in this repo expects.
func BuildChatMessages(systemPrompt, userPrompt string, history ...Message) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: userPrompt})
	return messages
}
