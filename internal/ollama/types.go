// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for a local Ollama server.
package ollama

import "time"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Message represents a chat message in the conversation.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// NewUserMessage creates a message with the "user" role.
func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// NewAssistantMessage creates a message with the "assistant" role.
func NewAssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// ChatRequest is the request body for the /api/chat endpoint.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ChatResponse is a single line of the /api/chat streaming response.
type ChatResponse struct {
	Model              string    `json:"model"`
	CreatedAt          time.Time `json:"created_at"`
	Message            Message   `json:"message"`
	Done               bool      `json:"done"`
	DoneReason         string    `json:"done_reason,omitempty"`
	TotalDuration      int64     `json:"total_duration,omitempty"` // nanoseconds
	EvalCount          int       `json:"eval_count,omitempty"`     // tokens generated
	EvalDuration       int64     `json:"eval_duration,omitempty"`  // nanoseconds
	PromptEvalCount    int       `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration int64     `json:"prompt_eval_duration,omitempty"`
}

// OllamaError is the error body Ollama returns on non-200 responses.
type OllamaError struct {
	Error string `json:"error"`
}

// StreamChunk is one parsed fragment of a streaming chat response.
type StreamChunk struct {
	Content string // Text produced in this chunk (may be empty)
	Done    bool   // True on the final chunk
	Model   string // Model that produced the stream

	// Final-chunk statistics
	TotalDuration time.Duration
	EvalDuration  time.Duration
	TokenCount    int
}
