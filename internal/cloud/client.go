// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the client for OpenRouter-compatible chat
// completion endpoints.
package cloud

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConfigured indicates no API key is set.
	ErrNotConfigured = errors.New("cloud client not configured (missing API key)")
)

// APIError represents an error response from the cloud endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cloud API error (%d): %s", e.StatusCode, e.Message)
}

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// ChatMessage is one message in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a message with the "user" role.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// ChatRequest is the request body for /chat/completions.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// apiErrorResponse is the error envelope returned on non-200 responses.
type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Client talks to an OpenRouter-compatible API. Safe for concurrent use once
// constructed; the model and base URL are fixed at construction.
type Client struct {
	apiKey  string
	baseURL string
	model   string

	// streamClient has no overall timeout; stream lifetime is bounded by the
	// request context.
	streamClient *http.Client
}

// NewClient creates a cloud client for the given API key.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		streamClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Model returns the model requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// setHeaders applies authentication and identification headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// handleErrorResponse converts a non-200 response body into an APIError.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return &APIError{StatusCode: statusCode, Message: apiErr.Error.Message}
	}
	return &APIError{StatusCode: statusCode, Message: http.StatusText(statusCode)}
}
