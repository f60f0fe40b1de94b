// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// SSE READER TESTS
// =============================================================================

func TestSSEReaderReadEvent(t *testing.T) {
	input := "event: message\ndata: {\"a\":1}\n\ndata: [DONE]\n\n"
	reader := NewSSEReader(strings.NewReader(input))

	eventType, data, err := reader.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent error: %v", err)
	}
	if eventType != "message" {
		t.Errorf("event type = %q, want 'message'", eventType)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("data = %q, want '{\"a\":1}'", data)
	}

	_, data, err = reader.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent error: %v", err)
	}
	if string(data) != "[DONE]" {
		t.Errorf("data = %q, want '[DONE]'", data)
	}
}

func TestSSEReaderSkipsComments(t *testing.T) {
	input := ": keepalive\ndata: hello\n\n"
	reader := NewSSEReader(strings.NewReader(input))

	_, data, err := reader.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("data = %q, want 'hello'", data)
	}
}

// =============================================================================
// STREAMING TESTS
// =============================================================================

func sseChunk(content, finish string) string {
	return fmt.Sprintf(`data: {"id":"x","model":"m","choices":[{"delta":{"content":%q},"finish_reason":%q}]}`+"\n\n", content, finish)
}

func TestChatStreamDeliversContentInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer auth, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseChunk("Hello", "")))
		w.Write([]byte(sseChunk(" world", "")))
		w.Write([]byte(sseChunk("", "stop")))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	client := NewClient("key", server.URL, "m")

	var got strings.Builder
	err := client.ChatStream(context.Background(), []ChatMessage{NewUserMessage("hi")}, func(chunk StreamChunk) {
		got.WriteString(chunk.GetContent())
	})
	if err != nil {
		t.Fatalf("ChatStream error: %v", err)
	}
	if got.String() != "Hello world" {
		t.Errorf("content = %q, want 'Hello world'", got.String())
	}
}

func TestChatStreamNotConfigured(t *testing.T) {
	client := NewClient("", "", "m")

	err := client.ChatStream(context.Background(), nil, func(StreamChunk) {})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestChatStreamErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid key","code":401}}`))
	}))
	defer server.Close()

	client := NewClient("bad", server.URL, "m")

	err := client.ChatStream(context.Background(), nil, func(StreamChunk) {})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "invalid key" {
		t.Errorf("Message = %q, want 'invalid key'", apiErr.Message)
	}
}

func TestChatStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	client := NewClient("key", server.URL, "m")
	err := client.ChatStream(ctx, nil, func(StreamChunk) {})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
