// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestSpinnerStartStop(t *testing.T) {
	s := NewSpinner()

	if s.IsActive() {
		t.Error("new spinner should be inactive")
	}

	cmd := s.Start()
	if cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !s.IsActive() {
		t.Error("spinner should be active after Start")
	}
	if s.View() == "" {
		t.Error("active spinner should render something")
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop")
	}
	if s.View() != "" {
		t.Error("stopped spinner should render nothing")
	}
}

func TestThinkingIndicatorElapsed(t *testing.T) {
	ti := NewThinkingIndicator()
	if ti.GetElapsed() != 0 {
		t.Error("elapsed should be zero before Start")
	}

	ti.Start()
	time.Sleep(10 * time.Millisecond)
	if ti.GetElapsed() <= 0 {
		t.Error("elapsed should grow after Start")
	}
	if !strings.Contains(ti.View(), "Thinking") {
		t.Errorf("view should mention Thinking, got %q", ti.View())
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{65 * time.Second, "1m 5s"},
		{0, "0s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// =============================================================================
// MESSAGE BUBBLE TESTS
// =============================================================================

func TestUserBubbleContainsContent(t *testing.T) {
	b := NewMessageBubble(RoleUser, "hello there")
	b.SetWidth(60)

	view := b.View()
	if !strings.Contains(view, "hello there") {
		t.Errorf("user bubble missing content: %q", view)
	}
	if !strings.Contains(view, "you") {
		t.Error("user bubble missing role label")
	}
}

func TestAssistantBubbleStreamingCursor(t *testing.T) {
	b := NewMessageBubble(RoleAssistant, "partial reply")
	b.SetWidth(60)
	b.Streaming = true

	view := b.View()
	if !strings.Contains(view, "partial reply") {
		t.Errorf("assistant bubble missing content: %q", view)
	}
	if !strings.Contains(view, "assistant") {
		t.Error("assistant bubble missing role label")
	}
}

func TestErrorBubble(t *testing.T) {
	b := NewMessageBubble(RoleError, "backend unreachable")
	b.SetWidth(60)

	view := b.View()
	if !strings.Contains(view, "backend unreachable") {
		t.Errorf("error bubble missing content: %q", view)
	}
	if !strings.Contains(view, "error") {
		t.Error("error bubble missing header")
	}
}

func TestWordWrap(t *testing.T) {
	wrapped := wordWrap("one two three four five", 9)
	for _, line := range strings.Split(wrapped, "\n") {
		if len([]rune(line)) > 9 {
			t.Errorf("line %q exceeds width 9", line)
		}
	}

	// Zero width leaves text untouched.
	if got := wordWrap("unchanged", 0); got != "unchanged" {
		t.Errorf("wordWrap width 0 = %q", got)
	}
}

// =============================================================================
// MARKDOWN RENDERER TESTS
// =============================================================================

func TestRendererFallsBackToPlainText(t *testing.T) {
	var r *Renderer
	if got := r.Render("**bold**"); got != "**bold**" {
		t.Errorf("nil renderer should pass content through, got %q", got)
	}

	empty := &Renderer{}
	if got := empty.Render("text"); got != "text" {
		t.Errorf("renderer without backend should pass content through, got %q", got)
	}
}

func TestRendererRendersMarkdown(t *testing.T) {
	r := NewRenderer(60)
	out := r.Render("# Title\n\nbody text")
	if !strings.Contains(out, "Title") || !strings.Contains(out, "body text") {
		t.Errorf("rendered output missing content: %q", out)
	}
}
