// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/coze-chat/coze-tui/internal/config"
	"github.com/coze-chat/coze-tui/internal/generator"
	"github.com/coze-chat/coze-tui/internal/history"
)

// newTestModel builds a chat model backed by the echo engine, sized and
// ready to accept input.
func newTestModel(t *testing.T) Model {
	t.Helper()

	gen, err := generator.New(generator.ModeEcho)
	if err != nil {
		t.Fatalf("generator.New error: %v", err)
	}
	t.Cleanup(gen.Shutdown)

	cfg := config.Default()
	cfg.UI.Markdown = false // plain text keeps assertions simple

	m := New(gen, nil, cfg)
	return step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// step runs one Update and returns the new model.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want chat.Model", next)
	}
	return model
}

// pollUntil drives poll ticks until the predicate holds or the deadline
// passes.
func pollUntil(t *testing.T, m Model, pred func(Model) bool) Model {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		m = step(t, m, pollMsg{Time: time.Now()})
		if pred(m) {
			return m
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
	return m
}

func assistantContent(m Model) string {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].role == "assistant" {
			return m.messages[i].content
		}
	}
	return ""
}

// =============================================================================
// SUBMIT AND STREAMING
// =============================================================================

func TestSubmitEchoesReply(t *testing.T) {
	m := newTestModel(t)

	m.textarea.SetValue("hello world")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(m.messages) != 1 || m.messages[0].role != "user" {
		t.Fatalf("expected one user message after submit, got %+v", m.messages)
	}
	if m.textarea.Value() != "" {
		t.Error("input should be cleared after submit")
	}
	if m.activeID == generator.NoPrompt {
		t.Error("activeID should be set after submit")
	}

	m = pollUntil(t, m, func(m Model) bool {
		return assistantContent(m) == "hello world"
	})
}

func TestEmptySubmitIgnored(t *testing.T) {
	m := newTestModel(t)

	m.textarea.SetValue("   ")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(m.messages) != 0 {
		t.Errorf("whitespace-only submit should be ignored, got %d messages", len(m.messages))
	}
	if m.activeID != generator.NoPrompt {
		t.Error("no prompt should have been sent")
	}
}

func TestCancelDropsLaterFragments(t *testing.T) {
	m := newTestModel(t)

	m.textarea.SetValue("one two three four five six seven eight nine ten")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	// Wait for the first fragment, then stop.
	m = pollUntil(t, m, func(m Model) bool {
		return assistantContent(m) != ""
	})
	got := assistantContent(m)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.activeID != generator.NoPrompt {
		t.Error("cancel should clear the active prompt id")
	}

	// Drain for a while: the reply must not keep growing.
	for i := 0; i < 20; i++ {
		m = step(t, m, pollMsg{Time: time.Now()})
		time.Sleep(10 * time.Millisecond)
	}
	if assistantContent(m) != got {
		t.Errorf("reply grew after cancel: %q -> %q", got, assistantContent(m))
	}
}

func TestNewPromptSupersedesOldReply(t *testing.T) {
	m := newTestModel(t)

	m.textarea.SetValue("first prompt with quite a few words to stream slowly")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = pollUntil(t, m, func(m Model) bool {
		return assistantContent(m) != ""
	})

	m.textarea.SetValue("second")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = pollUntil(t, m, func(m Model) bool {
		return assistantContent(m) == "second"
	})

	// The superseded reply is closed, only the new one streams.
	streaming := 0
	for _, msg := range m.messages {
		if msg.streaming {
			streaming++
		}
	}
	if streaming > 1 {
		t.Errorf("%d messages marked streaming, want at most 1", streaming)
	}
}

// =============================================================================
// HISTORY NAVIGATION
// =============================================================================

func TestHistoryUpRecallsPrompts(t *testing.T) {
	m := newTestModel(t)
	m.entries = []history.Entry{
		{Prompt: "hello world"},
		{Prompt: "help me"},
		{Prompt: "hi"},
	}

	m.textarea.SetValue("he")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.textarea.Value(); got != "help me" {
		t.Errorf("first Up = %q, want 'help me'", got)
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.textarea.Value(); got != "hello world" {
		t.Errorf("second Up = %q, want 'hello world'", got)
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.textarea.Value(); got != "help me" {
		t.Errorf("Down = %q, want 'help me'", got)
	}
}

func TestHistoryDownPastNewestRestoresDraft(t *testing.T) {
	m := newTestModel(t)
	m.entries = []history.Entry{{Prompt: "old prompt"}}

	m.textarea.SetValue("draft")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.textarea.Value(); got != "old prompt" {
		t.Fatalf("Up = %q, want 'old prompt'", got)
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.textarea.Value(); got != "draft" {
		t.Errorf("Down past newest = %q, want the draft back", got)
	}
	if m.navActive {
		t.Error("navigation should end after restoring the draft")
	}
}

func TestTypingResetsNavigation(t *testing.T) {
	m := newTestModel(t)
	m.entries = []history.Entry{
		{Prompt: "alpha"},
		{Prompt: "beta"},
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if !m.navActive {
		t.Fatal("navigation should be active after Up")
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if m.navActive {
		t.Error("typing should deactivate history navigation")
	}
}

// =============================================================================
// MISC
// =============================================================================

func TestClearEmptiesConversation(t *testing.T) {
	m := newTestModel(t)

	m.textarea.SetValue("hello")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = pollUntil(t, m, func(m Model) bool {
		return assistantContent(m) != ""
	})

	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if len(m.messages) != 0 {
		t.Errorf("clear left %d messages", len(m.messages))
	}
}

func TestViewRendersModeAndShortcuts(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	if !strings.Contains(view, "Echo") {
		t.Error("view should show the backend mode description")
	}
	if !strings.Contains(view, "coze") {
		t.Error("view should show the application title")
	}
}
