// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/coze-chat/coze-tui/internal/generator"
	"github.com/coze-chat/coze-tui/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles all incoming Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case pollMsg:
		return m.handlePoll()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Everything else (spinner frames, blink) goes to the child components.
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.thinking, cmd = m.thinking.Update(msg)
	cmds = append(cmds, cmd)

	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 1
	statusHeight := 1
	inputHeight := m.textarea.Height() + 2

	viewportHeight := m.height - headerHeight - statusHeight - inputHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = newViewport(m.width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = viewportHeight
	}

	m.textarea.SetWidth(m.width - 4)

	if m.useMarkdown {
		m.markdown = components.NewRenderer(m.width - 16)
	}

	m.refreshViewport()
	m.viewport.GotoBottom()
	return m
}

// =============================================================================
// QUEUE DRAIN
// =============================================================================

// handlePoll drains at most one message from the generator queue, then
// schedules the next tick. Stale fragments, identified by a PromptID other
// than the active one, are dropped here.
func (m Model) handlePoll() (tea.Model, tea.Cmd) {
	switch msg := m.gen.NextMessage().(type) {
	case generator.Token:
		if msg.ID == m.activeID && m.activeID != generator.NoPrompt {
			m = m.appendFragment(msg.Text)
		}

	case generator.Error:
		m.finalizeReply(true)
		m.messages = append(m.messages, chatMessage{
			role:    components.RoleError,
			content: msg.Message,
		})
		m.refreshViewport()
		m.viewport.GotoBottom()
	}

	// No end-of-reply marker exists on the wire, so a quiet reply is
	// considered finished after replyIdleTimeout.
	if m.activeID != generator.NoPrompt && !m.awaitingFirst &&
		!m.lastTokenAt.IsZero() && time.Since(m.lastTokenAt) > replyIdleTimeout {
		m.finalizeReply(false)
	}

	return m, pollCmd()
}

// appendFragment attaches one fragment to the open assistant reply, opening
// it if this is the first fragment.
func (m Model) appendFragment(text string) Model {
	if m.awaitingFirst {
		m.awaitingFirst = false
		m.thinking.Stop()
		m.messages = append(m.messages, chatMessage{
			role:      components.RoleAssistant,
			streaming: true,
		})
	}

	if i := m.lastAssistantIndex(); i >= 0 {
		m.messages[i].content += text
		m.messages[i].streaming = true
	}

	m.lastTokenAt = time.Now()
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finalizeReply(true)
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		text := strings.TrimSpace(m.textarea.Value())
		if text == "" {
			return m, nil
		}
		cmd := m.submitPrompt(text)
		m.viewport.GotoBottom()
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		m.gen.Stop()
		m.finalizeReply(true)
		return m, nil

	case key.Matches(msg, m.keys.HistoryUp):
		m.historyUp()
		return m, nil

	case key.Matches(msg, m.keys.HistoryDown):
		m.historyDown()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.messages = nil
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.PageUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.PageDown()
		return m, nil
	}

	// Ordinary typing goes to the textarea. Any edit invalidates an active
	// history navigation: the next Up must re-filter on the new text.
	before := m.textarea.Value()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	if m.textarea.Value() != before {
		m.navActive = false
	}
	return m, cmd
}
