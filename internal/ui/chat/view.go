// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/coze-chat/coze-tui/internal/ui/components"
	"github.com/coze-chat/coze-tui/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen: header, conversation, input, status bar.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
	}

	if m.thinking.IsActive() {
		sections = append(sections, " "+m.thinking.View())
	}

	sections = append(sections,
		m.theme.InputContainer.Width(m.width-2).Render(m.textarea.View()),
		m.renderStatusBar(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title line with the active backend mode.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("coze")
	mode := m.theme.HeaderMode.Render(m.gen.Mode().Description() + " mode")
	return m.theme.Header.Width(m.width).Render(title + "  " + mode)
}

// renderStatusBar renders mode badge, shortcuts, and optional statistics.
func (m Model) renderStatusBar() string {
	modeToken := m.gen.Mode().String()
	badge := m.theme.ModeStyle(modeToken).Render("[" + strings.ToUpper(modeToken) + "]")

	var shortcuts []string
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		shortcuts = append(shortcuts,
			m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}

	parts := []string{badge, strings.Join(shortcuts, "  ")}

	if m.showStats {
		parts = append(parts,
			m.theme.StatsLabel.Render("messages: ")+
				m.theme.StatsValue.Render(strconv.Itoa(len(m.messages))))
	}

	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, " | "))
}

// =============================================================================
// CONVERSATION RENDERING
// =============================================================================

// newViewport builds the scrollable conversation pane.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	return vp
}

// refreshViewport re-renders the conversation into the viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}

// renderMessages renders every conversation item as a bubble.
func (m *Model) renderMessages() string {
	if len(m.messages) == 0 {
		return lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(m.viewport.Width).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("No messages yet. Type a prompt and press enter.")
	}

	bubbles := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		bubble := components.NewMessageBubble(msg.role, msg.content)
		bubble.SetWidth(m.viewport.Width)
		bubble.Streaming = msg.streaming
		if m.useMarkdown && msg.role == components.RoleAssistant {
			bubble.SetMarkdown(m.markdown)
		}
		bubbles = append(bubbles, bubble.View())
	}

	return strings.Join(bubbles, "\n\n")
}
