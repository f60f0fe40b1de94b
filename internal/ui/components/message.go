// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coze-chat/coze-tui/internal/ui/styles"
	"github.com/coze-chat/coze-tui/internal/util"
)

// =============================================================================
// MESSAGE ROLES
// =============================================================================

// Message roles rendered by the bubble component.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleError     = "error"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one chat message as a styled bubble.
type MessageBubble struct {
	Role      string
	Content   string
	Width     int
	Streaming bool

	markdown *Renderer
}

// NewMessageBubble creates a bubble for the given role and content.
func NewMessageBubble(role, content string) *MessageBubble {
	return &MessageBubble{
		Role:    role,
		Content: content,
		Width:   80,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// SetMarkdown sets the markdown renderer used for assistant replies.
// When nil, replies render as plain text.
func (b *MessageBubble) SetMarkdown(r *Renderer) {
	b.markdown = r
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch b.Role {
	case RoleUser:
		return b.renderUserBubble()
	case RoleAssistant:
		return b.renderAssistantBubble()
	case RoleError:
		return b.renderErrorBubble()
	default:
		return b.renderGenericBubble()
	}
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		Render(wrapped)

	role := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("you")

	// Right-align the bubble with a left margin.
	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(role),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// ASSISTANT BUBBLE - Purple/violet tones, left-aligned
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	content := b.Content

	// Markdown rendering waits until the reply is complete; re-rendering a
	// half-finished code fence on every fragment produces flicker.
	if !b.Streaming && b.markdown != nil {
		content = strings.TrimRight(b.markdown.Render(content), "\n")
	}

	if b.Streaming {
		content += lipgloss.NewStyle().
			Foreground(styles.Purple).
			Render("_")
	}
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := lipgloss.NewStyle().
		Foreground(styles.AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.AssistantBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		Render(wrapped)

	role := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("assistant")

	return lipgloss.JoinVertical(lipgloss.Left, role, bubble)
}

// ==========================================================================
// ERROR BUBBLE - Rose left border
// ==========================================================================

func (b *MessageBubble) renderErrorBubble() string {
	content := b.Content
	if content == "" {
		content = "generation failed"
	}

	maxContentWidth := b.Width - 10
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)

	bubble := lipgloss.NewStyle().
		Foreground(styles.Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Rose).
		BorderLeft(true).
		PaddingLeft(2).
		Render(wrapped)

	header := lipgloss.NewStyle().
		Foreground(styles.Rose).
		Bold(true).
		Render("[X] error")

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// GENERIC BUBBLE - Fallback for unknown roles
// ==========================================================================

func (b *MessageBubble) renderGenericBubble() string {
	content := b.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 10
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)

	return lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 2).
		Render(wrapped)
}

// ==========================================================================
// UTILITY FUNCTIONS
// ==========================================================================

// wordWrap wraps text to fit within the specified width.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if util.RuneLen(currentLine)+1+util.RuneLen(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
	}

	return result.String()
}

// maxLineWidth returns the rune width of the longest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := util.RuneLen(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
