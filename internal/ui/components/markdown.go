// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import "github.com/charmbracelet/glamour"

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// Renderer wraps a glamour terminal renderer for markdown replies.
// A nil or failed renderer degrades to plain text rather than erroring.
type Renderer struct {
	renderer *glamour.TermRenderer
}

// NewRenderer builds a markdown renderer wrapping at the given width.
func NewRenderer(wordWrap int) *Renderer {
	if wordWrap < 20 {
		wordWrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return &Renderer{}
	}
	return &Renderer{renderer: r}
}

// Render renders markdown content for terminal display. Returns the original
// content if rendering fails or the renderer is unavailable.
func (r *Renderer) Render(content string) string {
	if r == nil || r.renderer == nil {
		return content
	}
	rendered, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
