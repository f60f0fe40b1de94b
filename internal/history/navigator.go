// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history holds the conversation history model and the fuzzy
// navigator used to recall prior prompts from the input line.
package history

import (
	"math"
	"strings"
)

// =============================================================================
// ENTRIES
// =============================================================================

// Entry is one prompt/reply pair in the conversation history.
type Entry struct {
	Prompt string
	Reply  string
}

// =============================================================================
// NAVIGATOR
// =============================================================================

// cursorNone is the out-of-range sentinel meaning "not currently browsing".
// Any index at or beyond the history length behaves the same; MaxInt keeps it
// beyond any realistic history.
const cursorNone = math.MaxInt

// Navigator steps backward and forward through history entries whose prompt
// matches a live filter as a case-insensitive in-order subsequence.
//
// The navigator does not own the history; the caller passes the current list
// to each Up/Down call. State is just the lower-cased filter and a cursor
// into that list. When in range, the cursor refers to the entry whose prompt
// was last surfaced to the caller.
type Navigator struct {
	pattern string
	cursor  int
}

// New returns a navigator with an empty filter and no browsing position.
func New() *Navigator {
	return &Navigator{cursor: cursorNone}
}

// Reset sets the filter and clears the browsing position. Call it whenever
// the filter text changes or navigation is interrupted.
func (n *Navigator) Reset(pattern string) {
	n.pattern = strings.ToLower(pattern)
	n.cursor = cursorNone
}

// Up scans strictly backward from the cursor toward the start of the list
// and returns the prompt of the first matching entry, moving the cursor to
// it. A cursor past the end starts the scan at the last entry. Returns
// ok=false when no earlier entry matches or the history is empty.
func (n *Navigator) Up(history []Entry) (string, bool) {
	if len(history) == 0 {
		return "", false
	}

	start := n.cursor
	if start > len(history) {
		start = len(history)
	}

	for i := start - 1; i >= 0; i-- {
		if n.matches(history, history[i].Prompt) {
			n.cursor = i
			return history[i].Prompt, true
		}
	}
	return "", false
}

// Down is the forward counterpart of Up. A cursor at the sentinel is clamped
// to the last index first, so Down before any Up returns nothing: there is no
// forward from the end of the list.
func (n *Navigator) Down(history []Entry) (string, bool) {
	if len(history) == 0 {
		return "", false
	}

	start := n.cursor
	if start > len(history)-1 {
		start = len(history) - 1
	}

	for i := start + 1; i < len(history); i++ {
		if n.matches(history, history[i].Prompt) {
			n.cursor = i
			return history[i].Prompt, true
		}
	}
	return "", false
}

// matches reports whether text passes the filter. Two rules apply: the filter
// must be a case-insensitive subsequence of text (every filter character
// appears in text in order, not necessarily contiguously; the empty filter
// matches everything), and text must differ, case-insensitively, from the
// prompt at the cursor's pre-scan position. The cursor only moves on a match,
// so the second rule walks past a run of identical prompts instead of
// re-surfacing the one already selected.
func (n *Navigator) matches(history []Entry, text string) bool {
	if n.cursor < len(history) && strings.EqualFold(text, history[n.cursor].Prompt) {
		return false
	}

	if n.pattern == "" {
		return true
	}

	pattern := []rune(n.pattern)
	next := 0
	for _, r := range strings.ToLower(text) {
		if r == pattern[next] {
			next++
			if next == len(pattern) {
				return true
			}
		}
	}
	return false
}
