// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive chat view for the coze TUI.
//
// The view polls the generation subsystem on a fixed tick, draining at most
// one queued message per tick, so the interface stays responsive no matter
// how fast the backend produces fragments.
package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// POLLING
// =============================================================================

// pollInterval is how often the view drains the generator queue. One message
// per tick at 50ms gives a steady 20 fragments per second on screen.
const pollInterval = 50 * time.Millisecond

// replyIdleTimeout is how long a reply may go without new fragments before
// the view treats it as complete. The worker does not send an explicit
// end-of-reply marker, so completion is inferred from quiet time.
const replyIdleTimeout = 1500 * time.Millisecond

// pollMsg triggers one drain of the generator queue.
type pollMsg struct {
	Time time.Time
}

// pollCmd schedules the next queue drain.
func pollCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg{Time: t}
	})
}
