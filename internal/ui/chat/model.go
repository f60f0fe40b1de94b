// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/coze-chat/coze-tui/internal/config"
	"github.com/coze-chat/coze-tui/internal/generator"
	"github.com/coze-chat/coze-tui/internal/history"
	"github.com/coze-chat/coze-tui/internal/storage"
	"github.com/coze-chat/coze-tui/internal/ui/components"
	"github.com/coze-chat/coze-tui/internal/ui/styles"
)

// =============================================================================
// DISPLAY RECORDS
// =============================================================================

// chatMessage is one rendered conversation item.
type chatMessage struct {
	role      string
	content   string
	streaming bool
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. It owns the generator
// handle, the history navigator, and the optional persistent store.
type Model struct {
	gen   *generator.Generator
	store *storage.HistoryStore // nil when history is disabled

	nav     *history.Navigator
	entries []history.Entry

	theme    *styles.Theme
	markdown *components.Renderer
	keys     KeyMap

	textarea textarea.Model
	viewport viewport.Model
	thinking components.ThinkingIndicator

	messages []chatMessage

	// Reply tracking. activeID is the id of the prompt whose fragments we
	// display; everything else that comes off the queue is stale and dropped.
	activeID      generator.PromptID
	activeEntryID string
	awaitingFirst bool
	lastTokenAt   time.Time

	// History navigation state. draft holds the in-progress input so Down
	// past the newest match restores it.
	navActive bool
	draft     string

	showStats   bool
	useMarkdown bool

	width  int
	height int
	ready  bool
}

// New builds the chat view around an already-started generator.
func New(gen *generator.Generator, store *storage.HistoryStore, cfg *config.Config) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a prompt..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(2)
	ta.Focus()

	m := Model{
		gen:         gen,
		store:       store,
		nav:         history.New(),
		theme:       styles.NewTheme(cfg.UI.Theme),
		keys:        DefaultKeyMap(),
		textarea:    ta,
		thinking:    components.NewThinkingIndicator(),
		activeID:    generator.NoPrompt,
		showStats:   cfg.UI.ShowStats,
		useMarkdown: cfg.UI.Markdown,
	}

	if store != nil {
		if entries, err := store.NavigatorEntries(); err == nil {
			m.entries = entries
		}
	}

	return m
}

// Init starts the cursor blink and the queue polling loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, pollCmd())
}

// =============================================================================
// REPLY LIFECYCLE
// =============================================================================

// flushPending drains every queued message so leftover fragments from an
// abandoned reply are never misattributed to the next one.
func (m *Model) flushPending() {
	for m.gen.NextMessage() != nil {
	}
}

// submitPrompt sends the prompt and resets reply tracking. Any reply still
// open is finalized first.
func (m *Model) submitPrompt(text string) tea.Cmd {
	m.finalizeReply(true)
	m.flushPending()

	m.activeID = m.gen.SendPrompt(text)
	m.awaitingFirst = true
	m.lastTokenAt = time.Time{}

	m.messages = append(m.messages, chatMessage{role: components.RoleUser, content: text})
	m.entries = append(m.entries, history.Entry{Prompt: text})

	m.activeEntryID = ""
	if m.store != nil {
		if id, err := m.store.Append(text, m.gen.Mode().String()); err == nil {
			m.activeEntryID = id
		}
	}

	m.textarea.Reset()
	m.navActive = false
	m.refreshViewport()

	return m.thinking.Start()
}

// finalizeReply closes out the open assistant reply, persisting what was
// accumulated. When clearActive is true, later fragments for the old id are
// treated as stale and dropped.
func (m *Model) finalizeReply(clearActive bool) {
	if i := m.lastAssistantIndex(); i >= 0 && m.messages[i].streaming {
		m.messages[i].streaming = false

		reply := m.messages[i].content
		if m.store != nil && m.activeEntryID != "" {
			m.store.SetReply(m.activeEntryID, reply)
		}
		if n := len(m.entries); n > 0 {
			m.entries[n-1].Reply = reply
		}
		m.refreshViewport()
	}

	if clearActive {
		m.activeID = generator.NoPrompt
		m.awaitingFirst = false
		m.thinking.Stop()
	}
}

// lastAssistantIndex returns the index of the trailing assistant message, or
// -1 when the conversation does not end with one.
func (m *Model) lastAssistantIndex() int {
	if n := len(m.messages); n > 0 && m.messages[n-1].role == components.RoleAssistant {
		return n - 1
	}
	return -1
}

// =============================================================================
// HISTORY NAVIGATION
// =============================================================================

// historyUp recalls the previous matching prompt into the input.
func (m *Model) historyUp() {
	if !m.navActive {
		m.draft = m.textarea.Value()
		m.nav.Reset(m.draft)
		m.navActive = true
	}
	if prompt, ok := m.nav.Up(m.entries); ok {
		m.setInput(prompt)
	}
}

// historyDown moves toward newer matching prompts; stepping past the newest
// restores the draft the user was typing.
func (m *Model) historyDown() {
	if !m.navActive {
		return
	}
	if prompt, ok := m.nav.Down(m.entries); ok {
		m.setInput(prompt)
		return
	}
	m.setInput(m.draft)
	m.navActive = false
}

// setInput replaces the textarea content, cursor at the end.
func (m *Model) setInput(text string) {
	m.textarea.SetValue(text)
	m.textarea.CursorEnd()
}
