// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/echoml/echo-tui/internal/storage"
	"github.com/echoml/echo-tui/internal/store"
	"github.com/echoml/echo-tui/internal/transport"
	"github.com/echoml/echo-tui/internal/ui/styles"
)

const sidebarWidth = 28

// Model is the Bubble Tea model for the chat view. Conversation state
// lives in the shared store; this model holds only view state.
type Model struct {
	store  *store.Store
	client *transport.Client
	local  *storage.LocalStore
	theme  *styles.Theme
	keys   KeyMap

	viewport viewport.Model
	input    textarea.Model
	spin     spinner.Model

	markdownCache *markdownCache

	width  int
	height int
	ready  bool

	showSidebar bool
	focus       focusArea
	cursor      int

	// renamingID is the session being renamed from the sidebar; while
	// set, the input edits the name instead of composing a message.
	renamingID string

	// sending tracks in-flight sends per session, so each session has
	// at most one outstanding request while others stay usable.
	sending map[string]bool

	statusErr string
}

// New creates the chat view over shared application state.
func New(st *store.Store, client *transport.Client, local *storage.LocalStore, theme *styles.Theme) *Model {
	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.CharLimit = 0
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return &Model{
		store:         st,
		client:        client,
		local:         local,
		theme:         theme,
		keys:          DefaultKeyMap(),
		input:         input,
		spin:          sp,
		markdownCache: &markdownCache{},
		showSidebar:   true,
		sending:       make(map[string]bool),
	}
}

// Init starts the registry fetch and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchModelsCmd(), m.spin.Tick, textarea.Blink)
}

// State reports whether the active session has a send in flight.
func (m *Model) State() State {
	if m.sending[m.store.ActiveSessionID()] {
		return StateSending
	}
	return StateReady
}

// Theme returns the active theme.
func (m *Model) Theme() *styles.Theme {
	return m.theme
}
