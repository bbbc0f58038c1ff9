// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/transport"
)

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// ModelsLoadedMsg delivers the result of the startup registry fetch.
// On error the registry stays empty and chat is disabled until a model
// is registered; the TUI keeps running.
type ModelsLoadedMsg struct {
	Models []model.Model
	Err    error
}

// SendResultMsg delivers the outcome of an async send. SessionID names
// the session the send belongs to, which may no longer exist by the
// time the result lands.
type SendResultMsg struct {
	SessionID string
	Result    *transport.SendResult
	Err       error
}

// ResetDoneMsg confirms a backend reset request.
type ResetDoneMsg struct {
	Err error
}

// =============================================================================
// UI STATE
// =============================================================================

// State tracks what the chat view is doing.
type State int

const (
	StateReady State = iota
	StateSending
)

// focusArea identifies which pane has keyboard focus.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// errorReplyText is the synthetic bot message appended when a send
// fails. The failure detail goes to the status bar, not the transcript.
const errorReplyText = "Sorry, something went wrong. Please try again."
