// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// fetchModelsCmd loads the model registry in the background.
func (m *Model) fetchModelsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		models, err := client.FetchModels(context.Background())
		return ModelsLoadedMsg{Models: models, Err: err}
	}
}

// sendCmd submits prompt text for the given session. The session ID
// travels with the command so the result can be dropped if the session
// is deleted while the request is in flight.
func (m *Model) sendCmd(sessionID, prompt, modelID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		result, err := client.SendMessage(context.Background(), prompt, modelID)
		return SendResultMsg{SessionID: sessionID, Result: result, Err: err}
	}
}

// resetCmd asks the backend to drop its conversational state.
func (m *Model) resetCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return ResetDoneMsg{Err: client.Reset(context.Background())}
	}
}
