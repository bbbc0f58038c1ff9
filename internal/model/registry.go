// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// ProviderType identifies which upstream provider serves a registered
// model.
type ProviderType string

const (
	ProviderAnthropic   ProviderType = "anthropic"
	ProviderHuggingFace ProviderType = "huggingface"
)

// Valid reports whether the provider type is one of the known values.
func (t ProviderType) Valid() bool {
	return t == ProviderAnthropic || t == ProviderHuggingFace
}

// RequiresAPIKey reports whether registering a model of this type needs
// a credential. Anthropic models do; local Hugging Face models do not.
func (t ProviderType) RequiresAPIKey() bool {
	return t == ProviderAnthropic
}

// DisplayName returns the provider label shown in lists.
func (t ProviderType) DisplayName() string {
	switch t {
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderHuggingFace:
		return "Hugging Face"
	default:
		return string(t)
	}
}

// builtinPrefix marks models the backend preloads. They can be selected
// and used but never unregistered.
const builtinPrefix = "huggingface_"

// Model is one entry in the backend's model registry. The API key is
// sent once at registration and never persisted locally; the backend
// omits it from listings, so the field is usually empty on this side.
type Model struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Type            ProviderType `json:"type"`
	ModelIdentifier string       `json:"model_identifier"`
	APIKey          string       `json:"api_key,omitempty"`
	Organization    string       `json:"organization,omitempty"`
	ProjectID       string       `json:"project_id,omitempty"`
}

// Builtin reports whether the model is a backend preload that cannot be
// removed.
func (m Model) Builtin() bool {
	return strings.HasPrefix(m.ID, builtinPrefix)
}

// Redacted returns a copy safe for logging, with the API key masked.
func (m Model) Redacted() Model {
	if m.APIKey != "" {
		m.APIKey = "[REDACTED]"
	}
	return m
}
