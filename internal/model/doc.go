// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the core data types of echo-tui: chat sessions,
// messages with segmented bodies, and model registry entries.
//
// A message body is an ordered list of segments (prose text and code
// attachments) rather than a flat string with inline markup. The Body
// type carries a JSON codec for persistence and a deterministic
// plain-text flattening for prompts, exports, and search.
//
// Sessions own their message history and know how to frame themselves
// into an upstream prompt: system prompt plus a rolling transcript of
// the last HistoryWindow messages.
package model
