// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive chat view.
//
// The view is a Bubble Tea model layered over the shared conversation
// store. All conversation state lives in the store; the model keeps
// only presentation state such as focus, scroll position, and which
// sessions have a send in flight. Backend calls run as commands and
// land as typed messages, so the event loop never blocks on the
// network.
package chat
