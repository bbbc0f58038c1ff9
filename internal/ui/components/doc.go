// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable view pieces of the echo-tui
// interface: message bubbles with markdown rendering, syntax
// highlighted code blocks, the session sidebar, and the status bar.
// Components are plain render functions over data; state lives in the
// chat model.
package components
