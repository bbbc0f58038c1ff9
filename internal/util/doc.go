// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the echo-tui
// application: crash-safe file writing and width-aware text handling
// for terminal display.
package util
