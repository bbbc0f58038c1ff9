// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads, validates, and watches echo-tui configuration.
//
// Configuration is read from ~/.echo/config.toml (or config.json),
// layered over built-in defaults, with ECHO_* environment variables
// taking final precedence. An fsnotify-based watcher supports live
// reload while the TUI is running.
package config
