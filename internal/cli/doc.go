// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the echo command line: argument parsing, the
// non-TUI command handlers, and the line-mode chat REPL. The TUI
// itself lives in internal/ui; this package only decides what to run
// and handles everything that fits a plain terminal.
package cli
