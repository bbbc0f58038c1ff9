// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds all mutable conversation state behind one
// mutex-guarded type shared by the TUI, the plain REPL, and the
// one-shot commands. Every mutation persists the affected state before
// returning, and reads hand out deep copies so callers can never
// observe a partial update.
package store
