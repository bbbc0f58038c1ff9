// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists echo-tui state to the local filesystem.
//
// State lives under a single directory as one JSON document per key
// (sessions, active session, selected model, theme). Every write is
// atomic: the document goes to a temp file, is fsynced, and is renamed
// into place, so a crash mid-write leaves the previous document intact.
//
// Reads are forgiving. A key that was never written, or whose file has
// been corrupted, yields the zero state for that key (empty session
// list, no selection); corruption is logged and the file is simply
// overwritten on the next save.
package storage
