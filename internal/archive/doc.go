// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive maintains a searchable SQLite index over session
// transcripts. The index is derived from the JSON session store and can
// be rebuilt from it at any time; search is case-insensitive using
// Unicode case folding.
package archive
