// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders sessions into portable documents.
//
// Three formats are supported: Markdown for pasting into notes and
// issues, JSON for programmatic consumers, and standalone HTML for
// sharing a readable transcript. All exporters work from the session
// model and never touch the state directory.
package export
