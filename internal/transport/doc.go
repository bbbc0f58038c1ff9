// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport provides the HTTP client for the Echo backend API.
//
// The client covers the full backend surface: fetching the model
// registry, registering and unregistering models, chat generation, and
// backend reset. Errors are categorized (validation, backend, network)
// so the UI can phrase failures without string matching; backend
// rejections carry the server's own detail text.
//
// Registration drafts are validated locally first, so an incomplete
// form never generates a request.
package transport
