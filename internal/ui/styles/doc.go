// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles defines the color palette and composed Lip Gloss
// styles for the echo-tui interface. The palette is adaptive: every
// color carries a light and a dark variant, and the Theme type can
// force either scheme for the user's persisted preference.
package styles
