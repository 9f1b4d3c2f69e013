// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared string helpers for the refchat UI.
//
// # Key Functions
//
//   - TruncateWidth: display-width truncation (CJK aware)
//   - SingleLine: newline collapsing for status-bar display
package util
