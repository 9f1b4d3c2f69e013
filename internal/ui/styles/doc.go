// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the refchat TUI.
//
// A Theme bundles the lipgloss styles used by the chat view. Colors are
// ANSI-256 indexed so they degrade gracefully on limited terminals.
package styles
