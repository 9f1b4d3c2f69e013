// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive chat view of the refchat TUI.
//
// The view is a thin Bubble Tea shell around the chat controller: it owns
// one session, forwards user input as completion requests, and renders the
// controller's transcript. Sends run asynchronously as commands so the UI
// stays responsive while a completion call is in flight.
package chat
