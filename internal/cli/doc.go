// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements argument parsing and the non-TUI command
// handlers for refchat.
//
// Parsing is deliberately hand-rolled: the surface is small (a handful
// of commands and flags) and keeping it dependency-free makes the
// behavior easy to audit. Handlers take their collaborators as
// arguments so main.go owns all wiring.
package cli
