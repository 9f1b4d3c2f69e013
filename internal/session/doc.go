// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the in-memory conversation store.
//
// # Key Types
//
//   - Store: mutex-guarded map of session id to message transcript
//
// # Usage
//
//	store := session.NewStore()
//	store.Append("s1", model.NewUserMessage("hello"))
//	transcript := store.Get("s1")
//	store.Reset("s1")
//
// Sessions are created lazily on first access and live until Reset or
// process exit; nothing is persisted. Get returns a snapshot, so callers
// can iterate without holding any lock while other goroutines append.
package session
