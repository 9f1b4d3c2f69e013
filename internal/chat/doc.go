// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the controller that sequences one chat turn.
//
// # Key Types
//
//   - Controller: orchestrates send operations against the session store
//     and the completion client
//   - SendRequest: one turn as submitted by a presentation layer
//   - CredentialSource, ContextSource, Completer: collaborator boundaries
//
// # Transcript invariants
//
// A session moves through EMPTY -> PRIMED (system message first) and then
// alternates user/assistant entries on successful turns. A failed
// completion leaves a trailing user entry; a reset returns the session to
// EMPTY and the next send re-primes it. Sends to the same session are
// serialized by a per-session lock; distinct sessions proceed in parallel.
package chat
