// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package selection supplies externally selected document text to the
// chat controller.
//
// Implementations satisfy chat.ContextSource and must never fail; any
// internal problem is reported as empty context so a broken viewer
// integration degrades to plain chat instead of blocking sends.
package selection
