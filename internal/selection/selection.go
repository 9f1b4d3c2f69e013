// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package selection supplies externally selected document text to the
// chat controller.
package selection

import (
	"context"
	"os"
	"strings"
)

// MaxSelectionBytes caps how much selected text is folded into a chat
// turn. Selections beyond this are treated as empty rather than flooding
// the provider request.
const MaxSelectionBytes = 64 * 1024

// =============================================================================
// FILE SOURCE
// =============================================================================

// FileSource reads the current selection from a file that a document
// viewer integration keeps up to date. It never fails: a missing path,
// unreadable file, or oversized selection yields empty context.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading from path. An empty path
// disables context injection entirely.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// SelectedText returns the trimmed selection, or "" when there is none.
func (s *FileSource) SelectedText(_ context.Context) string {
	if s.path == "" {
		return ""
	}

	info, err := os.Stat(s.path)
	if err != nil || info.IsDir() || info.Size() > MaxSelectionBytes {
		return ""
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// =============================================================================
// STATIC SOURCE
// =============================================================================

// StaticSource returns a fixed selection. Useful for tests and for the
// one-shot CLI path where context is passed explicitly.
type StaticSource string

// SelectedText returns the fixed selection, trimmed.
func (s StaticSource) SelectedText(_ context.Context) string {
	return strings.TrimSpace(string(s))
}
