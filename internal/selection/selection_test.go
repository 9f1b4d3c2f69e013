// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package selection

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSourceReadsAndTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Figure 3 shows...\n"), 0o600))

	src := NewFileSource(path)
	assert.Equal(t, "Figure 3 shows...", src.SelectedText(context.Background()))
}

func TestFileSourceNeverFails(t *testing.T) {
	ctx := context.Background()

	// Empty path disables context injection.
	assert.Equal(t, "", NewFileSource("").SelectedText(ctx))

	// Missing file.
	assert.Equal(t, "", NewFileSource(filepath.Join(t.TempDir(), "nope.txt")).SelectedText(ctx))

	// Directory instead of a file.
	assert.Equal(t, "", NewFileSource(t.TempDir()).SelectedText(ctx))
}

func TestFileSourceRejectsOversizedSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", MaxSelectionBytes+1)), 0o600))

	assert.Equal(t, "", NewFileSource(path).SelectedText(context.Background()))
}

func TestStaticSource(t *testing.T) {
	assert.Equal(t, "hello", StaticSource(" hello \n").SelectedText(context.Background()))
	assert.Equal(t, "", StaticSource("").SelectedText(context.Background()))
}
