// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models.go - Provider and model listing.
package cli

import (
	"fmt"
	"io"

	"github.com/jeranaias/refchat/internal/catalog"
)

// HandleModels prints the provider catalog.
func HandleModels(w io.Writer) {
	for _, info := range catalog.List() {
		fmt.Fprintf(w, "%s (%s)\n", info.Label, catalog.BaseURL(info.Provider))
		defaultModel := catalog.DefaultModel(info.Provider)
		for _, m := range info.Models {
			marker := " "
			if m.Value == defaultModel {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %-40s %s\n", marker, m.Value, m.Label)
		}
	}
	fmt.Fprintln(w, "\n* = default model for the provider")
}
