// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the refchat TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// palette is one set of indexed ANSI-256 colors. Indexed colors degrade
// gracefully on 16-color terminals; lipgloss handles the downsampling.
type palette struct {
	accent    lipgloss.Color
	user      lipgloss.Color
	assistant lipgloss.Color
	system    lipgloss.Color
	errorText lipgloss.Color
	subtle    lipgloss.Color
}

// darkPalette is tuned for dark backgrounds.
var darkPalette = palette{
	accent:    lipgloss.Color("69"),  // periwinkle
	user:      lipgloss.Color("39"),  // blue
	assistant: lipgloss.Color("114"), // green
	system:    lipgloss.Color("245"), // gray
	errorText: lipgloss.Color("203"), // red
	subtle:    lipgloss.Color("241"),
}

// lightPalette uses deeper shades that stay readable on light backgrounds.
var lightPalette = palette{
	accent:    lipgloss.Color("62"),
	user:      lipgloss.Color("26"),
	assistant: lipgloss.Color("28"),
	system:    lipgloss.Color("240"),
	errorText: lipgloss.Color("160"),
	subtle:    lipgloss.Color("245"),
}

// Theme holds the styled components for the application.
type Theme struct {
	// Terminal capabilities
	ColorProfile termenv.Profile
	IsDark       bool

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// Message labels
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	SystemLabel    lipgloss.Style

	// Message bodies
	MessageText lipgloss.Style
	ContextNote lipgloss.Style

	// Status line
	StatusBar  lipgloss.Style
	StatusInfo lipgloss.Style
	ErrorText  lipgloss.Style

	// Input
	InputPrompt lipgloss.Style
	HelpText    lipgloss.Style
}

// NewTheme creates a theme matching the terminal's capabilities: the
// palette follows the detected background, and color is dropped entirely
// on terminals without color support.
func NewTheme() *Theme {
	return newTheme(termenv.ColorProfile(), termenv.HasDarkBackground())
}

// newTheme is the testable core of NewTheme.
func newTheme(profile termenv.Profile, dark bool) *Theme {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	// On a monochrome terminal every foreground is omitted; bold and
	// italic still carry the structure.
	fg := func(c lipgloss.Color) lipgloss.Style {
		s := lipgloss.NewStyle()
		if profile != termenv.Ascii {
			s = s.Foreground(c)
		}
		return s
	}

	return &Theme{
		ColorProfile: profile,
		IsDark:       dark,

		Header:      lipgloss.NewStyle().Padding(0, 1),
		HeaderTitle: fg(p.accent).Bold(true),
		HeaderMeta:  fg(p.subtle),

		UserLabel:      fg(p.user).Bold(true),
		AssistantLabel: fg(p.assistant).Bold(true),
		SystemLabel:    fg(p.system),

		MessageText: lipgloss.NewStyle(),
		ContextNote: fg(p.subtle).Italic(true),

		StatusBar:  lipgloss.NewStyle().Padding(0, 1),
		StatusInfo: fg(p.accent),
		ErrorText:  fg(p.errorText).Bold(true),

		InputPrompt: fg(p.accent).Bold(true),
		HelpText:    fg(p.subtle),
	}
}

// LabelFor returns the styled display label for a message role name.
func (t *Theme) LabelFor(role, display string) string {
	switch role {
	case "user":
		return t.UserLabel.Render(display)
	case "assistant":
		return t.AssistantLabel.Render(display)
	default:
		return t.SystemLabel.Render(display)
	}
}
