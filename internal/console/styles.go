// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package console holds the lipgloss styles shared by the command surface
// and the interactive picker.
package console

import "github.com/charmbracelet/lipgloss"

// Styles contains pre-configured lipgloss styles for terminal output.
type Styles struct {
	// Header style for the banner line.
	Header lipgloss.Style

	// Subtle style for secondary text.
	Subtle lipgloss.Style

	// Key style for setting names in the config listing.
	Key lipgloss.Style

	// Value style for setting values.
	Value lipgloss.Style

	// Success style for succeeded jobs.
	Success lipgloss.Style

	// Failure style for failed jobs.
	Failure lipgloss.Style

	// Warning style for skipped or cancelled work.
	Warning lipgloss.Style
}

// DefaultStyles returns the default style set.
func DefaultStyles() *Styles {
	return &Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		Subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
	}
}
