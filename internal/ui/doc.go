// Package ui holds the terminal color scheme shared by the CLI presenters.
// It honors NO_COLOR and --no-color, and exposes both raw ANSI codes for
// inline coloring and lipgloss styles for tabular output.
package ui
