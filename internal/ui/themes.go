package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for UI output.
// Each field contains an ANSI escape code for the corresponding color category.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary is the main accent color for important elements.
	Primary string
	// Secondary is used for less prominent elements.
	Secondary string
	// Success marks counted documents.
	Success string
	// Warning marks timed out documents.
	Warning string
	// Error marks documents that could not be fetched.
	Error string
	// Bold is the escape code for bold text.
	Bold string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // Bright blue
		Secondary: "\033[38;5;245m", // Grey
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",  // Dark blue
		Secondary: "\033[38;5;240m", // Dark grey
		Success:   "\033[38;5;28m",  // Dark green
		Warning:   "\033[38;5;130m", // Orange
		Error:     "\033[38;5;124m", // Dark red
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the currently active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the active theme. Mostly used by tests to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme changes the active theme by name ("dark", "light" or "none").
// Unknown names select the dark theme.
func SetTheme(name string) {
	switch name {
	case "light":
		SetCurrentTheme(LightTheme)
	case "none":
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme selects the theme from the --no-color flag and the NO_COLOR
// environment variable (https://no-color.org/).
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}

// ColorEnabled reports whether the active theme emits colors.
func ColorEnabled() bool { return GetCurrentTheme().Name != NoColorTheme.Name }

func ColorPrimary() string   { return GetCurrentTheme().Primary }
func ColorSecondary() string { return GetCurrentTheme().Secondary }
func ColorSuccess() string   { return GetCurrentTheme().Success }
func ColorWarning() string   { return GetCurrentTheme().Warning }
func ColorError() string     { return GetCurrentTheme().Error }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorReset() string     { return GetCurrentTheme().Reset }

// TableStyles are the lipgloss styles of the outcome table.
type TableStyles struct {
	Header  lipgloss.Style
	Index   lipgloss.Style
	Ref     lipgloss.Style
	Number  lipgloss.Style
	Success lipgloss.Style
	Timeout lipgloss.Style
	Failure lipgloss.Style
	Summary lipgloss.Style
}

// CurrentTableStyles returns table styles for the active theme. With colors
// disabled every style is plain apart from padding and alignment.
func CurrentTableStyles() TableStyles {
	s := TableStyles{
		Header:  lipgloss.NewStyle().Bold(true).Underline(true),
		Index:   lipgloss.NewStyle().Align(lipgloss.Right),
		Ref:     lipgloss.NewStyle(),
		Number:  lipgloss.NewStyle().Align(lipgloss.Right),
		Success: lipgloss.NewStyle(),
		Timeout: lipgloss.NewStyle(),
		Failure: lipgloss.NewStyle(),
		Summary: lipgloss.NewStyle().Bold(true),
	}
	if !ColorEnabled() {
		s.Header = lipgloss.NewStyle()
		s.Summary = lipgloss.NewStyle()
		return s
	}
	s.Header = s.Header.Foreground(lipgloss.Color("39"))
	s.Ref = s.Ref.Foreground(lipgloss.Color("252"))
	s.Number = s.Number.Foreground(lipgloss.Color("220"))
	s.Success = s.Success.Foreground(lipgloss.Color("82"))
	s.Timeout = s.Timeout.Foreground(lipgloss.Color("214"))
	s.Failure = s.Failure.Foreground(lipgloss.Color("196"))
	return s
}
