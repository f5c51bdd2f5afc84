package ui

import (
	"strings"
	"testing"
)

// Tests in this file mutate the global theme and do not run in parallel.

func TestSetTheme(t *testing.T) {
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"unknown", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q): active theme %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitTheme(t *testing.T) {
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })

	t.Run("flag disables colors", func(t *testing.T) {
		InitTheme(true)
		if ColorEnabled() {
			t.Error("colors should be disabled by --no-color")
		}
		if ColorSuccess() != "" || ColorReset() != "" {
			t.Error("no-color theme should emit no escape codes")
		}
	})

	t.Run("NO_COLOR disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitTheme(false)
		if ColorEnabled() {
			t.Error("colors should be disabled by NO_COLOR")
		}
	})

	t.Run("default is dark", func(t *testing.T) {
		InitTheme(false)
		if GetCurrentTheme().Name != "dark" {
			t.Errorf("expected dark theme, got %q", GetCurrentTheme().Name)
		}
		if !strings.HasPrefix(ColorError(), "\033[") {
			t.Errorf("expected an ANSI code, got %q", ColorError())
		}
	})
}

func TestCurrentTableStyles_NoColor(t *testing.T) {
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })

	SetCurrentTheme(NoColorTheme)
	styles := CurrentTableStyles()
	if got := styles.Header.Render("Words"); got != "Words" {
		t.Errorf("plain header rendered as %q", got)
	}
	if got := styles.Number.Width(6).Render("42"); got != "    42" {
		t.Errorf("right-aligned number rendered as %q", got)
	}
}
