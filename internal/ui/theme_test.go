package ui

import (
	"testing"

	"github.com/TzachiGitHub/pokedex/internal/prefs"
)

func TestResolveThemeMode(t *testing.T) {
	dark := func() bool { return true }
	light := func() bool { return false }

	cases := []struct {
		name   string
		stored map[string]string
		detect func() bool
		want   ThemeMode
	}{
		{"stored dark wins", map[string]string{prefs.KeyThemeMode: "dark"}, light, ThemeDark},
		{"stored light wins", map[string]string{prefs.KeyThemeMode: "Light"}, dark, ThemeLight},
		{"invalid stored falls back to detection", map[string]string{prefs.KeyThemeMode: "sepia"}, dark, ThemeDark},
		{"nothing stored, dark terminal", nil, dark, ThemeDark},
		{"nothing stored, light terminal", nil, light, ThemeLight},
		{"no detection", nil, nil, ThemeLight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveThemeMode(prefs.NewMemory(tc.stored), tc.detect)
			if got != tc.want {
				t.Fatalf("ResolveThemeMode = %q, want %q", got, tc.want)
			}
		})
	}
	if got := ResolveThemeMode(nil, nil); got != ThemeLight {
		t.Fatalf("ResolveThemeMode(nil, nil) = %q, want light", got)
	}
}

func TestThemeModeToggle(t *testing.T) {
	if got := ThemeLight.Toggle(); got != ThemeDark {
		t.Fatalf("light.Toggle() = %q", got)
	}
	if got := ThemeDark.Toggle(); got != ThemeLight {
		t.Fatalf("dark.Toggle() = %q", got)
	}
	if got := ThemeMode("").Toggle(); got != ThemeDark {
		t.Fatalf("empty.Toggle() = %q, want dark", got)
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme(ThemeDark); got.Mode != ThemeDark || got.Background != "#121212" {
		t.Fatalf("GetTheme(dark) = %+v", got)
	}
	if got := GetTheme("unknown"); got.Mode != ThemeLight {
		t.Fatalf("GetTheme(unknown).Mode = %q, want light", got.Mode)
	}
}

func TestTypeColor(t *testing.T) {
	th := GetTheme(ThemeLight)
	if got := th.TypeColor(" Fire "); got != "#F08030" {
		t.Fatalf("TypeColor(Fire) = %q", got)
	}
	if got := th.TypeColor("Shadow"); got != th.Muted {
		t.Fatalf("TypeColor(unknown) = %q, want muted %q", got, th.Muted)
	}
}
