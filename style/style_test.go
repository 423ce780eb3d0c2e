package style

import "testing"

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme("dark") })

	if !SetTheme("light") {
		t.Fatal("light theme should exist")
	}
	if CurrentThemeName != "light" {
		t.Errorf("CurrentThemeName: want light, got %s", CurrentThemeName)
	}
	if Primary != lightTheme.Primary {
		t.Errorf("Primary not switched: got %v", Primary)
	}
	if got := UserTurn.GetBorderLeftForeground(); got != lightTheme.TurnUser {
		t.Errorf("UserTurn border not rebuilt: got %v", got)
	}

	if SetTheme("solarized") {
		t.Error("unknown theme should be rejected")
	}
	if CurrentThemeName != "light" {
		t.Errorf("unknown theme must not change the current one, got %s", CurrentThemeName)
	}
}

func TestThemeNamesMatchThemes(t *testing.T) {
	if len(ThemeNames) != len(Themes) {
		t.Fatalf("ThemeNames has %d entries, Themes has %d", len(ThemeNames), len(Themes))
	}
	for _, name := range ThemeNames {
		if _, ok := Themes[name]; !ok {
			t.Errorf("theme %q listed but not defined", name)
		}
	}
}
