package config_test

import (
	"strings"
	"testing"

	"go.withmatt.com/paperdrop/internal/config"
)

func TestNormalizeServiceURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://docs.example.com", "https://docs.example.com"},
		{"trailing slash", "https://docs.example.com/", "https://docs.example.com"},
		{"multiple slashes", "https://docs.example.com///", "https://docs.example.com"},
		{"surrounding whitespace", "  https://docs.example.com/ ", "https://docs.example.com"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := config.NormalizeServiceURL(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTagList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  ", nil},
		{"single", "email", []string{"email"}},
		{"multiple", "email,scanned", []string{"email", "scanned"}},
		{"trims entries", " email , scanned ", []string{"email", "scanned"}},
		{"drops blanks", "email,,scanned,", []string{"email", "scanned"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := config.Paperless{DefaultTags: tt.in}
			got := p.TagList()
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d tags, got %d (%v)", len(tt.want), len(got), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Expected tag %d to be %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestConfigured(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		token string
		want  bool
	}{
		{"both set", "https://docs.example.com", "secret", true},
		{"missing token", "https://docs.example.com", "", false},
		{"missing url", "", "secret", false},
		{"whitespace url", "   ", "secret", false},
		{"neither", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := config.Paperless{URL: tt.url, Token: tt.token}
			if got := p.Configured(); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestUIConfigWithDefaults(t *testing.T) {
	if got := (config.UIConfig{}).WithDefaults().PageSize; got != 50 {
		t.Errorf("Expected default page size 50, got %d", got)
	}
	if got := (config.UIConfig{PageSize: -3}).WithDefaults().PageSize; got != 50 {
		t.Errorf("Expected negative page size to fall back to 50, got %d", got)
	}
	if got := (config.UIConfig{PageSize: 20}).WithDefaults().PageSize; got != 20 {
		t.Errorf("Expected explicit page size to survive, got %d", got)
	}
}

func TestResolveThemeFillsFromPalette(t *testing.T) {
	theme, err := config.ResolveTheme(config.Theme{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if theme.Status.Bg == "" {
		t.Error("Expected status background to be filled")
	}
	if theme.List.UnreadFg == "" {
		t.Error("Expected unread foreground to be filled")
	}
	if theme.Modal.BorderFg == "" {
		t.Error("Expected modal border to be filled")
	}
	if theme.Dialog.ErrorFg == "" {
		t.Error("Expected dialog error color to be filled")
	}
}

func TestResolveThemeKeepsOverrides(t *testing.T) {
	theme, err := config.ResolveTheme(config.Theme{
		Status: config.ThemeStatus{Bg: "#101018"},
		List:   config.ThemeList{SelectedFg: "#00ff00"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if theme.Status.Bg != "#101018" {
		t.Errorf("Expected overridden status background, got %q", theme.Status.Bg)
	}
	if theme.List.SelectedFg != "#00ff00" {
		t.Errorf("Expected overridden selection color, got %q", theme.List.SelectedFg)
	}
	if theme.Status.Fg == "" {
		t.Error("Expected untouched fields to still get palette values")
	}
	if strings.TrimSpace(theme.Status.ModeBg) == "" {
		t.Error("Expected mode background from the palette")
	}
}

func TestResolveThemeNamedColors(t *testing.T) {
	theme, err := config.ResolveTheme(config.Theme{
		Status: config.ThemeStatus{ModeBg: "bright_magenta"},
		Dialog: config.ThemeDialog{ErrorFg: "Red"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.HasPrefix(theme.Status.ModeBg, "#") {
		t.Errorf("Expected palette color name to resolve to a hex value, got %q", theme.Status.ModeBg)
	}
	if !strings.HasPrefix(theme.Dialog.ErrorFg, "#") {
		t.Errorf("Expected palette color name to resolve to a hex value, got %q", theme.Dialog.ErrorFg)
	}
}

func TestResolveThemeUnknownName(t *testing.T) {
	_, err := config.ResolveTheme(config.Theme{Name: "no-such-palette"})
	if err == nil {
		t.Fatal("Expected an error for an unknown theme name")
	}
	if !strings.Contains(err.Error(), "no-such-palette") {
		t.Errorf("Expected the theme name in the error, got %v", err)
	}
}

func TestResolveThemeKeepsName(t *testing.T) {
	theme, err := config.ResolveTheme(config.Theme{Name: "Nord"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if theme.Name != "Nord" {
		t.Errorf("Expected the theme name to survive resolution, got %q", theme.Name)
	}
}
