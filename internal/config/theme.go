package config

import (
	"fmt"
	"strings"

	"go.withmatt.com/themes"
)

type Theme struct {
	Name   string      `toml:"name"`
	Status ThemeStatus `toml:"status"`
	List   ThemeList   `toml:"list"`
	Modal  ThemeModal  `toml:"modal"`
	Dialog ThemeDialog `toml:"dialog"`
}

type ThemeStatus struct {
	Bg     string `toml:"bg"`
	Fg     string `toml:"fg"`
	Dim    string `toml:"dim"`
	ModeBg string `toml:"mode_bg"`
	ModeFg string `toml:"mode_fg"`
}

type ThemeList struct {
	UnreadFg   string `toml:"unread_fg"`
	ReadFg     string `toml:"read_fg"`
	SelectedFg string `toml:"selected_fg"`
	SelectedBg string `toml:"selected_bg"`
	MetaFg     string `toml:"meta_fg"`
}

type ThemeModal struct {
	BorderFg string `toml:"border_fg"`
	FooterFg string `toml:"footer_fg"`
}

type ThemeDialog struct {
	HeaderLabelFg string `toml:"header_label_fg"`
	HeaderValueFg string `toml:"header_value_fg"`
	ErrorFg       string `toml:"error_fg"`
	SuccessFg     string `toml:"success_fg"`
}

// ResolveTheme expands the named palette into a full theme, keeping any
// colors the user set explicitly. Palette color names like "bright_magenta"
// are resolved to their hex values.
func ResolveTheme(theme Theme) (Theme, error) {
	palette, err := paletteForTheme(theme.Name)
	if err != nil {
		return Theme{}, err
	}
	base := themeFromPalette(palette)
	merged := mergeTheme(base, theme)
	merged = resolveThemeColorNames(merged, palette)
	merged.Name = theme.Name
	return merged, nil
}

func themeFromPalette(palette *themes.Theme) Theme {
	dim := firstNonEmpty(
		palette.Foreground,
	)
	modeBg := firstNonEmpty(
		palette.Magenta,
		palette.Foreground,
	)
	modeFg := firstNonEmpty(
		palette.Background,
	)
	unreadFg := firstNonEmpty(
		palette.BrightMagenta,
		palette.Magenta,
		palette.Foreground,
	)
	selectedFg := firstNonEmpty(
		palette.BrightGreen,
		palette.Green,
		palette.Foreground,
	)
	selectedBg := firstNonEmpty(
		palette.Background,
	)
	errorFg := firstNonEmpty(
		palette.Red,
		palette.Foreground,
	)
	successFg := firstNonEmpty(
		palette.Green,
		palette.Foreground,
	)
	return Theme{
		Status: ThemeStatus{
			Bg:     palette.Background,
			Fg:     palette.Foreground,
			Dim:    dim,
			ModeBg: modeBg,
			ModeFg: modeFg,
		},
		List: ThemeList{
			UnreadFg:   unreadFg,
			ReadFg:     palette.Foreground,
			SelectedFg: selectedFg,
			SelectedBg: selectedBg,
			MetaFg:     dim,
		},
		Modal: ThemeModal{
			BorderFg: modeBg,
			FooterFg: dim,
		},
		Dialog: ThemeDialog{
			HeaderLabelFg: dim,
			HeaderValueFg: palette.Foreground,
			ErrorFg:       errorFg,
			SuccessFg:     successFg,
		},
	}
}

func mergeTheme(base, override Theme) Theme {
	out := override
	fillIfEmpty(&out.Status.Bg, base.Status.Bg)
	fillIfEmpty(&out.Status.Fg, base.Status.Fg)
	fillIfEmpty(&out.Status.Dim, base.Status.Dim)
	fillIfEmpty(&out.Status.ModeBg, base.Status.ModeBg)
	fillIfEmpty(&out.Status.ModeFg, base.Status.ModeFg)

	fillIfEmpty(&out.List.UnreadFg, base.List.UnreadFg)
	fillIfEmpty(&out.List.ReadFg, base.List.ReadFg)
	fillIfEmpty(&out.List.SelectedFg, base.List.SelectedFg)
	fillIfEmpty(&out.List.SelectedBg, base.List.SelectedBg)
	fillIfEmpty(&out.List.MetaFg, base.List.MetaFg)

	fillIfEmpty(&out.Modal.BorderFg, base.Modal.BorderFg)
	fillIfEmpty(&out.Modal.FooterFg, base.Modal.FooterFg)

	fillIfEmpty(&out.Dialog.HeaderLabelFg, base.Dialog.HeaderLabelFg)
	fillIfEmpty(&out.Dialog.HeaderValueFg, base.Dialog.HeaderValueFg)
	fillIfEmpty(&out.Dialog.ErrorFg, base.Dialog.ErrorFg)
	fillIfEmpty(&out.Dialog.SuccessFg, base.Dialog.SuccessFg)

	return out
}

func fillIfEmpty(target *string, value string) {
	if *target == "" {
		*target = value
	}
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

func paletteForTheme(name string) (*themes.Theme, error) {
	themeName := strings.TrimSpace(name)
	if themeName == "" {
		themeName = "Nord"
	}
	palette, err := themes.GetTheme(themeName)
	if err != nil {
		return nil, fmt.Errorf("theme %q: %w", themeName, err)
	}
	return palette, nil
}

func resolveThemeColorNames(theme Theme, palette *themes.Theme) Theme {
	theme.Status.Bg = resolveColorName(theme.Status.Bg, palette)
	theme.Status.Fg = resolveColorName(theme.Status.Fg, palette)
	theme.Status.Dim = resolveColorName(theme.Status.Dim, palette)
	theme.Status.ModeBg = resolveColorName(theme.Status.ModeBg, palette)
	theme.Status.ModeFg = resolveColorName(theme.Status.ModeFg, palette)

	theme.List.UnreadFg = resolveColorName(theme.List.UnreadFg, palette)
	theme.List.ReadFg = resolveColorName(theme.List.ReadFg, palette)
	theme.List.SelectedFg = resolveColorName(theme.List.SelectedFg, palette)
	theme.List.SelectedBg = resolveColorName(theme.List.SelectedBg, palette)
	theme.List.MetaFg = resolveColorName(theme.List.MetaFg, palette)

	theme.Modal.BorderFg = resolveColorName(theme.Modal.BorderFg, palette)
	theme.Modal.FooterFg = resolveColorName(theme.Modal.FooterFg, palette)

	theme.Dialog.HeaderLabelFg = resolveColorName(theme.Dialog.HeaderLabelFg, palette)
	theme.Dialog.HeaderValueFg = resolveColorName(theme.Dialog.HeaderValueFg, palette)
	theme.Dialog.ErrorFg = resolveColorName(theme.Dialog.ErrorFg, palette)
	theme.Dialog.SuccessFg = resolveColorName(theme.Dialog.SuccessFg, palette)

	return theme
}

func resolveColorName(value string, palette *themes.Theme) string {
	if palette == nil {
		return value
	}
	key := normalizeColorName(value)
	if key == "" {
		return value
	}
	switch key {
	case "foreground":
		return palette.Foreground
	case "background":
		return palette.Background
	case "cursor":
		return palette.Cursor
	case "black":
		return palette.Black
	case "red":
		return palette.Red
	case "green":
		return palette.Green
	case "yellow":
		return palette.Yellow
	case "blue":
		return palette.Blue
	case "magenta":
		return palette.Magenta
	case "cyan":
		return palette.Cyan
	case "white":
		return palette.White
	case "brightblack":
		return palette.BrightBlack
	case "brightred":
		return palette.BrightRed
	case "brightgreen":
		return palette.BrightGreen
	case "brightyellow":
		return palette.BrightYellow
	case "brightblue":
		return palette.BrightBlue
	case "brightmagenta":
		return palette.BrightMagenta
	case "brightcyan":
		return palette.BrightCyan
	case "brightwhite":
		return palette.BrightWhite
	default:
		return value
	}
}

func normalizeColorName(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "_", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, " ", "")
	return normalized
}
