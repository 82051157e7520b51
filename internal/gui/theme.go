package gui

import (
	"log/slog"
	"strings"

	darkmode "github.com/thiagokokada/dark-mode-go"

	"github.com/thiagokokada/loggraph/internal/paint"
)

type ThemePreference int

const (
	ThemeAuto ThemePreference = iota
	ThemeLight
	ThemeDark
)

func (p ThemePreference) String() string {
	switch p {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "auto"
	}
}

type colorPalette struct {
	ThemeName  string
	Background string
	Foreground string
	Labels     string
	Lanes      []string
}

var (
	lightPalette = colorPalette{
		ThemeName:  "azure light",
		Background: "#ffffff",
		Foreground: "#1e1e1e",
		Labels:     "#3b6ea8",
		Lanes:      paint.DefaultPalette,
	}
	darkPalette = colorPalette{
		ThemeName:  "azure dark",
		Background: "#1e1e1e",
		Foreground: "#dcdcdc",
		Labels:     "#8ab4f8",
		Lanes:      paint.DarkPalette,
	}
	detectDarkMode = darkmode.IsDarkMode
)

func ThemePreferenceFromString(raw string) ThemePreference {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ThemeDark.String():
		return ThemeDark
	case ThemeLight.String():
		return ThemeLight
	default:
		return ThemeAuto
	}
}

func paletteForPreference(pref ThemePreference) colorPalette {
	switch pref {
	case ThemeDark:
		return darkPalette
	case ThemeLight:
		return lightPalette
	default:
		if detectDarkMode != nil {
			dark, err := detectDarkMode()
			if err != nil {
				slog.Debug("detect dark-mode", slog.Any("error", err))
			} else if dark {
				return darkPalette
			}
		}
		return lightPalette
	}
}

func (p colorPalette) isDark() bool {
	return strings.Contains(strings.ToLower(p.ThemeName), "dark")
}

// painterFor builds the row painter for a palette. Configured lane colors win
// over the theme ones; the selection halo takes the background color unless
// one is configured.
func painterFor(p colorPalette, rowHeight float64, lanes []string, selection string) *paint.Painter {
	painter := paint.NewPainter(rowHeight)
	painter.Palette = p.Lanes
	if len(lanes) > 0 {
		painter.Palette = lanes
	}
	painter.SelectionColor = p.Background
	if selection != "" {
		painter.SelectionColor = selection
	}
	return painter
}
