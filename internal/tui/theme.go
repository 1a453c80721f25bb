package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Monokai Pro accents, shared by the editor and the CLI output.
var (
	ColorYellow = lipgloss.Color("#FFD866")
	ColorOrange = lipgloss.Color("#FC9867")
	ColorRed    = lipgloss.Color("#FF6188")
	ColorViolet = lipgloss.Color("#AB9DF2")
	ColorCyan   = lipgloss.Color("#78DCE8")
	ColorGreen  = lipgloss.Color("#A9DC76")
	ColorGrey   = lipgloss.Color("#939293")
	ColorWhite  = lipgloss.Color("#FCFCFA")
)

// levelColors cycles per indent level so siblings line up visually.
var levelColors = []lipgloss.Color{ColorCyan, ColorGreen, ColorYellow, ColorOrange, ColorViolet}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorViolet)
}

func styleSeparator() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorGrey)
}

func styleStatus() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorGrey)
}

func styleNotice() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorYellow)
}

func styleBullet(level int) lipgloss.Style {
	if level < 0 {
		level = 0
	}
	return lipgloss.NewStyle().Foreground(levelColors[level%len(levelColors)])
}

func styleCursor() lipgloss.Style {
	return lipgloss.NewStyle().Reverse(true)
}

// ApplyColorProfile sets Lip Gloss's color profile. noColor (config no_color
// or $NO_COLOR) forces plain text; otherwise the terminal's reported profile
// is upgraded when TERM/COLORTERM advertise more than the detector found.
func ApplyColorProfile(noColor bool) {
	lipgloss.SetColorProfile(colorProfile(noColor))
}

func colorProfile(noColor bool) termenv.Profile {
	if noColor || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return termenv.Ascii
	}

	profile := termenv.ColorProfile()

	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	return profile
}
