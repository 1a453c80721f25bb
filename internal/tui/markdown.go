package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style + wrap width. WithAutoStyle can block on terminal
	// queries, so styles are always picked explicitly.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// Markdown styles accepted by RenderMarkdown.
const (
	MarkdownDark  = "dark"
	MarkdownLight = "light"
	MarkdownPlain = "notty"
)

// MarkdownStyle picks a style: plain when colour is off, otherwise dark or
// light following Lip Gloss's background detection.
func MarkdownStyle(noColor bool) string {
	if noColor {
		return MarkdownPlain
	}
	if lipgloss.HasDarkBackground() {
		return MarkdownDark
	}
	return MarkdownLight
}

// RenderMarkdown renders md for the terminal. It falls back to the input
// when glamour fails.
func RenderMarkdown(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	key := style + ":" + strconv.Itoa(width)
	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		opts := []glamour.TermRendererOption{
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		}
		if style == MarkdownPlain {
			opts = append(opts, glamour.WithColorProfile(termenv.Ascii))
		}
		rr, err := glamour.NewTermRenderer(opts...)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case MarkdownPlain:
		return styles.NoTTYStyleConfig
	case MarkdownLight:
		cfg := styles.LightStyleConfig
		applyMonokaiMarkdown(&cfg)
		return cfg
	default:
		cfg := styles.DarkStyleConfig
		applyMonokaiMarkdown(&cfg)
		return cfg
	}
}

func applyMonokaiMarkdown(cfg *ansi.StyleConfig) {
	heading := string(ColorViolet)
	cfg.H1.Color = &heading
	cfg.H1.BackgroundColor = nil
	cfg.H2.Color = &heading
	cfg.H3.Color = &heading

	emph := string(ColorGrey)
	cfg.Emph.Color = &emph

	item := string(ColorCyan)
	cfg.Item.Color = &item
	cfg.Enumeration.Color = &item
}
