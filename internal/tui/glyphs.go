package tui

import (
	"strings"
	"sync"
)

// Bullets are drawn with one glyph per indent level. Terminals or fonts that
// render these poorly can switch to the ASCII set.

type GlyphSet int

const (
	GlyphsUnicode GlyphSet = iota
	GlyphsASCII
)

var (
	unicodeBullets = []string{"•", "◦", "‣", "⁃", "▪"}
	asciiBullets   = []string{"-", "*", "+", "-", "*"}

	glyphsMu      sync.RWMutex
	currentGlyphs = GlyphsUnicode
)

// ParseGlyphSet maps "unicode"/"utf8"/"" and "ascii"; anything else is
// unicode.
func ParseGlyphSet(s string) GlyphSet {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascii":
		return GlyphsASCII
	default:
		return GlyphsUnicode
	}
}

func SetGlyphs(gs GlyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() GlyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

// BulletGlyph returns the bullet for an indent level; levels past the last
// glyph reuse it.
func BulletGlyph(level int) string {
	set := unicodeBullets
	if glyphs() == GlyphsASCII {
		set = asciiBullets
	}
	if level < 0 {
		level = 0
	}
	if level >= len(set) {
		level = len(set) - 1
	}
	return set[level]
}

func glyphHRule() string {
	if glyphs() == GlyphsASCII {
		return "-"
	}
	return "─"
}

func glyphCursor() string {
	if glyphs() == GlyphsASCII {
		return "_"
	}
	return " "
}
