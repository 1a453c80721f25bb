package tui

import "testing"

func TestBulletGlyph_PerLevel(t *testing.T) {
	SetGlyphs(GlyphsUnicode)
	t.Cleanup(func() { SetGlyphs(GlyphsUnicode) })

	want := []string{"•", "◦", "‣", "⁃", "▪", "▪", "▪"}
	for level, w := range want {
		if got := BulletGlyph(level); got != w {
			t.Fatalf("BulletGlyph(%d) = %q, want %q", level, got, w)
		}
	}
	if got := BulletGlyph(-1); got != "•" {
		t.Fatalf("negative level should use the first glyph; got %q", got)
	}

	SetGlyphs(GlyphsASCII)
	if got := BulletGlyph(1); got != "*" {
		t.Fatalf("ascii level 1 = %q", got)
	}
}

func TestParseGlyphSet(t *testing.T) {
	for in, want := range map[string]GlyphSet{
		"":        GlyphsUnicode,
		"unicode": GlyphsUnicode,
		" ASCII ": GlyphsASCII,
		"bogus":   GlyphsUnicode,
	} {
		if got := ParseGlyphSet(in); got != want {
			t.Errorf("ParseGlyphSet(%q) = %v, want %v", in, got, want)
		}
	}
}
