// Package outline is the in-memory model of an entry body: an ordered list of
// indented bullets, plus conversion to and from markdown bullet-list text.
package outline

import (
	"fmt"
	"strings"
)

// Unit is the canonical indentation written by Render.
const Unit = "\t"

// spacesPerLevel is accepted by Parse for bodies touched by editors that
// expand tabs.
const spacesPerLevel = 2

// Markers recognised by Parse. "- " is the only one Render writes; the glyphs
// are what the interactive editor displays and occasionally leak into files
// that were pasted back in by hand.
var markers = []string{"-", "*", "+", "•", "◦", "‣", "⁃", "▪"}

type Bullet struct {
	Text   string `json:"text"`
	Indent int    `json:"indent"`
}

// IsBlank reports whether the bullet has no visible text.
func (b Bullet) IsBlank() bool {
	return strings.TrimSpace(b.Text) == ""
}

// IndentSkipError reports a bullet that is indented more than one level
// deeper than the bullet before it.
type IndentSkipError struct {
	Line   int // 1-based bullet position
	Indent int
	Max    int
}

func (e *IndentSkipError) Error() string {
	if e.Indent < 0 {
		return fmt.Sprintf("bullet %d: negative indentation %d", e.Line, e.Indent)
	}
	return fmt.Sprintf("bullet %d: indentation %d skips a level (max %d)", e.Line, e.Indent, e.Max)
}

// Parse converts markdown bullet-list text into bullets.
//
// Each line of the form <indent><marker> <text> becomes a bullet. Indent is
// counted in tabs, with every two spaces also counting as one level. Lines
// without a marker are appended to the previous bullet's text, separated by a
// newline; they are never rejected. Blank lines are skipped.
func Parse(text string) []Bullet {
	var out []Bullet
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		level, rest := splitIndent(line)
		if content, ok := cutMarker(rest); ok {
			out = append(out, Bullet{Text: content, Indent: level})
			continue
		}
		if len(out) == 0 {
			out = append(out, Bullet{Text: rest})
			continue
		}
		last := &out[len(out)-1]
		last.Text += "\n" + rest
	}
	return out
}

// Render is the inverse of Parse.
func Render(bullets []Bullet) string {
	var sb strings.Builder
	for _, b := range bullets {
		indent := b.Indent
		if indent < 0 {
			indent = 0
		}
		sb.WriteString(strings.Repeat(Unit, indent))
		if b.Text == "" {
			sb.WriteString("-\n")
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(b.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Validate enforces the no-skip indentation rule: ignoring blank bullets, each
// bullet may be at most one level deeper than the one before it, and the first
// must be at level 0.
func Validate(bullets []Bullet) error {
	prev := -1
	for i, b := range bullets {
		if b.Indent < 0 {
			return &IndentSkipError{Line: i + 1, Indent: b.Indent, Max: prev + 1}
		}
		if b.IsBlank() {
			continue
		}
		if b.Indent > prev+1 {
			return &IndentSkipError{Line: i + 1, Indent: b.Indent, Max: prev + 1}
		}
		prev = b.Indent
	}
	return nil
}

// Compact drops every blank bullet.
func Compact(bullets []Bullet) []Bullet {
	out := make([]Bullet, 0, len(bullets))
	for _, b := range bullets {
		if b.IsBlank() {
			continue
		}
		out = append(out, b)
	}
	return out
}

func Equal(a, b []Bullet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func splitIndent(line string) (int, string) {
	tabs, spaces := 0, 0
	i := 0
loop:
	for ; i < len(line); i++ {
		switch line[i] {
		case '\t':
			tabs++
		case ' ':
			spaces++
		default:
			break loop
		}
	}
	return tabs + spaces/spacesPerLevel, line[i:]
}

func cutMarker(s string) (string, bool) {
	for _, m := range markers {
		if s == m {
			return "", true
		}
		if rest, ok := strings.CutPrefix(s, m+" "); ok {
			return rest, true
		}
	}
	return "", false
}
