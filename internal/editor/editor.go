// Package editor is the input state machine behind the interactive outline
// editor. It has no terminal dependency: Apply maps (State, Input) to the next
// State, and the tui package is a thin shell that feeds it key presses.
package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"braindump/internal/outline"
)

// MaxIndent is the deepest level the editor will produce (five visible levels).
const MaxIndent = 4

type Kind int

const (
	KindText Kind = iota
	KindBackspace
	KindIncreaseIndent
	KindDecreaseIndent
	KindCommitLine
	KindUp
	KindDown
	KindSave
	KindCancel
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBackspace:
		return "backspace"
	case KindIncreaseIndent:
		return "increase-indent"
	case KindDecreaseIndent:
		return "decrease-indent"
	case KindCommitLine:
		return "commit-line"
	case KindUp:
		return "up"
	case KindDown:
		return "down"
	case KindSave:
		return "save"
	case KindCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Input is one input symbol.
type Input struct {
	Kind Kind
	Text string // KindText only
}

func Char(r rune) Input   { return Input{Kind: KindText, Text: string(r)} }
func Text(s string) Input { return Input{Kind: KindText, Text: s} }
func Key(k Kind) Input    { return Input{Kind: k} }

type State struct {
	Bullets []outline.Bullet
	Cursor  int

	// PendingExit is set by the first commit-line on an empty top-level
	// bullet; a second consecutive one finishes the session.
	PendingExit bool

	Done  bool
	Saved bool
}

// New starts a session on a copy of bullets with the cursor on the last one.
// An empty body starts with a single empty top-level bullet.
func New(bullets []outline.Bullet) State {
	bs := make([]outline.Bullet, len(bullets))
	copy(bs, bullets)
	if len(bs) == 0 {
		bs = append(bs, outline.Bullet{})
	}
	s := State{Bullets: bs, Cursor: len(bs) - 1}
	clampIndents(s.Bullets)
	return s
}

func (s State) Active() outline.Bullet {
	if s.Cursor < 0 || s.Cursor >= len(s.Bullets) {
		return outline.Bullet{}
	}
	return s.Bullets[s.Cursor]
}

func (s State) CurrentIndent() int {
	return s.Active().Indent
}

// Result is the bullet sequence a save persists: blank bullets, including the
// trailing one left by the exit gesture, are dropped.
func (s State) Result() []outline.Bullet {
	return outline.Compact(s.Bullets)
}

// Apply returns the state after in. It never mutates s.
func Apply(s State, in Input) State {
	if s.Done {
		return s
	}
	next := s.clone()
	if in.Kind != KindCommitLine {
		next.PendingExit = false
	}

	switch in.Kind {
	case KindText:
		next.insertText(in.Text)
	case KindBackspace:
		next.backspace()
	case KindIncreaseIndent:
		next.increaseIndent()
	case KindDecreaseIndent:
		if b := next.active(); b.Indent > 0 {
			b.Indent--
		}
	case KindCommitLine:
		next.commitLine()
	case KindUp:
		if next.Cursor > 0 {
			next.Cursor--
		}
	case KindDown:
		next.down()
	case KindSave:
		next.Done, next.Saved = true, true
	case KindCancel:
		next.Done, next.Saved = true, false
	}

	clampIndents(next.Bullets)
	return next
}

// ApplyAll folds inputs over s, stopping once the session is done.
func ApplyAll(s State, inputs ...Input) State {
	for _, in := range inputs {
		if s.Done {
			break
		}
		s = Apply(s, in)
	}
	return s
}

func (s *State) clone() State {
	out := *s
	out.Bullets = make([]outline.Bullet, len(s.Bullets))
	copy(out.Bullets, s.Bullets)
	if len(out.Bullets) == 0 {
		out.Bullets = []outline.Bullet{{}}
	}
	if out.Cursor < 0 {
		out.Cursor = 0
	}
	if out.Cursor >= len(out.Bullets) {
		out.Cursor = len(out.Bullets) - 1
	}
	return out
}

func (s *State) active() *outline.Bullet {
	return &s.Bullets[s.Cursor]
}

func (s *State) insertText(text string) {
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	s.active().Text += text
}

func (s *State) backspace() {
	b := s.active()
	if b.Text != "" {
		_, size := utf8.DecodeLastRuneInString(b.Text)
		b.Text = b.Text[:len(b.Text)-size]
		return
	}
	if len(s.Bullets) == 1 {
		return
	}
	s.Bullets = append(s.Bullets[:s.Cursor], s.Bullets[s.Cursor+1:]...)
	if s.Cursor > 0 {
		s.Cursor--
	}
}

func (s *State) increaseIndent() {
	b := s.active()
	if b.IsBlank() {
		return
	}
	limit := s.prevIndent(s.Cursor) + 1
	if limit > MaxIndent {
		limit = MaxIndent
	}
	if b.Indent+1 <= limit {
		b.Indent++
	}
}

func (s *State) commitLine() {
	b := s.active()
	if !b.IsBlank() {
		s.PendingExit = false
		s.insertAfter(outline.Bullet{Indent: b.Indent})
		return
	}
	if b.Indent > 0 {
		b.Indent--
		s.PendingExit = false
		return
	}
	if s.PendingExit {
		s.Done, s.Saved = true, true
		return
	}
	s.PendingExit = true
}

func (s *State) down() {
	if s.Cursor < len(s.Bullets)-1 {
		s.Cursor++
		return
	}
	if b := s.active(); !b.IsBlank() {
		s.insertAfter(outline.Bullet{Indent: b.Indent})
	}
}

func (s *State) insertAfter(b outline.Bullet) {
	at := s.Cursor + 1
	s.Bullets = append(s.Bullets, outline.Bullet{})
	copy(s.Bullets[at+1:], s.Bullets[at:])
	s.Bullets[at] = b
	s.Cursor = at
}

// prevIndent is the indent of the nearest non-blank bullet before i, or -1.
func (s *State) prevIndent(i int) int {
	for j := i - 1; j >= 0; j-- {
		if !s.Bullets[j].IsBlank() {
			return s.Bullets[j].Indent
		}
	}
	return -1
}

// clampIndents pulls every bullet back to at most one level below the
// previous non-blank bullet, so outdenting a parent also outdents children
// that would otherwise skip a level.
func clampIndents(bs []outline.Bullet) {
	prev := -1
	for i := range bs {
		if bs[i].Indent < 0 {
			bs[i].Indent = 0
		}
		if bs[i].Indent > prev+1 {
			bs[i].Indent = prev + 1
		}
		if bs[i].Indent > MaxIndent {
			bs[i].Indent = MaxIndent
		}
		if !bs[i].IsBlank() {
			prev = bs[i].Indent
		}
	}
}
