package tui

import (
	"fmt"
	"strings"

	"braindump/internal/editor"
	"braindump/internal/outline"
	"braindump/internal/store"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

// Nav asks the caller to open a neighbouring entry after the session.
type Nav int

const (
	NavNone Nav = iota
	NavNext
	NavPrev
)

// Session describes one editing session.
type Session struct {
	Entry   store.Entry
	Bullets []outline.Bullet
	// Cycle enables Ctrl+N / Ctrl+P between entries.
	Cycle bool
}

// Outcome is the final editor state plus any navigation request.
type Outcome struct {
	State editor.State
	Nav   Nav
}

type editorModel struct {
	keys   keyMap
	entry  store.Entry
	state  editor.State
	cycle  bool
	nav    Nav
	width  int
	height int
}

func newEditorModel(s Session) editorModel {
	return editorModel{
		keys:   defaultKeyMap(),
		entry:  s.Entry,
		state:  editor.New(s.Bullets),
		cycle:  s.Cycle,
		width:  80,
		height: 24,
	}
}

func (m editorModel) Init() tea.Cmd { return nil }

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.state.Done {
			return m, nil
		}
		if m.cycle {
			switch {
			case key.Matches(msg, m.keys.NextNote):
				return m.finishWithNav(NavNext)
			case key.Matches(msg, m.keys.PrevNote):
				return m.finishWithNav(NavPrev)
			}
		}
		in, ok := m.keys.inputFor(msg)
		if !ok {
			return m, nil
		}
		m.state = editor.Apply(m.state, in)
		if m.state.Done {
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

// finishWithNav saves the current entry before moving on.
func (m editorModel) finishWithNav(nav Nav) (tea.Model, tea.Cmd) {
	m.state = editor.Apply(m.state, editor.Key(editor.KindSave))
	m.nav = nav
	return m, tea.Quit
}

func (m editorModel) outcome() Outcome {
	return Outcome{State: m.state, Nav: m.nav}
}

func (m editorModel) View() string {
	if m.state.Done {
		return ""
	}
	width := m.width
	if width < 20 {
		width = 20
	}

	rule := styleSeparator().Render(strings.Repeat(glyphHRule(), width))
	body, cursorLine := m.bodyLines(width)

	// Header, two rules, status and the optional notice take five rows.
	avail := m.height - 5
	if avail < 3 {
		avail = 3
	}
	start := 0
	if cursorLine >= avail {
		start = cursorLine - avail + 1
	}
	end := start + avail
	if end > len(body) {
		end = len(body)
	}

	var b strings.Builder
	b.WriteString(styleHeader().Render(xansi.Truncate(headerText(m.entry), width, "…")))
	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("\n")
	for _, ln := range body[start:end] {
		b.WriteString(ln)
		b.WriteString("\n")
	}
	for i := end - start; i < avail; i++ {
		b.WriteString("\n")
	}
	b.WriteString(rule)
	b.WriteString("\n")
	if m.state.PendingExit {
		b.WriteString(styleNotice().Render("Press Enter again to save and exit"))
	} else {
		b.WriteString(styleStatus().Render(xansi.Truncate(m.statusText(), width, "…")))
	}
	return b.String()
}

// bodyLines renders every bullet, wrapped to width, and returns the index of
// the line holding the cursor.
func (m editorModel) bodyLines(width int) ([]string, int) {
	var lines []string
	cursorLine := 0
	for i, bl := range m.state.Bullets {
		pad := strings.Repeat("  ", bl.Indent)
		glyph := BulletGlyph(bl.Indent)
		prefix := pad + styleBullet(bl.Indent).Render(glyph) + " "
		hang := pad + strings.Repeat(" ", xansi.StringWidth(glyph)+1)

		textWidth := width - xansi.StringWidth(hang)
		if textWidth < 10 {
			textWidth = 10
		}

		var wrapped []string
		for _, para := range strings.Split(bl.Text, "\n") {
			wrapped = append(wrapped, strings.Split(xansi.Wrap(para, textWidth, " "), "\n")...)
		}
		for j, w := range wrapped {
			lead := hang
			if j == 0 {
				lead = prefix
			}
			// Input always goes to the end of the active bullet.
			if i == m.state.Cursor && j == len(wrapped)-1 {
				cursorLine = len(lines)
				w += styleCursor().Render(glyphCursor())
			}
			lines = append(lines, lead+w)
		}
	}
	return lines, cursorLine
}

func (m editorModel) statusText() string {
	parts := []string{"Ctrl+S: Save", "Ctrl+X/Esc: Cancel"}
	if m.cycle {
		parts = append(parts, "Ctrl+N/P: Next/Prev")
	}
	parts = append(parts, "Tab: Indent", "Shift+Tab: Unindent")
	return " " + strings.Join(parts, "  |  ") + " "
}

func headerText(e store.Entry) string {
	if e.ID == "" {
		return "New Brain Dump"
	}
	parts := []string{}
	if e.Index > 0 {
		parts = append(parts, fmt.Sprintf("Brain Dump #%d", e.Index))
	} else {
		parts = append(parts, "Brain Dump "+e.ID)
	}
	parts = append(parts, "Date: "+e.Date.Format("02/01/2006"))
	if len(e.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(e.Tags, ", "))
	}
	return strings.Join(parts, "  |  ")
}
