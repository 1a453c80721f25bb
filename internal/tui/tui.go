// Package tui is the interactive side of dump: the full-screen bullet
// editor, the external-editor round trip, clipboard access and markdown
// rendering for `dump show`.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Edit runs the bullet editor until the user saves, cancels or moves to a
// neighbouring entry. Nothing is written here; the caller persists
// Outcome.State.Result() when Outcome.State.Saved is set.
func Edit(s Session, opts ...tea.ProgramOption) (Outcome, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(newEditorModel(s), opts...).Run()
	if err != nil {
		return Outcome{}, err
	}
	m, ok := final.(editorModel)
	if !ok {
		return Outcome{}, fmt.Errorf("unexpected editor model %T", final)
	}
	if !m.state.Done {
		// The program was killed from outside; treat it as a cancel.
		m.state.Done, m.state.Saved = true, false
	}
	return m.outcome(), nil
}
