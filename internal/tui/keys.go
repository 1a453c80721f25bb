package tui

import (
	"braindump/internal/editor"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Save     key.Binding
	Cancel   key.Binding
	Commit   key.Binding
	Indent   key.Binding
	Outdent  key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	NextNote key.Binding
	PrevNote key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc", "ctrl+x", "ctrl+c"), key.WithHelp("ctrl+x/esc", "cancel")),
		Commit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new bullet")),
		Indent:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "indent")),
		Outdent:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "unindent")),
		Back:     key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
		NextNote: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n/p", "next/prev")),
		PrevNote: key.NewBinding(key.WithKeys("ctrl+p")),
	}
}

// EditorHelp lists the editor controls as (keys, action) pairs, for `dump
// help`.
func EditorHelp() [][2]string {
	return [][2]string{
		{"Enter", "New bullet at the same level; on an empty bullet, move up a level"},
		{"Enter twice", "On an empty top-level bullet, save and exit"},
		{"Tab / Shift+Tab", "Indent / unindent the current bullet"},
		{"Backspace", "Delete a character; on an empty bullet, remove it"},
		{"Up / Down", "Move between bullets; Down on the last bullet adds one"},
		{"Ctrl+S", "Save and exit"},
		{"Ctrl+X / Esc", "Exit without saving"},
		{"Ctrl+N / Ctrl+P", "Save and open the next / previous dump (open only)"},
	}
}

// inputFor maps a key press onto an editor input. ok is false for keys the
// editor ignores.
func (k keyMap) inputFor(msg tea.KeyMsg) (editor.Input, bool) {
	switch {
	case key.Matches(msg, k.Save):
		return editor.Key(editor.KindSave), true
	case key.Matches(msg, k.Cancel):
		return editor.Key(editor.KindCancel), true
	case key.Matches(msg, k.Commit):
		return editor.Key(editor.KindCommitLine), true
	case key.Matches(msg, k.Indent):
		return editor.Key(editor.KindIncreaseIndent), true
	case key.Matches(msg, k.Outdent):
		return editor.Key(editor.KindDecreaseIndent), true
	case key.Matches(msg, k.Back):
		return editor.Key(editor.KindBackspace), true
	case key.Matches(msg, k.Up):
		return editor.Key(editor.KindUp), true
	case key.Matches(msg, k.Down):
		return editor.Key(editor.KindDown), true
	}

	switch msg.Type {
	case tea.KeyRunes:
		return editor.Text(string(msg.Runes)), true
	case tea.KeySpace:
		return editor.Char(' '), true
	}
	return editor.Input{}, false
}
