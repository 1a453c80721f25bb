package tui

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"braindump/internal/outline"
	"braindump/internal/store"
)

func TestEditorCommand_Precedence(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if got := EditorCommand(""); got != "vi" {
		t.Fatalf("default = %q", got)
	}
	if got := EditorCommand("nano"); got != "nano" {
		t.Fatalf("fallback = %q", got)
	}
	t.Setenv("EDITOR", "hx")
	if got := EditorCommand("nano"); got != "hx" {
		t.Fatalf("$EDITOR = %q", got)
	}
	t.Setenv("VISUAL", "code --wait")
	if got := EditorCommand("nano"); got != "code --wait" {
		t.Fatalf("$VISUAL = %q", got)
	}
}

func newEntry(t *testing.T) (store.Store, store.Entry) {
	t.Helper()
	st := store.Store{Dir: t.TempDir(), Now: func() time.Time { return time.Date(2026, 1, 22, 9, 0, 0, 0, time.Local) }}
	e, err := st.Create(st.Today(), []string{"work"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return st, e
}

// scriptEditor makes the "editor" a shell snippet that receives the file
// path as $0.
func scriptEditor(t *testing.T, script string) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	t.Setenv("VISUAL", "sh -c '"+script+"'")
}

func TestEditExternal_ReloadsBody(t *testing.T) {
	st, e := newEntry(t)
	scriptEditor(t, `printf "%s\n" "- first" "	- nested" >> "$0"`)

	fresh, changed, err := EditExternal(context.Background(), st, e, "")
	if err != nil {
		t.Fatalf("EditExternal: %v", err)
	}
	if !changed {
		t.Fatalf("expected changed=true")
	}
	want := []outline.Bullet{{Text: "first"}, {Text: "nested", Indent: 1}}
	if got := outline.Compact(fresh.Body); !outline.Equal(got, want) {
		t.Fatalf("body = %+v, want %+v", got, want)
	}
	if len(fresh.Tags) != 1 || fresh.Tags[0] != "work" {
		t.Fatalf("frontmatter lost: %+v", fresh.Tags)
	}
}

func TestEditExternal_RejectsIndentSkip(t *testing.T) {
	st, e := newEntry(t)
	scriptEditor(t, `printf "%s\n" "- top" "			- too deep" >> "$0"`)

	_, changed, err := EditExternal(context.Background(), st, e, "")
	var ve store.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	var skip *outline.IndentSkipError
	if !errors.As(err, &skip) {
		t.Fatalf("expected IndentSkipError inside, got %v", err)
	}
	if !changed {
		t.Fatalf("expected changed=true")
	}
}

func TestEditExternal_Unchanged(t *testing.T) {
	st, e := newEntry(t)
	scriptEditor(t, `true`)

	_, changed, err := EditExternal(context.Background(), st, e, "")
	if err != nil {
		t.Fatalf("EditExternal: %v", err)
	}
	if changed {
		t.Fatalf("expected changed=false")
	}
	data, err := os.ReadFile(e.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "---\ndate: 2026-01-22\n") {
		t.Fatalf("file rewritten unexpectedly: %q", data)
	}
}

func TestEditExternal_EditorFails(t *testing.T) {
	st, e := newEntry(t)
	scriptEditor(t, `exit 3`)
	if _, _, err := EditExternal(context.Background(), st, e, ""); err == nil {
		t.Fatalf("expected error from failing editor")
	}
}
