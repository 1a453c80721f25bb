package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"braindump/internal/store"
)

const defaultEditor = "vi"

// EditorCommand picks the external editor: $VISUAL, then $EDITOR, then the
// configured fallback, then vi.
func EditorCommand(fallback string) string {
	for _, v := range []string{os.Getenv("VISUAL"), os.Getenv("EDITOR"), fallback} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return defaultEditor
}

// EditExternal opens the entry file in the external editor and reloads it
// afterwards. The reload validates indentation, so a hand edit that skips a
// level comes back as a store.ValidationError. changed reports whether the
// file content differs from before.
func EditExternal(ctx context.Context, st store.Store, e store.Entry, fallback string) (fresh store.Entry, changed bool, err error) {
	name := EditorCommand(fallback)
	args, err := splitShellWords(name)
	if err != nil {
		return store.Entry{}, false, fmt.Errorf("editor %q: %w", name, err)
	}
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	before, err := os.ReadFile(e.Path)
	if err != nil {
		return store.Entry{}, false, store.IOError{Op: "read", Path: e.Path, Err: err}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], e.Path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return store.Entry{}, false, fmt.Errorf("editor %s failed: %w", args[0], err)
	}

	after, err := os.ReadFile(e.Path)
	if err != nil {
		return store.Entry{}, false, store.IOError{Op: "read", Path: e.Path, Err: err}
	}
	fresh, err = st.Reload(e)
	if err != nil {
		return store.Entry{}, !bytes.Equal(before, after), err
	}
	return fresh, !bytes.Equal(before, after), nil
}
