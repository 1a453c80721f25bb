package tui

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard means no clipboard utility (pbcopy, xclip, xsel, wl-copy,
// clip.exe) is available.
var ErrNoClipboard = errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// CopyToClipboard places s on the system clipboard with Unix line endings.
func CopyToClipboard(s string) error {
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return clipboardWrite(s)
}
