package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"braindump/internal/gitrepo"
	"braindump/internal/reposync"
	"braindump/internal/store"
	"braindump/internal/tui"

	"github.com/charmbracelet/lipgloss"
)

func styleTitle() lipgloss.Style { return lipgloss.NewStyle().Bold(true).Foreground(tui.ColorViolet) }
func styleCode() lipgloss.Style  { return lipgloss.NewStyle().Foreground(tui.ColorCyan) }
func styleOK() lipgloss.Style    { return lipgloss.NewStyle().Foreground(tui.ColorGreen) }
func styleWarn() lipgloss.Style  { return lipgloss.NewStyle().Foreground(tui.ColorYellow) }
func styleErr() lipgloss.Style   { return lipgloss.NewStyle().Foreground(tui.ColorRed) }
func styleFile() lipgloss.Style  { return lipgloss.NewStyle().Foreground(tui.ColorOrange) }
func styleMuted() lipgloss.Style { return lipgloss.NewStyle().Foreground(tui.ColorGrey) }

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleOK().Render("✓")+" "+fmt.Sprintf(format, args...))
}

func printWarn(w io.Writer, msg string) {
	fmt.Fprintln(w, styleWarn().Render("⚠")+" "+msg)
}

// PrintError writes err the way every dump command reports failure.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if hint := errorHint(err); hint != "" {
		msg += "\n  " + hint
	}
	fmt.Fprintln(w, styleErr().Render("✗")+" "+msg)
}

func errorHint(err error) string {
	var nf store.NotFoundError
	var ve store.ValidationError
	switch {
	case store.IsNotFound(err):
		if errors.As(err, &nf) && nf.Count == 0 {
			return "Create one with: dump new"
		}
		return "See the available entries with: dump list"
	case errors.As(err, &ve):
		return "Fix the indentation in " + ve.Path + " (each bullet may be at most one level deeper than the one above)"
	case gitrepo.IsNonFastForwardPushErr(err):
		return "The remote has commits you do not have yet; run: dump sync"
	case reposync.IsConflict(err):
		return "Resolve the conflict with git in the journal directory, then run: dump sync"
	}
	return ""
}

func trueFalse(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
