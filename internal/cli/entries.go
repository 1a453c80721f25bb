package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"braindump/internal/editor"
	"braindump/internal/outline"
	"braindump/internal/store"
	"braindump/internal/tui"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

const (
	listDateLayout = "Jan 2, 2006"
	listTagsWidth  = 20
)

func newNewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new [tags...]",
		Short: "Create a new journal entry with optional tags",
		Example: strings.TrimSpace(`
  dump new
  dump new health career
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureStore(cmd); err != nil {
				return err
			}
			app.autoPull(cmd)

			e, err := app.store.Create(app.store.Today(), args)
			if err != nil {
				return err
			}
			app.log.Debug("created entry", "id", e.ID, "tags", e.Tags)

			// The header reads "New Brain Dump" until the first save.
			session := tui.Session{Entry: store.Entry{Tags: e.Tags}, Bullets: nil}
			res, err := app.edit(session)
			if err != nil {
				_ = app.store.Delete(e)
				return err
			}
			_, err = app.persist(cmd, e, res.State, true)
			return err
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var asJSON, all bool
	cmd := &cobra.Command{
		Use:   "list [n]",
		Short: "View the n most recent entries (default 10)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all && len(args) == 1 {
				return fmt.Errorf("use either a count or --all, not both")
			}
			limit := store.DefaultListLimit
			if len(args) == 1 {
				n, err := parseCount(args[0])
				if err != nil {
					return err
				}
				limit = n
			}
			if asJSON && app.Format == "" {
				app.Format = "json"
			}

			if err := app.ensureStore(cmd); err != nil {
				return err
			}
			app.autoPull(cmd)

			var items []store.Summary
			var err error
			if all {
				items, err = app.store.ListAll()
			} else {
				items, err = app.store.List(limit)
			}
			if err != nil {
				return err
			}
			total, err := app.store.Count()
			if err != nil {
				return err
			}

			if app.Format != "" {
				return writeOut(cmd, app, items)
			}
			printList(cmd.OutOrStdout(), items, total)
			return nil
		},
	}
	cmd.Flags().StringVar(&app.Format, "format", "", "Output format: json|yaml (default: table)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Shorthand for --format json")
	cmd.Flags().BoolVar(&all, "all", false, "List every entry")
	cmd.Flags().BoolVar(&app.Pretty, "pretty", false, "Indent JSON output")
	return cmd
}

func printList(w io.Writer, items []store.Summary, total int) {
	if len(items) == 0 {
		fmt.Fprintln(w, styleWarn().Render("No journal files found."))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("ID", "Date", "Tags", "Synthesised")
	for _, s := range items {
		tbl.AddRow(
			strconv.Itoa(s.Index),
			s.Date.Format(listDateLayout),
			xansi.Truncate(joinTags(s.Tags), listTagsWidth, "…"),
			trueFalse(s.Synthesised),
		)
	}
	tbl.RightAlign(0)

	// uitable measures raw strings, so styling happens after layout.
	lines := strings.Split(tbl.String(), "\n")
	lines[0] = styleMuted().Render(lines[0])

	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle().Render("Brain Dumps"))
	fmt.Fprintln(w, strings.Join(lines, "\n"))
	if more := total - len(items); more > 0 {
		fmt.Fprintln(w, styleMuted().Render(fmt.Sprintf("  +%d more", more)))
	}
	fmt.Fprintln(w)
}

func newOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open [n]",
		Short: "Open an entry in the terminal editor (default: the latest)",
		Long: strings.TrimSpace(`
Open an entry in the terminal editor. n is the index shown by "dump list"
or a full YYYYMMDDXX id.

Use Ctrl+N / Ctrl+P to save and move to the next (older) or previous
(newer) entry.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureStore(cmd); err != nil {
				return err
			}
			app.autoPull(cmd)

			e, err := app.store.Resolve(refArg(args))
			if err != nil {
				return err
			}
			for {
				total, err := app.store.Count()
				if err != nil {
					return err
				}
				res, err := app.edit(tui.Session{Entry: e, Bullets: e.Body, Cycle: total > 1})
				if err != nil {
					return err
				}
				deleted, err := app.persist(cmd, e, res.State, false)
				if err != nil {
					return err
				}
				if res.Nav == tui.NavNone {
					return nil
				}

				total, err = app.store.Count()
				if err != nil || total == 0 {
					return err
				}
				idx := e.Index
				switch res.Nav {
				case tui.NavNext:
					if !deleted {
						idx++
					}
				case tui.NavPrev:
					idx--
				}
				idx = ((idx-1)%total+total)%total + 1
				if e, err = app.store.ResolveIndex(idx); err != nil {
					return err
				}
			}
		},
	}
}

// persist writes an editor result back to e. isNew marks an entry this
// command created; such an entry is removed when saved empty. Cancelling
// never touches the file. The returned bool reports whether the entry file
// was deleted.
func (app *App) persist(cmd *cobra.Command, e store.Entry, st editor.State, isNew bool) (bool, error) {
	out := cmd.OutOrStdout()
	name := filepath.Base(e.Path)

	if !st.Saved {
		fmt.Fprintln(out, styleWarn().Render("Cancelled. No changes saved."))
		return false, nil
	}

	result := st.Result()
	before := outline.Compact(e.Body)
	if len(result) == 0 && (isNew || len(before) == 0) {
		if err := app.store.Delete(e); err != nil {
			return false, err
		}
		fmt.Fprintln(out, styleWarn().Render("Empty dump deleted."))
		return true, nil
	}
	if !isNew && outline.Equal(result, before) {
		app.log.Debug("entry unchanged", "id", e.ID)
		return false, nil
	}
	if err := app.store.SaveBody(e, result); err != nil {
		return false, err
	}
	fmt.Fprintln(out, styleOK().Render("Saved")+" "+styleCode().Render(name))
	return false, nil
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [n]",
		Short: "Open an entry in $VISUAL / $EDITOR (default: the latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureStore(cmd); err != nil {
				return err
			}
			app.autoPull(cmd)

			e, err := app.store.Resolve(refArg(args))
			if err != nil {
				return err
			}
			fresh, changed, err := app.external(cmd.Context(), e)
			if err != nil {
				return err
			}
			name := styleCode().Render(filepath.Base(fresh.Path))
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), styleOK().Render("Saved")+" "+name)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), styleOK().Render("Opened")+" "+name+" in external editor")
			}
			return nil
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show [n]",
		Short: "Print an entry rendered as markdown (default: the latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureStore(cmd); err != nil {
				return err
			}
			e, err := app.store.Resolve(refArg(args))
			if err != nil {
				return err
			}

			md := "## " + store.IntroLine(e) + "\n\n" + e.RawBody()
			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprint(out, store.CopyBlob([]store.Entry{e}))
				return nil
			}
			fmt.Fprintln(out, tui.RenderMarkdown(md, app.termWidth(), tui.MarkdownStyle(app.cfg.NoColor)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source instead of rendering it")
	return cmd
}

func (app *App) termWidth() int {
	if app.Width > 0 {
		return app.Width
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <n>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureStore(cmd); err != nil {
				return err
			}
			e, err := app.store.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := app.store.Delete(e); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleOK().Render("Deleted")+" "+styleFile().Render(filepath.Base(e.Path)))
			return nil
		},
	}
}

// refArg returns the entry reference argument, defaulting to the latest.
func refArg(args []string) string {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "1"
	}
	return args[0]
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid count %q: want a positive number", s)
	}
	return n, nil
}
