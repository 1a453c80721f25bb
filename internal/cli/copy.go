package cli

import (
	"fmt"
	"strconv"
	"strings"

	"braindump/internal/store"

	"github.com/spf13/cobra"
)

func newCopyCmd(app *App) *cobra.Command {
	var ids []string
	var stdout bool
	cmd := &cobra.Command{
		Use:   "copy [n]",
		Short: "Copy the n most recent entries to the clipboard (default 1)",
		Example: strings.TrimSpace(`
  dump copy
  dump copy 3
  dump copy --ids 1,4
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && len(ids) > 0 {
				return fmt.Errorf("use either a count or --ids, not both")
			}
			if err := app.ensureStore(cmd); err != nil {
				return err
			}

			entries, err := app.copyEntries(args, ids)
			if err != nil {
				return err
			}
			text := store.CopyText(entries)
			if stdout {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			if err := app.copyToClipboard(text); err != nil {
				return err
			}

			refs := make([]string, 0, len(entries))
			for _, e := range entries {
				refs = append(refs, strconv.Itoa(e.Index))
			}
			noun := "dump"
			if len(refs) > 1 {
				noun = "dumps"
			}
			printOK(cmd.OutOrStdout(), "Copied %s #%s to clipboard.", noun, strings.Join(refs, ", "))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Copy these entries (list indices or YYYYMMDDXX ids)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the text instead of copying it")
	return cmd
}

func (app *App) copyEntries(args, ids []string) ([]store.Entry, error) {
	if len(ids) > 0 {
		out := make([]store.Entry, 0, len(ids))
		for _, ref := range ids {
			e, err := app.store.Resolve(ref)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	}

	n := 1
	if len(args) == 1 {
		c, err := parseCount(args[0])
		if err != nil {
			return nil, err
		}
		n = c
	}
	total, err := app.store.Count()
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, store.NotFoundError{Ref: "1", Count: 0}
	}
	if n > total {
		n = total
	}
	out := make([]store.Entry, 0, n)
	for i := 1; i <= n; i++ {
		e, err := app.store.ResolveIndex(i)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
