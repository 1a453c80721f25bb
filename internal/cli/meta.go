package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newTagCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <n> add|remove <tags...>",
		Short: "Add or remove tags on an entry",
		Example: strings.TrimSpace(`
  dump tag 1 add health exercise
  dump tag 2 remove fitness
  dump tag 1 add health remove fitness
`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			add, remove, err := parseTagActions(args[1:])
			if err != nil {
				return err
			}
			if err := app.ensureStore(cmd); err != nil {
				return err
			}
			e, err := app.store.Resolve(args[0])
			if err != nil {
				return err
			}
			ch, err := app.store.SetTags(e, add, remove)
			if err != nil {
				return err
			}

			line := styleCode().Render(filepath.Base(e.Path))
			if len(ch.Added) > 0 {
				line += " " + styleOK().Render("+ "+joinTags(ch.Added))
			}
			if len(ch.Removed) > 0 {
				line += " " + styleErr().Render("- "+joinTags(ch.Removed))
			}
			tags := "(none)"
			if len(ch.Tags) > 0 {
				tags = joinTags(ch.Tags)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, line)
			fmt.Fprintln(out, "  Tags: "+styleMuted().Render(tags))
			return nil
		},
	}
}

// parseTagActions reads "add a b remove c" style arguments. Keywords and
// tags are case-insensitive.
func parseTagActions(args []string) (add, remove []string, err error) {
	var cur *[]string
	for _, a := range args {
		switch low := strings.ToLower(strings.TrimSpace(a)); {
		case low == "add":
			cur = &add
		case low == "remove":
			cur = &remove
		case cur == nil:
			return nil, nil, fmt.Errorf("Expected 'add' or 'remove' before '%s'", a)
		case low != "":
			*cur = append(*cur, low)
		}
	}
	if len(add) == 0 && len(remove) == 0 {
		return nil, nil, errors.New("No tags specified to add or remove.")
	}
	return add, remove, nil
}

func newSynthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "synth <n>",
		Short: "Toggle the synthesised flag of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureStore(cmd); err != nil {
				return err
			}
			e, err := app.store.Resolve(args[0])
			if err != nil {
				return err
			}
			on, err := app.store.ToggleSynthesised(e)
			if err != nil {
				return err
			}
			state := styleErr().Render(trueFalse(on))
			if on {
				state = styleOK().Render(trueFalse(on))
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleCode().Render(filepath.Base(e.Path))+" synthesised: "+state)
			return nil
		},
	}
}
