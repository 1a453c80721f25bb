package cli

import (
	"fmt"
	"io"
	"strings"

	"braindump/internal/tui"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newHelpCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show all commands and the editor controls",
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			if len(args) > 0 {
				target, _, err := root.Find(args)
				if err != nil || target == nil || target == root {
					return fmt.Errorf("unknown help topic %q", strings.Join(args, " "))
				}
				return target.Help()
			}
			printHelp(cmd.OutOrStdout(), root)
			return nil
		},
	}
}

func printHelp(w io.Writer, root *cobra.Command) {
	cmds := uitable.New()
	cmds.Separator = "  "
	for _, c := range root.Commands() {
		if !c.IsAvailableCommand() || c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		cmds.AddRow("  "+c.Name(), c.Short)
	}

	keys := uitable.New()
	keys.Separator = "  "
	for _, kv := range tui.EditorHelp() {
		keys.AddRow("  "+kv[0], kv[1])
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle().Render("Commands:"))
	fmt.Fprintln(w, cmds)
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle().Render("Editor Controls:"))
	fmt.Fprintln(w, keys)
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleMuted().Render("Entries are referenced by the index shown in "+styleCode().Render("dump list")+" or by their YYYYMMDDXX id."))
	fmt.Fprintln(w)
}
