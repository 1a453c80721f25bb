package cli

import (
	"github.com/spf13/cobra"
)

// autoPull brings remote changes in before a command touches the journal.
// It never fails the command; problems are printed as warnings.
func (app *App) autoPull(cmd *cobra.Command) {
	if !app.cfg.AutoSync {
		return
	}
	ctx, cancel := app.syncContext(cmd)
	defer cancel()

	rep := app.syncer.AutoPull(ctx, func(msg string) {
		printWarn(cmd.ErrOrStderr(), msg)
	})
	if rep.Merged {
		printOK(cmd.ErrOrStderr(), "Synced with remote.")
	}
}
