package cli

import (
	"context"
	"errors"
	"fmt"

	"braindump/internal/gitrepo"
	"braindump/internal/reposync"

	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	var remoteURL string
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull remote changes, commit local ones and push",
		Long: `Synchronise the journal directory with its git remote.

Local changes are stashed, remote changes fetched and rebased in, the stash
restored, and everything committed as "Log: YYYY-MM-DD" and pushed. If a
step conflicts, your changes stay in the stash and nothing is discarded.

--remote URL initialises the repository if needed and points the configured
remote (default "origin") at URL before synchronising.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.syncContext(cmd)
			defer cancel()

			if remoteURL != "" {
				if err := app.setupRemote(ctx, cmd, remoteURL); err != nil {
					return err
				}
			}

			rep, err := app.syncer.Sync(ctx)
			if err != nil {
				return fmt.Errorf("Synchronisation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			if rep.UpToDate() {
				printOK(out, "Already up to date.")
			} else {
				printOK(out, "Successfully synchronised with remote.")
			}
			if rep.Committed {
				fmt.Fprintln(out, styleMuted().Render("  Commit: "+rep.CommitMessage))
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&remoteURL, "remote", "", "Set up the journal repository and its remote before syncing")
	return cmd
}

// setupRemote makes the journal directory a repository with the configured
// remote pointing at url.
func (app *App) setupRemote(ctx context.Context, cmd *cobra.Command, url string) error {
	if err := app.ensureStore(cmd); err != nil {
		return err
	}
	dir := app.store.Dir
	if err := gitrepo.Init(ctx, app.log, dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	if err := gitrepo.SetRemoteURL(ctx, app.log, dir, app.cfg.Sync.Remote, url); err != nil {
		return fmt.Errorf("set remote: %w", err)
	}
	printOK(cmd.ErrOrStderr(), "Remote %s set to %s", app.cfg.Sync.Remote, styleCode().Render(url))
	return nil
}

func newPullCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Pull remote changes only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.syncContext(cmd)
			defer cancel()

			rep, err := app.syncer.Pull(ctx)
			if errors.Is(err, reposync.ErrLocalChanges) {
				return errors.New("You have uncommitted local changes. Run `dump sync` to commit and sync your changes first.")
			}
			if err != nil {
				return fmt.Errorf("Pull failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			if rep.Merged {
				printOK(out, "Successfully pulled from remote.")
			} else {
				printOK(out, "Already up to date.")
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
