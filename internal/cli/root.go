// Package cli is the cobra command tree behind the dump binary.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"braindump/internal/config"
	"braindump/internal/format"
	"braindump/internal/gitrepo"
	"braindump/internal/reposync"
	"braindump/internal/store"
	"braindump/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	ConfigFile string
	Verbose    bool
	NoColor    bool
	Format     string
	Pretty     bool

	// Seams; zero values mean the real implementation.
	Now        func() time.Time
	ConfigDirs []string
	Backend    reposync.Backend
	Edit       func(tui.Session) (tui.Outcome, error)
	External   func(context.Context, store.Store, store.Entry, string) (store.Entry, bool, error)
	Clipboard  func(string) error
	Width      int

	cfg    *config.Config
	log    *slog.Logger
	store  store.Store
	syncer *reposync.Engine
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dump",
		Short:         "A CLI tool for managing markdown journal entries",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start today's entry, tagged
  dump new health career

  # See what you wrote recently, then reopen the second entry
  dump list
  dump open 2

  # Commit and push everything
  dump sync
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, styleTitle().Render("Braindump")+" - A CLI tool for managing markdown journal entries. Type "+styleCode().Render("dump help")+" for instructions.")
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Journal directory (overrides config dir / $DUMP_DIR)")
	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", "", "Config file (default: ~/.config/dump/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log git commands and sync steps")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colour output")

	cmd.AddCommand(newNewCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newOpenCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newCopyCmd(app))
	cmd.AddCommand(newTagCmd(app))
	cmd.AddCommand(newSynthCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newPullCmd(app))
	cmd.SetHelpCommand(newHelpCmd(app))

	return cmd
}

func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{ConfigFile: app.ConfigFile, ConfigDirs: app.ConfigDirs})
	if err != nil {
		return err
	}
	if strings.TrimSpace(app.Dir) != "" {
		dir, err := config.ExpandDir(app.Dir)
		if err != nil {
			return err
		}
		cfg.Dir = dir
	}
	if app.Verbose {
		cfg.LogLevel = "debug"
	}
	if app.NoColor {
		cfg.NoColor = true
	}
	app.cfg = cfg

	app.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))
	app.log.Debug("config", "file", cfg.File, "dir", cfg.Dir, "autosync", cfg.AutoSync)

	tui.ApplyColorProfile(cfg.NoColor)
	tui.SetGlyphs(tui.ParseGlyphSet(cfg.Glyphs))

	app.store = store.Store{Dir: cfg.Dir, Now: app.Now}

	backend := app.Backend
	if backend == nil {
		backend = &gitrepo.Repo{Dir: cfg.Dir, Remote: cfg.Sync.Remote, Logger: app.log}
	}
	app.syncer = reposync.New(backend, reposync.WithClock(app.Now), reposync.WithLogger(app.log))
	return nil
}

// syncContext bounds every git interaction by the configured timeout.
func (app *App) syncContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, app.cfg.Sync.Timeout)
}

// ensureStore creates the journal directory on first use.
func (app *App) ensureStore(cmd *cobra.Command) error {
	if _, err := os.Stat(app.store.Dir); err == nil {
		return nil
	}
	if err := app.store.Ensure(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Created journal directory at "+styleFile().Render(app.store.Dir))
	return nil
}

func (app *App) edit(s tui.Session) (tui.Outcome, error) {
	if app.Edit != nil {
		return app.Edit(s)
	}
	return tui.Edit(s)
}

func (app *App) external(ctx context.Context, e store.Entry) (store.Entry, bool, error) {
	if app.External != nil {
		return app.External(ctx, app.store, e, app.cfg.Editor)
	}
	return tui.EditExternal(ctx, app.store, e, app.cfg.Editor)
}

func (app *App) copyToClipboard(s string) error {
	if app.Clipboard != nil {
		return app.Clipboard(s)
	}
	return tui.CopyToClipboard(s)
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}
