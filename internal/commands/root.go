package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/catalog"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/config"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/db"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/engine"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/logging"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/tui"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "Video production workflow and time tracker",
	Long: `studio tracks video projects through their production phases.
Each project gets a task per template, tasks are gated by checklists, time is
recorded per task, and projects advance phase as their tasks complete.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// app is what a command needs to talk to the engine
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	store  *db.Store
	engine *engine.Engine
}

// openApp loads config, opens the store and seeds the catalog on first use
func openApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg, logOut)
	if err != nil {
		return nil, err
	}
	policies, err := cfg.Policies()
	if err != nil {
		return nil, err
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		engine: engine.New(store,
			engine.WithLogger(logger),
			engine.WithTransitionPolicy(policies.Transitions),
			engine.WithProgressPolicy(policies.Progress),
		),
	}

	phases, err := a.engine.ListPhases(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if len(phases) == 0 {
		if _, err := a.seed(ctx, cfg.CatalogPath); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	return a, nil
}

// seed loads the catalog at path, or the built-in one, into the store
func (a *app) seed(ctx context.Context, path string) (db.SeedCounts, error) {
	var (
		c   *catalog.Catalog
		err error
	)
	if path != "" {
		c, err = catalog.Load(path)
	} else {
		c, err = catalog.Default()
	}
	if err != nil {
		return db.SeedCounts{}, err
	}
	counts, err := a.store.SeedCatalog(ctx, c)
	if err != nil {
		return db.SeedCounts{}, err
	}
	a.logger.Info().
		Str("catalog", path).
		Int("phases", counts.Phases).
		Int("templates", counts.Templates).
		Int("rules", counts.Rules).
		Msg("catalog seeded")
	return counts, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// withApp wraps a command so it runs against an open app. ctx carries the
// configured operation timeout.
func withApp(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.OperationTimeout)
		defer cancel()
		return fn(ctx, a, cmd, args)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command and reports any error on stderr
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printError renders err for the terminal
func printError(w io.Writer, err error) {
	var blocked *workflow.CompletionBlockedError
	if errors.As(err, &blocked) {
		fmt.Fprintln(w, tui.RenderBlocked(blocked))
		return
	}
	msg := "Error: " + err.Error()
	if apperr.IsRetryable(err) {
		msg += " (the database may be busy, try again)"
	}
	fmt.Fprintln(w, tui.RenderError(msg))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "studio %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetHelpCommand(helpCmd)
}
