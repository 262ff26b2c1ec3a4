package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/nmrs/sotd-pipeline-sub004/internal/commands"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/config"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/logging"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/styles"
	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
	"github.com/nmrs/sotd-pipeline-sub004/internal/data/api"
	"github.com/nmrs/sotd-pipeline-sub004/internal/data/db"
	"github.com/nmrs/sotd-pipeline-sub004/internal/data/stores"
	"github.com/nmrs/sotd-pipeline-sub004/internal/printer"
	"github.com/nmrs/sotd-pipeline-sub004/internal/tui"
	"github.com/nmrs/sotd-pipeline-sub004/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

// buildInfo falls back to runtime/debug.BuildInfo when ldflags were not set,
// as with `go install module@version`.
func buildInfo() tui.BuildInfo {
	b := tui.BuildInfo{Version: version, Commit: commit, Date: date}
	if b.Version != "dev" {
		return b
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		b.Version = mv
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Commit = s.Value
		case "vcs.time":
			b.Date = s.Value
		}
	}
	return b
}

// openDatabase opens the journal database, moving a corrupt file aside and
// starting fresh once.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	backup, qerr := stores.QuarantineCorrupt(cfg.DataDir)
	if qerr != nil {
		return nil, fmt.Errorf("%w (quarantine failed: %v)", err, qerr)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("journal database was corrupt, starting fresh")
	return db.Open(cfg.DataDir, opts)
}

// skipsSetup reports whether the command runs without a loaded config,
// database or backend client.
func skipsSetup(name string) bool {
	return name == "init"
}

func main() {
	ctx := context.Background()

	var (
		logCloser  func()
		curatorApp = &curator.App{}
		database   *db.DB
		build      = buildInfo()
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "curator",
		Usage:     "Review and correct SOTD pipeline product matches",
		UsageText: "curator [global options] command [command options]",
		Description: `Curator browses the mismatch analysis of the shave-of-the-day pipeline and
submits reviewer corrections back to it.

Run 'curator' with no arguments to open the interactive browser.
Run 'curator init' to create a configuration file.`,
		Version: build.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CURATOR_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/curator.log)",
				Sources:     cli.EnvVars("CURATOR_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CURATOR_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("CURATOR_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			ctx = printer.NewContext(ctx, printer.New(os.Stderr))

			// The TUI owns the terminal, so logs always go to a file.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "curator.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile,
				logutils.WithAppend(),
				logutils.WithHook(logging.ContextHook{}),
			)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			if skipsSetup(c.Args().First()) {
				return ctx, nil
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			styles.UseTheme(cfg.TUI.Theme)

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}
			database, err = openDatabase(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}
			journal := stores.NewJournalStore(database)

			client, err := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout))
			if err != nil {
				return ctx, fmt.Errorf("create api client: %w", err)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*curatorApp = *curator.NewApp(client, journal, cfg, database)

			if n, err := curatorApp.Curation.Prune(ctx, cfg.Journal.Retention); err != nil {
				log.Warn().Err(err).Msg("journal prune failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("pruned journal")
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, curatorApp, build)

	app = tuiCmd.Register(app)
	app = commands.NewAnalyzeCmd(flags, curatorApp).Register(app)
	app = commands.NewCommentCmd(flags, curatorApp).Register(app)
	app = commands.NewCorrectCmd(flags, curatorApp).Register(app)
	app = commands.NewMonthsCmd(flags, curatorApp).Register(app)
	app = commands.NewJournalCmd(flags, curatorApp).Register(app)
	app = commands.NewDoctorCmd(flags, curatorApp).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)
	app = commands.NewInitCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'curator --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
