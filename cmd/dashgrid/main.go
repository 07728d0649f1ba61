package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jask/dashgrid/internal/catalog"
	"github.com/jask/dashgrid/internal/config"
	"github.com/jask/dashgrid/internal/dashboard"
	"github.com/jask/dashgrid/internal/database"
	"github.com/jask/dashgrid/internal/database/repository"
	"github.com/jask/dashgrid/internal/prefs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every subcommand runs against.
type env struct {
	cfg   config.Config
	log   *zap.Logger
	store *dashboard.Store
	kv    *repository.KVRepo // nil unless storage.backend is sqlite
	db    *sql.DB
}

func (e *env) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)
	e := &env{}

	root := &cobra.Command{
		Use:   "dashgrid",
		Short: "Edit dashboard widget layouts",
		Long: `dashgrid keeps a dashboard's widget visibility, grid layout and card order.

Layouts are stored per dashboard instance and healed against the widget
catalog on every load. Run "dashgrid tui" for the interactive editor.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				os.Setenv("DASHGRID_CONFIG", cfgFile)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg

			logger, err := newLogger(cfg.Log.Level, verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			e.log = logger

			cat, err := catalog.Load(cfg.Catalog.Path)
			if err != nil {
				return err
			}
			p, err := e.openPersister()
			if err != nil {
				return err
			}
			e.store = dashboard.NewStore(cat, p,
				dashboard.WithLogger(logger),
				dashboard.WithKey(dashboard.StorageKey(cfg.Dashboard.Instance)),
			)
			e.store.Load(cmd.Context())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/dashgrid/config.toml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		showCmd(e),
		visibleCmd(e),
		resizeCmd(e),
		moveCmd(e),
		applyCmd(e),
		presetCmd(e),
		resetCmd(e),
		reorderCmd(e),
		catalogCmd(e),
		historyCmd(e),
		restoreCmd(e),
		tuiCmd(e),
		configCmd(e),
	)
	root.SetContext(context.Background())
	return root
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}

func (e *env) openPersister() (dashboard.Persister, error) {
	switch e.cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := database.OpenMigrated(e.cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", e.cfg.Storage.Path, err)
		}
		e.db = db
		e.kv = repository.NewKVRepo(db, e.cfg.Storage.Revisions)
		return e.kv, nil
	case config.BackendFile:
		return prefs.NewFileStore(e.cfg.Storage.Path), nil
	default:
		return prefs.NewMemoryStore(), nil
	}
}
