package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/proffy-io/proffy-api/migrations"
	"github.com/proffy-io/proffy-api/pkg/config"
	"github.com/proffy-io/proffy-api/pkg/database"
	"github.com/proffy-io/proffy-api/pkg/logger"
)

var (
	// Version is set at build time.
	Version = "dev"
	// Commit is set at build time.
	Commit = "none"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	root   *cobra.Command
}

func newApp() *app {
	a := &app{}
	a.root = &cobra.Command{
		Use:           "proffy-api",
		Short:         "Tutor class matching API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.bootstrap()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}

	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.migrateCmd())
	a.root.AddCommand(a.versionCmd())
	return a
}

func (a *app) Execute() error {
	return a.root.Execute()
}

func (a *app) bootstrap() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logr
	return nil
}

func (a *app) openDatabase() (*sqlx.DB, error) {
	db, err := database.Open(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func (a *app) migrator(db *sqlx.DB) (*migrations.Migrator, error) {
	return migrations.New(db.DB, database.Dialect(a.cfg.Database.Driver))
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "proffy-api %s (commit: %s)\n", Version, Commit)
		},
	}
}
