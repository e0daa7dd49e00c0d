package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			m, err := a.migrator(db)
			if err != nil {
				return err
			}
			if err := m.Up(cmd.Context()); err != nil {
				return err
			}
			version, err := m.Version(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info("schema up to date", zap.Int64("version", version))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			m, err := a.migrator(db)
			if err != nil {
				return err
			}
			return m.Down(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			m, err := a.migrator(db)
			if err != nil {
				return err
			}
			return m.Quiet().Status(cmd.Context(), cmd.OutOrStdout())
		},
	})

	return cmd
}
