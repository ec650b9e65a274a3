package cmd

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/onegoal/onegoal/internal/config"
	"github.com/onegoal/onegoal/internal/db"
	"github.com/onegoal/onegoal/internal/logger"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		migrateStep("up", "Apply all pending migrations", db.RunMigrations),
		migrateStep("down", "Roll back the most recent migration", db.MigrateDown),
		&cobra.Command{
			Use:   "status",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(cfg *config.Config, database *sqlx.DB) error {
					version, err := db.Version(database.DB, cfg.DBDriver)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "driver=%s version=%d\n", cfg.DBDriver, version)
					return nil
				})
			},
		},
	)

	return cmd
}

func migrateStep(use, short string, run func(database *sql.DB, driver string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(cfg *config.Config, database *sqlx.DB) error {
				return run(database.DB, cfg.DBDriver)
			})
		},
	}
}

// withDB opens the configured database without migrating it.
func withDB(fn func(cfg *config.Config, database *sqlx.DB) error) error {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), "")

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	return fn(cfg, database)
}
