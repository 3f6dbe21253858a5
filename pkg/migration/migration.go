package migration

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/clientdesk/crm-core/config"
)

func newMigrate(sourceURL string, dsn string) *migrate.Migrate {
	m, err := migrate.New(sourceURL, "mysql://"+dsn)
	if err != nil {
		panic(err)
	}
	return m
}

func migrateUp(sourceURL string, dsn string) {
	m := newMigrate(sourceURL, dsn)
	err := m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		panic(err)
	}
}

func migrateDown(sourceURL string, dsn string) {
	m := newMigrate(sourceURL, dsn)
	err := m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		panic(err)
	}
}

// MigrateUpForTesting migrates the test database to the newest version.
func MigrateUpForTesting(rootDir string, dsn string) {
	migrateUp(config.MigrationsPath(rootDir), dsn)
}

// MigrateCommand returns the root command for schema migrations.
func MigrateCommand(dsn string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "migrate",
	}

	sourceURL := "file://migrations"

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "migrate up to the newest version",
			Run: func(cmd *cobra.Command, args []string) {
				migrateUp(sourceURL, dsn)
				fmt.Println("migrated up")
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "revert all migrations",
			Run: func(cmd *cobra.Command, args []string) {
				migrateDown(sourceURL, dsn)
				fmt.Println("migrated down")
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "force the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					panic(err)
				}
				m := newMigrate(sourceURL, dsn)
				err = m.Force(version)
				if err != nil {
					panic(err)
				}
				fmt.Println("forced version", version)
			},
		},
	)
	return rootCmd
}
