package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/salarkhan2003/OLTECH-AI/internal/config"
	"github.com/salarkhan2003/OLTECH-AI/internal/db"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "migrate",
	Short: "Create or update the database tables and exit",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := config.ReadConfig(configPath)
		if err != nil {
			return err //nolint:wrapcheck
		}

		gdb, err := db.Open(&c)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err = db.Migrate(gdb); err != nil {
			return err //nolint:wrapcheck
		}

		log.Info().Str("engine", c.DB.GormEngine).Msg("database migrated")

		return nil
	},
}
