package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-donations/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := mustLoadConfig()
		db := mustOpenDB(cfg)
		defer db.Close()

		runJob("migrate", func() error {
			applied, err := migrations.Apply(context.Background(), db, migrations.FS)
			logrus.WithField("applied", len(applied)).Info("Migrations finished")
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
