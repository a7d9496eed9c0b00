package main

import (
	"github.com/spf13/cobra"

	"go-course-market/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行 AutoMigrate（users / profiles / vendors）",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, db, err := openDB()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := app.Migrate(db); err != nil {
			return err
		}
		rt.Log.Info("automigrate done")
		return nil
	},
}

func init() { rootCmd.AddCommand(migrateCmd) }
