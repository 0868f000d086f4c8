package cmd

import (
	"fmt"

	database "internlink_backend/internals/databases"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables (pakai koneksi elevated)",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := database.ConnectDB(cfg)
		if err != nil {
			return err
		}
		defer h.Close()

		printTitle("InternLink · migrate")
		if err := database.AutoMigrate(h.Elevated); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		printField("tables", len(database.AllModels()))
		fmt.Println(okStyle.Render("✓ migration finished"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
