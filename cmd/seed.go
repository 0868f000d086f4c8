package cmd

import (
	"fmt"

	database "internlink_backend/internals/databases"
	"internlink_backend/internals/seeds"

	"github.com/spf13/cobra"
)

var seedDir string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo companies, interns and opportunities",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := database.ConnectDB(cfg)
		if err != nil {
			return err
		}
		defer h.Close()

		printTitle("InternLink · seed")
		res, err := seeds.RunAllSeeds(cmd.Context(), h.Elevated, cfg, seedDir)
		printField("accounts", res.Accounts)
		printField("opportunities", res.Opportunities)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Println(okStyle.Render("✓ seed finished"))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedDir, "dir", seeds.DefaultDir, "directory with seed JSON files")
	rootCmd.AddCommand(seedCmd)
}
