package cmd

import (
	"context"
	"fmt"
	"os"

	"internlink_backend/internals/configs"

	"github.com/spf13/cobra"
)

var cfg *configs.Config

var rootCmd = &cobra.Command{
	Use:   "internlink",
	Short: "InternLink backend: internship marketplace API",
	Long: `InternLink menghubungkan company dan pelajar: lowongan dengan form aplikasi
kustom, review lamaran, latihan interview dan pencarian kandidat berbasis AI.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configs.LoadEnv()
		c, err := configs.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		return nil
	},
}

// Execute: tanpa subcommand → serve.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootCmd.SetContext(ctx)
	rootCmd.RunE = serveCmd.RunE

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}
