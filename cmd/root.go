package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/radiance-crm/loyalty-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "loyalty-cli",
	Short: "Client loyalty extraction pipeline",
	Long:  "Reads planning documents (DOCX, XLSX), extracts client visit records, merges duplicates by fuzzy name matching, and exports loyal clients as CSV.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
