package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/radiance-crm/loyalty-cli/internal/dedupe"
	"github.com/radiance-crm/loyalty-cli/internal/pipeline"
	"github.com/radiance-crm/loyalty-cli/internal/store"
)

var (
	extractInput      string
	extractOutput     string
	extractOdoo       string
	extractMinSess    int
	extractThreshold  float64
	extractPositional bool
	extractProfile    string
	extractNoStore    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract loyal clients from a directory of planning documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Flag overrides.
		if cmd.Flags().Changed("min-sessions") {
			cfg.Extract.MinSessions = extractMinSess
		}
		if cmd.Flags().Changed("threshold") {
			cfg.Extract.FuzzyThreshold = extractThreshold
		}
		if extractPositional {
			cfg.Extract.HeaderDetection = false
		}
		if extractProfile != "" {
			cfg.Extract.ProfilePath = extractProfile
		}

		st := openStore(ctx, extractNoStore)
		if st != nil {
			defer st.Close() //nolint:errcheck
		}
		p := pipeline.New(cfg, st)

		result, err := p.Run(ctx, extractInput)
		if err != nil {
			return eris.Wrap(err, "extract")
		}

		out, err := os.Create(extractOutput)
		if err != nil {
			return eris.Wrap(err, "extract: create output")
		}
		defer out.Close()
		if err := pipeline.WriteCSV(out, result.Records); err != nil {
			return err
		}
		zap.L().Info("extract: csv written",
			zap.String("path", extractOutput),
			zap.Int("clients", len(result.Records)),
		)

		if extractOdoo != "" {
			odooOut, err := os.Create(extractOdoo)
			if err != nil {
				return eris.Wrap(err, "extract: create odoo output")
			}
			defer odooOut.Close()
			if err := pipeline.WriteOdooCSV(odooOut, result.Records, true); err != nil {
				return err
			}
			zap.L().Info("extract: odoo csv written", zap.String("path", extractOdoo))
		}

		fmt.Fprintln(os.Stdout, result.Report)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractInput, "input", "", "directory of planning documents (required)")
	extractCmd.Flags().StringVar(&extractOutput, "output", "clients_fideles.csv", "standard CSV output path")
	extractCmd.Flags().StringVar(&extractOdoo, "odoo", "", "also write an Odoo contact CSV to this path")
	extractCmd.Flags().IntVar(&extractMinSess, "min-sessions", pipeline.DefaultMinSessions, "sessions required to count as loyal")
	extractCmd.Flags().Float64Var(&extractThreshold, "threshold", dedupe.DefaultThreshold, "fuzzy merge threshold (50-100)")
	extractCmd.Flags().BoolVar(&extractPositional, "positional", false, "treat column 0 as names and columns 1+ as dates instead of detecting headers")
	extractCmd.Flags().StringVar(&extractProfile, "profile", "", "YAML file overriding header keyword sets")
	extractCmd.Flags().BoolVar(&extractNoStore, "no-store", false, "skip recording the run in the history store")
	_ = extractCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(extractCmd)
}

// openStore opens the run-history store. Failures degrade to no history
// rather than blocking the extraction.
func openStore(ctx context.Context, disabled bool) store.Store {
	if disabled {
		return nil
	}
	st, err := initStore(ctx)
	if err != nil {
		zap.L().Warn("run history disabled", zap.Error(err))
		return nil
	}
	if err := st.Migrate(ctx); err != nil {
		zap.L().Warn("run history disabled", zap.Error(err))
		_ = st.Close()
		return nil
	}
	return st
}
