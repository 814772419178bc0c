package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/radiance-crm/loyalty-cli/internal/pipeline"
)

var (
	convertInput  string
	convertOutput string
	convertTags   bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Re-export a standard loyalty CSV as an Odoo contact CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(convertInput)
		if err != nil {
			return eris.Wrap(err, "convert: open input")
		}
		defer in.Close()

		rows, err := pipeline.ReadCSV(in)
		if err != nil {
			return eris.Wrap(err, "convert")
		}
		if len(rows) == 0 {
			return eris.New("convert: input has no rows")
		}

		out, err := os.Create(convertOutput)
		if err != nil {
			return eris.Wrap(err, "convert: create output")
		}
		defer out.Close()

		if err := pipeline.WriteOdooRows(out, rows, convertTags); err != nil {
			return err
		}

		zap.L().Info("convert: odoo csv written",
			zap.String("path", convertOutput),
			zap.Int("contacts", len(rows)),
		)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertInput, "input", "", "standard loyalty CSV (required)")
	convertCmd.Flags().StringVar(&convertOutput, "output", "clients_odoo.csv", "Odoo contact CSV output path")
	convertCmd.Flags().BoolVar(&convertTags, "tags", false, "include the loyalty tag column")
	_ = convertCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(convertCmd)
}
