package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <program> <file>",
	Short: "Import a masterlist spreadsheet into a program",
	Long: `Import scholars and their academic records from an .xlsx or .csv file.

Rows are matched on award number: new scholars are created, existing
ones updated. Row level failures are reported and do not stop the
import of valid rows.

Example:
  scholarctl import TDP ./tdp-2024.xlsx`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		program, err := s.services.Program.Resolve(ctx, args[0])
		if err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()

		result, err := s.services.Import.Import(ctx, program.ID, filepath.Base(args[1]), f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Batch %s: %d rows, %d created, %d updated, %d unchanged, %d failed\n",
			result.BatchID, result.TotalRows, result.Created, result.Updated, result.Unchanged, result.Failed)
		for _, rowErr := range result.Errors {
			fmt.Fprintf(out, "  row %d: %s\n", rowErr.Row, rowErr.Message)
		}
		if result.Failed > 0 {
			return fmt.Errorf("%d rows failed to import", result.Failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
