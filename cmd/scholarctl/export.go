package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/services"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export program data",
}

var exportMasterlistCmd = &cobra.Command{
	Use:   "masterlist <program>",
	Short: "Write a program masterlist to a file",
	Long: `Write every scholar of a program to an .xlsx, .csv or .pdf file.

Example:
  scholarctl export masterlist CMSP --format csv --out /tmp/cmsp.csv
  scholarctl export masterlist TDP --academic-year 2024-2025`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("out")
		academicYear, _ := cmd.Flags().GetString("academic-year")

		format, err := services.ParseExportFormat(formatFlag)
		if err != nil {
			return err
		}

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

		if path == "" {
			path = s.services.Export.MasterlistFilename(program, format)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}

		filter := models.ScholarFilter{AcademicYear: academicYear}
		if err := s.services.Export.WriteMasterlist(ctx, f, program, filter, format); err != nil {
			f.Close()
			_ = os.Remove(path)
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close export file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	exportMasterlistCmd.Flags().StringP("format", "f", "xlsx", "Output format: xlsx, csv or pdf")
	exportMasterlistCmd.Flags().StringP("out", "o", "", "Output file (default: <program>-masterlist-<date>.<format>)")
	exportMasterlistCmd.Flags().String("academic-year", "", "Only scholars with a record in this academic year")
	exportCmd.AddCommand(exportMasterlistCmd)
	rootCmd.AddCommand(exportCmd)
}
