package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/pkg/naming"
	"github.com/projbank/pbdb/pkg/schema"
	"github.com/spf13/cobra"
)

// getExportCmd returns the export command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getExportCmd() *cobra.Command {
	var (
		projectID  string
		sample     string
		format     string
		outputPath string
		unverified bool
	)

	exportCmd := &cobra.Command{
		Use:   "export [table]",
		Short: "Read staged or production data",
		Long: `Read rows from a staged or production table.

The table argument is either a plain table name, which is
looked up in the production schema, or schema-qualified, like
stage_verified.rail. Without an argument the production table
of the selected partition is exported.

Examples:
  # Export the verified production table as CSV
  pbdb export

  # Export one staged asset class
  pbdb export stage_verified.rail

  # All samples of one project, as JSON
  pbdb export --project BR-1042 --format json

  # One row of one project
  pbdb export --project BR-1042 --sample baseline

  # Write to a file instead of stdout
  pbdb export --output projects.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExport(
				cmd, args, projectID, sample, format, outputPath, !unverified,
			)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	exportCmd.Flags().StringVarP(
		&projectID, "project", "p", "",
		"export all samples of one project",
	)
	exportCmd.Flags().StringVarP(
		&sample, "sample", "s", "",
		"narrow --project to a single sample",
	)
	exportCmd.Flags().StringVarP(
		&format, "format", "f", "csv",
		"output format: csv or json",
	)
	exportCmd.Flags().StringVarP(
		&outputPath, "output", "o", "",
		"output file (default stdout)",
	)
	exportCmd.Flags().BoolVarP(
		&unverified, "unverified", "u", false,
		"export the unverified partition",
	)

	return exportCmd
}

func runExport(
	_ *cobra.Command,
	args []string,
	projectID, sample, format, outputPath string,
	verified bool,
) error {
	ctx := context.Background()

	format = strings.ToLower(format)
	if format != "csv" && format != "json" {
		return BadFormatError(format)
	}

	exportSchema := schema.ProdSchema
	table := schema.ProdTable(verified)
	if len(args) == 1 {
		if s, t, found := strings.Cut(args[0], "."); found {
			exportSchema, table = s, t
		} else {
			table = args[0]
		}
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	var (
		cols []string
		recs []map[string]any
		err  error
	)
	if projectID != "" {
		cols, recs, err = op.SelectByID(
			ctx, exportSchema, table, projectID, sample,
		)
	} else {
		cols, recs, err = op.Select(ctx, exportSchema, table)
	}
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return WriteOutputError(outputPath, err)
		}
		defer f.Close()
		out = f
	}

	if format == "json" {
		return writeJSON(out, recs)
	}
	return writeCSV(out, cols, recs)
}

func writeJSON(out io.Writer, recs []map[string]any) error {
	enc := gnfmt.GNjson{Pretty: true}
	data, err := enc.Encode(recs)
	if err != nil {
		return err
	}
	_, err = out.Write(append(data, '\n'))
	return err
}

func writeCSV(
	out io.Writer,
	cols []string,
	recs []map[string]any,
) error {
	w := csv.NewWriter(out)
	if err := w.Write(cols); err != nil {
		return err
	}

	row := make([]string, len(cols))
	for _, rec := range recs {
		for i, col := range cols {
			row[i] = formatValue(rec[col])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatValue renders a database value for CSV: NULLs become
// empty cells and dates use the source wire format.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format(naming.DateFormat)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
