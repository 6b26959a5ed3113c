package cmd

import (
	"context"
	"strings"

	"github.com/gnames/gn"
	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/internal/iostage"
	"github.com/projbank/pbdb/pkg/schema"
	"github.com/spf13/cobra"
)

// getStageCmd returns the stage command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getStageCmd() *cobra.Command {
	var (
		assetClasses []string
		unverified   bool
	)

	stageCmd := &cobra.Command{
		Use:   "stage",
		Short: "Materialize staged tables",
		Long: `Materialize the staged table of each asset class.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Discovers the raw tables of each asset class
  3. Reconciles their divergent column sets into one union
  4. Infers schedule dates, years and durations
  5. Normalizes monetary values using the reference series
  6. Aggregates source columns into citations
  7. Derives actual/estimated ratios
  8. Replaces the staged table atomically

By default every asset class found in the raw schema is staged.

Examples:
  # Stage all verified asset classes
  pbdb stage

  # Stage selected asset classes
  pbdb stage -a rail,port

  # Stage the unverified partition
  pbdb stage --unverified`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runStage(cmd, assetClasses, !unverified)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	stageCmd.Flags().StringSliceVarP(
		&assetClasses, "asset-classes", "a", []string{},
		"asset classes to stage (empty = all)",
	)
	stageCmd.Flags().BoolVarP(
		&unverified, "unverified", "u", false,
		"stage the unverified partition",
	)

	return stageCmd
}

func runStage(
	_ *cobra.Command,
	assetClasses []string,
	verified bool,
) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	if len(assetClasses) == 0 {
		var err error
		assetClasses, err = discoverAssetClasses(ctx, op, verified)
		if err != nil {
			return err
		}
	}
	if len(assetClasses) == 0 {
		return NoRawTablesError(schema.RawSchema(verified))
	}

	stager := iostage.NewStager(op)
	for _, ac := range assetClasses {
		gn.Info("Staging asset class <em>%s</em>...", ac)
		if err := stager.Stage(ctx, ac, verified); err != nil {
			return err
		}
	}

	gn.Info(`Next steps:
  - Run '<em>pbdb promote</em>' to materialize the production table
`)

	return nil
}

// discoverAssetClasses lists the distinct asset-class prefixes
// of the raw tables.
func discoverAssetClasses(
	ctx context.Context,
	op iodb.Operator,
	verified bool,
) ([]string, error) {
	tables, err := op.TablesInSchema(ctx, schema.RawSchema(verified))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var classes []string
	for _, t := range tables {
		name, _, found := strings.Cut(t, "__")
		if !found {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		classes = append(classes, name)
	}
	return classes, nil
}
