package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/internal/ioingest"
	"github.com/projbank/pbdb/pkg/assets"
	"github.com/projbank/pbdb/pkg/config"
	"github.com/projbank/pbdb/pkg/pbdb"
	"github.com/spf13/cobra"
)

// getIngestCmd returns the ingest command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getIngestCmd() *cobra.Command {
	var (
		assetClasses []string
		registryPath string
	)

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load datasets into raw tables",
		Long: `Import project-cost datasets into raw tables.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Reads assets.yaml to discover asset classes and datasets
  3. Loads each dataset file into its raw table, deriving the
     column types from the naming convention
  4. Reports progress and statistics

Each dataset becomes one raw table named
<asset_class>__<dataset> in the raw_verified or raw_unverified
schema. Re-ingesting a dataset replaces its raw table.

Asset classes are configured in: ~/.config/pbdb/assets.yaml

Examples:
  # Ingest all asset classes from assets.yaml
  pbdb ingest

  # Ingest specific asset classes only
  pbdb ingest --asset-classes rail,port
  pbdb ingest -a rail

  # Use an alternative registry file
  pbdb ingest --registry ./assets.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runIngest(cmd, assetClasses, registryPath)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	ingestCmd.Flags().StringSliceVarP(
		&assetClasses, "asset-classes", "a", []string{},
		"asset classes to ingest (empty = all)",
	)
	ingestCmd.Flags().StringVarP(
		&registryPath, "registry", "r", "",
		"path to assets.yaml (default ~/.config/pbdb/assets.yaml)",
	)

	return ingestCmd
}

func runIngest(
	cmd *cobra.Command,
	assetClasses []string,
	registryPath string,
) error {
	ctx := context.Background()

	if registryPath == "" {
		registryPath = config.AssetsFilePath(cfg.HomeDir)
	}

	reg, err := assets.Load(registryPath)
	if err != nil {
		return err
	}

	selected := selectAssetClasses(reg, assetClasses)
	if len(selected) == 0 {
		return NoAssetClassesError(registryPath, assetClasses)
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	ing := ioingest.NewIngestor(op, cfg)

	for _, ac := range selected {
		gn.Info("Ingesting asset class <em>%s</em> (%d datasets)",
			ac.Name, len(ac.Datasets))

		for _, ds := range ac.Datasets {
			var src pbdb.RowSource
			src, err = ioingest.NewCSVFileSource(ds.File)
			if err != nil {
				return err
			}

			var table string
			table, err = ing.Ingest(
				ctx, ac.Name, ds.TableName(), ac.Verified, src,
			)
			if err != nil {
				return err
			}
			gn.Info("  loaded <em>%s</em>", table)
		}
	}

	gn.Info(`Next steps:
  - Run '<em>pbdb stage</em>' to materialize staged tables
`)

	return nil
}

// selectAssetClasses filters the registry by the requested
// names; an empty request selects everything.
func selectAssetClasses(
	reg *assets.Registry,
	names []string,
) []assets.AssetClass {
	if len(names) == 0 {
		return reg.AssetClasses
	}

	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}

	var selected []assets.AssetClass
	for _, ac := range reg.AssetClasses {
		if _, ok := want[ac.Name]; ok {
			selected = append(selected, ac)
		}
	}
	return selected
}
