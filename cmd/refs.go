package cmd

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/internal/ioref"
	"github.com/projbank/pbdb/pkg/pbdb"
	"github.com/projbank/pbdb/pkg/schema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// getRefsCmd returns the refs command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getRefsCmd() *cobra.Command {
	var (
		all      bool
		filePath string
	)

	refsCmd := &cobra.Command{
		Use:   "refs [series...]",
		Short: "Load reference series",
		Long: `Download and load country-year reference series.

Reference series drive currency and inflation normalization of
monetary values:

  fx        official exchange rates (local currency per USD)
  deflator  GDP deflators
  ppp       purchasing power parity conversion factors

Series are downloaded from the World Bank API and replace the
stored observations. Downloads of multiple series run
concurrently. With --file, records for a single series are read
from a local JSON file instead of the API.

Examples:
  # Load everything
  pbdb refs --all

  # Load selected series
  pbdb refs fx deflator

  # Load one series from a file
  pbdb refs fx --file fx.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRefs(cmd, args, all, filePath)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	refsCmd.Flags().BoolVarP(
		&all, "all", "A", false, "load all reference series",
	)
	refsCmd.Flags().StringVarP(
		&filePath, "file", "f", "",
		"JSON file with records for a single series",
	)

	return refsCmd
}

func runRefs(_ *cobra.Command, args []string, all bool, filePath string) error {
	ctx := context.Background()

	var series []string
	if all {
		for _, s := range schema.RefSeriesList() {
			series = append(series, s.Name)
		}
	} else {
		series = args
	}
	if len(series) == 0 {
		return NoSeriesError()
	}
	if filePath != "" && (all || len(series) != 1) {
		return RefFileError(filePath,
			errors.New("--file takes exactly one series argument"))
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	loader := ioref.NewLoader(op, cfg)

	if filePath != "" {
		recs, err := readRefFile(filePath)
		if err != nil {
			return err
		}
		if err = loader.Load(ctx, series[0], recs); err != nil {
			return err
		}
		gn.Info("Loaded reference series <em>%s</em> from <em>%s</em>",
			series[0], filePath)
		return nil
	}

	// Downloads run concurrently, database loads do not: each
	// load is a truncate and bulk insert of its own table, and
	// keeping them serial makes failures easier to attribute.
	var mu sync.Mutex
	fetched := make(map[string][]pbdb.RefRecord, len(series))

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range series {
		g.Go(func() error {
			recs, err := loader.Fetch(gctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			fetched[name] = recs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, name := range series {
		if err := loader.Load(ctx, name, fetched[name]); err != nil {
			return err
		}
		gn.Info("Loaded reference series <em>%s</em>", name)
	}

	return nil
}

func readRefFile(path string) ([]pbdb.RefRecord, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, RefFileError(path, err)
	}

	var recs []pbdb.RefRecord
	enc := gnfmt.GNjson{}
	if err = enc.Decode(bs, &recs); err != nil {
		return nil, RefFileError(path, err)
	}
	return recs, nil
}
