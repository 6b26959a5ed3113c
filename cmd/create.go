package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/internal/ioschema"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create the database layout",
		Long: `Create the pbdb database layout from scratch.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Creates the raw, stage, prod and reference schemas
  3. Creates the reference tables using GORM AutoMigrate

Raw tables are created later by 'pbdb ingest', staged and
production tables by 'pbdb stage' and 'pbdb promote'. Running
create on an existing database is safe: schemas and tables that
already exist are left untouched.

Examples:
  pbdb create`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCreate(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return createCmd
}

func runCreate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	sm := ioschema.NewManager(op)

	gn.Info("Creating database layout...")
	if err := sm.Create(ctx); err != nil {
		return err
	}

	gn.Info(`Database layout is ready.

Next steps:
  - Run '<em>pbdb refs --all</em>' to load reference series
  - Run '<em>pbdb ingest</em>' to load datasets
`)

	return nil
}
