package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/internal/iostage"
	"github.com/projbank/pbdb/pkg/schema"
	"github.com/spf13/cobra"
)

// getPromoteCmd returns the promote command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getPromoteCmd() *cobra.Command {
	var unverified bool

	promoteCmd := &cobra.Command{
		Use:   "promote",
		Short: "Materialize the production table",
		Long: `Materialize the production table from staged tables.

All staged tables of a verification status are reconciled into
one table, prod.projects_verified or prod.projects_unverified.
The replacement is atomic: readers see either the previous
table or the new one.

Examples:
  # Promote the verified partition
  pbdb promote

  # Promote the unverified partition
  pbdb promote --unverified`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPromote(cmd, !unverified)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	promoteCmd.Flags().BoolVarP(
		&unverified, "unverified", "u", false,
		"promote the unverified partition",
	)

	return promoteCmd
}

func runPromote(_ *cobra.Command, verified bool) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	promoter := iostage.NewPromoter(op)
	if err := promoter.Promote(ctx, verified); err != nil {
		return err
	}

	gn.Info("Production table <em>%s.%s</em> is ready.",
		schema.ProdSchema, schema.ProdTable(verified))

	return nil
}
