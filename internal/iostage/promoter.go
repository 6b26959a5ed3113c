package iostage

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/pkg/pbdb"
	"github.com/projbank/pbdb/pkg/schema"
	"github.com/projbank/pbdb/pkg/staging"
)

// promoter implements the pbdb.Promoter interface.
type promoter struct {
	operator iodb.Operator
}

// NewPromoter creates a new Promoter.
func NewPromoter(op iodb.Operator) pbdb.Promoter {
	return &promoter{operator: op}
}

// Promote materializes the production table from all staged
// tables of a verification status. Staged tables already share
// a common derivation, so promotion is the union reconciliation
// alone.
func (p *promoter) Promote(ctx context.Context, verified bool) error {
	runID := uuid.New().String()
	start := time.Now()
	stageSchema := schema.StageSchema(verified)
	prodTable := schema.ProdTable(verified)

	tables, err := discoverTables(ctx, p.operator, stageSchema, "")
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return NoStagedTablesError(stageSchema)
	}

	slog.Info("Promoting staged tables",
		"run", runID,
		"schema", stageSchema,
		"staged_tables", len(tables),
	)

	plan := staging.BuildProdUnion(tables)
	err = p.operator.Materialize(ctx, schema.ProdSchema, prodTable, plan.Stmt)
	if err != nil {
		return err
	}

	slog.Info("Promoted to production",
		"run", runID,
		"table", schema.ProdSchema+"."+prodTable,
		"columns", len(plan.Columns),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)

	return nil
}
