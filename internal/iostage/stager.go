// Package iostage implements the Stager and Promoter
// interfaces. It discovers the raw tables of an asset class,
// composes the staging query via pkg/staging and materializes
// the result. This is an impure I/O package that implements
// contracts defined in pkg/.
package iostage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/pkg/naming"
	"github.com/projbank/pbdb/pkg/pbdb"
	"github.com/projbank/pbdb/pkg/schema"
	"github.com/projbank/pbdb/pkg/staging"
)

// stager implements the pbdb.Stager interface.
type stager struct {
	operator iodb.Operator
}

// NewStager creates a new Stager.
func NewStager(op iodb.Operator) pbdb.Stager {
	return &stager{operator: op}
}

// Stage materializes the staged table of one asset class. The
// constituent raw tables are discovered by their
// `<assetClass>__` name prefix; an asset class with no raw
// tables yields an empty table with only the key columns, so
// downstream promotion never has to special-case it.
func (s *stager) Stage(
	ctx context.Context,
	assetClass string,
	verified bool,
) error {
	runID := uuid.New().String()
	start := time.Now()
	rawSchema := schema.RawSchema(verified)
	stageSchema := schema.StageSchema(verified)

	tables, err := discoverTables(
		ctx, s.operator, rawSchema, assetClass+"__",
	)
	if err != nil {
		return err
	}

	slog.Info("Staging asset class",
		"run", runID,
		"asset_class", assetClass,
		"schema", stageSchema,
		"raw_tables", len(tables),
	)

	plan := staging.Build(tables)
	if plan.Stmt == nil {
		if err := s.createEmpty(ctx, stageSchema, assetClass); err != nil {
			return err
		}
	} else {
		err = s.operator.Materialize(ctx, stageSchema, assetClass, plan.Stmt)
		if err != nil {
			return err
		}
	}

	slog.Info("Staged asset class",
		"run", runID,
		"table", stageSchema+"."+assetClass,
		"columns", len(plan.Columns),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)

	return nil
}

// createEmpty creates a staged table with only the key columns.
func (s *stager) createEmpty(
	ctx context.Context,
	stageSchema, table string,
) error {
	if err := s.operator.DropTable(ctx, stageSchema, table); err != nil {
		return err
	}

	defs := make([]string, 0, len(naming.PrimaryKeys)+1)
	for _, pk := range naming.PrimaryKeys {
		defs = append(defs, fmt.Sprintf("%q VARCHAR NOT NULL", pk))
	}
	defs = append(defs, fmt.Sprintf(
		"PRIMARY KEY (%s)", strings.Join(naming.PrimaryKeys, ", "),
	))

	sql := fmt.Sprintf(
		"CREATE TABLE %q.%q (%s)",
		stageSchema, table, strings.Join(defs, ", "),
	)
	if _, err := s.operator.Pool().Exec(ctx, sql); err != nil {
		return EmptyTableError(stageSchema, table, err)
	}
	return nil
}

// discoverTables collects the metadata of all tables in a
// schema whose names start with prefix. An empty prefix matches
// every table.
func discoverTables(
	ctx context.Context,
	op iodb.Operator,
	schemaName, prefix string,
) ([]staging.TableMeta, error) {
	names, err := op.TablesInSchema(ctx, schemaName)
	if err != nil {
		return nil, err
	}

	var tables []staging.TableMeta
	for _, name := range names {
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		cols, err := op.TableColumns(ctx, schemaName, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, staging.TableMeta{
			Schema:  schemaName,
			Name:    name,
			Columns: cols,
		})
	}
	return tables, nil
}
