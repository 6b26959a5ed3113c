// Package ioingest implements the Ingestor interface. It loads
// heterogeneous tabular datasets into raw tables, deriving the
// column types from the naming convention. This is an impure
// I/O package that implements contracts defined in pkg/.
package ioingest

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/pkg/config"
	"github.com/projbank/pbdb/pkg/naming"
	"github.com/projbank/pbdb/pkg/pbdb"
	"github.com/projbank/pbdb/pkg/schema"
)

// ingestor implements the pbdb.Ingestor interface.
type ingestor struct {
	operator iodb.Operator
	cfg      *config.Config
}

// NewIngestor creates a new Ingestor.
func NewIngestor(op iodb.Operator, cfg *config.Config) pbdb.Ingestor {
	return &ingestor{operator: op, cfg: cfg}
}

// Ingest loads one dataset into its raw table. The table is
// dropped and recreated, so re-ingesting a dataset is always a
// full replacement. Returns the raw table name.
func (ing *ingestor) Ingest(
	ctx context.Context,
	assetClass, dataset string,
	verified bool,
	src pbdb.RowSource,
) (string, error) {
	cols := src.Columns()
	if err := checkColumns(cols); err != nil {
		return "", err
	}

	rows, err := readRows(cols, src)
	if err != nil {
		return "", err
	}

	rawSchema := schema.RawSchema(verified)
	table := RawTableName(assetClass, dataset)

	if err := ing.createTable(ctx, rawSchema, table, cols); err != nil {
		return "", err
	}

	count, err := ing.insertRows(ctx, rawSchema, table, cols, rows)
	if err != nil {
		return "", err
	}

	slog.Info("Ingested dataset",
		"table", rawSchema+"."+table,
		"rows", humanize.Comma(int64(count)),
		"columns", len(cols),
	)

	return table, nil
}

// Drop removes a dataset's raw table.
func (ing *ingestor) Drop(
	ctx context.Context,
	assetClass, dataset string,
	verified bool,
) error {
	return ing.operator.DropTable(
		ctx, schema.RawSchema(verified), RawTableName(assetClass, dataset),
	)
}

// RawTableName returns the raw table name of a dataset. The
// asset class prefix is how staging later discovers which
// tables belong together.
func RawTableName(assetClass, dataset string) string {
	return assetClass + "__" + dataset
}

// checkColumns rejects headers that would corrupt the raw table
// before anything is written.
func checkColumns(cols []string) error {
	seen := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		if _, dup := seen[col]; dup {
			return DuplicateColumnError(col)
		}
		seen[col] = struct{}{}
	}

	for _, pk := range naming.PrimaryKeys {
		if _, ok := seen[pk]; !ok {
			return MissingKeyError(pk, cols)
		}
	}
	return nil
}

// readRows drains the source, converting each cell to its typed
// value. Empty cells become NULL; empty key cells abort the
// ingestion.
func readRows(
	cols []string,
	src pbdb.RowSource,
) ([][]any, error) {
	var rows [][]any
	rowNum := 1
	for {
		rec, ok, err := src.Next()
		if err != nil {
			return nil, SourceError(rowNum, err)
		}
		if !ok {
			break
		}
		rowNum++

		row := make([]any, len(cols))
		for i, col := range cols {
			raw := strings.TrimSpace(rec[col])
			if raw == "" {
				if naming.IsPrimaryKey(col) {
					return nil, EmptyKeyError(col, rowNum)
				}
				row[i] = nil
				continue
			}
			val, err := naming.Parse(col, raw)
			if err != nil {
				return nil, ValueParseError(col, raw, rowNum, err)
			}
			row[i] = val
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (ing *ingestor) createTable(
	ctx context.Context,
	rawSchema, table string,
	cols []string,
) error {
	if err := ing.operator.DropTable(ctx, rawSchema, table); err != nil {
		return err
	}

	defs := make([]string, 0, len(cols)+1)
	for _, col := range cols {
		def := fmt.Sprintf("%q %s", col, naming.TypeOf(col).SQLType())
		if naming.IsPrimaryKey(col) {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	defs = append(defs, fmt.Sprintf(
		"PRIMARY KEY (%s)", strings.Join(naming.PrimaryKeys, ", "),
	))

	sql := fmt.Sprintf(
		"CREATE TABLE %q.%q (%s)",
		rawSchema, table, strings.Join(defs, ", "),
	)
	if _, err := ing.operator.Pool().Exec(ctx, sql); err != nil {
		return CreateTableError(rawSchema, table, err)
	}
	return nil
}

func (ing *ingestor) insertRows(
	ctx context.Context,
	rawSchema, table string,
	cols []string,
	rows [][]any,
) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	// PostgreSQL allows at most 65535 parameters per query, so
	// wide datasets get smaller batches.
	batchSize := ing.cfg.Database.BatchSize
	if maxRows := 65535 / len(cols); batchSize > maxRows {
		batchSize = maxRows
	}

	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = fmt.Sprintf("%q", col)
	}
	insertPrefix := fmt.Sprintf(
		"INSERT INTO %q.%q (%s) VALUES ",
		rawSchema, table, strings.Join(quoted, ", "),
	)

	var totalInserted int

	bar := pb.Full.Start(len(rows))
	bar.Set("prefix", "Ingesting rows: ")
	bar.Set(pb.CleanOnFinish, true)

	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		end = slices.Min([]int{end, len(rows)})

		batch := rows[i:end]

		var valueStrings []string
		var valueArgs []any
		argIdx := 1

		for _, row := range batch {
			marks := make([]string, len(row))
			for j := range row {
				marks[j] = fmt.Sprintf("$%d", argIdx)
				argIdx++
			}
			valueStrings = append(
				valueStrings,
				"("+strings.Join(marks, ", ")+")",
			)
			valueArgs = append(valueArgs, row...)
		}

		sql := insertPrefix + strings.Join(valueStrings, ", ")
		result, err := ing.operator.Pool().Exec(ctx, sql, valueArgs...)
		if err != nil {
			return 0, InsertError(rawSchema, table, err)
		}

		totalInserted += int(result.RowsAffected())
		bar.Add(len(batch))
	}

	bar.Finish()
	return totalInserted, nil
}
