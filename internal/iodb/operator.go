// Package iodb implements database operations using pgxpool.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/projbank/pbdb/pkg/config"
	"github.com/projbank/pbdb/pkg/naming"
	"github.com/projbank/pbdb/pkg/query"
)

// Operator provides low-level PostgreSQL operations shared by
// ingestion, staging and export.
type Operator interface {
	// Connect establishes a connection pool to PostgreSQL.
	Connect(ctx context.Context, cfg *config.DatabaseConfig) error

	// Close releases all database connections.
	Close() error

	// Pool returns the underlying pgxpool.Pool for advanced
	// operations.
	Pool() *pgxpool.Pool

	// EnsureSchemas creates the given schemas if they do not
	// exist yet.
	EnsureSchemas(ctx context.Context, schemas ...string) error

	// TableExists checks if a table exists in the given schema.
	TableExists(ctx context.Context, schema, table string) (bool, error)

	// TablesInSchema returns the names of all tables in a
	// schema, sorted alphabetically.
	TablesInSchema(ctx context.Context, schema string) ([]string, error)

	// TableColumns returns the column names of a table in
	// ordinal order.
	TableColumns(ctx context.Context, schema, table string) ([]string, error)

	// DropTable drops a table if it exists.
	DropTable(ctx context.Context, schema, table string) error

	// Truncate removes all rows from a table.
	Truncate(ctx context.Context, schema, table string) error

	// Materialize replaces schema.table with the result of stmt
	// in a single transaction and sets the primary key.
	Materialize(
		ctx context.Context,
		schema, table string,
		stmt query.Statement,
	) error

	// Select returns all rows of a table as maps keyed by
	// column name.
	Select(ctx context.Context, schema, table string) ([]string, []map[string]any, error)

	// SelectByID returns the rows of one project, narrowed to a
	// single sample when one is given.
	SelectByID(ctx context.Context, schema, table, projectID, sample string) ([]string, []map[string]any, error)
}

// pgxOperator implements Operator using pgxpool for connection
// pooling.
type pgxOperator struct {
	pool *pgxpool.Pool
}

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() Operator {
	return &pgxOperator{}
}

// Connect establishes a connection pool to PostgreSQL.
// Uses sensible hardcoded pool settings that work well for
// most use cases.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// Hardcoded pool settings (can be made configurable
	// later if needed)
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// Pool returns the underlying pgxpool.Pool for advanced
// operations.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// EnsureSchemas creates the given schemas if they do not exist.
func (p *pgxOperator) EnsureSchemas(
	ctx context.Context,
	schemas ...string,
) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	for _, schema := range schemas {
		sql := fmt.Sprintf(
			`CREATE SCHEMA IF NOT EXISTS %s`, quoteIdent(schema),
		)
		if _, err := p.pool.Exec(ctx, sql); err != nil {
			return CreateSchemaError(schema, err)
		}
	}
	return nil
}

// TableExists checks if a table exists in the given schema.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	schema, table string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	q := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = $1
			AND table_name = $2
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, q, schema, table).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(schema, table, err)
	}

	return exists, nil
}

// TablesInSchema returns all table names in a schema sorted
// alphabetically.
func (p *pgxOperator) TablesInSchema(
	ctx context.Context,
	schema string,
) ([]string, error) {
	if p.pool == nil {
		return nil, NotConnectedError()
	}

	q := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := p.pool.Query(ctx, q, schema)
	if err != nil {
		return nil, QueryTablesError(schema, err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, ScanTableError(schema, err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, ScanTableError(schema, err)
	}

	return tables, nil
}

// TableColumns returns the column names of a table in ordinal
// order.
func (p *pgxOperator) TableColumns(
	ctx context.Context,
	schema, table string,
) ([]string, error) {
	if p.pool == nil {
		return nil, NotConnectedError()
	}

	q := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1
		AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := p.pool.Query(ctx, q, schema, table)
	if err != nil {
		return nil, QueryTablesError(schema, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, ScanTableError(schema, err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, ScanTableError(schema, err)
	}

	return cols, nil
}

// DropTable drops a table if it exists.
func (p *pgxOperator) DropTable(
	ctx context.Context,
	schema, table string,
) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	sql := fmt.Sprintf(
		"DROP TABLE IF EXISTS %s.%s CASCADE",
		quoteIdent(schema), quoteIdent(table),
	)
	if _, err := p.pool.Exec(ctx, sql); err != nil {
		return DropTableError(schema, table, err)
	}
	return nil
}

// Truncate removes all rows from a table.
func (p *pgxOperator) Truncate(
	ctx context.Context,
	schema, table string,
) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	sql := fmt.Sprintf(
		"TRUNCATE TABLE %s.%s",
		quoteIdent(schema), quoteIdent(table),
	)
	if _, err := p.pool.Exec(ctx, sql); err != nil {
		return TruncateError(schema, table, err)
	}
	return nil
}

// Materialize replaces schema.table with the result of stmt.
// The drop, create and primary key addition happen in one
// transaction, so readers see either the old table or the new
// one, never a partial state.
func (p *pgxOperator) Materialize(
	ctx context.Context,
	schema, table string,
	stmt query.Statement,
) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return MaterializeError(schema, table, err)
	}
	defer tx.Rollback(ctx)

	target := fmt.Sprintf(
		"%s.%s", quoteIdent(schema), quoteIdent(table),
	)

	steps := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", target),
		fmt.Sprintf("CREATE TABLE %s AS %s", target, stmt.SQL()),
		fmt.Sprintf(
			"ALTER TABLE %s ADD PRIMARY KEY (%s)",
			target, strings.Join(naming.PrimaryKeys, ", "),
		),
	}

	for _, sql := range steps {
		if _, err := tx.Exec(ctx, sql); err != nil {
			return MaterializeError(schema, table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return MaterializeError(schema, table, err)
	}

	// Fresh statistics help the planner on the new table.
	analyze := fmt.Sprintf("ANALYZE %s", target)
	if _, err := p.pool.Exec(ctx, analyze); err != nil {
		return MaterializeError(schema, table, err)
	}

	return nil
}

// Select returns all rows of a table ordered by primary key.
func (p *pgxOperator) Select(
	ctx context.Context,
	schema, table string,
) ([]string, []map[string]any, error) {
	if p.pool == nil {
		return nil, nil, NotConnectedError()
	}

	sql := fmt.Sprintf(
		"SELECT * FROM %s.%s ORDER BY %s",
		quoteIdent(schema), quoteIdent(table),
		strings.Join(naming.PrimaryKeys, ", "),
	)
	return p.selectRows(ctx, schema, table, sql)
}

// SelectByID returns the rows of one project. An empty sample
// matches every sample of the project.
func (p *pgxOperator) SelectByID(
	ctx context.Context,
	schema, table, projectID, sample string,
) ([]string, []map[string]any, error) {
	if p.pool == nil {
		return nil, nil, NotConnectedError()
	}

	sql := fmt.Sprintf(
		"SELECT * FROM %s.%s WHERE project_id = $1 ORDER BY sample",
		quoteIdent(schema), quoteIdent(table),
	)
	args := []any{projectID}
	if sample != "" {
		sql = fmt.Sprintf(
			"SELECT * FROM %s.%s WHERE project_id = $1 AND sample = $2",
			quoteIdent(schema), quoteIdent(table),
		)
		args = append(args, sample)
	}

	cols, recs, err := p.selectRows(ctx, schema, table, sql, args...)
	if err != nil {
		return nil, nil, err
	}
	if len(recs) == 0 {
		return nil, nil, RecordNotFoundError(schema, table, projectID, sample)
	}
	return cols, recs, nil
}

func (p *pgxOperator) selectRows(
	ctx context.Context,
	schema, table, sql string,
	args ...any,
) ([]string, []map[string]any, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, nil, SelectError(schema, table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	var recs []map[string]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, nil, SelectError(schema, table, err)
		}
		rec := make(map[string]any, len(cols))
		for i, col := range cols {
			rec[col] = vals[i]
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, SelectError(schema, table, err)
	}

	return cols, recs, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
