package iodb_test

import (
	"context"
	"testing"

	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/internal/iotesting"
	"github.com/projbank/pbdb/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: This is an integration test that requires PostgreSQL.
// Skip with: go test -short

func setupOperator(t *testing.T) (context.Context, iodb.Operator) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()

	op := iodb.NewPgxOperator()
	err := op.Connect(ctx, &cfg.Database)
	require.NoError(t, err, "Should connect to test database")
	t.Cleanup(func() { op.Close() })

	return ctx, op
}

func TestOperator_NotConnected(t *testing.T) {
	ctx := context.Background()
	op := iodb.NewPgxOperator()

	_, err := op.TableExists(ctx, "public", "anything")
	assert.Error(t, err)

	err = op.DropTable(ctx, "public", "anything")
	assert.Error(t, err)
}

func TestOperator_SchemasAndTables_Integration(t *testing.T) {
	ctx, op := setupOperator(t)

	err := op.EnsureSchemas(ctx, "pbdb_it")
	require.NoError(t, err)
	// Idempotent.
	err = op.EnsureSchemas(ctx, "pbdb_it")
	require.NoError(t, err)

	err = op.DropTable(ctx, "pbdb_it", "probe")
	require.NoError(t, err)

	exists, err := op.TableExists(ctx, "pbdb_it", "probe")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = op.Pool().Exec(ctx,
		`CREATE TABLE pbdb_it.probe (
			project_id VARCHAR NOT NULL,
			sample VARCHAR NOT NULL,
			PRIMARY KEY (project_id, sample)
		)`,
	)
	require.NoError(t, err)

	exists, err = op.TableExists(ctx, "pbdb_it", "probe")
	require.NoError(t, err)
	assert.True(t, exists)

	tables, err := op.TablesInSchema(ctx, "pbdb_it")
	require.NoError(t, err)
	assert.Contains(t, tables, "probe")

	cols, err := op.TableColumns(ctx, "pbdb_it", "probe")
	require.NoError(t, err)
	assert.Equal(t, []string{"project_id", "sample"}, cols)

	err = op.DropTable(ctx, "pbdb_it", "probe")
	require.NoError(t, err)
}

func TestOperator_Materialize_Integration(t *testing.T) {
	ctx, op := setupOperator(t)

	err := op.EnsureSchemas(ctx, "pbdb_it")
	require.NoError(t, err)

	stmt := &query.Select{
		Items: []query.Item{
			{X: query.Lit{Value: "p1"}, As: "project_id"},
			{X: query.Lit{Value: "a"}, As: "sample"},
			{X: query.Lit{Value: 42}, As: "opening_year"},
		},
	}

	err = op.Materialize(ctx, "pbdb_it", "materialized", stmt)
	require.NoError(t, err)

	cols, recs, err := op.Select(ctx, "pbdb_it", "materialized")
	require.NoError(t, err)
	assert.Equal(t, []string{"project_id", "sample", "opening_year"}, cols)
	require.Len(t, recs, 1)
	assert.Equal(t, "p1", recs[0]["project_id"])

	// Replacement is a full swap.
	err = op.Materialize(ctx, "pbdb_it", "materialized", stmt)
	require.NoError(t, err)

	_, recs, err = op.Select(ctx, "pbdb_it", "materialized")
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	_, recs, err = op.SelectByID(ctx, "pbdb_it", "materialized", "p1", "")
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	_, recs, err = op.SelectByID(ctx, "pbdb_it", "materialized", "p1", "a")
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	_, _, err = op.SelectByID(ctx, "pbdb_it", "materialized", "p1", "b")
	assert.Error(t, err)

	_, _, err = op.SelectByID(ctx, "pbdb_it", "materialized", "nope", "")
	assert.Error(t, err)

	err = op.DropTable(ctx, "pbdb_it", "materialized")
	require.NoError(t, err)
}
