package iostage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/internal/ioingest"
	"github.com/projbank/pbdb/internal/iostage"
	"github.com/projbank/pbdb/internal/iotesting"
	"github.com/projbank/pbdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: This is an integration test that requires PostgreSQL.
// Skip with: go test -short

func setupPipeline(t *testing.T) (context.Context, iodb.Operator) {
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

	err = op.EnsureSchemas(ctx,
		schema.RawSchema(true),
		schema.StageSchema(true),
		schema.ProdSchema,
	)
	require.NoError(t, err)

	return ctx, op
}

func ingestCSV(
	t *testing.T,
	ctx context.Context,
	op iodb.Operator,
	assetClass, dataset, csv string,
) {
	t.Helper()
	cfg := iotesting.GetTestConfig()
	src, err := ioingest.NewCSVSource(strings.NewReader(csv))
	require.NoError(t, err)

	ing := ioingest.NewIngestor(op, cfg)
	_, err = ing.Ingest(ctx, assetClass, dataset, true, src)
	require.NoError(t, err)
}

func TestStageAndPromote_Integration(t *testing.T) {
	ctx, op := setupPipeline(t)

	ingestCSV(t, ctx, op, "itrail", "gov",
		"project_id,sample,city,start_const_date\n"+
			"p1,a,lima,1994-07-02\n"+
			"p2,a,quito,\n")
	ingestCSV(t, ctx, op, "itrail", "press",
		"project_id,sample,start_const_year\n"+
			"p3,a,1990\n")
	t.Cleanup(func() {
		ing := ioingest.NewIngestor(op, iotesting.GetTestConfig())
		_ = ing.Drop(ctx, "itrail", "gov", true)
		_ = ing.Drop(ctx, "itrail", "press", true)
		_ = op.DropTable(ctx, schema.StageSchema(true), "itrail")
		_ = op.DropTable(ctx, schema.ProdSchema, schema.ProdTable(true))
	})

	stager := iostage.NewStager(op)
	err := stager.Stage(ctx, "itrail", true)
	require.NoError(t, err)

	cols, recs, err := op.Select(ctx, schema.StageSchema(true), "itrail")
	require.NoError(t, err)

	// Union of both raw tables, with schedule companions derived.
	assert.Len(t, recs, 3)
	assert.Contains(t, cols, "city")
	assert.Contains(t, cols, "start_const_date")
	assert.Contains(t, cols, "start_const_year")
	assert.Contains(t, cols, "est_const_completion_date")
	assert.Contains(t, cols, "est_const_duration")

	byID := make(map[string]map[string]any, len(recs))
	for _, r := range recs {
		byID[r["project_id"].(string)] = r
	}

	// The year is derived from the date, and the date from the
	// year using the placeholder day.
	assert.EqualValues(t, 1994, byID["p1"]["start_const_year"])
	assert.Nil(t, byID["p2"]["start_const_date"])
	assert.NotNil(t, byID["p3"]["start_const_date"])

	promoter := iostage.NewPromoter(op)
	err = promoter.Promote(ctx, true)
	require.NoError(t, err)

	_, prodRecs, err := op.Select(
		ctx, schema.ProdSchema, schema.ProdTable(true),
	)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(prodRecs), 3)
}

func TestStage_EmptyAssetClass_Integration(t *testing.T) {
	ctx, op := setupPipeline(t)

	stager := iostage.NewStager(op)
	err := stager.Stage(ctx, "itnothing", true)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = op.DropTable(ctx, schema.StageSchema(true), "itnothing")
	})

	cols, recs, err := op.Select(
		ctx, schema.StageSchema(true), "itnothing",
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"project_id", "sample"}, cols)
	assert.Empty(t, recs)
}
