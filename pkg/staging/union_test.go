package staging_test

import (
	"testing"

	"github.com/projbank/pbdb/pkg/staging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableMeta(name string, cols ...string) staging.TableMeta {
	return staging.TableMeta{
		Schema:  "raw_verified",
		Name:    name,
		Columns: cols,
	}
}

func TestBuildUnion_EmptyInput(t *testing.T) {
	stmt, cols := staging.BuildUnion(nil)
	assert.Nil(t, stmt)
	assert.Nil(t, cols)
}

func TestBuildUnion_SingleTable(t *testing.T) {
	stmt, cols := staging.BuildUnion([]staging.TableMeta{
		tableMeta("rail__gov", "project_id", "sample", "country_iso3"),
	})
	require.NotNil(t, stmt)

	assert.Equal(t, []string{"project_id", "sample", "country_iso3"}, cols)
	assert.Equal(t,
		`SELECT project_id, sample, country_iso3 FROM "raw_verified"."rail__gov"`,
		stmt.SQL())
}

func TestBuildUnion_ColumnOrderFirstSeen(t *testing.T) {
	stmt, cols := staging.BuildUnion([]staging.TableMeta{
		tableMeta("rail__a", "project_id", "sample", "city"),
		tableMeta("rail__b", "project_id", "sample", "country_iso3", "city"),
	})
	require.NotNil(t, stmt)

	// Columns of the first table come first; new columns of later
	// tables append in their own order.
	assert.Equal(t,
		[]string{"project_id", "sample", "city", "country_iso3"},
		cols)
}

func TestBuildUnion_TypedNullsForMissingColumns(t *testing.T) {
	stmt, _ := staging.BuildUnion([]staging.TableMeta{
		tableMeta("rail__a", "project_id", "sample", "est_cost_local_millions"),
		tableMeta("rail__b", "project_id", "sample"),
	})
	require.NotNil(t, stmt)

	sql := stmt.SQL()
	assert.Contains(t, sql,
		"CAST(NULL AS DOUBLE PRECISION) AS est_cost_local_millions",
		"missing float column should be a typed NULL in the second branch")
	assert.Contains(t, sql, " UNION ")
}

func TestBuildUnion_TypedNullTypes(t *testing.T) {
	stmt, _ := staging.BuildUnion([]staging.TableMeta{
		tableMeta("rail__a",
			"project_id", "sample",
			"opening_year", "is_rail", "start_const_date", "notes"),
		tableMeta("rail__b", "project_id", "sample"),
	})
	require.NotNil(t, stmt)

	sql := stmt.SQL()
	assert.Contains(t, sql, "CAST(NULL AS INTEGER) AS opening_year")
	assert.Contains(t, sql, "CAST(NULL AS BOOLEAN) AS is_rail")
	assert.Contains(t, sql, "CAST(NULL AS DATE) AS start_const_date")
	assert.Contains(t, sql, "CAST(NULL AS VARCHAR) AS notes")
}

func TestBuildUnion_SynthesizesYearPartner(t *testing.T) {
	stmt, cols := staging.BuildUnion([]staging.TableMeta{
		tableMeta("rail__a", "project_id", "sample", "start_const_date"),
	})
	require.NotNil(t, stmt)

	// A date column without its year partner gets the partner
	// synthesized, appended after the observed columns.
	assert.Equal(t,
		[]string{"project_id", "sample", "start_const_date", "start_const_year"},
		cols)
	assert.Contains(t, stmt.SQL(),
		"CAST(NULL AS INTEGER) AS start_const_year")
}

func TestBuildUnion_NoDuplicateYearPartner(t *testing.T) {
	_, cols := staging.BuildUnion([]staging.TableMeta{
		tableMeta("rail__a",
			"project_id", "sample", "start_const_date", "start_const_year"),
	})

	count := 0
	for _, c := range cols {
		if c == "start_const_year" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
