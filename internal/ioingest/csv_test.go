package ioingest_test

import (
	"strings"
	"testing"

	"github.com/projbank/pbdb/internal/ioingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVSource(t *testing.T) {
	src, err := ioingest.NewCSVSource(strings.NewReader(
		"Project_ID,Sample, Country_ISO3\np1,a,BRA\np2,b,IND\n",
	))
	require.NoError(t, err)

	// Header names are lowercased and trimmed.
	assert.Equal(t,
		[]string{"project_id", "sample", "country_iso3"},
		src.Columns())

	row, ok, err := src.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "p1", row["project_id"])
	assert.Equal(t, "BRA", row["country_iso3"])

	row, ok, err = src.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "p2", row["project_id"])

	_, ok, err = src.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewCSVSource_BOM(t *testing.T) {
	src, err := ioingest.NewCSVSource(strings.NewReader(
		"\ufeffproject_id,sample\np1,a\n",
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"project_id", "sample"}, src.Columns())
}

func TestNewCSVSource_ShortRow(t *testing.T) {
	src, err := ioingest.NewCSVSource(strings.NewReader(
		"project_id,sample,city\np1,a\n",
	))
	require.NoError(t, err)

	row, ok, err := src.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "p1", row["project_id"])
	// Missing trailing cells stay empty.
	assert.Equal(t, "", row["city"])
}

func TestNewCSVSource_EmptyInput(t *testing.T) {
	_, err := ioingest.NewCSVSource(strings.NewReader(""))
	assert.Error(t, err)
}

func TestRawTableName(t *testing.T) {
	assert.Equal(t, "rail__gov", ioingest.RawTableName("rail", "gov"))
}
