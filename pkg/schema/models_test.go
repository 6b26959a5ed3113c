package schema_test

import (
	"testing"

	"github.com/projbank/pbdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaces(t *testing.T) {
	assert.Equal(t, "raw_verified", schema.RawSchema(true))
	assert.Equal(t, "raw_unverified", schema.RawSchema(false))
	assert.Equal(t, "stage_verified", schema.StageSchema(true))
	assert.Equal(t, "stage_unverified", schema.StageSchema(false))
	assert.Equal(t, "projects_verified", schema.ProdTable(true))
	assert.Equal(t, "projects_unverified", schema.ProdTable(false))
}

func TestRefSeriesList(t *testing.T) {
	list := schema.RefSeriesList()
	require.Len(t, list, 3)

	names := make(map[string]schema.RefSeries, len(list))
	for _, s := range list {
		names[s.Name] = s
	}

	fx := names["fx"]
	assert.Equal(t, "exchange_rates", fx.Table)
	assert.Equal(t, "exchange_rate", fx.ValueColumn)
	assert.Equal(t, "PA.NUS.FCRF", fx.Indicator)

	deflator := names["deflator"]
	assert.Equal(t, "gdp_deflators", deflator.Table)
	assert.Equal(t, "NY.GDP.DEFL.ZS", deflator.Indicator)

	ppp := names["ppp"]
	assert.Equal(t, "ppp_rates", ppp.Table)
	assert.Equal(t, "PA.NUS.PPP", ppp.Indicator)
}

func TestRefSeriesByName(t *testing.T) {
	s, ok := schema.RefSeriesByName("fx")
	assert.True(t, ok)
	assert.Equal(t, "exchange_rates", s.Table)

	_, ok = schema.RefSeriesByName("cpi")
	assert.False(t, ok)
}

func TestReferenceTableNames(t *testing.T) {
	assert.Equal(t, "reference.exchange_rates",
		schema.ExchangeRate{}.TableName())
	assert.Equal(t, "reference.gdp_deflators",
		schema.GDPDeflator{}.TableName())
	assert.Equal(t, "reference.ppp_rates",
		schema.PPPRate{}.TableName())
}
