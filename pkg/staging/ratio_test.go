package staging_test

import (
	"testing"

	"github.com/projbank/pbdb/pkg/query"
	"github.com/projbank/pbdb/pkg/staging"
	"github.com/stretchr/testify/assert"
)

func TestBuildRatios_NoPairs(t *testing.T) {
	cols := []string{"project_id", "sample", "est_const_duration"}
	al := &query.Aliases{}
	base := baseSelect(cols)

	// An estimate without its actual counterpart yields no ratio.
	stmt, out := staging.BuildRatios(base, cols, al)

	assert.Equal(t, base.SQL(), stmt.SQL())
	assert.Equal(t, cols, out)
}

func TestBuildRatios_ScheduleRatio(t *testing.T) {
	cols := []string{
		"project_id", "sample",
		"est_const_duration", "act_const_duration",
	}
	al := &query.Aliases{}

	stmt, out := staging.BuildRatios(baseSelect(cols), cols, al)

	assert.Contains(t, out, "schedule_const_ratio")
	assert.Contains(t, stmt.SQL(),
		"(act_const_duration / NULLIF(est_const_duration, 0)) "+
			"AS schedule_const_ratio")
}

func TestBuildRatios_CostRatio(t *testing.T) {
	cols := []string{
		"project_id", "sample",
		"est_cost_norm_millions", "act_cost_norm_millions",
		// PPP variants must not produce their own ratio.
		"est_cost_norm_ppp_millions", "act_cost_norm_ppp_millions",
	}
	al := &query.Aliases{}

	stmt, out := staging.BuildRatios(baseSelect(cols), cols, al)

	assert.Contains(t, out, "cost_usd_gdp_ratio")
	assert.Contains(t, stmt.SQL(),
		"(act_cost_norm_millions / NULLIF(est_cost_norm_millions, 0)) "+
			"AS cost_usd_gdp_ratio")
}

func TestBuildRatios_KeepsInputColumns(t *testing.T) {
	cols := []string{
		"project_id", "sample",
		"est_const_duration", "act_const_duration",
	}
	al := &query.Aliases{}

	_, out := staging.BuildRatios(baseSelect(cols), cols, al)

	// Ratios append; nothing is removed.
	for _, c := range cols {
		assert.Contains(t, out, c)
	}
}
