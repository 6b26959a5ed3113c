package naming_test

import (
	"testing"
	"time"

	"github.com/projbank/pbdb/pkg/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name   string
		column string
		want   naming.Type
	}{
		{"year suffix", "start_const_year", naming.Integer},
		{"bare year", "opening_year", naming.Integer},
		{"boolean prefix", "is_rail", naming.Boolean},
		{"date suffix", "start_const_date", naming.Date},
		{"cost millions", "est_cost_local_millions", naming.Float},
		{"value suffix", "capacity_value", naming.Float},
		{"ratio suffix", "schedule_const_ratio", naming.Float},
		{"duration suffix", "act_const_duration", naming.Float},
		{"thousands suffix", "ridership_thousands", naming.Float},
		{"rate suffix", "discount_rate", naming.Float},
		{"plain column", "project_name", naming.String},
		{"key column", "project_id", naming.String},
		{"uppercase input", "START_CONST_DATE", naming.Date},
		{"year wins over is_ prefix", "is_active_year", naming.Integer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, naming.TypeOf(tt.column))
		})
	}
}

func TestSQLType(t *testing.T) {
	tests := []struct {
		name  string
		dtype naming.Type
		want  string
	}{
		{"integer", naming.Integer, "INTEGER"},
		{"boolean", naming.Boolean, "BOOLEAN"},
		{"date", naming.Date, "DATE"},
		{"float", naming.Float, "DOUBLE PRECISION"},
		{"string", naming.String, "VARCHAR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dtype.SQLType())
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		column  string
		value   string
		want    any
		wantErr bool
	}{
		{"integer", "opening_year", "1998", 1998, false},
		{"bad integer", "opening_year", "soon", nil, true},
		{"float", "est_cost_local_millions", "120.5", 120.5, false},
		{"bad float", "est_cost_local_millions", "a lot", nil, true},
		{"bool true", "is_rail", "yes", true, false},
		{"bool numeric", "is_rail", "1", true, false},
		{"bool false", "is_rail", "no", false, false},
		{"bool garbage is false", "is_rail", "maybe", false, false},
		{"string passthrough", "country_iso3", "BRA", "BRA", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := naming.Parse(tt.column, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := naming.Parse("start_const_date", "1994-07-02")
	require.NoError(t, err)

	d, ok := got.(time.Time)
	require.True(t, ok)
	assert.Equal(t, 1994, d.Year())
	assert.Equal(t, time.July, d.Month())
	assert.Equal(t, 2, d.Day())

	_, err = naming.Parse("start_const_date", "07/02/1994")
	assert.Error(t, err)
}

func TestIsPrimaryKey(t *testing.T) {
	assert.True(t, naming.IsPrimaryKey("project_id"))
	assert.True(t, naming.IsPrimaryKey("sample"))
	assert.False(t, naming.IsPrimaryKey("country_iso3"))
}

func TestDateStem(t *testing.T) {
	stem, ok := naming.DateStem("start_const_date")
	assert.True(t, ok)
	assert.Equal(t, "start_const", stem)

	_, ok = naming.DateStem("opening_year")
	assert.False(t, ok)

	assert.Equal(t, "start_const_year", naming.YearColumn("start_const"))
	assert.Equal(t, "start_const_date", naming.DateColumn("start_const"))
}

func TestScheduleID(t *testing.T) {
	tests := []struct {
		name   string
		column string
		want   string
		ok     bool
	}{
		{"plain start", "start_const_date", "const", true},
		{"multi word id", "start_land_acq_date", "land_acq", true},
		{"not a start", "est_const_completion_date", "", false},
		{"not a date", "start_const_year", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := naming.ScheduleID(tt.column)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDurationID(t *testing.T) {
	tests := []struct {
		name   string
		column string
		prefix string
		id     string
		ok     bool
	}{
		{"estimated", "est_const_duration", "est", "const", true},
		{"actual", "act_const_duration", "act", "const", true},
		{"no prefix", "const_duration", "", "", false},
		{"not a duration", "est_const_completion_date", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, id, ok := naming.DurationID(tt.column)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestCostStem(t *testing.T) {
	tests := []struct {
		name   string
		column string
		want   string
		ok     bool
	}{
		{"millions", "est_cost_local_millions", "est_cost", true},
		{"currency", "est_cost_local_currency", "est_cost", true},
		{"year", "act_cost_local_year", "act_cost", true},
		{"no marker", "est_cost_millions", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := naming.CostStem(tt.column)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSource(t *testing.T) {
	assert.True(t, naming.IsSource("cost_source"))
	assert.True(t, naming.IsSource("source_schedule"))
	assert.False(t, naming.IsSource("country_iso3"))
}
