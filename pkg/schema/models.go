// Package schema provides database namespace names and GORM models
// for the reference-series tables. Raw, staged and production tables
// are dynamic (their columns come from source data) and are created
// by DDL composed at runtime, not by models.
package schema

// Namespace names. Raw and stage schemas are partitioned by
// verification status; reference data is shared and prod holds one
// table per verification status.
const (
	RefSchema  = "reference"
	ProdSchema = "prod"
)

// Reference-series column names shared by all three tables.
const (
	ColCountryISO3 = "country_iso3"
	ColYear        = "year"
)

// AnchorCountry is the normalization anchor: all monetary values are
// converted to the price level of this country's currency.
const AnchorCountry = "USA"

// VerifiedName returns "verified" or "unverified".
func VerifiedName(verified bool) string {
	if verified {
		return "verified"
	}
	return "unverified"
}

// RawSchema returns the raw-table namespace for a verification
// status: raw_verified or raw_unverified.
func RawSchema(verified bool) string {
	return "raw_" + VerifiedName(verified)
}

// StageSchema returns the staged-table namespace for a verification
// status: stage_verified or stage_unverified.
func StageSchema(verified bool) string {
	return "stage_" + VerifiedName(verified)
}

// ProdTable returns the production table name for a verification
// status. Production tables live in the prod schema.
func ProdTable(verified bool) string {
	return "projects_" + VerifiedName(verified)
}

// ExchangeRate is one official exchange rate observation (local
// currency units per USD) for a country and year.
type ExchangeRate struct {
	CountryISO3  string  `gorm:"column:country_iso3;primaryKey;type:varchar(3)"`
	Year         int     `gorm:"column:year;primaryKey"`
	ExchangeRate float64 `gorm:"column:exchange_rate"`
}

// TableName implements the GORM naming interface.
func (ExchangeRate) TableName() string {
	return RefSchema + ".exchange_rates"
}

// GDPDeflator is one GDP deflator observation for a country and year.
type GDPDeflator struct {
	CountryISO3     string  `gorm:"column:country_iso3;primaryKey;type:varchar(3)"`
	Year            int     `gorm:"column:year;primaryKey"`
	DeflationFactor float64 `gorm:"column:deflation_factor"`
}

// TableName implements the GORM naming interface.
func (GDPDeflator) TableName() string {
	return RefSchema + ".gdp_deflators"
}

// PPPRate is one purchasing-power-parity conversion factor for a
// country and year.
type PPPRate struct {
	CountryISO3 string  `gorm:"column:country_iso3;primaryKey;type:varchar(3)"`
	Year        int     `gorm:"column:year;primaryKey"`
	PPPRate     float64 `gorm:"column:ppp_rate"`
}

// TableName implements the GORM naming interface.
func (PPPRate) TableName() string {
	return RefSchema + ".ppp_rates"
}

// RefSeries describes one reference series: its table and the name of
// its single numeric value column.
type RefSeries struct {
	Name        string
	Table       string
	ValueColumn string
	// Indicator is the World Bank indicator code the series is
	// loaded from.
	Indicator string
}

// RefSeriesList enumerates the reference series in a stable order.
func RefSeriesList() []RefSeries {
	return []RefSeries{
		{
			Name:        "fx",
			Table:       "exchange_rates",
			ValueColumn: "exchange_rate",
			Indicator:   "PA.NUS.FCRF",
		},
		{
			Name:        "deflator",
			Table:       "gdp_deflators",
			ValueColumn: "deflation_factor",
			Indicator:   "NY.GDP.DEFL.ZS",
		},
		{
			Name:        "ppp",
			Table:       "ppp_rates",
			ValueColumn: "ppp_rate",
			Indicator:   "PA.NUS.PPP",
		},
	}
}

// RefSeriesByName returns the series description for a short name.
func RefSeriesByName(name string) (RefSeries, bool) {
	for _, s := range RefSeriesList() {
		if s.Name == name {
			return s, true
		}
	}
	return RefSeries{}, false
}
