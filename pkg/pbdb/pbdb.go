// Package pbdb defines the contracts of the staging pipeline.
// Implementations live in internal/ packages; this package has
// no I/O and no third-party dependencies beyond the standard
// library, so any part of the system can depend on it.
package pbdb

import "context"

// RowSource is a stream of raw dataset rows. Columns returns
// the normalized header; Next returns the next row keyed by
// column name, with ok=false at the end of the stream.
type RowSource interface {
	Columns() []string
	Next() (row map[string]string, ok bool, err error)
}

// RefRecord is one country-year observation of a reference
// series.
type RefRecord struct {
	CountryISO3 string  `json:"country_iso3"`
	Year        int     `json:"year"`
	Value       float64 `json:"value"`
}

// SchemaManager creates the database layout: the pipeline
// schemas and the reference tables.
type SchemaManager interface {
	Create(ctx context.Context) error
}

// Ingestor loads datasets into raw tables. Ingest replaces the
// dataset's raw table and returns its name.
type Ingestor interface {
	Ingest(
		ctx context.Context,
		assetClass, dataset string,
		verified bool,
		src RowSource,
	) (string, error)

	Drop(ctx context.Context, assetClass, dataset string, verified bool) error
}

// RefLoader maintains the reference series used by currency
// and inflation normalization.
type RefLoader interface {
	// Fetch downloads all observations of a series from the
	// reference API.
	Fetch(ctx context.Context, series string) ([]RefRecord, error)

	// Load replaces the stored observations of a series.
	Load(ctx context.Context, series string, recs []RefRecord) error
}

// Stager materializes the staged table of one asset class from
// its raw tables.
type Stager interface {
	Stage(ctx context.Context, assetClass string, verified bool) error
}

// Promoter materializes the production table from all staged
// tables of one verification status.
type Promoter interface {
	Promote(ctx context.Context, verified bool) error
}
