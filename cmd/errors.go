package cmd

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/projbank/pbdb/pkg/errcode"
	"github.com/projbank/pbdb/pkg/schema"
)

// NoAssetClassesError creates an error for an ingest run with
// nothing to ingest.
func NoAssetClassesError(registryPath string, requested []string) error {
	msg := `No matching asset classes in the registry

<em>Registry:</em> %s
<em>Requested:</em> %v

<em>How to fix:</em>
  1. Add asset classes to the registry file
  2. Check the spelling of --asset-classes values`

	return &gn.Error{
		Code: errcode.AssetsConfigError,
		Msg:  msg,
		Vars: []any{registryPath, requested},
		Err:  fmt.Errorf("no asset classes matched %v", requested),
	}
}

// NoSeriesError creates an error for a refs run without series.
func NoSeriesError() error {
	var names []string
	for _, s := range schema.RefSeriesList() {
		names = append(names, s.Name)
	}

	msg := `No reference series selected

<em>Known series:</em> %s

<em>How to fix:</em>
  1. Name series as arguments: pbdb refs fx deflator
  2. Or load everything: pbdb refs --all`

	return &gn.Error{
		Code: errcode.RefUnknownSeriesError,
		Msg:  msg,
		Vars: []any{strings.Join(names, ", ")},
		Err:  fmt.Errorf("no reference series selected"),
	}
}

// NoRawTablesError creates an error for a stage run with no raw
// tables to work on.
func NoRawTablesError(rawSchema string) error {
	msg := `No raw tables found

<em>Schema:</em> %s

<em>How to fix:</em>
  1. Run '<em>pbdb ingest</em>' to load datasets
  2. Run stage again`

	return &gn.Error{
		Code: errcode.StageMaterializeError,
		Msg:  msg,
		Vars: []any{rawSchema},
		Err:  fmt.Errorf("no raw tables in %s", rawSchema),
	}
}

// RefFileError creates an error for a reference records file
// that cannot be read or decoded.
func RefFileError(path string, err error) error {
	msg := `Cannot read reference records file

<em>File:</em> %s

The file must contain a JSON array of records, for example:
  [{"country_iso3": "USA", "year": 2020, "value": 1.0}]`

	return &gn.Error{
		Code: errcode.RefFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("cannot read reference file %s: %w", path, err),
	}
}

// BadFormatError creates an error for an unknown export format.
func BadFormatError(format string) error {
	msg := `Unknown export format

<em>Format:</em> %s
<em>Supported:</em> csv, json`

	return &gn.Error{
		Code: errcode.UnknownError,
		Msg:  msg,
		Vars: []any{format},
		Err:  fmt.Errorf("unknown export format %s", format),
	}
}

// WriteOutputError creates an error for an output file that
// cannot be written.
func WriteOutputError(path string, err error) error {
	msg := `Cannot write output file

<em>File:</em> %s`

	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("cannot write %s: %w", path, err),
	}
}
