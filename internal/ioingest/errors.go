package ioingest

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/projbank/pbdb/pkg/errcode"
)

// HeaderError creates an error for a source whose header cannot
// be read.
func HeaderError(err error) error {
	msg := `Cannot read dataset header

<em>Possible causes:</em>
  - File is empty
  - File is not valid CSV`

	return &gn.Error{
		Code: errcode.IngestSourceError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("cannot read header: %w", err),
	}
}

// OpenFileError creates an error for a dataset file that cannot
// be opened.
func OpenFileError(path string, err error) error {
	msg := `Cannot open dataset file

<em>File:</em> %s

<em>How to fix:</em>
  1. Verify the file path in assets.yaml
  2. Check file permissions`

	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("cannot open %s: %w", path, err),
	}
}

// DuplicateColumnError creates an error for a header with a
// repeated column name.
func DuplicateColumnError(column string) error {
	msg := `Dataset header contains a duplicate column

<em>Column:</em> %s

<em>How to fix:</em>
  1. Rename or remove the duplicate column in the source file`

	return &gn.Error{
		Code: errcode.IngestDuplicateColumnError,
		Msg:  msg,
		Vars: []any{column},
		Err:  fmt.Errorf("duplicate column %s", column),
	}
}

// MissingKeyError creates an error for a dataset missing a key
// column.
func MissingKeyError(key string, cols []string) error {
	msg := `Dataset is missing a required key column

<em>Missing column:</em> %s
<em>Found columns:</em> %v

Every dataset must identify its rows with project_id and
sample columns.`

	return &gn.Error{
		Code: errcode.IngestMissingKeyError,
		Msg:  msg,
		Vars: []any{key, cols},
		Err:  fmt.Errorf("missing key column %s", key),
	}
}

// EmptyKeyError creates an error for a row with an empty key
// value.
func EmptyKeyError(column string, row int) error {
	msg := `Dataset row has an empty key value

<em>Column:</em> %s
<em>Row:</em> %d

Key columns must be filled for every row.`

	return &gn.Error{
		Code: errcode.IngestEmptyKeyError,
		Msg:  msg,
		Vars: []any{column, row},
		Err:  fmt.Errorf("empty key %s at row %d", column, row),
	}
}

// ValueParseError creates an error for a cell that does not
// match its column's type.
func ValueParseError(column, value string, row int, err error) error {
	msg := `Dataset value does not match the column type

<em>Column:</em> %s
<em>Value:</em> %s
<em>Row:</em> %d

The column name determines the expected type. Check the
reserved suffixes (_year, _date, _millions, _duration, ...)
against the actual values.`

	return &gn.Error{
		Code: errcode.IngestValueParseError,
		Msg:  msg,
		Vars: []any{column, value, row},
		Err: fmt.Errorf(
			"cannot parse %q in column %s at row %d: %w",
			value, column, row, err),
	}
}

// SourceError creates an error for a failed source read.
func SourceError(row int, err error) error {
	msg := `Cannot read dataset row

<em>Row:</em> %d`

	return &gn.Error{
		Code: errcode.IngestSourceError,
		Msg:  msg,
		Vars: []any{row},
		Err:  fmt.Errorf("cannot read row %d: %w", row, err),
	}
}

// CreateTableError creates an error for a failed raw table
// creation.
func CreateTableError(schema, table string, err error) error {
	msg := `Cannot create raw table

<em>Table:</em> %s.%s`

	return &gn.Error{
		Code: errcode.DBCreateTableError,
		Msg:  msg,
		Vars: []any{schema, table},
		Err:  fmt.Errorf("cannot create %s.%s: %w", schema, table, err),
	}
}

// InsertError creates an error for a failed batch insert.
func InsertError(schema, table string, err error) error {
	msg := `Cannot insert rows into raw table

<em>Table:</em> %s.%s

<em>Possible causes:</em>
  - Duplicate (project_id, sample) pairs in the dataset
  - PostgreSQL ran out of disk space`

	return &gn.Error{
		Code: errcode.IngestInsertError,
		Msg:  msg,
		Vars: []any{schema, table},
		Err:  fmt.Errorf("cannot insert into %s.%s: %w", schema, table, err),
	}
}
