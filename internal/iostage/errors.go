package iostage

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/projbank/pbdb/pkg/errcode"
)

// EmptyTableError creates an error for a failed creation of an
// empty staged table.
func EmptyTableError(schema, table string, err error) error {
	msg := `Cannot create empty staged table

<em>Table:</em> %s.%s`

	return &gn.Error{
		Code: errcode.StageMaterializeError,
		Msg:  msg,
		Vars: []any{schema, table},
		Err:  fmt.Errorf("cannot create empty table %s.%s: %w", schema, table, err),
	}
}

// NoStagedTablesError creates an error for a promotion with
// nothing to promote.
func NoStagedTablesError(schema string) error {
	msg := `No staged tables to promote

<em>Schema:</em> %s

<em>How to fix:</em>
  1. Ingest datasets: pbdb ingest
  2. Stage asset classes: pbdb stage
  3. Run promote again`

	return &gn.Error{
		Code: errcode.StagePromoteError,
		Msg:  msg,
		Vars: []any{schema},
		Err:  fmt.Errorf("no staged tables in %s", schema),
	}
}
