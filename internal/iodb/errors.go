package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/projbank/pbdb/pkg/errcode"
)

// ConnectionError creates an error for a failed database
// connection attempt.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL database

<em>Host:</em> %s
<em>Port:</em> %d
<em>Database:</em> %s
<em>User:</em> %s

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Wrong host, port or credentials
  - Database does not exist

<em>How to fix:</em>
  1. Check that PostgreSQL is running
  2. Verify settings in config file or PBDB_* env variables
  3. Create the database if missing: createdb %s`

	vars := []any{host, port, database, user, database}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot connect to %s:%d/%s: %w", host, port, database, err),
	}
}

// NotConnectedError creates an error for operations attempted
// without a database connection.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// CreateSchemaError creates an error for a failed schema
// creation.
func CreateSchemaError(schema string, err error) error {
	msg := `Cannot create database schema

<em>Schema:</em> %s`

	return &gn.Error{
		Code: errcode.DBCreateTableError,
		Msg:  msg,
		Vars: []any{schema},
		Err:  fmt.Errorf("cannot create schema %s: %w", schema, err),
	}
}

// TableExistsCheckError creates an error for a failed table
// existence check.
func TableExistsCheckError(schema, table string, err error) error {
	msg := `Cannot check if table exists

<em>Table:</em> %s.%s`

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: []any{schema, table},
		Err:  fmt.Errorf("cannot check table %s.%s: %w", schema, table, err),
	}
}

// QueryTablesError creates an error for a failed catalog query.
func QueryTablesError(schema string, err error) error {
	msg := `Cannot query tables of schema

<em>Schema:</em> %s`

	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Vars: []any{schema},
		Err:  fmt.Errorf("cannot query tables in %s: %w", schema, err),
	}
}

// ScanTableError creates an error for a failed catalog row scan.
func ScanTableError(schema string, err error) error {
	msg := `Cannot read table metadata of schema

<em>Schema:</em> %s`

	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  msg,
		Vars: []any{schema},
		Err:  fmt.Errorf("cannot scan table metadata in %s: %w", schema, err),
	}
}

// DropTableError creates an error for a failed table drop.
func DropTableError(schema, table string, err error) error {
	msg := `Cannot drop table

<em>Table:</em> %s.%s`

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: []any{schema, table},
		Err:  fmt.Errorf("cannot drop table %s.%s: %w", schema, table, err),
	}
}

// TruncateError creates an error for a failed table truncation.
func TruncateError(schema, table string, err error) error {
	msg := `Cannot truncate table

<em>Table:</em> %s.%s`

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: []any{schema, table},
		Err:  fmt.Errorf("cannot truncate table %s.%s: %w", schema, table, err),
	}
}

// MaterializeError creates an error for a failed table
// materialization.
func MaterializeError(schema, table string, err error) error {
	msg := `Cannot materialize table

<em>Table:</em> %s.%s

<em>Possible causes:</em>
  - Raw tables are missing required key columns
  - Reference tables are not loaded
  - Concurrent materialization of the same table`

	return &gn.Error{
		Code: errcode.StageMaterializeError,
		Msg:  msg,
		Vars: []any{schema, table},
		Err:  fmt.Errorf("cannot materialize %s.%s: %w", schema, table, err),
	}
}

// SelectError creates an error for a failed row retrieval.
func SelectError(schema, table string, err error) error {
	msg := `Cannot read rows from table

<em>Table:</em> %s.%s`

	return &gn.Error{
		Code: errcode.DBSelectError,
		Msg:  msg,
		Vars: []any{schema, table},
		Err:  fmt.Errorf("cannot select from %s.%s: %w", schema, table, err),
	}
}

// RecordNotFoundError creates an error for a project lookup
// that matched no rows.
func RecordNotFoundError(schema, table, projectID, sample string) error {
	if sample == "" {
		sample = "any"
	}

	msg := `No project found with the given identifier

<em>Table:</em> %s.%s
<em>Project ID:</em> %s
<em>Sample:</em> %s

<em>How to fix:</em>
  1. List available projects: pbdb export %s
  2. Verify the project identifier spelling`

	return &gn.Error{
		Code: errcode.DBRecordNotFoundError,
		Msg:  msg,
		Vars: []any{schema, table, projectID, sample, table},
		Err: fmt.Errorf(
			"no rows for project %s (%s) in %s.%s",
			projectID, sample, schema, table,
		),
	}
}
