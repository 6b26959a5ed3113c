package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/projbank/pbdb/pkg/errcode"
)

// NotConnectedError creates an error for when schema creation
// is attempted without a database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError creates an error for a failed GORM
// connection over the existing pool.
func GORMConnectionError(err error) error {
	msg := `Cannot initialize GORM over the database pool

<em>Possible causes:</em>
  - Connection pool was closed
  - PostgreSQL stopped while connected`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("cannot open gorm connection: %w", err),
	}
}

// CreateSchemaError creates an error for a failed schema or
// reference table creation.
func CreateSchemaError(err error) error {
	msg := `Cannot create database layout

<em>Possible causes:</em>
  - Insufficient database privileges
  - Conflicting objects from a previous installation

<em>How to fix:</em>
  1. Verify the user can create schemas and tables
  2. Drop conflicting objects and run create again`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("cannot create database layout: %w", err),
	}
}
