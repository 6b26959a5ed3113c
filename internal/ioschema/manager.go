// Package ioschema implements the SchemaManager interface for
// database layout management. This is an impure I/O package
// that creates the pipeline namespaces and wraps GORM
// AutoMigrate for the reference tables.
package ioschema

import (
	"context"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/pkg/pbdb"
	"github.com/projbank/pbdb/pkg/schema"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// manager implements the pbdb.SchemaManager interface.
type manager struct {
	operator iodb.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op iodb.Operator) pbdb.SchemaManager {
	return &manager{operator: op}
}

// Create creates the pipeline schemas and the reference tables.
// Raw tables are created later by ingestion, staged tables by
// materialization, so this only has to lay out the namespaces
// and migrate the fixed-shape reference series.
func (m *manager) Create(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	schemas := []string{
		schema.RawSchema(true),
		schema.RawSchema(false),
		schema.StageSchema(true),
		schema.StageSchema(false),
		schema.ProdSchema,
		schema.RefSchema,
	}
	if err := m.operator.EnsureSchemas(ctx, schemas...); err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	return nil
}
