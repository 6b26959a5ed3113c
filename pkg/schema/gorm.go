package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all reference-series models for GORM AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&ExchangeRate{},
		&GDPDeflator{},
		&PPPRate{},
	}
}

// Migrate runs GORM AutoMigrate to create or update the
// reference-series tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
