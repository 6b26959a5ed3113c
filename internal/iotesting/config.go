// Package iotesting provides shared test utilities for
// integration tests. This is an internal package for test
// infrastructure only.
package iotesting

import (
	"os"
	"strconv"

	"github.com/projbank/pbdb/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all
	// integration tests. This ensures tests never accidentally
	// run against production databases.
	TestDatabaseName = "pbdb_test"
)

// GetTestConfig returns a configuration suitable for
// integration tests: library defaults, PBDB_TEST_* environment
// overrides for CI, and the database name forced to
// TestDatabaseName for safety.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	var opts []config.Option

	if host := os.Getenv("PBDB_TEST_HOST"); host != "" {
		opts = append(opts, config.OptDatabaseHost(host))
	}
	if port := os.Getenv("PBDB_TEST_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			opts = append(opts, config.OptDatabasePort(p))
		}
	}
	if user := os.Getenv("PBDB_TEST_USER"); user != "" {
		opts = append(opts, config.OptDatabaseUser(user))
	}
	if pass := os.Getenv("PBDB_TEST_PASSWORD"); pass != "" {
		opts = append(opts, config.OptDatabasePassword(pass))
	}

	// Always use the test database for safety.
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))

	cfg := config.New()
	cfg.Update(opts)
	return cfg
}

// GetTestDatabaseConfig returns only the database configuration
// for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}
