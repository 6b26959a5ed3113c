package config_test

import (
	"testing"

	"github.com/projbank/pbdb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "pbdb", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5000, cfg.Database.BatchSize)
	assert.Equal(t, "https://api.worldbank.org/v2", cfg.Reference.APIURL)
	assert.Equal(t, 10000, cfg.Reference.PageSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "file", cfg.Log.Destination)
}

func TestUpdate_Options(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("db.example.org"),
		config.OptDatabasePort(5433),
		config.OptDatabaseUser("pb"),
		config.OptDatabaseDatabase("projects"),
		config.OptDatabaseSSLMode("require"),
		config.OptDatabaseBatchSize(1000),
		config.OptReferenceAPIURL("https://example.org/api/"),
		config.OptReferencePageSize(500),
		config.OptLogLevel("debug"),
		config.OptLogFormat("text"),
		config.OptLogDestination("stderr"),
		config.OptHomeDir("/home/pb"),
	})

	assert.Equal(t, "db.example.org", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "pb", cfg.Database.User)
	assert.Equal(t, "projects", cfg.Database.Database)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 1000, cfg.Database.BatchSize)
	assert.Equal(t, "https://example.org/api", cfg.Reference.APIURL,
		"trailing slash should be trimmed")
	assert.Equal(t, 500, cfg.Reference.PageSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Destination)
	assert.Equal(t, "/home/pb", cfg.HomeDir)
}

func TestUpdate_InvalidValuesIgnored(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost(""),
		config.OptDatabasePort(-1),
		config.OptDatabaseSSLMode("maybe"),
		config.OptLogLevel("chatty"),
		config.OptLogFormat("xml"),
	})

	// Invalid options leave the valid defaults untouched.
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestToOptions_RoundTrip(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("db.example.org"),
		config.OptDatabaseBatchSize(2500),
		config.OptLogLevel("warn"),
		config.OptHomeDir("/home/pb"),
	})

	clone := config.New()
	clone.Update(cfg.ToOptions())

	assert.Equal(t, cfg.Database, clone.Database)
	assert.Equal(t, cfg.Reference, clone.Reference)
	assert.Equal(t, cfg.Log, clone.Log)
	// HomeDir is runtime-only, not part of the persistent fields.
	assert.Empty(t, clone.HomeDir)
}

func TestPaths(t *testing.T) {
	home := "/home/pb"
	assert.Equal(t, "/home/pb/.config/pbdb", config.ConfigDir(home))
	assert.Equal(t, "/home/pb/.config/pbdb/config.yaml",
		config.ConfigFilePath(home))
	assert.Equal(t, "/home/pb/.config/pbdb/assets.yaml",
		config.AssetsFilePath(home))
	assert.Equal(t, "/home/pb/.local/share/pbdb/logs", config.LogDir(home))
}
