package db

import (
	"testing"
	"time"

	"operation-hours/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dbConfigStub provides just enough of types.ConfigManager for NewDB.
type dbConfigStub struct {
	dsn string
}

func (s *dbConfigStub) GetAuthConfig() types.AuthConfig               { return types.AuthConfig{} }
func (s *dbConfigStub) GetCORSConfig() types.CORSConfig               { return types.CORSConfig{} }
func (s *dbConfigStub) GetPerformanceConfig() types.PerformanceConfig { return types.PerformanceConfig{} }
func (s *dbConfigStub) GetLogConfig() types.LogConfig                 { return types.LogConfig{Level: "info"} }
func (s *dbConfigStub) GetDatabaseConfig() types.DatabaseConfig {
	return types.DatabaseConfig{DSN: s.dsn}
}
func (s *dbConfigStub) GetServerConfig() types.ServerConfig  { return types.ServerConfig{} }
func (s *dbConfigStub) GetRedisDSN() string                  { return "" }
func (s *dbConfigStub) GetHashSalt() string                  { return "salt" }
func (s *dbConfigStub) GetFacilityLocation() *time.Location  { return time.UTC }
func (s *dbConfigStub) GetStateCheckInterval() time.Duration { return time.Minute }
func (s *dbConfigStub) Validate() error                      { return nil }
func (s *dbConfigStub) DisplayServerConfig()                 {}

// TestNewDB_SQLiteMemory tests opening an in-memory database
func TestNewDB_SQLiteMemory(t *testing.T) {
	t.Parallel()

	database, err := NewDB(&dbConfigStub{dsn: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", database.Dialector.Name())

	sqlDB, err := database.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	assert.NoError(t, sqlDB.Close())
}

// TestNewDB_EmptyDSN tests rejection of a missing DSN
func TestNewDB_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := NewDB(&dbConfigStub{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_DSN")
}
