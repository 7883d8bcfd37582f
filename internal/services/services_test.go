package services

import (
	"context"
	"testing"
	"time"

	"operation-hours/internal/models"
	"operation-hours/internal/store"
	"operation-hours/internal/types"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testConfigManager is a fixed-value types.ConfigManager for service tests.
type testConfigManager struct {
	loc      *time.Location
	interval time.Duration
}

func newTestConfigManager(t *testing.T) *testConfigManager {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Luxembourg")
	require.NoError(t, err)
	return &testConfigManager{loc: loc, interval: time.Minute}
}

func (m *testConfigManager) GetAuthConfig() types.AuthConfig {
	return types.AuthConfig{Key: "test-auth-key-minimum-16-chars"}
}
func (m *testConfigManager) GetCORSConfig() types.CORSConfig { return types.CORSConfig{} }
func (m *testConfigManager) GetPerformanceConfig() types.PerformanceConfig {
	return types.PerformanceConfig{MaxConcurrentRequests: 100}
}
func (m *testConfigManager) GetLogConfig() types.LogConfig {
	return types.LogConfig{Level: "info", Format: "text"}
}
func (m *testConfigManager) GetDatabaseConfig() types.DatabaseConfig {
	return types.DatabaseConfig{DSN: ":memory:"}
}
func (m *testConfigManager) GetServerConfig() types.ServerConfig {
	return types.ServerConfig{Port: 3001, Host: "127.0.0.1", GracefulShutdownTimeout: 10}
}
func (m *testConfigManager) GetRedisDSN() string                  { return "" }
func (m *testConfigManager) GetHashSalt() string                  { return "test-salt" }
func (m *testConfigManager) GetFacilityLocation() *time.Location  { return m.loc }
func (m *testConfigManager) GetStateCheckInterval() time.Duration { return m.interval }
func (m *testConfigManager) Validate() error                      { return nil }
func (m *testConfigManager) DisplayServerConfig()                 {}

// testContext returns a context bounded to the test's lifetime.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// setupTestDB opens an in-memory database with the schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Season{},
		&models.Exception{},
		&models.DisplaySetting{},
	))
	return db
}

// allWeekInput builds a season input with the same window on all seven days.
func allWeekInput(name, begin, from, to string) SeasonInput {
	days := make(map[string]DayRuleInput, 7)
	for _, weekday := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		days[weekday] = DayRuleInput{From: from, To: to}
	}
	return SeasonInput{Name: name, Begin: begin, Days: days}
}

// setupScheduleService creates an initialized schedule service over a fresh
// in-memory database and store.
func setupScheduleService(t *testing.T) (*ScheduleService, store.Store) {
	t.Helper()

	db := setupTestDB(t)
	st := store.NewMemoryStore()
	t.Cleanup(func() { st.Close() })

	svc := NewScheduleService(db, st, newTestConfigManager(t))
	require.NoError(t, svc.Initialize())
	t.Cleanup(func() { svc.Stop(testContext(t)) })

	return svc, st
}
