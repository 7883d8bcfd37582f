// Package config provides the environment-backed configuration manager.
package config

import (
	"fmt"
	"time"

	"operation-hours/internal/types"
	"operation-hours/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultFacilityTimezone is the facility zone used when none is configured.
// All resolution arithmetic happens in this zone, never the caller's.
const DefaultFacilityTimezone = "Europe/Luxembourg"

// Manager implements types.ConfigManager on top of environment variables.
type Manager struct {
	serverConfig       types.ServerConfig
	authConfig         types.AuthConfig
	corsConfig         types.CORSConfig
	performanceConfig  types.PerformanceConfig
	logConfig          types.LogConfig
	databaseConfig     types.DatabaseConfig
	redisDSN           string
	hashSalt           string
	facilityLocation   *time.Location
	stateCheckInterval time.Duration
}

// NewManager creates a new configuration manager from the environment.
// A .env file is loaded when present; real environment variables win.
func NewManager() (types.ConfigManager, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	m := &Manager{
		serverConfig: types.ServerConfig{
			Port:                    utils.ParseInteger(utils.GetEnvOrDefault("PORT", "3001"), 3001),
			Host:                    utils.GetEnvOrDefault("HOST", "0.0.0.0"),
			ReadTimeout:             utils.ParseInteger(utils.GetEnvOrDefault("SERVER_READ_TIMEOUT", "60"), 60),
			WriteTimeout:            utils.ParseInteger(utils.GetEnvOrDefault("SERVER_WRITE_TIMEOUT", "60"), 60),
			IdleTimeout:             utils.ParseInteger(utils.GetEnvOrDefault("SERVER_IDLE_TIMEOUT", "120"), 120),
			GracefulShutdownTimeout: utils.ParseInteger(utils.GetEnvOrDefault("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", "10"), 10),
		},
		authConfig: types.AuthConfig{
			Key: utils.GetEnvOrDefault("AUTH_KEY", ""),
		},
		corsConfig: types.CORSConfig{
			Enabled:          utils.ParseBoolean(utils.GetEnvOrDefault("ENABLE_CORS", "true"), true),
			AllowedOrigins:   utils.SplitAndTrim(utils.GetEnvOrDefault("ALLOWED_ORIGINS", "*"), ","),
			AllowedMethods:   utils.SplitAndTrim(utils.GetEnvOrDefault("ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"), ","),
			AllowedHeaders:   utils.SplitAndTrim(utils.GetEnvOrDefault("ALLOWED_HEADERS", "*"), ","),
			AllowCredentials: utils.ParseBoolean(utils.GetEnvOrDefault("ALLOW_CREDENTIALS", "false"), false),
		},
		performanceConfig: types.PerformanceConfig{
			MaxConcurrentRequests: utils.ParseInteger(utils.GetEnvOrDefault("MAX_CONCURRENT_REQUESTS", "100"), 100),
		},
		logConfig: types.LogConfig{
			Level:      utils.GetEnvOrDefault("LOG_LEVEL", "info"),
			Format:     utils.GetEnvOrDefault("LOG_FORMAT", "text"),
			EnableFile: utils.ParseBoolean(utils.GetEnvOrDefault("LOG_ENABLE_FILE", "false"), false),
			FilePath:   utils.GetEnvOrDefault("LOG_FILE_PATH", "./data/logs/app.log"),
		},
		databaseConfig: types.DatabaseConfig{
			DSN: utils.GetEnvOrDefault("DATABASE_DSN", "./data/operation-hours.db"),
		},
		redisDSN: utils.GetEnvOrDefault("REDIS_DSN", ""),
		hashSalt: utils.GetEnvOrDefault("HASH_SALT", ""),
	}

	tzName := utils.GetEnvOrDefault("FACILITY_TIMEZONE", DefaultFacilityTimezone)
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid FACILITY_TIMEZONE %q: %w", tzName, err)
	}
	m.facilityLocation = loc

	checkSeconds := utils.ParseInteger(utils.GetEnvOrDefault("STATE_CHECK_INTERVAL", "60"), 60)
	m.stateCheckInterval = time.Duration(checkSeconds) * time.Second

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate checks that the configuration is usable.
func (m *Manager) Validate() error {
	if m.serverConfig.Port < 1 || m.serverConfig.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", m.serverConfig.Port)
	}
	if len(m.authConfig.Key) < 16 {
		return fmt.Errorf("AUTH_KEY must be at least 16 characters")
	}
	if m.hashSalt == "" {
		return fmt.Errorf("HASH_SALT must be configured for state fingerprinting")
	}
	if m.databaseConfig.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is not configured")
	}
	if m.stateCheckInterval < time.Second {
		return fmt.Errorf("STATE_CHECK_INTERVAL must be at least 1 second")
	}
	return nil
}

// GetServerConfig returns server configuration.
func (m *Manager) GetServerConfig() types.ServerConfig {
	return m.serverConfig
}

// GetAuthConfig returns authentication configuration.
func (m *Manager) GetAuthConfig() types.AuthConfig {
	return m.authConfig
}

// GetCORSConfig returns CORS configuration.
func (m *Manager) GetCORSConfig() types.CORSConfig {
	return m.corsConfig
}

// GetPerformanceConfig returns performance configuration.
func (m *Manager) GetPerformanceConfig() types.PerformanceConfig {
	return m.performanceConfig
}

// GetLogConfig returns logging configuration.
func (m *Manager) GetLogConfig() types.LogConfig {
	return m.logConfig
}

// GetDatabaseConfig returns database configuration.
func (m *Manager) GetDatabaseConfig() types.DatabaseConfig {
	return m.databaseConfig
}

// GetRedisDSN returns the Redis DSN, empty when the memory store is used.
func (m *Manager) GetRedisDSN() string {
	return m.redisDSN
}

// GetHashSalt returns the secret used to key state fingerprints.
func (m *Manager) GetHashSalt() string {
	return m.hashSalt
}

// GetFacilityLocation returns the facility's fixed time zone.
func (m *Manager) GetFacilityLocation() *time.Location {
	return m.facilityLocation
}

// GetStateCheckInterval returns the periodic fingerprint re-check interval.
func (m *Manager) GetStateCheckInterval() time.Duration {
	return m.stateCheckInterval
}

// DisplayServerConfig logs the effective configuration at startup.
func (m *Manager) DisplayServerConfig() {
	logrus.Info("")
	logrus.Info("======= Operation Hours Service =======")
	logrus.Infof("  Listen address: %s:%d", m.serverConfig.Host, m.serverConfig.Port)
	logrus.Infof("  Facility zone:  %s", m.facilityLocation)
	logrus.Infof("  Database DSN:   %s", m.databaseConfig.DSN)
	if m.redisDSN != "" {
		logrus.Info("  Store backend:  redis")
	} else {
		logrus.Info("  Store backend:  memory")
	}
	logrus.Infof("  State check:    every %s", m.stateCheckInterval)
	logrus.Infof("  Log level:      %s", m.logConfig.Level)
	logrus.Info("=======================================")
	logrus.Info("")
}
