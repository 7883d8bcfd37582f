// Package container wires the application dependencies with dig.
package container

import (
	"operation-hours/internal/app"
	"operation-hours/internal/config"
	"operation-hours/internal/db"
	"operation-hours/internal/handler"
	"operation-hours/internal/router"
	"operation-hours/internal/services"
	"operation-hours/internal/state"
	"operation-hours/internal/store"
	"operation-hours/internal/types"

	"go.uber.org/dig"
)

// BuildContainer creates and configures the dependency injection container.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []any{
		config.NewManager,
		db.NewDB,
		store.NewStore,
		newFingerprinter,
		services.NewScheduleService,
		services.NewDisplayService,
		services.NewStateCheckService,
		handler.NewServer,
		router.NewRouter,
		app.NewApp,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}

// newFingerprinter binds the configured salt to the fingerprinter.
func newFingerprinter(st store.Store, configManager types.ConfigManager) *state.Fingerprinter {
	return state.NewFingerprinter(st, configManager.GetHashSalt())
}
