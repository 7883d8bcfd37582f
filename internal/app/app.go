// Package app provides the main application logic and lifecycle management.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"operation-hours/internal/models"
	"operation-hours/internal/services"
	"operation-hours/internal/store"
	"operation-hours/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
	"gorm.io/gorm"
)

// App holds all services and manages the application lifecycle.
type App struct {
	engine            *gin.Engine
	configManager     types.ConfigManager
	scheduleService   *services.ScheduleService
	displayService    *services.DisplayService
	stateCheckService *services.StateCheckService
	storage           store.Store
	db                *gorm.DB
	httpServer        *http.Server
}

// AppParams defines the dependencies for the App.
type AppParams struct {
	dig.In
	Engine            *gin.Engine
	ConfigManager     types.ConfigManager
	ScheduleService   *services.ScheduleService
	DisplayService    *services.DisplayService
	StateCheckService *services.StateCheckService
	Storage           store.Store
	DB                *gorm.DB
}

// NewApp is the constructor for App, with dependencies injected by dig.
func NewApp(params AppParams) *App {
	return &App{
		engine:            params.Engine,
		configManager:     params.ConfigManager,
		scheduleService:   params.ScheduleService,
		displayService:    params.DisplayService,
		stateCheckService: params.StateCheckService,
		storage:           params.Storage,
		db:                params.DB,
	}
}

// Start runs the application, it is a non-blocking call.
func (a *App) Start() error {
	// Database migration
	if err := a.db.AutoMigrate(
		&models.Season{},
		&models.Exception{},
		&models.DisplaySetting{},
	); err != nil {
		return fmt.Errorf("database auto-migration failed: %w", err)
	}
	logrus.Info("Database auto-migration completed.")

	if err := a.displayService.EnsureDefaults(); err != nil {
		return fmt.Errorf("failed to initialize display settings: %w", err)
	}

	// Load the schedule cache BEFORE starting the state checker so the first
	// check runs against a loaded configuration.
	if err := a.scheduleService.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize schedule service: %w", err)
	}

	a.stateCheckService.Start()

	// Display configuration and start the HTTP server
	a.configManager.DisplayServerConfig()

	serverConfig := a.configManager.GetServerConfig()
	a.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
		Handler:        a.engine,
		ReadTimeout:    time.Duration(serverConfig.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(serverConfig.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(serverConfig.IdleTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logrus.Infof("Operation hours server started successfully")
		logrus.Infof("Server address: http://%s:%d", serverConfig.Host, serverConfig.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server startup failed: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the application.
func (a *App) Stop(ctx context.Context) {
	logrus.Info("Shutting down server...")

	serverConfig := a.configManager.GetServerConfig()
	totalTimeout := time.Duration(serverConfig.GracefulShutdownTimeout) * time.Second

	// Reserve time for background services after the HTTP server drains
	httpShutdownTimeout := totalTimeout - 5*time.Second
	if httpShutdownTimeout <= 0 {
		httpShutdownTimeout = totalTimeout
	}
	httpShutdownCtx, cancelHttpShutdown := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancelHttpShutdown()

	httpShutdownStart := time.Now()
	if err := a.httpServer.Shutdown(httpShutdownCtx); err != nil {
		logrus.Debugf("HTTP server graceful shutdown timed out, forcing remaining connections to close.")
		if closeErr := a.httpServer.Close(); closeErr != nil {
			logrus.Errorf("Error forcing HTTP server to close: %v", closeErr)
		}
	}
	logrus.Infof("HTTP server has been shut down. (took %v)", time.Since(httpShutdownStart))

	stoppableServices := []func(context.Context){
		a.stateCheckService.Stop,
		a.scheduleService.Stop,
	}

	var wg sync.WaitGroup
	wg.Add(len(stoppableServices))

	for _, stopFunc := range stoppableServices {
		go func(stop func(context.Context)) {
			defer wg.Done()
			stop(ctx)
		}(stopFunc)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	bgServicesStart := time.Now()
	select {
	case <-done:
		logrus.Infof("All background services stopped. (took %v)", time.Since(bgServicesStart))
	case <-ctx.Done():
		logrus.Warnf("Shutdown timed out after %v, some services may not have stopped gracefully.", time.Since(bgServicesStart))
	}

	if err := a.storage.Close(); err != nil {
		logrus.Errorf("Error closing store: %v", err)
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logrus.Errorf("Error closing database connection: %v", err)
			}
		}
	}

	logrus.Info("Server exited gracefully")
}
