package services

import (
	"context"
	"sync"
	"time"

	"operation-hours/internal/schedule"
	"operation-hours/internal/state"
	"operation-hours/internal/types"

	"github.com/sirupsen/logrus"
)

// StateCheckService periodically re-resolves the operation hours and runs the
// fingerprint check so that downstream caches are invalidated when the posted
// hours change (day rollover, season boundary, exception coming into effect).
type StateCheckService struct {
	scheduleService *ScheduleService
	fingerprinter   *state.Fingerprinter
	configManager   types.ConfigManager
	stopCh          chan struct{}
	wg              sync.WaitGroup
}

// NewStateCheckService creates a new state check service and registers it as
// the schedule cache's reload hook, so an admin update (on any node) fires
// the fingerprint check right away instead of waiting for the next tick.
func NewStateCheckService(
	scheduleService *ScheduleService,
	fingerprinter *state.Fingerprinter,
	configManager types.ConfigManager,
) *StateCheckService {
	s := &StateCheckService{
		scheduleService: scheduleService,
		fingerprinter:   fingerprinter,
		configManager:   configManager,
		stopCh:          make(chan struct{}),
	}
	scheduleService.OnReload(s.onScheduleReload)
	return s
}

// onScheduleReload runs the fingerprint check against the configuration a
// cache reload just produced. The config is taken from the reload itself, not
// the cache, so the initial load is covered too.
func (s *StateCheckService) onScheduleReload(cfg *schedule.Config) {
	if _, err := s.checkConfig(cfg); err != nil {
		logrus.WithError(err).Error("Operation hours state check failed after schedule reload")
	}
}

// Start begins the periodic check loop.
func (s *StateCheckService) Start() {
	s.wg.Add(1)
	go s.run()
	logrus.Debug("State check service started")
}

// Stop stops the service gracefully.
func (s *StateCheckService) Stop(ctx context.Context) {
	close(s.stopCh)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logrus.Info("StateCheckService stopped gracefully.")
	case <-ctx.Done():
		logrus.Warn("StateCheckService stop timed out.")
	}
}

func (s *StateCheckService) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.configManager.GetStateCheckInterval())
	defer ticker.Stop()

	// Initial check on startup so a state change during downtime is not
	// missed until the first tick.
	s.check()

	for {
		select {
		case <-ticker.C:
			s.check()
		case <-s.stopCh:
			return
		}
	}
}

func (s *StateCheckService) check() {
	if _, err := s.RunOnce(); err != nil {
		logrus.WithError(err).Error("Operation hours state check failed")
	}
}

// RunOnce resolves the hours for now and runs the fingerprint comparison,
// returning whether an invalidation fired. A horizon exhaustion is a valid
// no-result and still participates in fingerprinting.
func (s *StateCheckService) RunOnce() (bool, error) {
	return s.checkConfig(s.scheduleService.Get())
}

func (s *StateCheckService) checkConfig(cfg *schedule.Config) (bool, error) {
	now := time.Now().In(s.configManager.GetFacilityLocation())
	result, found, err := schedule.Resolve(cfg, now)
	if err != nil {
		if schedule.IsNotConfigured(err) {
			// Fresh install: nothing to fingerprint yet.
			logrus.Debug("State check skipped: no seasons configured")
			return false, nil
		}
		return false, err
	}

	changed, _, err := s.fingerprinter.Check(result, found, now)
	if err != nil {
		return false, err
	}
	if changed {
		logrus.Info("Operation hours state changed; cache invalidation fired")
	}
	return changed, nil
}
