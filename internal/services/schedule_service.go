// Package services contains the application services: schedule configuration
// management, display metadata and the periodic state check.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"operation-hours/internal/models"
	"operation-hours/internal/schedule"
	"operation-hours/internal/store"
	"operation-hours/internal/syncer"
	"operation-hours/internal/types"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// scheduleChannel carries reload requests for the cached schedule config.
const scheduleChannel = "operation_hours:schedule"

// DayRuleInput is the wire form of a single weekday rule.
type DayRuleInput struct {
	Closed bool   `json:"closed"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// SeasonInput is the wire form of a season.
type SeasonInput struct {
	Name  string                  `json:"name" binding:"required"`
	Begin string                  `json:"begin" binding:"required"`
	Days  map[string]DayRuleInput `json:"days" binding:"required"`
}

// ExceptionInput is the wire form of a date-specific override.
type ExceptionInput struct {
	Day    string `json:"day" binding:"required"`
	Status bool   `json:"status"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// ScheduleInput is the full schedule configuration as accepted and returned
// by the admin API.
type ScheduleInput struct {
	Seasons    []SeasonInput    `json:"seasons"`
	Exceptions []ExceptionInput `json:"exceptions"`
}

// ScheduleService owns the persisted schedule configuration: it loads and
// validates it from the database, caches the validated form across nodes and
// replaces it transactionally on admin updates.
type ScheduleService struct {
	db            *gorm.DB
	store         store.Store
	configManager types.ConfigManager
	cache         *syncer.CacheSyncer[*schedule.Config]

	reloadMu   sync.Mutex
	reloadHook func(*schedule.Config)
}

// NewScheduleService creates the service. Initialize must be called after
// database migration before the service is used.
func NewScheduleService(database *gorm.DB, st store.Store, configManager types.ConfigManager) *ScheduleService {
	return &ScheduleService{
		db:            database,
		store:         st,
		configManager: configManager,
	}
}

// Initialize performs the initial configuration load and starts cache
// synchronization. A fresh install with an empty schedule is allowed; an
// invalid stored schedule is a fatal startup error.
func (s *ScheduleService) Initialize() error {
	cache, err := syncer.NewCacheSyncer(
		s.loadConfig,
		s.store,
		scheduleChannel,
		logrus.WithField("component", "schedule_service"),
		s.notifyReload,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize schedule cache: %w", err)
	}
	s.cache = cache
	return nil
}

// OnReload registers a hook invoked with the freshly loaded configuration
// after every cache reload, including the initial load. It may be called
// before or after Initialize.
func (s *ScheduleService) OnReload(fn func(*schedule.Config)) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	s.reloadHook = fn
}

func (s *ScheduleService) notifyReload(cfg *schedule.Config) {
	s.reloadMu.Lock()
	fn := s.reloadHook
	s.reloadMu.Unlock()
	if fn != nil {
		fn(cfg)
	}
}

// Stop stops cache synchronization.
func (s *ScheduleService) Stop(ctx context.Context) {
	if s.cache == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		s.cache.Stop()
		close(done)
	}()

	select {
	case <-done:
		logrus.Info("ScheduleService stopped gracefully.")
	case <-ctx.Done():
		logrus.Warn("ScheduleService stop timed out.")
	}
}

// Get returns the cached, validated schedule configuration.
func (s *ScheduleService) Get() *schedule.Config {
	return s.cache.Get()
}

// ResolveNow resolves the operation hours for the current instant. "now" is
// captured once in the facility zone and threaded through the whole
// resolution; it is returned so callers can derive consistent day tokens.
func (s *ScheduleService) ResolveNow() (schedule.Result, bool, time.Time, error) {
	now := time.Now().In(s.configManager.GetFacilityLocation())
	result, found, err := schedule.Resolve(s.Get(), now)
	return result, found, now, err
}

// GetSchedule returns the stored configuration in wire form.
func (s *ScheduleService) GetSchedule() (*ScheduleInput, error) {
	var seasons []models.Season
	if err := s.db.Order("name").Find(&seasons).Error; err != nil {
		return nil, fmt.Errorf("failed to load seasons: %w", err)
	}
	var exceptions []models.Exception
	if err := s.db.Order("id").Find(&exceptions).Error; err != nil {
		return nil, fmt.Errorf("failed to load exceptions: %w", err)
	}

	out := &ScheduleInput{
		Seasons:    make([]SeasonInput, 0, len(seasons)),
		Exceptions: make([]ExceptionInput, 0, len(exceptions)),
	}
	for _, season := range seasons {
		var days map[string]DayRuleInput
		if err := json.Unmarshal(season.Days, &days); err != nil {
			return nil, fmt.Errorf("season %q has malformed day rules: %w", season.Name, err)
		}
		out.Seasons = append(out.Seasons, SeasonInput{
			Name:  season.Name,
			Begin: season.Begin,
			Days:  days,
		})
	}
	for _, exc := range exceptions {
		out.Exceptions = append(out.Exceptions, ExceptionInput{
			Day:    exc.Day,
			Status: exc.Status,
			From:   exc.From,
			To:     exc.To,
		})
	}
	return out, nil
}

// UpdateSchedule validates and persists a full replacement of the schedule
// configuration, then invalidates the cached form on every node. Each node's
// reload notifies the registered reload hook, which runs the state
// fingerprint check. Validation happens before anything is written: a
// rejected update leaves the stored schedule untouched.
func (s *ScheduleService) UpdateSchedule(input *ScheduleInput) error {
	loc := s.configManager.GetFacilityLocation()
	if _, err := buildConfig(input, loc); err != nil {
		return err
	}

	seasons := make([]models.Season, 0, len(input.Seasons))
	for _, in := range input.Seasons {
		days, err := json.Marshal(in.Days)
		if err != nil {
			return fmt.Errorf("failed to serialize day rules for season %q: %w", in.Name, err)
		}
		seasons = append(seasons, models.Season{
			Name:  in.Name,
			Begin: in.Begin,
			Days:  days,
		})
	}
	exceptions := make([]models.Exception, 0, len(input.Exceptions))
	for _, in := range input.Exceptions {
		exceptions = append(exceptions, models.Exception{
			Day:    in.Day,
			Status: in.Status,
			From:   in.From,
			To:     in.To,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Season{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Exception{}).Error; err != nil {
			return err
		}
		if len(seasons) > 0 {
			if err := tx.Create(&seasons).Error; err != nil {
				return err
			}
		}
		if len(exceptions) > 0 {
			if err := tx.Create(&exceptions).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist schedule: %w", err)
	}

	if err := s.cache.Invalidate(); err != nil {
		logrus.WithError(err).Error("Failed to publish schedule cache invalidation")
	}
	return nil
}

// loadConfig reads the stored schedule and converts it into the validated
// engine form. An entirely empty schedule (fresh install) loads as an empty
// config; resolution against it surfaces the no-seasons configuration error.
func (s *ScheduleService) loadConfig() (*schedule.Config, error) {
	var seasons []models.Season
	if err := s.db.Order("name").Find(&seasons).Error; err != nil {
		return nil, fmt.Errorf("failed to load seasons: %w", err)
	}
	var exceptions []models.Exception
	if err := s.db.Order("id").Find(&exceptions).Error; err != nil {
		return nil, fmt.Errorf("failed to load exceptions: %w", err)
	}

	loc := s.configManager.GetFacilityLocation()

	input := &ScheduleInput{}
	for _, season := range seasons {
		var days map[string]DayRuleInput
		if err := json.Unmarshal(season.Days, &days); err != nil {
			return nil, fmt.Errorf("season %q has malformed day rules: %w", season.Name, err)
		}
		input.Seasons = append(input.Seasons, SeasonInput{Name: season.Name, Begin: season.Begin, Days: days})
	}
	for _, exc := range exceptions {
		input.Exceptions = append(input.Exceptions, ExceptionInput{Day: exc.Day, Status: exc.Status, From: exc.From, To: exc.To})
	}

	if len(input.Seasons) == 0 && len(input.Exceptions) == 0 {
		logrus.Warn("No schedule configured yet; operation hours are unavailable until seasons are defined")
		return &schedule.Config{
			Location: loc,
			Seasons:  map[string]schedule.SeasonRule{},
		}, nil
	}

	return buildConfig(input, loc)
}

// buildConfig converts wire-form configuration into the typed engine form and
// validates it. This is the single validation boundary: past it, the engine
// assumes well-typed input.
func buildConfig(input *ScheduleInput, loc *time.Location) (*schedule.Config, error) {
	cfg := &schedule.Config{
		Location: loc,
		Seasons:  make(map[string]schedule.SeasonRule, len(input.Seasons)),
	}

	for _, in := range input.Seasons {
		begin, err := schedule.ParseMonthDay(in.Begin)
		if err != nil {
			return nil, fmt.Errorf("season %q: %w", in.Name, err)
		}
		rule := schedule.SeasonRule{
			Begin: begin,
			Days:  make(map[string]schedule.DayRule, len(in.Days)),
		}
		for weekday, day := range in.Days {
			converted, err := convertDayRule(day)
			if err != nil {
				return nil, fmt.Errorf("season %q %s: %w", in.Name, weekday, err)
			}
			rule.Days[weekday] = converted
		}
		if _, dup := cfg.Seasons[in.Name]; dup {
			return nil, fmt.Errorf("duplicate season %q", in.Name)
		}
		cfg.Seasons[in.Name] = rule
	}

	for _, in := range input.Exceptions {
		day, err := schedule.ParseExceptionDay(in.Day, loc)
		if err != nil {
			return nil, err
		}
		exc := schedule.ExceptionRule{Day: day, Open: in.Status}
		if in.Status {
			if exc.From, err = schedule.ParseTimeOfDay(in.From); err != nil {
				return nil, fmt.Errorf("exception %s: %w", in.Day, err)
			}
			if exc.To, err = schedule.ParseTimeOfDay(in.To); err != nil {
				return nil, fmt.Errorf("exception %s: %w", in.Day, err)
			}
		}
		cfg.Exceptions = append(cfg.Exceptions, exc)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// convertDayRule parses a weekday rule; closed days may omit the window.
func convertDayRule(in DayRuleInput) (schedule.DayRule, error) {
	if in.Closed {
		return schedule.DayRule{Closed: true}, nil
	}
	from, err := schedule.ParseTimeOfDay(in.From)
	if err != nil {
		return schedule.DayRule{}, err
	}
	to, err := schedule.ParseTimeOfDay(in.To)
	if err != nil {
		return schedule.DayRule{}, err
	}
	return schedule.DayRule{From: from, To: to}, nil
}
