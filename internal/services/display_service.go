package services

import (
	"fmt"

	"operation-hours/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DisplayService manages the presentation metadata shown next to the computed
// hours: block title, subtitle, status line and description texts.
type DisplayService struct {
	db *gorm.DB
}

// NewDisplayService creates a new display settings service.
func NewDisplayService(database *gorm.DB) *DisplayService {
	return &DisplayService{db: database}
}

// EnsureDefaults creates empty rows for any missing display setting keys so
// that GetSettings always returns the full set.
func (s *DisplayService) EnsureDefaults() error {
	for _, key := range models.DisplaySettingKeys {
		setting := models.DisplaySetting{SettingKey: key, SettingValue: ""}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoNothing: true,
		}).Create(&setting).Error
		if err != nil {
			return fmt.Errorf("failed to initialize display setting %q: %w", key, err)
		}
	}
	return nil
}

// GetSettings returns all display settings keyed by setting name.
func (s *DisplayService) GetSettings() (map[string]string, error) {
	var rows []models.DisplaySetting
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load display settings: %w", err)
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.SettingKey] = row.SettingValue
	}
	return settings, nil
}

// UpdateSettings upserts the provided display settings. Unknown keys are
// rejected so typos surface instead of creating orphan rows.
func (s *DisplayService) UpdateSettings(settings map[string]string) error {
	known := make(map[string]struct{}, len(models.DisplaySettingKeys))
	for _, key := range models.DisplaySettingKeys {
		known[key] = struct{}{}
	}
	for key := range settings {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("unknown display setting %q", key)
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range settings {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "setting_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
			}).Create(&models.DisplaySetting{SettingKey: key, SettingValue: value}).Error
			if err != nil {
				return fmt.Errorf("failed to update display setting %q: %w", key, err)
			}
		}
		return nil
	})
}
