// Package models defines the gorm models for the persisted schedule
// configuration and display metadata.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Season corresponds to the seasons table. Days holds the seven weekday rules
// as a JSON document keyed by lowercase weekday name.
type Season struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null;unique" json:"name"`
	Begin     string         `gorm:"type:varchar(5);not null" json:"begin"` // MM/DD
	Days      datatypes.JSON `gorm:"type:json;not null" json:"days"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DayRuleDoc is the JSON shape of a single weekday rule inside Season.Days.
type DayRuleDoc struct {
	Closed bool   `json:"closed"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// Exception corresponds to the exceptions table: one date-specific override.
// Status true means open; From/To apply only then.
type Exception struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Day       string    `gorm:"type:varchar(10);not null;unique" json:"day"` // DD/MM/YYYY
	Status    bool      `gorm:"not null" json:"status"`
	From      string    `gorm:"type:varchar(5)" json:"from"`
	To        string    `gorm:"type:varchar(5)" json:"to"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplaySetting corresponds to the display_settings table: presentation
// metadata (title, subtitle, status line, descriptions) edited alongside the
// schedule and rendered by the out-of-scope frontend.
type DisplaySetting struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SettingKey   string    `gorm:"type:varchar(255);not null;unique" json:"setting_key"`
	SettingValue string    `gorm:"type:text;not null" json:"setting_value"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Display setting keys.
const (
	DisplayKeyTitle             = "title"
	DisplayKeySubtitle          = "subtitle"
	DisplayKeyStatus            = "status"
	DisplayKeyDescription       = "description"
	DisplayKeyDescriptionHidden = "description_hidden"
)

// DisplaySettingKeys lists every known display setting key.
var DisplaySettingKeys = []string{
	DisplayKeyTitle,
	DisplayKeySubtitle,
	DisplayKeyStatus,
	DisplayKeyDescription,
	DisplayKeyDescriptionHidden,
}
