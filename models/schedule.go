package models

import (
	"time"

	"gorm.io/gorm"
)

// Schedule represents a calendar entry, either entered by an admin (manual)
// or pulled from the external schedule feed (api).
type Schedule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"index;not null" json:"date"`
	Subject   string    `gorm:"not null" json:"subject"`
	Content   string    `json:"content"`
	Type      string    `gorm:"default:'manual';index" json:"type"` // manual, api
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CollectedData records the outcome of one collection run per dataset.
// Only the status bookkeeping is stored; fetched payloads are not persisted.
type CollectedData struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"size:50" json:"type"`
	Status    string    `gorm:"size:20" json:"status"`
	Message   string    `gorm:"size:255" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// MigrateScheduleModels runs database migrations for schedule-related models
func MigrateScheduleModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&Schedule{},
		&CollectedData{},
	)
}
