package models

import "time"

// SettingsRowID is the primary key of the only settings row
const SettingsRowID = 1

// Settings is the process-wide configuration record. There is exactly one row,
// and it is read fresh on every request that depends on it.
type Settings struct {
	ID                uint      `json:"-" gorm:"primaryKey;autoIncrement:false"`
	PerformanceLocked bool      `json:"performanceLocked" gorm:"not null;default:false"`
	UpdatedBy         *string   `json:"updatedBy,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (Settings) TableName() string {
	return "settings"
}

// PerformanceLockRequest is the body of PUT /settings/performance-lock
type PerformanceLockRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}
