package models

import (
	"time"

	"gorm.io/gorm"
)

// Name of the system setting that mirrors the Super Admin's display name.
const SettingSuperAdminName = "super_admin_name"

// SystemSetting is a global key-value settings row, cached in Redis.
type SystemSetting struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"size:100;not null;uniqueIndex" json:"name"` // Setting key
	Data      string         `gorm:"type:text" json:"data"`                     // Setting value
	Type      string         `gorm:"size:50;default:'string'" json:"type"`      // Value type tag
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// SessionYear is an academic year. Exactly one row per school carries the
// default flag; new announcements attach to it.
type SessionYear struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"` // e.g. "2025-26"
	Default   bool           `gorm:"default:false" json:"default"`  // Current year flag
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	SchoolID  uint           `gorm:"index" json:"school_id"` // Tenant scope
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
