package models

import (
	"time"

	"gorm.io/gorm"
)

// SendTo selects how announcement recipients are resolved.
type SendTo string

const (
	SendToAllUsers      SendTo = "All users"      // Caller-supplied pre-resolved ID list
	SendToSpecificUsers SendTo = "Specific users" // Caller-supplied ID array, verbatim
	SendToOverDueFees   SendTo = "Over Due Fees"  // Students (and guardians) with unpaid overdue fees
	SendToRoles         SendTo = "Roles"          // All users holding any selected role
)

// Notification is a broadcast announcement. Created once per broadcast;
// immutable thereafter except for deletion.
type Notification struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string         `gorm:"size:200;not null" json:"title"`   // Announcement title
	Message       string         `gorm:"type:text;not null" json:"message"` // Announcement body
	SendTo        SendTo         `gorm:"size:50;not null" json:"send_to"`  // Recipient selection mode
	Image         string         `gorm:"size:250" json:"image,omitempty"`  // Optional attached image filename
	SessionYearID uint           `gorm:"index" json:"session_year_id"`     // Academic year the broadcast belongs to
	SchoolID      uint           `gorm:"index" json:"school_id"`           // Tenant scope
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
