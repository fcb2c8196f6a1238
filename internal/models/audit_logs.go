package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLogType categorizes audit log records.
type AuditLogType string

const (
	AuditLogTypeLoginSuccess        AuditLogType = "LOGIN_SUCCESS"
	AuditLogTypeLoginFailure        AuditLogType = "LOGIN_FAILURE"
	AuditLogTypeLogout              AuditLogType = "LOGOUT"
	AuditLogType2FASuccess          AuditLogType = "2FA_SUCCESS"
	AuditLogType2FAFailure          AuditLogType = "2FA_FAILURE"
	AuditLogType2FALockout          AuditLogType = "2FA_LOCKOUT"
	AuditLogTypePasswordChanged     AuditLogType = "PASSWORD_CHANGED"
	AuditLogTypeProfileUpdated      AuditLogType = "PROFILE_UPDATED"
	AuditLogTypeAnnouncementCreated AuditLogType = "ANNOUNCEMENT_CREATED"
	AuditLogTypeAnnouncementDeleted AuditLogType = "ANNOUNCEMENT_DELETED"
)

// AuditLog records a security-relevant action with structured context.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string        `gorm:"type:char(12);index" json:"user_id,omitempty"` // Acting user, nil for anonymous
	Type      AuditLogType   `gorm:"size:50;not null;index" json:"type"`           // Action category
	Content   datatypes.JSON `gorm:"type:jsonb" json:"content"`                    // Structured action context
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}
