package models

import (
	"time"

	"gorm.io/gorm"
)

// Fee is a class-wide fee with a due date. Read-only input to the
// "Over Due Fees" announcement recipient mode.
type Fee struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string         `gorm:"size:200" json:"name"`            // Fee description
	ClassID       uint           `gorm:"index;not null" json:"class_id"`  // Class the fee applies to
	DueDate       time.Time      `gorm:"index;not null" json:"due_date"`  // Payment deadline
	SessionYearID uint           `gorm:"index" json:"session_year_id"`    // Academic year
	SchoolID      uint           `gorm:"index" json:"school_id"`          // Tenant scope
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// FeePaid records a student's payment against a fee. A missing row or
// IsFullyPaid=false marks the student as overdue once the due date passes.
type FeePaid struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	FeeID       uint           `gorm:"index;not null" json:"fee_id"`       // Paid fee
	UserID      string         `gorm:"type:char(12);index" json:"user_id"` // Paying student
	IsFullyPaid bool           `gorm:"default:false" json:"is_fully_paid"` // Whether the full amount was settled
	Amount      float64        `json:"amount"`                             // Amount paid so far
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Fee  *Fee  `gorm:"foreignKey:FeeID" json:"fee,omitempty"`
	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}
