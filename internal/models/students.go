package models

import (
	"time"

	"gorm.io/gorm"
)

// Student links a student user to a guardian user and a class section.
type Student struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string         `gorm:"type:char(12);uniqueIndex" json:"user_id"` // Student's user record
	GuardianID     string         `gorm:"type:char(12);index" json:"guardian_id"`   // Guardian's user record
	ClassSectionID uint           `gorm:"index" json:"class_section_id"`            // Section the student belongs to
	RollNumber     int            `json:"roll_number"`                              // Roll number within the section
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	User         *User         `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Guardian     *User         `gorm:"foreignKey:GuardianID;references:ID" json:"guardian,omitempty"`
	ClassSection *ClassSection `gorm:"foreignKey:ClassSectionID" json:"class_section,omitempty"`
}

// ClassSection is a section (division) of a class.
type ClassSection struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ClassID   uint           `gorm:"index;not null" json:"class_id"` // Parent class
	Name      string         `gorm:"size:100" json:"name"`           // Section name, e.g. "A"
	SchoolID  uint           `gorm:"index" json:"school_id"`         // Tenant scope
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
