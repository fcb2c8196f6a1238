package models

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// User represents a school member: staff, student or guardian.
// Core model used by the auth, profile and announcement services.
type User struct {
	ID               string     `gorm:"type:char(12);primaryKey" json:"id"`            // User unique ID
	FirstName        string     `gorm:"size:100;not null" json:"first_name"`           // Given name
	LastName         string     `gorm:"size:100;not null" json:"last_name"`            // Family name
	Email            string     `gorm:"size:250;not null;uniqueIndex" json:"email"`    // Email address, login identity
	Password         string     `gorm:"size:250;not null" json:"-"`                    // Bcrypt hash
	Mobile           string     `gorm:"size:16" json:"mobile,omitempty"`               // Phone number, digits only
	Gender           string     `gorm:"size:20" json:"gender,omitempty"`               // Gender
	Dob              *time.Time `json:"dob,omitempty"`                                 // Date of birth
	CurrentAddress   string     `gorm:"size:500" json:"current_address,omitempty"`     // Current address
	PermanentAddress string     `gorm:"size:500" json:"permanent_address,omitempty"`   // Permanent address
	Image            string     `gorm:"size:250" json:"image,omitempty"`               // Stored profile image filename
	SchoolID         uint       `gorm:"index" json:"school_id"`                        // Tenant scope

	// Two-factor state. Both fields are set together and cleared together:
	// a non-nil secret with a nil expiry (or vice versa) is a bug.
	TwoFactorSecret    *string    `gorm:"size:64" json:"-"`
	TwoFactorExpiresAt *time.Time `json:"two_factor_expires_at,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Roles   []Role   `gorm:"many2many:user_roles" json:"roles,omitempty"`
	Student *Student `gorm:"foreignKey:UserID" json:"student,omitempty"`
}

// BeforeCreate assigns a 12-char nanoid primary key when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		id, err := gonanoid.New(12)
		if err != nil {
			return err
		}
		u.ID = id
	}
	return nil
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasRole reports whether the user holds the named role.
// Roles must have been preloaded.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
