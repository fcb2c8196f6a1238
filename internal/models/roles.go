package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Well-known role names with special-cased behavior.
const (
	RoleSuperAdmin  = "Super Admin"
	RoleSchoolAdmin = "School Admin"
	RoleTeacher     = "Teacher"
	RoleStudent     = "Student"
	RoleGuardian    = "Guardian"
)

// Role is a named capability group assigned to users (many-to-many).
type Role struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"size:100;not null;uniqueIndex" json:"name"` // Role name
	Permissions datatypes.JSON `gorm:"type:jsonb" json:"permissions"`             // JSON array of permission names
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Users []User `gorm:"many2many:user_roles" json:"users,omitempty"`
}

// PermissionNames decodes the permissions JSON column.
func (r *Role) PermissionNames() []string {
	var names []string
	if len(r.Permissions) == 0 {
		return names
	}
	_ = json.Unmarshal(r.Permissions, &names)
	return names
}
