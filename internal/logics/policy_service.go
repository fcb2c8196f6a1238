package logics

import (
	"schoolhub-server/internal/models"
)

// Permission names checked by the announcement screens.
const (
	PermNotificationList   = "notification-list"
	PermNotificationCreate = "notification-create"
	PermNotificationDelete = "notification-delete"
)

// Decision is the outcome of a permission check.
type Decision struct {
	Allowed bool
	Reason  string
}

// PolicyService centralizes permission checks so handlers never inspect role
// rows directly.
type PolicyService struct{}

// NewPolicyService creates a new PolicyService.
func NewPolicyService() *PolicyService {
	return &PolicyService{}
}

// Evaluate checks whether the user holds the named permission through any of
// their roles. Super Admin bypasses individual permission rows.
func (s *PolicyService) Evaluate(user *models.User, permission string) Decision {
	if user == nil {
		return Decision{Allowed: false, Reason: "not authenticated"}
	}
	if user.HasRole(models.RoleSuperAdmin) {
		return Decision{Allowed: true, Reason: "super admin"}
	}
	for _, role := range user.Roles {
		for _, name := range role.PermissionNames() {
			if name == permission {
				return Decision{Allowed: true, Reason: "role " + role.Name}
			}
		}
	}
	return Decision{Allowed: false, Reason: "missing permission " + permission}
}
