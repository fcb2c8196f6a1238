package middlewares

import (
	"net/http"

	"schoolhub-server/internal/logics"
	"schoolhub-server/internal/models"
	"schoolhub-server/internal/repositories"

	"github.com/labstack/echo/v4"
)

// currentUserKey is the context key the authenticated user is stored under.
const currentUserKey = "current_user"

// AuthMiddleware resolves the logged-in user from the session and stores it
// in the context. Requests holding only a pending two-factor state are not
// authenticated.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := GetSessionFromContext(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Session error. Please log in again."})
		}

		userID, ok := sess.Values[SessionKeyAuthUserID].(string)
		if !ok || userID == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please log in."})
		}

		var user models.User
		if err := repositories.DBS.Postgres.Preload("Roles").First(&user, "id = ?", userID).Error; err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not found."})
		}

		c.Set(currentUserKey, &user)
		return next(c)
	}
}

// GetCurrentUser returns the user stored by AuthMiddleware.
func GetCurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(currentUserKey).(*models.User)
	return user, ok
}

// GetPendingUserID returns the user id parked by a password login that still
// needs code verification.
func GetPendingUserID(c echo.Context) (string, bool) {
	sess, err := GetSessionFromContext(c)
	if err != nil {
		return "", false
	}
	userID, ok := sess.Values[SessionKeyPendingUserID].(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// RequirePermission gates a route on a named permission. Must be chained
// after AuthMiddleware.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := GetCurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please log in."})
			}

			decision := logics.PolicySvc.Evaluate(user, permission)
			if !decision.Allowed {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "You do not have permission to access this page."})
			}
			return next(c)
		}
	}
}
