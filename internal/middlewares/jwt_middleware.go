package middlewares

import (
	"net/http"
	"strings"

	"schoolhub-server/internal/auth"
	"schoolhub-server/internal/logics"

	"github.com/labstack/echo/v4"
)

// userIDKey is the context key the token subject is stored under.
const userIDKey = "user_id"

// JWTMiddleware extracts the Bearer token from the Authorization header,
// verifies it and stores the "sub" claim (user id) in the context.
func JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header format"})
		}

		userID, err := logics.TokenSvc.ParseAccessToken(parts[1])
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

// GetUserIDFromContext returns the user id set by JWTMiddleware.
func GetUserIDFromContext(c echo.Context) (string, error) {
	uid := c.Get(userIDKey)
	if uid == nil {
		return "", auth.NewAuthError(auth.ErrUnexpected, "user id not found in context")
	}
	userID, ok := uid.(string)
	if !ok {
		return "", auth.NewAuthError(auth.ErrUnexpected, "user id has invalid type")
	}
	return userID, nil
}
