package controllers

import (
	"net/http"
	"strconv"

	"schoolhub-server/internal/logics"
	"schoolhub-server/internal/middlewares"
	"schoolhub-server/internal/repositories"

	"github.com/labstack/echo/v4"
)

// AnnouncementsHandler returns the latest announcements for the token
// holder's school, consumed by the mobile apps.
// GET /api/announcements
func AnnouncementsHandler(c echo.Context) error {
	userID, err := middlewares.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	user, err := repositories.NewUserRepository(repositories.DBS.Postgres).FindByID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not found."})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rows, err := logics.NotificationSvc.ListRecent(c.Request().Context(), user.SchoolID, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  rows,
	})
}
