package controllers

import (
	"net/http"
	"strconv"

	"schoolhub-server/internal/logics"
	"schoolhub-server/internal/middlewares"
	"schoolhub-server/internal/models"
	"schoolhub-server/internal/repositories"

	"github.com/labstack/echo/v4"
)

type StoreNotificationRequest struct {
	Title      string   `json:"title" form:"title"`
	Message    string   `json:"message" form:"message"`
	SendTo     string   `json:"send_to" form:"send_to"`
	Roles      []string `json:"roles" form:"roles[]"`
	UserIDs    []string `json:"user_ids" form:"user_id[]"`
	AllUserIDs string   `json:"all_user_ids" form:"all_user_ids"`
	Image      string   `json:"image" form:"image"`
}

// pageResponse is the table payload consumed by the admin grid.
type pageResponse struct {
	Total int64       `json:"total"`
	Rows  interface{} `json:"rows"`
}

// listParamsFromQuery reads the grid paging query parameters.
func listParamsFromQuery(c echo.Context) repositories.ListParams {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return repositories.ListParams{
		Offset: offset,
		Limit:  limit,
		Sort:   c.QueryParam("sort"),
		Order:  c.QueryParam("order"),
		Search: c.QueryParam("search"),
	}
}

// StoreNotificationHandler stores a broadcast and dispatches it. When push
// delivery fails transiently the record is kept and the message says so.
// POST /notifications
func StoreNotificationHandler(c echo.Context) error {
	user, ok := middlewares.GetCurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please log in."})
	}

	req := new(StoreNotificationRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	warning, err := logics.NotificationSvc.Broadcast(c.Request().Context(), user, logics.BroadcastInput{
		Title:      req.Title,
		Message:    req.Message,
		SendTo:     models.SendTo(req.SendTo),
		Roles:      req.Roles,
		UserIDs:    req.UserIDs,
		AllUserIDs: req.AllUserIDs,
		Image:      req.Image,
	})
	if err != nil {
		return respondError(c, err)
	}

	message := "Data Stored Successfully"
	if warning != "" {
		message = warning
	}
	return respondOK(c, message)
}

// notificationRow adds the grid's running number to each announcement.
type notificationRow struct {
	No int `json:"no"`
	models.Notification
}

// ListNotificationsHandler returns a page of announcements.
// GET /notifications
func ListNotificationsHandler(c echo.Context) error {
	user, ok := middlewares.GetCurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please log in."})
	}

	params := listParamsFromQuery(c)
	total, notifications, err := logics.NotificationSvc.List(c.Request().Context(), user.SchoolID, params)
	if err != nil {
		return respondError(c, err)
	}

	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	rows := make([]notificationRow, 0, len(notifications))
	for i, n := range notifications {
		rows = append(rows, notificationRow{No: offset + i + 1, Notification: n})
	}
	return c.JSON(http.StatusOK, pageResponse{Total: total, Rows: rows})
}

// NotificationUserListHandler returns the recipient picker page for the
// broadcast form, optionally filtered by role.
// GET /notifications/users
func NotificationUserListHandler(c echo.Context) error {
	user, ok := middlewares.GetCurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please log in."})
	}

	var roles []string
	if role := c.QueryParam("role"); role != "" {
		roles = append(roles, role)
	}

	total, users, err := logics.NotificationSvc.ListUsers(c.Request().Context(), user.SchoolID, roles, listParamsFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}

	rows := make([]*UserResponse, 0, len(users))
	for i := range users {
		rows = append(rows, toUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, pageResponse{Total: total, Rows: rows})
}

// DeleteNotificationHandler removes an announcement.
// DELETE /notifications/:id
func DeleteNotificationHandler(c echo.Context) error {
	user, ok := middlewares.GetCurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please log in."})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}

	if err := logics.NotificationSvc.Delete(c.Request().Context(), user, uint(id)); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Data Deleted Successfully")
}
