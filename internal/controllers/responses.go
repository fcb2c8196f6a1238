package controllers

import (
	"errors"
	"net/http"

	"schoolhub-server/internal/auth"

	"github.com/labstack/echo/v4"
)

// apiResponse is the envelope used by mutation endpoints.
type apiResponse struct {
	Error   bool        `json:"error"`
	Message string      `json:"message"`
	Code    int         `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// demoModeCode flags a mutation that demo mode blocked, so the client shows
// the banner instead of a generic failure.
const demoModeCode = 112

// respondError maps a service error to the right status and envelope.
// Unexpected errors surface only the generic message.
func respondError(c echo.Context, err error) error {
	var authErr *auth.AuthError
	if !errors.As(err, &authErr) {
		return c.JSON(http.StatusInternalServerError, apiResponse{
			Error:   true,
			Message: "Something went wrong. Please try again.",
		})
	}

	switch authErr.Code {
	case auth.ErrDemoMode:
		return c.JSON(http.StatusOK, apiResponse{
			Error:   true,
			Message: authErr.Message,
			Code:    demoModeCode,
		})
	case auth.ErrValidation:
		return c.JSON(http.StatusUnprocessableEntity, apiResponse{Error: true, Message: authErr.Message})
	case auth.ErrInvalidCredentials, auth.ErrInvalidCode:
		return c.JSON(http.StatusUnauthorized, apiResponse{Error: true, Message: authErr.Message})
	case auth.ErrLockout:
		return c.JSON(http.StatusTooManyRequests, apiResponse{Error: true, Message: authErr.Message})
	case auth.ErrNotFound:
		return c.JSON(http.StatusNotFound, apiResponse{Error: true, Message: authErr.Message})
	default:
		return c.JSON(http.StatusInternalServerError, apiResponse{
			Error:   true,
			Message: "Something went wrong. Please try again.",
		})
	}
}

func respondOK(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, apiResponse{Error: false, Message: message})
}
