package controllers

import (
	"net/http"

	"schoolhub-server/internal/logics"
	"schoolhub-server/internal/middlewares"
	"schoolhub-server/internal/repositories"

	"github.com/labstack/echo/v4"
)

type VerifyCodeRequest struct {
	Code string `json:"code" form:"code"`
}

type VerifyCodeResponse struct {
	Error             bool          `json:"error"`
	Message           string        `json:"message"`
	RemainingAttempts int           `json:"remaining_attempts,omitempty"`
	AccessToken       string        `json:"access_token,omitempty"`
	User              *UserResponse `json:"user,omitempty"`
}

// VerifyCodeHandler checks the emailed code for the pending login.
//
// A correct code promotes the pending session to an authenticated one and
// issues the API token. Exhausting the attempt budget flushes the session so
// the user starts over at the login page.
// POST /auth/verify-code
func VerifyCodeHandler(c echo.Context) error {
	userID, ok := middlewares.GetPendingUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "No verification is pending. Please log in again."})
	}

	req := new(VerifyCodeRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	result, err := logics.TwoFactorSvc.VerifyCode(c.Request().Context(), userID, req.Code)
	if err != nil {
		return respondError(c, err)
	}

	switch result.Outcome {
	case logics.VerifyOK:
		sess, err := middlewares.GetSessionFromContext(c)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session error"})
		}
		delete(sess.Values, middlewares.SessionKeyPendingUserID)
		sess.Values[middlewares.SessionKeyAuthUserID] = userID
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session error"})
		}

		token, err := logics.TokenSvc.GenerateAccessToken(userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "token error"})
		}

		var userResp *UserResponse
		if user, err := repositories.NewUserRepository(repositories.DBS.Postgres).FindByID(c.Request().Context(), userID); err == nil {
			userResp = toUserResponse(user)
		}

		return c.JSON(http.StatusOK, VerifyCodeResponse{
			Message:     result.Message,
			AccessToken: token,
			User:        userResp,
		})

	case logics.VerifyLocked:
		// Full teardown; the next request gets a fresh session id.
		if err := middlewares.FlushSession(c); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session error"})
		}
		return c.JSON(http.StatusUnauthorized, VerifyCodeResponse{
			Error:   true,
			Message: result.Message,
		})

	default:
		return c.JSON(http.StatusUnprocessableEntity, VerifyCodeResponse{
			Error:             true,
			Message:           result.Message,
			RemainingAttempts: result.RemainingAttempts,
		})
	}
}

// ResendCodeHandler emails a fresh code to the pending user, replacing the
// previous one.
// POST /auth/resend-code
func ResendCodeHandler(c echo.Context) error {
	userID, ok := middlewares.GetPendingUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "No verification is pending. Please log in again."})
	}

	userRepo := repositories.NewUserRepository(repositories.DBS.Postgres)
	user, err := userRepo.FindByID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not found."})
	}

	if err := logics.TwoFactorSvc.IssueCode(c.Request().Context(), user); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "A new verification code has been sent.")
}
