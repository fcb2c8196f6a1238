package controllers

import (
	"net/http"
	"time"

	"schoolhub-server/internal/logics"
	"schoolhub-server/internal/middlewares"
	"schoolhub-server/internal/models"
	"schoolhub-server/internal/repositories"

	"github.com/labstack/echo/v4"
)

// Request structs
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type CheckPasswordRequest struct {
	Password string `json:"password" form:"password"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" form:"old_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type UpdateProfileRequest struct {
	FirstName        string `json:"first_name" form:"first_name"`
	LastName         string `json:"last_name" form:"last_name"`
	Email            string `json:"email" form:"email"`
	Mobile           string `json:"mobile" form:"mobile"`
	Gender           string `json:"gender" form:"gender"`
	Dob              string `json:"dob" form:"dob"`
	CurrentAddress   string `json:"current_address" form:"current_address"`
	PermanentAddress string `json:"permanent_address" form:"permanent_address"`
	Image            string `json:"image" form:"image"`
}

// Response structs
type UserResponse struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Mobile    string   `json:"mobile,omitempty"`
	Image     string   `json:"image,omitempty"`
	Roles     []string `json:"roles"`
}

type LoginResponse struct {
	TwoFactorRequired bool          `json:"two_factor_required"`
	AccessToken       string        `json:"access_token,omitempty"`
	User              *UserResponse `json:"user,omitempty"`
}

func toUserResponse(user *models.User) *UserResponse {
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Name)
	}
	return &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Mobile:    user.Mobile,
		Image:     user.Image,
		Roles:     roles,
	}
}

// LoginStateHandler reports where the session is in the login flow so the
// client can route to the right screen.
// GET /auth/login
func LoginStateHandler(c echo.Context) error {
	sess, err := middlewares.GetSessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]string{"state": "guest"})
	}

	if userID, ok := sess.Values[middlewares.SessionKeyAuthUserID].(string); ok && userID != "" {
		user, err := repositories.NewUserRepository(repositories.DBS.Postgres).FindByID(c.Request().Context(), userID)
		if err == nil {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"state": "authenticated",
				"user":  toUserResponse(user),
			})
		}
	}
	if _, ok := middlewares.GetPendingUserID(c); ok {
		return c.JSON(http.StatusOK, map[string]string{"state": "two_factor_pending"})
	}
	return c.JSON(http.StatusOK, map[string]string{"state": "guest"})
}

// LoginHandler checks the password and either opens a full session or parks
// the user in the pending-verification state.
// POST /auth/login
func LoginHandler(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	result, err := logics.AuthSvc.LoginWithPassword(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	sess, err := middlewares.GetSessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session error"})
	}

	if result.TwoFactorRequired {
		// No full session yet; only the pending marker survives.
		delete(sess.Values, middlewares.SessionKeyAuthUserID)
		sess.Values[middlewares.SessionKeyPendingUserID] = result.User.ID
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session error"})
		}
		return c.JSON(http.StatusOK, LoginResponse{TwoFactorRequired: true})
	}

	delete(sess.Values, middlewares.SessionKeyPendingUserID)
	sess.Values[middlewares.SessionKeyAuthUserID] = result.User.ID
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session error"})
	}

	token, err := logics.TokenSvc.GenerateAccessToken(result.User.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "token error"})
	}

	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		User:        toUserResponse(result.User),
	})
}

// LogoutHandler forgets the remembered verification and flushes the session.
// POST /auth/logout
func LogoutHandler(c echo.Context) error {
	user, ok := middlewares.GetCurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please log in."})
	}

	if err := logics.AuthSvc.Logout(c.Request().Context(), user.ID); err != nil {
		return respondError(c, err)
	}

	if err := middlewares.FlushSession(c); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session error"})
	}
	return respondOK(c, "Logged out successfully.")
}

// CheckPasswordHandler confirms the current user's password before sensitive
// screens.
// POST /auth/check-password
func CheckPasswordHandler(c echo.Context) error {
	user, ok := middlewares.GetCurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please log in."})
	}

	req := new(CheckPasswordRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if err := logics.AuthSvc.CheckPassword(c.Request().Context(), user.ID, req.Password); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Password confirmed.")
}

// ChangePasswordHandler replaces the current user's password.
// POST /auth/change-password
func ChangePasswordHandler(c echo.Context) error {
	user, ok := middlewares.GetCurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please log in."})
	}

	req := new(ChangePasswordRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	err := logics.AuthSvc.ChangePassword(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Password changed successfully.")
}

// ProfileHandler returns the current user's profile.
// GET /auth/profile
func ProfileHandler(c echo.Context) error {
	user, ok := middlewares.GetCurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please log in."})
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfileHandler validates and stores profile edits.
// POST /auth/profile
func UpdateProfileHandler(c echo.Context) error {
	user, ok := middlewares.GetCurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please log in."})
	}

	req := new(UpdateProfileRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	input := logics.ProfileInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Mobile:           req.Mobile,
		Gender:           req.Gender,
		CurrentAddress:   req.CurrentAddress,
		PermanentAddress: req.PermanentAddress,
		Image:            req.Image,
	}
	if req.Dob != "" {
		dob, err := time.Parse("2006-01-02", req.Dob)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, apiResponse{Error: true, Message: "The dob is not a valid date."})
		}
		input.Dob = &dob
	}

	updated, err := logics.AuthSvc.UpdateProfile(c.Request().Context(), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{
		Error:   false,
		Message: "Profile updated successfully.",
		Data:    toUserResponse(updated),
	})
}
