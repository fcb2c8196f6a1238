package logics

import (
	"context"
	"errors"
	"strings"
	"time"

	"schoolhub-server/internal/auth"
	"schoolhub-server/internal/models"
	"schoolhub-server/internal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoginResult is the outcome of a password check. When TwoFactorRequired is
// set the caller must park the user in the pending-verification state instead
// of opening a full session.
type LoginResult struct {
	User              *models.User
	TwoFactorRequired bool
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	FirstName        string
	LastName         string
	Email            string
	Mobile           string
	Gender           string
	Dob              *time.Time
	CurrentAddress   string
	PermanentAddress string
	Image            string
}

// AuthService owns login, logout, password and profile flows.
type AuthService struct {
	users       repositories.UserRepository
	twoFactor   *TwoFactorService
	settings    *SettingsService
	auditLogger AuditLogger
	logger      *zap.Logger
	demoMode    bool
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users repositories.UserRepository,
	twoFactor *TwoFactorService,
	settings *SettingsService,
	auditLogger AuditLogger,
	logger *zap.Logger,
	demoMode bool,
) *AuthService {
	return &AuthService{
		users:       users,
		twoFactor:   twoFactor,
		settings:    settings,
		auditLogger: auditLogger,
		logger:      logger,
		demoMode:    demoMode,
	}
}

// LoginWithPassword checks the credentials and, when the last verification
// has lapsed, issues a fresh emailed code. A failed code email does not block
// the login; the user can request a resend from the verification page.
func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, auth.NewAuthError(auth.ErrValidation, "Email and password are required.")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.audit(models.AuditLogTypeLoginFailure, map[string]string{"email": email}, nil)
			return nil, auth.NewAuthError(auth.ErrInvalidCredentials, "Invalid email or password.")
		}
		return nil, auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		s.audit(models.AuditLogTypeLoginFailure, map[string]string{"email": email}, &user.ID)
		return nil, auth.NewAuthError(auth.ErrInvalidCredentials, "Invalid email or password.")
	}

	result := &LoginResult{User: user}
	if s.twoFactor.NeedsVerification(user) {
		result.TwoFactorRequired = true
		if err := s.twoFactor.IssueCode(ctx, user); err != nil {
			s.logger.Warn("Verification code issue failed on login",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
	}

	s.audit(models.AuditLogTypeLoginSuccess, map[string]interface{}{
		"email":               email,
		"two_factor_required": result.TwoFactorRequired,
	}, &user.ID)
	return result, nil
}

// Logout clears the remembered verification so the next login asks for a
// code again. The caller flushes the session.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.ClearTwoFactor(ctx, userID); err != nil {
		return auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}
	s.audit(models.AuditLogTypeLogout, map[string]string{}, &userID)
	return nil
}

// CheckPassword verifies the current user's password, used as a confirmation
// step before sensitive screens.
func (s *AuthService) CheckPassword(ctx context.Context, userID, password string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return auth.NewAuthErrorWithCause(auth.ErrNotFound, "User not found.", err)
	}
	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return auth.NewAuthError(auth.ErrInvalidCredentials, "Invalid password.")
	}
	return nil
}

// ChangePassword replaces the user's password after checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) error {
	if s.demoMode {
		return auth.NewAuthError(auth.ErrDemoMode, "This is not allowed in the Demo Version.")
	}

	if oldPassword == "" {
		return auth.NewAuthError(auth.ErrValidation, "The old password field is required.")
	}
	if len(newPassword) < 8 {
		return auth.NewAuthError(auth.ErrValidation, "The new password must be at least 8 characters.")
	}
	if newPassword != confirmPassword {
		return auth.NewAuthError(auth.ErrValidation, "The confirm password does not match.")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return auth.NewAuthErrorWithCause(auth.ErrNotFound, "User not found.", err)
	}

	if err := auth.VerifyPassword(user.Password, oldPassword); err != nil {
		return auth.NewAuthError(auth.ErrInvalidCredentials, "Invalid old password.")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]interface{}{"password": hash}); err != nil {
		return auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}

	s.audit(models.AuditLogTypePasswordChanged, map[string]string{}, &userID)
	return nil
}

// UpdateProfile validates and persists profile edits. When the acting user is
// the Super Admin the display name is mirrored into global settings so other
// screens pick it up without a user lookup.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*models.User, error) {
	if s.demoMode {
		return nil, auth.NewAuthError(auth.ErrDemoMode, "This is not allowed in the Demo Version.")
	}

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)

	if input.FirstName == "" {
		return nil, auth.NewAuthError(auth.ErrValidation, "The first name field is required.")
	}
	if input.LastName == "" {
		return nil, auth.NewAuthError(auth.ErrValidation, "The last name field is required.")
	}
	if input.Email == "" {
		return nil, auth.NewAuthError(auth.ErrValidation, "The email field is required.")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, auth.NewAuthErrorWithCause(auth.ErrNotFound, "User not found.", err)
	}

	taken, err := s.users.EmailTaken(ctx, input.Email, userID)
	if err != nil {
		return nil, auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}
	if taken {
		return nil, auth.NewAuthError(auth.ErrValidation, "The email has already been taken.")
	}

	fields := map[string]interface{}{
		"first_name":        input.FirstName,
		"last_name":         input.LastName,
		"email":             input.Email,
		"mobile":            input.Mobile,
		"gender":            input.Gender,
		"current_address":   input.CurrentAddress,
		"permanent_address": input.PermanentAddress,
	}
	if input.Dob != nil {
		fields["dob"] = *input.Dob
	}
	if input.Image != "" {
		fields["image"] = input.Image
	}
	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		return nil, auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}

	if user.HasRole(models.RoleSuperAdmin) {
		fullName := input.FirstName + " " + input.LastName
		if err := s.settings.UpsertSuperAdminName(ctx, fullName); err != nil {
			s.logger.Warn("Super admin name mirror failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	s.audit(models.AuditLogTypeProfileUpdated, map[string]string{"email": input.Email}, &userID)

	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}
	return updated, nil
}

func (s *AuthService) audit(logType models.AuditLogType, content interface{}, userID *string) {
	if err := s.auditLogger.AddLog(logType, content, userID); err != nil {
		s.logger.Warn("Audit log write failed", zap.String("type", string(logType)), zap.Error(err))
	}
}
