package logics_test

import (
	"context"
	"testing"
	"time"

	"schoolhub-server/internal/auth"
	"schoolhub-server/internal/logics"
	"schoolhub-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func hashedUser(password string) *models.User {
	hash, _ := auth.HashPassword(password)
	return &models.User{
		ID:        "usr123456789",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  hash,
		SchoolID:  1,
	}
}

type authServiceDeps struct {
	users    *MockUserRepository
	attempts *MockAttemptStore
	mailer   *MockMailer
	audit    *MockAuditLogger
	settings *MockSettingsRepository
}

func newAuthService(demoMode bool) (*logics.AuthService, authServiceDeps) {
	deps := authServiceDeps{
		users:    new(MockUserRepository),
		attempts: new(MockAttemptStore),
		mailer:   new(MockMailer),
		audit:    new(MockAuditLogger),
		settings: new(MockSettingsRepository),
	}
	logger := zap.NewNop()
	twoFactor := logics.NewTwoFactorService(deps.users, deps.attempts, deps.mailer, deps.audit, logger, 3, 24*time.Hour)
	settings := logics.NewSettingsService(deps.settings, noopCache{}, logger)
	service := logics.NewAuthService(deps.users, twoFactor, settings, deps.audit, logger, demoMode)
	return service, deps
}

func TestAuthService_LoginWithPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials with lapsed verification require a code", func(t *testing.T) {
		service, deps := newAuthService(false)
		user := hashedUser("secret-password")

		deps.users.On("FindByEmail", ctx, user.Email).Return(user, nil)
		deps.users.On("SetTwoFactor", ctx, user.ID, mock.Anything, mock.Anything).Return(nil)
		deps.mailer.On("Send", user.Email, mock.Anything, mock.Anything).Return(nil)
		deps.audit.On("AddLog", models.AuditLogTypeLoginSuccess, mock.Anything, &user.ID).Return(nil)

		result, err := service.LoginWithPassword(ctx, user.Email, "secret-password")

		assert.NoError(t, err)
		assert.True(t, result.TwoFactorRequired)
		deps.users.AssertExpectations(t)
		deps.mailer.AssertExpectations(t)
	})

	t.Run("valid credentials inside the verified window skip the code", func(t *testing.T) {
		service, deps := newAuthService(false)
		user := hashedUser("secret-password")
		future := time.Now().Add(12 * time.Hour)
		user.TwoFactorExpiresAt = &future

		deps.users.On("FindByEmail", ctx, user.Email).Return(user, nil)
		deps.audit.On("AddLog", models.AuditLogTypeLoginSuccess, mock.Anything, &user.ID).Return(nil)

		result, err := service.LoginWithPassword(ctx, user.Email, "secret-password")

		assert.NoError(t, err)
		assert.False(t, result.TwoFactorRequired)
		deps.users.AssertNotCalled(t, "SetTwoFactor", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong password is rejected with a generic message", func(t *testing.T) {
		service, deps := newAuthService(false)
		user := hashedUser("secret-password")

		deps.users.On("FindByEmail", ctx, user.Email).Return(user, nil)
		deps.audit.On("AddLog", models.AuditLogTypeLoginFailure, mock.Anything, &user.ID).Return(nil)

		_, err := service.LoginWithPassword(ctx, user.Email, "wrong-password")

		assert.Error(t, err)
		assert.True(t, auth.IsAuthError(err, auth.ErrInvalidCredentials))
	})

	t.Run("unknown email gets the same message as a wrong password", func(t *testing.T) {
		service, deps := newAuthService(false)

		deps.users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
		deps.audit.On("AddLog", models.AuditLogTypeLoginFailure, mock.Anything, (*string)(nil)).Return(nil)

		_, err := service.LoginWithPassword(ctx, "nobody@example.com", "whatever1")

		assert.Error(t, err)
		assert.Equal(t, "Invalid email or password.", auth.MessageOf(err, ""))
	})

	t.Run("code email failure does not block the login", func(t *testing.T) {
		service, deps := newAuthService(false)
		user := hashedUser("secret-password")

		deps.users.On("FindByEmail", ctx, user.Email).Return(user, nil)
		deps.users.On("SetTwoFactor", ctx, user.ID, mock.Anything, mock.Anything).Return(nil)
		deps.mailer.On("Send", user.Email, mock.Anything, mock.Anything).Return(assert.AnError)
		deps.audit.On("AddLog", models.AuditLogTypeLoginSuccess, mock.Anything, &user.ID).Return(nil)

		result, err := service.LoginWithPassword(ctx, user.Email, "secret-password")

		assert.NoError(t, err)
		assert.True(t, result.TwoFactorRequired)
	})

	t.Run("missing fields are rejected before any lookup", func(t *testing.T) {
		service, deps := newAuthService(false)

		_, err := service.LoginWithPassword(ctx, "", "")

		assert.True(t, auth.IsAuthError(err, auth.ErrValidation))
		deps.users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	service, deps := newAuthService(false)

	deps.users.On("ClearTwoFactor", ctx, "usr123456789").Return(nil)
	deps.audit.On("AddLog", models.AuditLogTypeLogout, mock.Anything, mock.Anything).Return(nil)

	err := service.Logout(ctx, "usr123456789")

	assert.NoError(t, err)
	deps.users.AssertExpectations(t)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("demo mode blocks the change", func(t *testing.T) {
		service, deps := newAuthService(true)

		err := service.ChangePassword(ctx, "usr123456789", "old-password", "new-password", "new-password")

		assert.True(t, auth.IsAuthError(err, auth.ErrDemoMode))
		assert.Equal(t, "This is not allowed in the Demo Version.", auth.MessageOf(err, ""))
		deps.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("validation runs before the password check", func(t *testing.T) {
		service, _ := newAuthService(false)

		tests := []struct {
			name    string
			old     string
			new     string
			confirm string
			message string
		}{
			{"missing old password", "", "new-password", "new-password", "The old password field is required."},
			{"short new password", "old-password", "short", "short", "The new password must be at least 8 characters."},
			{"confirm mismatch", "old-password", "new-password", "different", "The confirm password does not match."},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := service.ChangePassword(ctx, "usr123456789", tt.old, tt.new, tt.confirm)
				assert.True(t, auth.IsAuthError(err, auth.ErrValidation))
				assert.Equal(t, tt.message, auth.MessageOf(err, ""))
			})
		}
	})

	t.Run("wrong old password is rejected", func(t *testing.T) {
		service, deps := newAuthService(false)
		user := hashedUser("old-password")

		deps.users.On("FindByID", ctx, user.ID).Return(user, nil)

		err := service.ChangePassword(ctx, user.ID, "not-the-old", "new-password", "new-password")

		assert.True(t, auth.IsAuthError(err, auth.ErrInvalidCredentials))
		assert.Equal(t, "Invalid old password.", auth.MessageOf(err, ""))
	})

	t.Run("valid change stores a new hash", func(t *testing.T) {
		service, deps := newAuthService(false)
		user := hashedUser("old-password")

		deps.users.On("FindByID", ctx, user.ID).Return(user, nil)
		deps.users.On("UpdateFields", ctx, user.ID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			hash, ok := fields["password"].(string)
			return ok && auth.VerifyPassword(hash, "new-password") == nil
		})).Return(nil)
		deps.audit.On("AddLog", models.AuditLogTypePasswordChanged, mock.Anything, mock.Anything).Return(nil)

		err := service.ChangePassword(ctx, user.ID, "old-password", "new-password", "new-password")

		assert.NoError(t, err)
		deps.users.AssertExpectations(t)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	validInput := logics.ProfileInput{
		FirstName: "Jane",
		LastName:  "Smith",
		Email:     "jane@example.com",
	}

	t.Run("demo mode blocks the update", func(t *testing.T) {
		service, _ := newAuthService(true)

		_, err := service.UpdateProfile(ctx, "usr123456789", validInput)

		assert.True(t, auth.IsAuthError(err, auth.ErrDemoMode))
	})

	t.Run("taken email is rejected", func(t *testing.T) {
		service, deps := newAuthService(false)
		user := hashedUser("secret-password")

		deps.users.On("FindByID", ctx, user.ID).Return(user, nil)
		deps.users.On("EmailTaken", ctx, validInput.Email, user.ID).Return(true, nil)

		_, err := service.UpdateProfile(ctx, user.ID, validInput)

		assert.True(t, auth.IsAuthError(err, auth.ErrValidation))
		assert.Equal(t, "The email has already been taken.", auth.MessageOf(err, ""))
	})

	t.Run("super admin name is mirrored into settings", func(t *testing.T) {
		service, deps := newAuthService(false)
		user := hashedUser("secret-password")
		user.Roles = []models.Role{{Name: models.RoleSuperAdmin}}

		deps.users.On("FindByID", ctx, user.ID).Return(user, nil)
		deps.users.On("EmailTaken", ctx, validInput.Email, user.ID).Return(false, nil)
		deps.users.On("UpdateFields", ctx, user.ID, mock.Anything).Return(nil)
		deps.settings.On("UpsertSetting", ctx, models.SettingSuperAdminName, "Jane Smith", "string").Return(nil)
		deps.audit.On("AddLog", models.AuditLogTypeProfileUpdated, mock.Anything, mock.Anything).Return(nil)

		_, err := service.UpdateProfile(ctx, user.ID, validInput)

		assert.NoError(t, err)
		deps.settings.AssertExpectations(t)
	})

	t.Run("regular user does not touch settings", func(t *testing.T) {
		service, deps := newAuthService(false)
		user := hashedUser("secret-password")
		user.Roles = []models.Role{{Name: models.RoleTeacher}}

		deps.users.On("FindByID", ctx, user.ID).Return(user, nil)
		deps.users.On("EmailTaken", ctx, validInput.Email, user.ID).Return(false, nil)
		deps.users.On("UpdateFields", ctx, user.ID, mock.Anything).Return(nil)
		deps.audit.On("AddLog", models.AuditLogTypeProfileUpdated, mock.Anything, mock.Anything).Return(nil)

		_, err := service.UpdateProfile(ctx, user.ID, validInput)

		assert.NoError(t, err)
		deps.settings.AssertNotCalled(t, "UpsertSetting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("required fields are validated", func(t *testing.T) {
		service, _ := newAuthService(false)

		_, err := service.UpdateProfile(ctx, "usr123456789", logics.ProfileInput{LastName: "Smith", Email: "a@b.c"})

		assert.True(t, auth.IsAuthError(err, auth.ErrValidation))
		assert.Equal(t, "The first name field is required.", auth.MessageOf(err, ""))
	})
}

func TestAuthService_CheckPassword(t *testing.T) {
	ctx := context.Background()
	service, deps := newAuthService(false)
	user := hashedUser("secret-password")

	deps.users.On("FindByID", ctx, user.ID).Return(user, nil)

	assert.NoError(t, service.CheckPassword(ctx, user.ID, "secret-password"))
	assert.True(t, auth.IsAuthError(service.CheckPassword(ctx, user.ID, "nope"), auth.ErrInvalidCredentials))
}
