package logics_test

import (
	"context"
	"time"

	"schoolhub-server/internal/models"
	"schoolhub-server/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) SetTwoFactor(ctx context.Context, id, secret string, expiresAt time.Time) error {
	args := m.Called(ctx, id, secret, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) ExtendTwoFactor(ctx context.Context, id string, expiresAt time.Time) error {
	args := m.Called(ctx, id, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) ClearTwoFactor(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) IDsWithRoles(ctx context.Context, schoolID uint, roles []string) ([]string, error) {
	args := m.Called(ctx, schoolID, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserRepository) GuardianIDs(ctx context.Context, schoolID uint) ([]string, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserRepository) OverdueFeeRecipients(ctx context.Context, fee models.Fee) ([]string, []string, error) {
	args := m.Called(ctx, fee)
	var students, guardians []string
	if args.Get(0) != nil {
		students = args.Get(0).([]string)
	}
	if args.Get(1) != nil {
		guardians = args.Get(1).([]string)
	}
	return students, guardians, args.Error(2)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, schoolID uint, roles []string, p repositories.ListParams) (int64, []models.User, error) {
	args := m.Called(ctx, schoolID, roles, p)
	var users []models.User
	if args.Get(1) != nil {
		users = args.Get(1).([]models.User)
	}
	return args.Get(0).(int64), users, args.Error(2)
}

// MockNotificationRepository is a mock implementation of
// repositories.NotificationRepository. Transaction runs the callback against
// the mock itself, which keeps commit/rollback visible through the returned
// error.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Transaction(ctx context.Context, fn func(repositories.NotificationRepository) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m)
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) List(ctx context.Context, schoolID uint, p repositories.ListParams) (int64, []models.Notification, error) {
	args := m.Called(ctx, schoolID, p)
	var rows []models.Notification
	if args.Get(1) != nil {
		rows = args.Get(1).([]models.Notification)
	}
	return args.Get(0).(int64), rows, args.Error(2)
}

func (m *MockNotificationRepository) ListRecent(ctx context.Context, schoolID uint, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, schoolID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) DeleteByID(ctx context.Context, schoolID, id uint) error {
	args := m.Called(ctx, schoolID, id)
	return args.Error(0)
}

// MockFeeRepository is a mock implementation of repositories.FeeRepository
type MockFeeRepository struct {
	mock.Mock
}

func (m *MockFeeRepository) OverdueFees(ctx context.Context, schoolID uint, before time.Time) ([]models.Fee, error) {
	args := m.Called(ctx, schoolID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fee), args.Error(1)
}

// MockSettingsRepository is a mock implementation of
// repositories.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) UpsertSetting(ctx context.Context, name, data, valueType string) error {
	args := m.Called(ctx, name, data, valueType)
	return args.Error(0)
}

func (m *MockSettingsRepository) GetSetting(ctx context.Context, name string) (*models.SystemSetting, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SystemSetting), args.Error(1)
}

func (m *MockSettingsRepository) AllSettings(ctx context.Context) ([]models.SystemSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SystemSetting), args.Error(1)
}

func (m *MockSettingsRepository) DefaultSessionYear(ctx context.Context, schoolID uint) (*models.SessionYear, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionYear), args.Error(1)
}

// MockAttemptStore is a mock implementation of logics.AttemptStore
type MockAttemptStore struct {
	mock.Mock
}

func (m *MockAttemptStore) Increment(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockAttemptStore) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockMailer is a mock implementation of logics.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}

// MockNotifier is a mock implementation of logics.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, userIDs []string, title, body, messageType string, data map[string]string) error {
	args := m.Called(ctx, userIDs, title, body, messageType, data)
	return args.Error(0)
}

// MockAuditLogger is a mock implementation of logics.AuditLogger
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) AddLog(logType models.AuditLogType, content interface{}, userID *string) error {
	args := m.Called(logType, content, userID)
	return args.Error(0)
}

// noopCache is a SettingsCache that always misses.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string) (string, bool) { return "", false }

func (noopCache) Set(ctx context.Context, key, value string, ttl time.Duration) {}

func (noopCache) Del(ctx context.Context, key string) {}
