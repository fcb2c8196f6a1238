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

type notificationServiceDeps struct {
	notifications *MockNotificationRepository
	users         *MockUserRepository
	fees          *MockFeeRepository
	settings      *MockSettingsRepository
	notifier      *MockNotifier
	audit         *MockAuditLogger
}

func newNotificationService(demoMode bool) (*logics.NotificationService, notificationServiceDeps) {
	deps := notificationServiceDeps{
		notifications: new(MockNotificationRepository),
		users:         new(MockUserRepository),
		fees:          new(MockFeeRepository),
		settings:      new(MockSettingsRepository),
		notifier:      new(MockNotifier),
		audit:         new(MockAuditLogger),
	}
	logger := zap.NewNop()
	settings := logics.NewSettingsService(deps.settings, noopCache{}, logger)
	service := logics.NewNotificationService(
		deps.notifications, deps.users, deps.fees, settings, deps.notifier, deps.audit, logger, demoMode)
	return service, deps
}

func broadcastActor() *models.User {
	return &models.User{
		ID:       "adm123456789",
		SchoolID: 1,
		Roles:    []models.Role{{Name: models.RoleSchoolAdmin}},
	}
}

func expectSessionYear(deps notificationServiceDeps) {
	deps.settings.On("DefaultSessionYear", mock.Anything, uint(1)).
		Return(&models.SessionYear{ID: 7, Name: "2026-2027", SchoolID: 1}, nil)
}

func TestNotificationService_Broadcast(t *testing.T) {
	ctx := context.Background()

	t.Run("specific users broadcast stores and dispatches", func(t *testing.T) {
		service, deps := newNotificationService(false)
		expectSessionYear(deps)

		deps.notifications.On("Transaction", ctx).Return(nil)
		deps.notifications.On("Create", ctx, mock.MatchedBy(func(n *models.Notification) bool {
			return n.Title == "Holiday" && n.SessionYearID == 7 && n.SchoolID == 1
		})).Return(nil)
		deps.notifier.On("Send", ctx, []string{"usr1", "usr2"}, "Holiday", "School closed", "notification", mock.Anything).Return(nil)
		deps.audit.On("AddLog", models.AuditLogTypeAnnouncementCreated, mock.Anything, mock.Anything).Return(nil)

		warning, err := service.Broadcast(ctx, broadcastActor(), logics.BroadcastInput{
			Title:   "Holiday",
			Message: "School closed",
			SendTo:  models.SendToSpecificUsers,
			UserIDs: []string{"usr1", "usr2"},
		})

		assert.NoError(t, err)
		assert.Empty(t, warning)
		deps.notifications.AssertExpectations(t)
		deps.notifier.AssertExpectations(t)
	})

	t.Run("transient delivery failure keeps the record with a warning", func(t *testing.T) {
		service, deps := newNotificationService(false)
		expectSessionYear(deps)

		deps.notifications.On("Transaction", ctx).Return(nil)
		deps.notifications.On("Create", ctx, mock.Anything).Return(nil)
		deps.notifier.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(auth.NewAuthError(auth.ErrDeliveryUnreachable, "push gateway unreachable"))
		deps.audit.On("AddLog", models.AuditLogTypeAnnouncementCreated, mock.Anything, mock.Anything).Return(nil)

		warning, err := service.Broadcast(ctx, broadcastActor(), logics.BroadcastInput{
			Title:   "Holiday",
			Message: "School closed",
			SendTo:  models.SendToSpecificUsers,
			UserIDs: []string{"usr1"},
		})

		assert.NoError(t, err)
		assert.Equal(t, logics.BroadcastWarning, warning)
	})

	t.Run("permanent delivery failure rolls the broadcast back", func(t *testing.T) {
		service, deps := newNotificationService(false)
		expectSessionYear(deps)

		deps.notifications.On("Transaction", ctx).Return(nil)
		deps.notifications.On("Create", ctx, mock.Anything).Return(nil)
		deps.notifier.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(auth.NewAuthError(auth.ErrUnexpected, "push gateway returned status 500"))

		_, err := service.Broadcast(ctx, broadcastActor(), logics.BroadcastInput{
			Title:   "Holiday",
			Message: "School closed",
			SendTo:  models.SendToSpecificUsers,
			UserIDs: []string{"usr1"},
		})

		assert.Error(t, err)
		deps.audit.AssertNotCalled(t, "AddLog", models.AuditLogTypeAnnouncementCreated, mock.Anything, mock.Anything)
	})

	t.Run("all users mode parses the comma list and deduplicates", func(t *testing.T) {
		service, deps := newNotificationService(false)
		expectSessionYear(deps)

		deps.notifications.On("Transaction", ctx).Return(nil)
		deps.notifications.On("Create", ctx, mock.Anything).Return(nil)
		deps.notifier.On("Send", ctx, []string{"usr1", "usr2", "usr3"}, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		deps.audit.On("AddLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		warning, err := service.Broadcast(ctx, broadcastActor(), logics.BroadcastInput{
			Title:      "Holiday",
			Message:    "School closed",
			SendTo:     models.SendToAllUsers,
			AllUserIDs: "usr1, usr2,usr3,,usr1",
		})

		assert.NoError(t, err)
		assert.Empty(t, warning)
		deps.notifier.AssertExpectations(t)
	})

	t.Run("roles mode reaches guardians through their children", func(t *testing.T) {
		service, deps := newNotificationService(false)
		expectSessionYear(deps)

		deps.users.On("IDsWithRoles", ctx, uint(1), []string{models.RoleTeacher}).Return([]string{"tch1"}, nil)
		deps.users.On("GuardianIDs", ctx, uint(1)).Return([]string{"grd1", "grd2"}, nil)
		deps.notifications.On("Transaction", ctx).Return(nil)
		deps.notifications.On("Create", ctx, mock.Anything).Return(nil)
		deps.notifier.On("Send", ctx, []string{"tch1", "grd1", "grd2"}, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		deps.audit.On("AddLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := service.Broadcast(ctx, broadcastActor(), logics.BroadcastInput{
			Title:   "PTA meeting",
			Message: "Friday at 5pm",
			SendTo:  models.SendToRoles,
			Roles:   []string{models.RoleTeacher, models.RoleGuardian},
		})

		assert.NoError(t, err)
		deps.users.AssertExpectations(t)
		deps.notifier.AssertExpectations(t)
	})

	t.Run("overdue fees mode targets unpaid students and their guardians", func(t *testing.T) {
		service, deps := newNotificationService(false)
		expectSessionYear(deps)

		fee := models.Fee{ID: 11, ClassID: 3, SchoolID: 1}
		deps.fees.On("OverdueFees", ctx, uint(1), mock.MatchedBy(func(before time.Time) bool {
			return !before.After(time.Now())
		})).Return([]models.Fee{fee}, nil)
		deps.users.On("OverdueFeeRecipients", ctx, fee).Return([]string{"stu1", "stu2"}, []string{"grd1"}, nil)
		deps.notifications.On("Transaction", ctx).Return(nil)
		deps.notifications.On("Create", ctx, mock.Anything).Return(nil)
		deps.notifier.On("Send", ctx, []string{"stu1", "stu2", "grd1"}, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		deps.audit.On("AddLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := service.Broadcast(ctx, broadcastActor(), logics.BroadcastInput{
			Title:   "Fee reminder",
			Message: "Please clear outstanding fees",
			SendTo:  models.SendToOverDueFees,
		})

		assert.NoError(t, err)
		deps.fees.AssertExpectations(t)
		deps.users.AssertExpectations(t)
	})

	t.Run("empty recipient list skips dispatch but stores the record", func(t *testing.T) {
		service, deps := newNotificationService(false)
		expectSessionYear(deps)

		deps.fees.On("OverdueFees", ctx, uint(1), mock.Anything).Return([]models.Fee{}, nil)
		deps.notifications.On("Transaction", ctx).Return(nil)
		deps.notifications.On("Create", ctx, mock.Anything).Return(nil)
		deps.audit.On("AddLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		warning, err := service.Broadcast(ctx, broadcastActor(), logics.BroadcastInput{
			Title:   "Fee reminder",
			Message: "Please clear outstanding fees",
			SendTo:  models.SendToOverDueFees,
		})

		assert.NoError(t, err)
		assert.Empty(t, warning)
		deps.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("demo mode blocks the broadcast", func(t *testing.T) {
		service, deps := newNotificationService(true)

		_, err := service.Broadcast(ctx, broadcastActor(), logics.BroadcastInput{
			Title:   "Holiday",
			Message: "School closed",
			SendTo:  models.SendToSpecificUsers,
			UserIDs: []string{"usr1"},
		})

		assert.True(t, auth.IsAuthError(err, auth.ErrDemoMode))
		deps.notifications.AssertNotCalled(t, "Transaction", mock.Anything)
	})

	t.Run("validation messages match the form fields", func(t *testing.T) {
		service, _ := newNotificationService(false)

		tests := []struct {
			name    string
			input   logics.BroadcastInput
			message string
		}{
			{"missing title", logics.BroadcastInput{Message: "m", SendTo: models.SendToOverDueFees}, "The title field is required."},
			{"missing message", logics.BroadcastInput{Title: "t", SendTo: models.SendToOverDueFees}, "The message field is required."},
			{"missing send_to", logics.BroadcastInput{Title: "t", Message: "m"}, "The send to field is required."},
			{"roles without selection", logics.BroadcastInput{Title: "t", Message: "m", SendTo: models.SendToRoles}, "The roles field is required."},
			{"specific users without ids", logics.BroadcastInput{Title: "t", Message: "m", SendTo: models.SendToSpecificUsers}, "The user id field is required."},
			{"all users without list", logics.BroadcastInput{Title: "t", Message: "m", SendTo: models.SendToAllUsers}, "The user id field is required."},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.Broadcast(ctx, broadcastActor(), tt.input)
				assert.True(t, auth.IsAuthError(err, auth.ErrValidation))
				assert.Equal(t, tt.message, auth.MessageOf(err, ""))
			})
		}
	})
}

func TestNotificationService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes scoped to the actor's school", func(t *testing.T) {
		service, deps := newNotificationService(false)
		actor := broadcastActor()

		deps.notifications.On("DeleteByID", ctx, uint(1), uint(42)).Return(nil)
		deps.audit.On("AddLog", models.AuditLogTypeAnnouncementDeleted, mock.Anything, mock.Anything).Return(nil)

		err := service.Delete(ctx, actor, 42)

		assert.NoError(t, err)
		deps.notifications.AssertExpectations(t)
	})

	t.Run("missing record maps to not found", func(t *testing.T) {
		service, deps := newNotificationService(false)

		deps.notifications.On("DeleteByID", ctx, uint(1), uint(42)).Return(gorm.ErrRecordNotFound)

		err := service.Delete(ctx, broadcastActor(), 42)

		assert.True(t, auth.IsAuthError(err, auth.ErrNotFound))
	})

	t.Run("demo mode blocks deletion", func(t *testing.T) {
		service, deps := newNotificationService(true)

		err := service.Delete(ctx, broadcastActor(), 42)

		assert.True(t, auth.IsAuthError(err, auth.ErrDemoMode))
		deps.notifications.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything, mock.Anything)
	})
}
