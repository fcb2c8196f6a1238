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

// BroadcastWarning is returned alongside a stored announcement when push
// delivery failed transiently.
const BroadcastWarning = "Data Stored successfully. But App push notification not send."

// BroadcastInput carries a broadcast request. Exactly one recipient source is
// consulted, selected by SendTo.
type BroadcastInput struct {
	Title      string
	Message    string
	SendTo     models.SendTo
	Roles      []string // SendToRoles: selected role names
	UserIDs    []string // SendToSpecificUsers: explicit ID list
	AllUserIDs string   // SendToAllUsers: comma-separated pre-resolved IDs
	Image      string
}

// NotificationService owns announcement broadcast, listing and deletion.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	fees          repositories.FeeRepository
	settings      *SettingsService
	notifier      Notifier
	auditLogger   AuditLogger
	logger        *zap.Logger
	demoMode      bool
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	fees repositories.FeeRepository,
	settings *SettingsService,
	notifier Notifier,
	auditLogger AuditLogger,
	logger *zap.Logger,
	demoMode bool,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		fees:          fees,
		settings:      settings,
		notifier:      notifier,
		auditLogger:   auditLogger,
		logger:        logger,
		demoMode:      demoMode,
	}
}

// Broadcast stores the announcement and dispatches it to the resolved
// recipients inside one transaction. A transient delivery failure keeps the
// stored record and surfaces a warning; any other failure rolls the record
// back.
func (s *NotificationService) Broadcast(ctx context.Context, actor *models.User, input BroadcastInput) (string, error) {
	if s.demoMode {
		return "", auth.NewAuthError(auth.ErrDemoMode, "This is not allowed in the Demo Version.")
	}
	if err := validateBroadcast(input); err != nil {
		return "", err
	}

	sessionYear, err := s.settings.DefaultSessionYear(ctx, actor.SchoolID)
	if err != nil {
		return "", auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}

	recipients, err := s.resolveRecipients(ctx, actor.SchoolID, input)
	if err != nil {
		return "", auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}

	notification := &models.Notification{
		Title:         strings.TrimSpace(input.Title),
		Message:       strings.TrimSpace(input.Message),
		SendTo:        input.SendTo,
		Image:         input.Image,
		SessionYearID: sessionYear.ID,
		SchoolID:      actor.SchoolID,
	}

	var warning string
	err = s.notifications.Transaction(ctx, func(tx repositories.NotificationRepository) error {
		if err := tx.Create(ctx, notification); err != nil {
			return err
		}
		if len(recipients) == 0 {
			return nil
		}

		sendErr := s.notifier.Send(ctx, recipients, notification.Title, notification.Message, "notification", nil)
		if sendErr == nil {
			return nil
		}
		if auth.IsAuthError(sendErr, auth.ErrDeliveryUnreachable) {
			// Keep the record; the push simply did not go out.
			warning = BroadcastWarning
			s.logger.Warn("Push delivery skipped",
				zap.Uint("notification_id", notification.ID),
				zap.Error(sendErr))
			return nil
		}
		return sendErr
	})
	if err != nil {
		return "", auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}

	s.audit(models.AuditLogTypeAnnouncementCreated, map[string]interface{}{
		"notification_id": notification.ID,
		"send_to":         string(input.SendTo),
		"recipients":      len(recipients),
	}, &actor.ID)

	return warning, nil
}

func validateBroadcast(input BroadcastInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return auth.NewAuthError(auth.ErrValidation, "The title field is required.")
	}
	if strings.TrimSpace(input.Message) == "" {
		return auth.NewAuthError(auth.ErrValidation, "The message field is required.")
	}

	switch input.SendTo {
	case models.SendToAllUsers:
		if strings.TrimSpace(input.AllUserIDs) == "" {
			return auth.NewAuthError(auth.ErrValidation, "The user id field is required.")
		}
	case models.SendToSpecificUsers:
		if len(input.UserIDs) == 0 {
			return auth.NewAuthError(auth.ErrValidation, "The user id field is required.")
		}
	case models.SendToRoles:
		if len(input.Roles) == 0 {
			return auth.NewAuthError(auth.ErrValidation, "The roles field is required.")
		}
	case models.SendToOverDueFees:
		// No extra input.
	default:
		return auth.NewAuthError(auth.ErrValidation, "The send to field is required.")
	}
	return nil
}

// resolveRecipients turns the selection mode into a deduplicated user ID
// list.
func (s *NotificationService) resolveRecipients(ctx context.Context, schoolID uint, input BroadcastInput) ([]string, error) {
	var ids []string

	switch input.SendTo {
	case models.SendToAllUsers:
		for _, id := range strings.Split(input.AllUserIDs, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}

	case models.SendToSpecificUsers:
		ids = input.UserIDs

	case models.SendToOverDueFees:
		today := time.Now().Truncate(24 * time.Hour)
		fees, err := s.fees.OverdueFees(ctx, schoolID, today)
		if err != nil {
			return nil, err
		}
		for _, fee := range fees {
			studentIDs, guardianIDs, err := s.users.OverdueFeeRecipients(ctx, fee)
			if err != nil {
				return nil, err
			}
			ids = append(ids, studentIDs...)
			ids = append(ids, guardianIDs...)
		}

	case models.SendToRoles:
		// Guardians hold no direct role rows; they are reached through their
		// children's student records.
		direct := make([]string, 0, len(input.Roles))
		wantGuardians := false
		for _, role := range input.Roles {
			if role == models.RoleGuardian {
				wantGuardians = true
				continue
			}
			direct = append(direct, role)
		}
		if len(direct) > 0 {
			roleIDs, err := s.users.IDsWithRoles(ctx, schoolID, direct)
			if err != nil {
				return nil, err
			}
			ids = append(ids, roleIDs...)
		}
		if wantGuardians {
			guardianIDs, err := s.users.GuardianIDs(ctx, schoolID)
			if err != nil {
				return nil, err
			}
			ids = append(ids, guardianIDs...)
		}
	}

	return dedupe(ids), nil
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// List returns a page of announcements for the school.
func (s *NotificationService) List(ctx context.Context, schoolID uint, p repositories.ListParams) (int64, []models.Notification, error) {
	return s.notifications.List(ctx, schoolID, p)
}

// ListRecent returns the latest announcements, used by the mobile API.
func (s *NotificationService) ListRecent(ctx context.Context, schoolID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.notifications.ListRecent(ctx, schoolID, limit)
}

// Delete removes an announcement.
func (s *NotificationService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if s.demoMode {
		return auth.NewAuthError(auth.ErrDemoMode, "This is not allowed in the Demo Version.")
	}

	if err := s.notifications.DeleteByID(ctx, actor.SchoolID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.NewAuthError(auth.ErrNotFound, "Notification not found.")
		}
		return auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}

	s.audit(models.AuditLogTypeAnnouncementDeleted, map[string]interface{}{"notification_id": id}, &actor.ID)
	return nil
}

// ListUsers returns the picker page used by the broadcast form, excluding
// School Admin accounts.
func (s *NotificationService) ListUsers(ctx context.Context, schoolID uint, roles []string, p repositories.ListParams) (int64, []models.User, error) {
	return s.users.ListUsers(ctx, schoolID, roles, p)
}

func (s *NotificationService) audit(logType models.AuditLogType, content interface{}, userID *string) {
	if err := s.auditLogger.AddLog(logType, content, userID); err != nil {
		s.logger.Warn("Audit log write failed", zap.String("type", string(logType)), zap.Error(err))
	}
}
