package logics

import (
	"context"
	"time"

	"schoolhub-server/internal/auth"
	"schoolhub-server/internal/models"
	"schoolhub-server/internal/repositories"

	"go.uber.org/zap"
)

// VerifyOutcome is the result of a two-factor code check.
type VerifyOutcome int

const (
	// VerifyOK means the code matched; the login is complete.
	VerifyOK VerifyOutcome = iota
	// VerifyRetry means the code was wrong but attempts remain.
	VerifyRetry
	// VerifyLocked means the attempt budget is exhausted; the pending login
	// was torn down and the user must start over.
	VerifyLocked
)

// VerifyResult carries the outcome plus the user-facing message and, on
// retry, how many attempts remain.
type VerifyResult struct {
	Outcome           VerifyOutcome
	Message           string
	RemainingAttempts int
}

// TwoFactorService owns the emailed-code verification flow: issuing codes,
// counting failed attempts and promoting or tearing down pending logins.
type TwoFactorService struct {
	users       repositories.UserRepository
	attempts    AttemptStore
	mailer      Mailer
	auditLogger AuditLogger
	logger      *zap.Logger

	codeLength     int
	codeExpire     time.Duration
	verifiedExpire time.Duration
	maxAttempts    int
}

// NewTwoFactorService creates a TwoFactorService. codeExpire bounds how long
// an emailed code stays valid; verifiedExpire is how long a completed
// verification is remembered before the next login asks again.
func NewTwoFactorService(
	users repositories.UserRepository,
	attempts AttemptStore,
	mailer Mailer,
	auditLogger AuditLogger,
	logger *zap.Logger,
	maxAttempts int,
	verifiedExpire time.Duration,
) *TwoFactorService {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if verifiedExpire <= 0 {
		verifiedExpire = 24 * time.Hour
	}
	return &TwoFactorService{
		users:          users,
		attempts:       attempts,
		mailer:         mailer,
		auditLogger:    auditLogger,
		logger:         logger,
		codeLength:     6,
		codeExpire:     10 * time.Minute,
		verifiedExpire: verifiedExpire,
		maxAttempts:    maxAttempts,
	}
}

// NeedsVerification reports whether the user must pass a code check on this
// login. A still-valid expiry from an earlier verification skips the step.
func (s *TwoFactorService) NeedsVerification(user *models.User) bool {
	if user.TwoFactorExpiresAt == nil {
		return true
	}
	return time.Now().After(*user.TwoFactorExpiresAt)
}

// IssueCode generates a fresh code, stores it with a short expiry and emails
// it to the user. The previous code, if any, is overwritten.
func (s *TwoFactorService) IssueCode(ctx context.Context, user *models.User) error {
	code := auth.GenerateRandomCode(s.codeLength)
	if err := s.users.SetTwoFactor(ctx, user.ID, code, time.Now().Add(s.codeExpire)); err != nil {
		return auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}

	body := TwoFactorCodeHTML(user.FullName(), code)
	if err := s.mailer.Send(user.Email, "Your verification code", body); err != nil {
		s.logger.Warn("Two-factor code email failed",
			zap.String("user_id", user.ID),
			zap.Error(err))
		return auth.NewAuthErrorWithCause(auth.ErrDeliveryUnreachable, "Could not send the verification code email.", err)
	}
	return nil
}

// VerifyCode checks a submitted code against the pending secret.
//
// A wrong code increments the server-side attempt counter; once the counter
// reaches the budget the pending state is cleared and the caller must flush
// the session. A correct code clears the counter and extends the expiry so
// later logins inside the window skip verification.
func (s *TwoFactorService) VerifyCode(ctx context.Context, userID, code string) (VerifyResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return VerifyResult{}, auth.NewAuthErrorWithCause(auth.ErrNotFound, "User not found.", err)
	}

	if user.TwoFactorSecret == nil || user.TwoFactorExpiresAt == nil {
		return VerifyResult{}, auth.NewAuthError(auth.ErrInvalidCode, "No verification is pending. Please log in again.")
	}

	if time.Now().After(*user.TwoFactorExpiresAt) {
		return s.fail(ctx, user, "The verification code has expired.")
	}

	if code == "" || code != *user.TwoFactorSecret {
		return s.fail(ctx, user, "Invalid code. Please try again.")
	}

	if err := s.users.ExtendTwoFactor(ctx, user.ID, time.Now().Add(s.verifiedExpire)); err != nil {
		return VerifyResult{}, auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}
	if err := s.attempts.Clear(ctx, user.ID); err != nil {
		s.logger.Warn("Attempt counter clear failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	s.audit(models.AuditLogType2FASuccess, map[string]string{"email": user.Email}, &user.ID)
	return VerifyResult{Outcome: VerifyOK, Message: "Verified successfully."}, nil
}

func (s *TwoFactorService) fail(ctx context.Context, user *models.User, message string) (VerifyResult, error) {
	count, err := s.attempts.Increment(ctx, user.ID)
	if err != nil {
		return VerifyResult{}, auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}

	if count >= s.maxAttempts {
		return s.lockout(ctx, user)
	}

	s.audit(models.AuditLogType2FAFailure, map[string]interface{}{
		"email":    user.Email,
		"attempts": count,
	}, &user.ID)

	remaining := s.maxAttempts - count
	if remaining == 1 {
		message = "Last one attempt. " + message
	}
	return VerifyResult{
		Outcome:           VerifyRetry,
		Message:           message,
		RemainingAttempts: remaining,
	}, nil
}

// lockout tears down the pending verification. The caller is responsible for
// flushing and regenerating the session.
func (s *TwoFactorService) lockout(ctx context.Context, user *models.User) (VerifyResult, error) {
	if err := s.users.ClearTwoFactor(ctx, user.ID); err != nil {
		return VerifyResult{}, auth.NewAuthErrorWithCause(auth.ErrUnexpected, "Something went wrong. Please try again.", err)
	}
	if err := s.attempts.Clear(ctx, user.ID); err != nil {
		s.logger.Warn("Attempt counter clear failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	s.audit(models.AuditLogType2FALockout, map[string]string{"email": user.Email}, &user.ID)
	s.logger.Info("Two-factor lockout", zap.String("user_id", user.ID))

	return VerifyResult{
		Outcome: VerifyLocked,
		Message: "Too many failed attempts. Please log in again.",
	}, nil
}

func (s *TwoFactorService) audit(logType models.AuditLogType, content interface{}, userID *string) {
	if err := s.auditLogger.AddLog(logType, content, userID); err != nil {
		s.logger.Warn("Audit log write failed", zap.String("type", string(logType)), zap.Error(err))
	}
}
