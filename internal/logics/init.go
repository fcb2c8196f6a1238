package logics

import (
	"time"

	"schoolhub-server/configs"
	"schoolhub-server/internal/repositories"
)

// Package singletons wired from the shared database handles. Handlers reach
// these directly; tests construct services with mocks instead.
var (
	EmailSvc        *EmailService
	PushSvc         *PushService
	AuditLogSvc     *AuditLogService
	SettingsSvc     *SettingsService
	TokenSvc        *TokenService
	TwoFactorSvc    *TwoFactorService
	AuthSvc         *AuthService
	NotificationSvc *NotificationService
	PolicySvc       *PolicyService
)

// Init wires the service singletons. Call after configs.Init and
// repositories.Init.
func Init() {
	cfg := configs.Configs
	logger := configs.Logger

	userRepo := repositories.NewUserRepository(repositories.DBS.Postgres)
	notificationRepo := repositories.NewNotificationRepository(repositories.DBS.Postgres)
	feeRepo := repositories.NewFeeRepository(repositories.DBS.Postgres)
	settingsRepo := repositories.NewSettingsRepository(repositories.DBS.Postgres)

	EmailSvc = NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.Username,
		cfg.Email.Password,
		cfg.Email.SenderEmail,
	)
	PushSvc = NewPushService(
		cfg.Push.GatewayURL,
		cfg.Push.APIKey,
		time.Duration(cfg.Push.TimeoutSec)*time.Second,
		logger,
	)
	AuditLogSvc = NewAuditLogService(repositories.DBS.Postgres, logger)

	cache := NewSettingsCache(repositories.DBS.Redis, logger)
	SettingsSvc = NewSettingsService(settingsRepo, cache, logger)

	TokenSvc = NewTokenService(
		cfg.Secrets.JwtSecret,
		time.Duration(cfg.Authn.AccessJwtExpireMin)*time.Minute,
	)

	attempts := NewAttemptStore(
		repositories.DBS.Redis,
		time.Duration(cfg.Authn.AttemptWindowMin)*time.Minute,
	)
	TwoFactorSvc = NewTwoFactorService(
		userRepo,
		attempts,
		EmailSvc,
		AuditLogSvc,
		logger,
		cfg.Authn.MaxFailedAttempts,
		time.Duration(cfg.Authn.TwoFactorExpireHours)*time.Hour,
	)

	AuthSvc = NewAuthService(
		userRepo,
		TwoFactorSvc,
		SettingsSvc,
		AuditLogSvc,
		logger,
		cfg.Service.DemoMode,
	)
	NotificationSvc = NewNotificationService(
		notificationRepo,
		userRepo,
		feeRepo,
		SettingsSvc,
		PushSvc,
		AuditLogSvc,
		logger,
		cfg.Service.DemoMode,
	)
	PolicySvc = NewPolicyService()
}
