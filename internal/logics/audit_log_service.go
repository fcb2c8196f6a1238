package logics

import (
	"encoding/json"
	"fmt"

	"schoolhub-server/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuditLogger records security-relevant actions.
type AuditLogger interface {
	AddLog(logType models.AuditLogType, content interface{}, userID *string) error
}

// AuditLogService persists audit log records.
type AuditLogService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAuditLogService creates a new AuditLogService.
func NewAuditLogService(db *gorm.DB, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{db: db, logger: logger}
}

// AddLog adds a new audit log record to the audit_logs table.
// content is arbitrary key-value data stored as jsonb; userID may be nil.
func (s *AuditLogService) AddLog(logType models.AuditLogType, content interface{}, userID *string) error {
	jsonData, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}

	auditLog := models.AuditLog{
		UserID:  userID,
		Type:    logType,
		Content: jsonData,
	}

	if err := s.db.Create(&auditLog).Error; err != nil {
		return fmt.Errorf("failed to insert audit log record: %w", err)
	}

	s.logger.Info("Audit log added", zap.String("type", string(logType)))
	return nil
}
