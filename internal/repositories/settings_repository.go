package repositories

import (
	"context"

	"schoolhub-server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository manages global settings rows and session year lookups.
type SettingsRepository interface {
	UpsertSetting(ctx context.Context, name, data, valueType string) error
	GetSetting(ctx context.Context, name string) (*models.SystemSetting, error)
	AllSettings(ctx context.Context) ([]models.SystemSetting, error)
	DefaultSessionYear(ctx context.Context, schoolID uint) (*models.SessionYear, error)
}

type gormSettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a gorm-backed SettingsRepository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &gormSettingsRepository{db: db}
}

func (r *gormSettingsRepository) UpsertSetting(ctx context.Context, name, data, valueType string) error {
	setting := models.SystemSetting{Name: name, Data: data, Type: valueType}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "type"}),
	}).Create(&setting).Error
}

func (r *gormSettingsRepository) GetSetting(ctx context.Context, name string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *gormSettingsRepository) AllSettings(ctx context.Context) ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	err := r.db.WithContext(ctx).Find(&settings).Error
	return settings, err
}

func (r *gormSettingsRepository) DefaultSessionYear(ctx context.Context, schoolID uint) (*models.SessionYear, error) {
	var year models.SessionYear
	err := r.db.WithContext(ctx).
		Where(`school_id = ? AND "default" = ?`, schoolID, true).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}
