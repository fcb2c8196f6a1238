package repositories

import (
	"context"

	"schoolhub-server/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository manages announcement rows. Transaction hands a
// repository bound to the transaction to the callback; returning an error
// rolls everything back.
type NotificationRepository interface {
	Transaction(ctx context.Context, fn func(NotificationRepository) error) error
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, schoolID uint, p ListParams) (int64, []models.Notification, error)
	ListRecent(ctx context.Context, schoolID uint, limit int) ([]models.Notification, error)
	DeleteByID(ctx context.Context, schoolID, id uint) error
}

type gormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a gorm-backed NotificationRepository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Transaction(ctx context.Context, fn func(NotificationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormNotificationRepository{db: tx})
	})
}

func (r *gormNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *gormNotificationRepository) List(ctx context.Context, schoolID uint, p ListParams) (int64, []models.Notification, error) {
	p = p.Sanitized("id", "title", "send_to", "created_at")

	query := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("school_id = ?", schoolID)

	if p.Search != "" {
		like := "%" + p.Search + "%"
		query = query.Where("title ILIKE ? OR message ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var notifications []models.Notification
	err := query.Order(p.OrderClause()).
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&notifications).Error
	return total, notifications, err
}

func (r *gormNotificationRepository) ListRecent(ctx context.Context, schoolID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *gormNotificationRepository) DeleteByID(ctx context.Context, schoolID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Delete(&models.Notification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
