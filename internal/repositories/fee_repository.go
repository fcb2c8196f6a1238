package repositories

import (
	"context"
	"time"

	"schoolhub-server/internal/models"

	"gorm.io/gorm"
)

// FeeRepository exposes the fee queries used by recipient resolution.
type FeeRepository interface {
	// OverdueFees returns fees whose due date is strictly before the given
	// day. Callers pass today truncated to midnight.
	OverdueFees(ctx context.Context, schoolID uint, before time.Time) ([]models.Fee, error)
}

type gormFeeRepository struct {
	db *gorm.DB
}

// NewFeeRepository creates a gorm-backed FeeRepository.
func NewFeeRepository(db *gorm.DB) FeeRepository {
	return &gormFeeRepository{db: db}
}

func (r *gormFeeRepository) OverdueFees(ctx context.Context, schoolID uint, before time.Time) ([]models.Fee, error) {
	var fees []models.Fee
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND due_date < ?", schoolID, before).
		Find(&fees).Error
	return fees, err
}
