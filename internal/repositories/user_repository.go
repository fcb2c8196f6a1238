package repositories

import (
	"context"
	"time"

	"schoolhub-server/internal/models"

	"gorm.io/gorm"
)

// UserRepository exposes the user queries needed by the auth, profile and
// announcement services.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	// Two-factor state. Secret and expiry move together on every path.
	SetTwoFactor(ctx context.Context, id, secret string, expiresAt time.Time) error
	ExtendTwoFactor(ctx context.Context, id string, expiresAt time.Time) error
	ClearTwoFactor(ctx context.Context, id string) error

	// Recipient resolution queries.
	IDsWithRoles(ctx context.Context, schoolID uint, roles []string) ([]string, error)
	GuardianIDs(ctx context.Context, schoolID uint) ([]string, error)
	OverdueFeeRecipients(ctx context.Context, fee models.Fee) (studentIDs, guardianIDs []string, err error)

	ListUsers(ctx context.Context, schoolID uint, roles []string, p ListParams) (int64, []models.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a gorm-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *gormUserRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *gormUserRepository) SetTwoFactor(ctx context.Context, id, secret string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"two_factor_secret":     secret,
			"two_factor_expires_at": expiresAt,
		}).Error
}

func (r *gormUserRepository) ExtendTwoFactor(ctx context.Context, id string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("two_factor_expires_at", expiresAt).Error
}

func (r *gormUserRepository) ClearTwoFactor(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"two_factor_secret":     nil,
			"two_factor_expires_at": nil,
		}).Error
}

func (r *gormUserRepository) IDsWithRoles(ctx context.Context, schoolID uint, roles []string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Table("users").
		Joins("JOIN user_roles ur ON ur.user_id = users.id").
		Joins("JOIN roles r ON r.id = ur.role_id").
		Where("users.school_id = ? AND users.deleted_at IS NULL", schoolID).
		Where("r.name IN ?", roles).
		Distinct().
		Pluck("users.id", &ids).Error
	return ids, err
}

func (r *gormUserRepository) GuardianIDs(ctx context.Context, schoolID uint) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Table("students").
		Joins("JOIN users su ON su.id = students.user_id").
		Where("su.school_id = ? AND su.deleted_at IS NULL", schoolID).
		Where("students.guardian_id <> ''").
		Distinct().
		Pluck("students.guardian_id", &ids).Error
	return ids, err
}

// OverdueFeeRecipients finds students in the fee's class whose payment row is
// absent or not fully paid, together with their guardians.
func (r *gormUserRepository) OverdueFeeRecipients(ctx context.Context, fee models.Fee) ([]string, []string, error) {
	type row struct {
		ID         string
		GuardianID string
	}
	var rows []row

	err := r.db.WithContext(ctx).Table("users").
		Select("users.id AS id, students.guardian_id AS guardian_id").
		Joins("JOIN students ON students.user_id = users.id").
		Joins("JOIN class_sections ON class_sections.id = students.class_section_id").
		Joins("LEFT JOIN fee_paids ON fee_paids.user_id = users.id AND fee_paids.fee_id = ? AND fee_paids.deleted_at IS NULL", fee.ID).
		Where("class_sections.class_id = ? AND users.deleted_at IS NULL", fee.ClassID).
		Where("fee_paids.id IS NULL OR fee_paids.is_fully_paid = ?", false).
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	studentIDs := make([]string, 0, len(rows))
	guardianIDs := make([]string, 0, len(rows))
	for _, rw := range rows {
		studentIDs = append(studentIDs, rw.ID)
		if rw.GuardianID != "" {
			guardianIDs = append(guardianIDs, rw.GuardianID)
		}
	}
	return studentIDs, guardianIDs, nil
}

func (r *gormUserRepository) ListUsers(ctx context.Context, schoolID uint, roles []string, p ListParams) (int64, []models.User, error) {
	p = p.Sanitized("id", "first_name", "last_name", "email", "created_at")

	query := r.db.WithContext(ctx).Model(&models.User{}).
		Where("users.school_id = ?", schoolID).
		Where("NOT EXISTS (SELECT 1 FROM user_roles ur JOIN roles r ON r.id = ur.role_id WHERE ur.user_id = users.id AND r.name = ?)", models.RoleSchoolAdmin)

	if p.Search != "" {
		like := "%" + p.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR (first_name || ' ' || last_name) ILIKE ?",
			like, like, like,
		)
	}

	if len(roles) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM user_roles ur JOIN roles r ON r.id = ur.role_id WHERE ur.user_id = users.id AND r.name IN ?)", roles)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var users []models.User
	err := query.Preload("Roles").
		Order(p.OrderClause()).
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&users).Error
	return total, users, err
}
