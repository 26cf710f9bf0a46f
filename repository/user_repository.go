package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/meinhoongagan/senior-care-app/models"
)

type GormUserRepository struct {
	db *gorm.DB
}

var _ UserRepository = (*GormUserRepository)(nil)

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "user")
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *GormUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *GormUserRepository) IsTaken(ctx context.Context, username, email string, excludeID uint) (bool, error) {
	if username == "" && email == "" {
		return false, nil
	}

	query := r.db.WithContext(ctx).Model(&models.User{})
	switch {
	case username != "" && email != "":
		query = query.Where("username = ? OR email = ?", username, strings.ToLower(email))
	case username != "":
		query = query.Where("username = ?", username)
	default:
		query = query.Where("email = ?", strings.ToLower(email))
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, translate(err, "user")
	}
	return count > 0, nil
}

func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error, "user")
}

func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_user_id = ?", id).Delete(&models.User{}).Error; err != nil {
			return translate(err, "user")
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return translate(res.Error, "user")
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "user")
		}
		return nil
	})
}

func (r *GormUserRepository) ListDelegates(ctx context.Context, parentID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("parent_user_id = ?", parentID).
		Order("created_at DESC").
		Find(&users).Error
	return users, translate(err, "user")
}

func (r *GormUserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.VettedStatus != "" {
		query = query.Where("vetted_status = ?", filter.VettedStatus)
	}
	if filter.ServiceType != "" {
		query = query.Where("service_type ILIKE ?", "%"+filter.ServiceType+"%")
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR business_name ILIKE ? OR username ILIKE ?",
			like, like, like, like,
		)
	}

	var users []models.User
	err := query.Order("created_at DESC").Find(&users).Error
	return users, translate(err, "user")
}

func (r *GormUserRepository) SaveCalendarToken(ctx context.Context, id uint, accessToken, refreshToken string, expiry time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"google_access_token":  accessToken,
		"google_refresh_token": refreshToken,
		"google_token_expiry":  expiry,
	})
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

func (r *GormUserRepository) ClearCalendarToken(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"google_access_token":  nil,
		"google_refresh_token": nil,
		"google_token_expiry":  nil,
	}).Error, "user")
}
