package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/senior-care-app/models"
)

type GormBookingRepository struct {
	db *gorm.DB
}

var _ BookingRepository = (*GormBookingRepository)(nil)

func NewBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) withParties(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Customer").Preload("Provider").Preload("Category")
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error, "booking")
}

func (r *GormBookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.withParties(ctx).First(&booking, id).Error; err != nil {
		return nil, translate(err, "booking")
	}
	return &booking, nil
}

func (r *GormBookingRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.withParties(ctx).
		Where("customer_id = ?", customerID).
		Order("start_time DESC").
		Find(&bookings).Error
	return bookings, translate(err, "booking")
}

func (r *GormBookingRepository) ListByProvider(ctx context.Context, providerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.withParties(ctx).
		Where("provider_id = ?", providerID).
		Order("start_time DESC").
		Find(&bookings).Error
	return bookings, translate(err, "booking")
}

func (r *GormBookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(booking).Error, "booking")
}

func (r *GormBookingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Booking{}, id)
	if res.Error != nil {
		return translate(res.Error, "booking")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "booking")
	}
	return nil
}

func (r *GormBookingRepository) CountActiveForUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("(customer_id = ? OR provider_id = ?) AND status IN ?", userID, userID, models.ActiveBookingStatuses).
		Count(&count).Error
	return count, translate(err, "booking")
}

func (r *GormBookingRepository) ListForSync(ctx context.Context, statuses []models.SyncStatus, updatedBefore time.Time, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	query := r.withParties(ctx).
		Where("sync_status IN ? AND updated_at < ?", statuses, updatedBefore).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&bookings).Error
	return bookings, translate(err, "booking")
}

func (r *GormBookingRepository) ListDueReminders(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.withParties(ctx).
		Where("status = ? AND reminder_sent_at IS NULL AND start_time BETWEEN ? AND ?",
			models.BookingStatusConfirmed, from, to).
		Find(&bookings).Error
	return bookings, translate(err, "booking")
}

func (r *GormBookingRepository) CountByStatus(ctx context.Context, userID uint, asProvider bool) ([]models.StatusCount, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{})
	if userID != 0 {
		if asProvider {
			query = query.Where("provider_id = ?", userID)
		} else {
			query = query.Where("customer_id = ?", userID)
		}
	}

	var counts []models.StatusCount
	err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&counts).Error
	return counts, translate(err, "booking")
}
