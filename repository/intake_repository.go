package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/senior-care-app/models"
)

type GormServiceRequestRepository struct {
	db *gorm.DB
}

var _ ServiceRequestRepository = (*GormServiceRequestRepository)(nil)

func NewServiceRequestRepository(db *gorm.DB) *GormServiceRequestRepository {
	return &GormServiceRequestRepository{db: db}
}

func (r *GormServiceRequestRepository) Create(ctx context.Context, req *models.ServiceRequest) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error, "service request")
}

func (r *GormServiceRequestRepository) FindByID(ctx context.Context, id uint) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Subcategory").Preload("User").
		First(&req, id).Error
	if err != nil {
		return nil, translate(err, "service request")
	}
	return &req, nil
}

func (r *GormServiceRequestRepository) ListByUser(ctx context.Context, userID uint) ([]models.ServiceRequest, error) {
	var reqs []models.ServiceRequest
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Subcategory").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, translate(err, "service request")
}

func (r *GormServiceRequestRepository) ListOpen(ctx context.Context, categoryID *uint) ([]models.ServiceRequest, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").Preload("Subcategory").Preload("User").
		Where("status = ?", models.ServiceRequestStatusPending)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var reqs []models.ServiceRequest
	err := query.Order("created_at DESC").Find(&reqs).Error
	return reqs, translate(err, "service request")
}

func (r *GormServiceRequestRepository) Update(ctx context.Context, req *models.ServiceRequest) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(req).Error, "service request")
}

func (r *GormServiceRequestRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ServiceRequest{}, id)
	if res.Error != nil {
		return translate(res.Error, "service request")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "service request")
	}
	return nil
}

type GormInquiryRepository struct {
	db *gorm.DB
}

var _ InquiryRepository = (*GormInquiryRepository)(nil)

func NewInquiryRepository(db *gorm.DB) *GormInquiryRepository {
	return &GormInquiryRepository{db: db}
}

func (r *GormInquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	return translate(r.db.WithContext(ctx).Create(inquiry).Error, "inquiry")
}

func (r *GormInquiryRepository) FindByID(ctx context.Context, id uint) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := r.db.WithContext(ctx).First(&inquiry, id).Error; err != nil {
		return nil, translate(err, "inquiry")
	}
	return &inquiry, nil
}

func (r *GormInquiryRepository) List(ctx context.Context, filter models.InquiryFilter) ([]models.Inquiry, error) {
	query := r.db.WithContext(ctx)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	var inquiries []models.Inquiry
	err := query.Order("created_at DESC").Find(&inquiries).Error
	return inquiries, translate(err, "inquiry")
}

func (r *GormInquiryRepository) Update(ctx context.Context, inquiry *models.Inquiry) error {
	return translate(r.db.WithContext(ctx).Save(inquiry).Error, "inquiry")
}

func (r *GormInquiryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Inquiry{}, id)
	if res.Error != nil {
		return translate(res.Error, "inquiry")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "inquiry")
	}
	return nil
}

type GormNewsletterRepository struct {
	db *gorm.DB
}

var _ NewsletterRepository = (*GormNewsletterRepository)(nil)

func NewNewsletterRepository(db *gorm.DB) *GormNewsletterRepository {
	return &GormNewsletterRepository{db: db}
}

func (r *GormNewsletterRepository) FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	var sub models.NewsletterSubscription
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&sub).Error; err != nil {
		return nil, translate(err, "subscription")
	}
	return &sub, nil
}

func (r *GormNewsletterRepository) Create(ctx context.Context, sub *models.NewsletterSubscription) error {
	return translate(r.db.WithContext(ctx).Create(sub).Error, "subscription")
}

func (r *GormNewsletterRepository) Update(ctx context.Context, sub *models.NewsletterSubscription) error {
	return translate(r.db.WithContext(ctx).Save(sub).Error, "subscription")
}

func (r *GormNewsletterRepository) List(ctx context.Context) ([]models.NewsletterSubscription, error) {
	var subs []models.NewsletterSubscription
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subs).Error
	return subs, translate(err, "subscription")
}
