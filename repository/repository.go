// Package repository holds one typed repository per entity and their gorm
// implementations. Lookups of missing rows return errors satisfying
// errors.Is(err, errors.NotFound); unique-key violations satisfy
// errors.Is(err, errors.AlreadyExists).
package repository

import (
	"context"
	"time"

	"github.com/juju/errors"
	"gorm.io/gorm"

	"github.com/meinhoongagan/senior-care-app/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByIdentifier matches either username or email.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// IsTaken reports whether another account (id != excludeID) already uses
	// the username or email. Empty values are not checked.
	IsTaken(ctx context.Context, username, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, user *models.User) error
	// Delete removes the user and any delegate accounts under it.
	Delete(ctx context.Context, id uint) error
	ListDelegates(ctx context.Context, parentID uint) ([]models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	SaveCalendarToken(ctx context.Context, id uint, accessToken, refreshToken string, expiry time.Time) error
	ClearCalendarToken(ctx context.Context, id uint) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error)
	ListByProvider(ctx context.Context, providerID uint) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id uint) error
	// CountActiveForUser counts PENDING or CONFIRMED bookings where the user
	// is customer or provider.
	CountActiveForUser(ctx context.Context, userID uint) (int64, error)
	// ListForSync returns bookings in one of statuses last updated before the cutoff.
	ListForSync(ctx context.Context, statuses []models.SyncStatus, updatedBefore time.Time, limit int) ([]models.Booking, error)
	// ListDueReminders returns confirmed bookings starting in [from, to] with no reminder sent.
	ListDueReminders(ctx context.Context, from, to time.Time) ([]models.Booking, error)
	// CountByStatus aggregates bookings per status. A zero userID counts every booking.
	CountByStatus(ctx context.Context, userID uint, asProvider bool) ([]models.StatusCount, error)
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	// DeleteCategory removes the category and its subcategories.
	DeleteCategory(ctx context.Context, id uint) error
	FindCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)

	CreateSubcategory(ctx context.Context, sub *models.Subcategory) error
	UpdateSubcategory(ctx context.Context, sub *models.Subcategory) error
	DeleteSubcategory(ctx context.Context, id uint) error
	FindSubcategoryByID(ctx context.Context, id uint) (*models.Subcategory, error)
	FindSubcategoryBySlug(ctx context.Context, slug string) (*models.Subcategory, error)
	ListSubcategories(ctx context.Context, categoryID uint, includeInactive bool) ([]models.Subcategory, error)
}

type ServiceRequestRepository interface {
	Create(ctx context.Context, req *models.ServiceRequest) error
	FindByID(ctx context.Context, id uint) (*models.ServiceRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]models.ServiceRequest, error)
	// ListOpen returns PENDING requests, optionally limited to a category.
	ListOpen(ctx context.Context, categoryID *uint) ([]models.ServiceRequest, error)
	Update(ctx context.Context, req *models.ServiceRequest) error
	Delete(ctx context.Context, id uint) error
}

type InquiryRepository interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	FindByID(ctx context.Context, id uint) (*models.Inquiry, error)
	List(ctx context.Context, filter models.InquiryFilter) ([]models.Inquiry, error)
	Update(ctx context.Context, inquiry *models.Inquiry) error
	Delete(ctx context.Context, id uint) error
}

type NewsletterRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error)
	Create(ctx context.Context, sub *models.NewsletterSubscription) error
	Update(ctx context.Context, sub *models.NewsletterSubscription) error
	List(ctx context.Context) ([]models.NewsletterSubscription, error)
}

// translate maps gorm errors onto the error taxonomy used by the services.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.WithType(errors.New(entity+" not found"), errors.NotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.WithType(errors.New(entity+" already exists"), errors.AlreadyExists)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.WithType(errors.New(entity+" is still referenced"), errors.AlreadyExists)
	}
	return errors.Trace(err)
}
