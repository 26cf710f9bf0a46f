package db

import (
	"github.com/juju/errors"
	"gorm.io/gorm"

	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/models"
)

// Migrate creates or updates every table. Run explicitly with the -migrate flag.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Subcategory{},
		&models.Booking{},
		&models.ServiceRequest{},
		&models.Inquiry{},
		&models.NewsletterSubscription{},
	)
	if err != nil {
		return errors.Annotate(err, "failed to run migrations")
	}

	logging.Info().Msg("Migrations applied successfully")
	return nil
}
