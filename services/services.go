// Package services implements the marketplace's business operations. Every
// operation takes the caller's id as resolved from a verified bearer token.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/juju/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/meinhoongagan/senior-care-app/ai"
	"github.com/meinhoongagan/senior-care-app/calendar"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/repository"
)

// Mailer sends HTML mail.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// CalendarSync mirrors bookings into a user's external calendar.
type CalendarSync interface {
	HasConnection(ctx context.Context, userID uint) (bool, error)
	CreateEvent(ctx context.Context, userID uint, ev calendar.Event) (string, error)
	UpdateEvent(ctx context.Context, userID uint, eventID string, ev calendar.Event) error
	DeleteEvent(ctx context.Context, userID uint, eventID string) error
}

// Completer returns text completions for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []ai.Message) (string, error)
}

type clock func() time.Time

// findUser resolves a user id, reporting a missing row with the given noun.
func findUser(ctx context.Context, users repository.UserRepository, id uint, noun string) (*models.User, error) {
	user, err := users.FindByID(ctx, id)
	if errors.Is(err, errors.NotFound) {
		return nil, notFound("%s not found", noun)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	return user, nil
}

// requireAdmin resolves the acting user and checks the ADMIN role.
func requireAdmin(ctx context.Context, users repository.UserRepository, actingID uint) (*models.User, error) {
	if actingID == 0 {
		return nil, unauthorized("Authentication required")
	}
	admin, err := users.FindByID(ctx, actingID)
	if errors.Is(err, errors.NotFound) {
		return nil, unauthorized("Authentication required")
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	if admin.Role != models.RoleAdmin {
		return nil, forbidden("Admin access required")
	}
	return admin, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Annotate(err, "failed to hash password")
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
