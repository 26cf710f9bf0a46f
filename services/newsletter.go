package services

import (
	"context"
	"strings"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/repository"
	"github.com/meinhoongagan/senior-care-app/validation"
)

type SubscribeInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=100"`
}

type NewsletterService struct {
	users         repository.UserRepository
	subscriptions repository.NewsletterRepository
}

func NewNewsletterService(users repository.UserRepository, subscriptions repository.NewsletterRepository) *NewsletterService {
	return &NewsletterService{users: users, subscriptions: subscriptions}
}

// Subscribe creates an active subscription or reactivates a lapsed one. An
// address that is already subscribed is a conflict, including when two
// requests race on the unique index.
func (s *NewsletterService) Subscribe(ctx context.Context, in SubscribeInput) (*models.NewsletterSubscription, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	existing, err := s.subscriptions.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.IsActive:
		return nil, conflict("Email is already subscribed")
	case err == nil:
		existing.IsActive = true
		if name != "" {
			existing.Name = name
		}
		if err := s.subscriptions.Update(ctx, existing); err != nil {
			return nil, errors.Trace(err)
		}
		return existing, nil
	case !errors.Is(err, errors.NotFound):
		return nil, errors.Trace(err)
	}

	sub := &models.NewsletterSubscription{Email: email, Name: name, IsActive: true}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		if errors.Is(err, errors.AlreadyExists) {
			return nil, conflict("Email is already subscribed")
		}
		return nil, errors.Trace(err)
	}
	return sub, nil
}

func (s *NewsletterService) List(ctx context.Context, adminID uint) ([]models.NewsletterSubscription, error) {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return nil, err
	}
	subs, err := s.subscriptions.List(ctx)
	return subs, errors.Trace(err)
}
