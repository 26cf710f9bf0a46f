package services

import (
	"context"
	"strings"
	"time"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/repository"
)

// ProviderProfile is what the public directory shows about a provider.
type ProviderProfile struct {
	ID                uint                `json:"id"`
	Username          string              `json:"username"`
	FirstName         string              `json:"firstName"`
	LastName          string              `json:"lastName"`
	BusinessName      string              `json:"businessName"`
	ServiceType       string              `json:"serviceType"`
	YearsOfExperience *int                `json:"yearsOfExperience"`
	Description       string              `json:"description"`
	City              string              `json:"city"`
	State             string              `json:"state"`
	ProfileImage      string              `json:"profileImage"`
	VettedStatus      models.VettedStatus `json:"vettedStatus"`
	Vetted            bool                `json:"vetted"`
	CreatedAt         time.Time           `json:"createdAt"`
}

func profileOf(u *models.User) ProviderProfile {
	return ProviderProfile{
		ID:                u.ID,
		Username:          u.Username,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		BusinessName:      u.BusinessName,
		ServiceType:       u.ServiceType,
		YearsOfExperience: u.YearsOfExperience,
		Description:       u.Description,
		City:              u.City,
		State:             u.State,
		ProfileImage:      u.ProfileImage,
		VettedStatus:      u.VettedStatus,
		Vetted:            u.VettedStatus == models.VettedStatusVetted,
		CreatedAt:         u.CreatedAt,
	}
}

type ProviderQuery struct {
	ServiceType string
	VettedOnly  bool
	Search      string
}

type ProviderService struct {
	users repository.UserRepository
}

func NewProviderService(users repository.UserRepository) *ProviderService {
	return &ProviderService{users: users}
}

func (s *ProviderService) List(ctx context.Context, q ProviderQuery) ([]ProviderProfile, error) {
	filter := models.UserFilter{
		Role:        models.RoleProvider,
		ServiceType: strings.TrimSpace(q.ServiceType),
		Search:      strings.TrimSpace(q.Search),
	}
	if q.VettedOnly {
		filter.VettedStatus = models.VettedStatusVetted
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, errors.Trace(err)
	}
	profiles := make([]ProviderProfile, len(users))
	for i := range users {
		profiles[i] = profileOf(&users[i])
	}
	return profiles, nil
}

func (s *ProviderService) Get(ctx context.Context, id uint) (*ProviderProfile, error) {
	user, err := findUser(ctx, s.users, id, "Provider")
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleProvider {
		return nil, notFound("Provider not found")
	}
	profile := profileOf(user)
	return &profile, nil
}
