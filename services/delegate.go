package services

import (
	"context"
	"strings"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/repository"
	"github.com/meinhoongagan/senior-care-app/validation"
)

type AddDelegateInput struct {
	// ParentUserID is optional; when sent it must match the caller.
	ParentUserID *uint          `json:"parentUserId"`
	SubRole      models.SubRole `json:"subRole" validate:"required,oneof=FAMILY_MEMBER CAREGIVER"`
	Username     string         `json:"username" validate:"required,min=3,max=50"`
	Email        string         `json:"email" validate:"required,email"`
	Password     string         `json:"password" validate:"required,min=8,max=72"`
	Permissions  []string       `json:"permissions"`
	ProfileFields
}

type UpdateDelegateInput struct {
	ParentUserID *uint     `json:"parentUserId"`
	Email        *string   `json:"email" validate:"omitempty,email"`
	Password     *string   `json:"password" validate:"omitempty,min=8,max=72"`
	Permissions  *[]string `json:"permissions"`
	ProfileFields
}

type DelegateService struct {
	users repository.UserRepository
}

func NewDelegateService(users repository.UserRepository) *DelegateService {
	return &DelegateService{users: users}
}

func checkClaimedParent(callerID uint, claimed *uint) error {
	if claimed != nil && *claimed != callerID {
		return forbidden("parentUserId does not match the authenticated user")
	}
	return nil
}

// parentCustomer resolves the caller as a top-level customer account.
func (s *DelegateService) parentCustomer(ctx context.Context, parentID uint) (*models.User, error) {
	parent, err := findUser(ctx, s.users, parentID, "Parent user")
	if err != nil {
		return nil, err
	}
	if parent.Role != models.RoleCustomer {
		return nil, forbidden("Only customers can manage family members and caregivers")
	}
	if parent.IsDelegate() {
		return nil, forbidden("Delegate accounts cannot manage other delegates")
	}
	return parent, nil
}

// ownedDelegate loads a delegate and checks that it belongs to parentID.
func (s *DelegateService) ownedDelegate(ctx context.Context, parentID, id uint) (*models.User, error) {
	delegate, err := findUser(ctx, s.users, id, "Subrole user")
	if err != nil {
		return nil, err
	}
	if delegate.ParentUserID == nil || *delegate.ParentUserID != parentID {
		return nil, forbidden("You do not have permission to manage this user")
	}
	return delegate, nil
}

func (s *DelegateService) Add(ctx context.Context, callerID uint, in AddDelegateInput) (*models.User, error) {
	if err := checkClaimedParent(callerID, in.ParentUserID); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	parent, err := s.parentCustomer(ctx, callerID)
	if err != nil {
		return nil, err
	}

	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	taken, err := s.users.IsTaken(ctx, in.Username, in.Email, 0)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if taken {
		return nil, conflict("Username or email already exists")
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	subRole := in.SubRole
	parentID := parent.ID
	permissions := in.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	delegate := &models.User{
		Username:      in.Username,
		Email:         in.Email,
		Password:      hashed,
		Role:          models.RoleCustomer,
		SubRole:       &subRole,
		ParentUserID:  &parentID,
		Permissions:   permissions,
		EmailVerified: true,
	}
	in.ProfileFields.apply(delegate)

	if err := s.users.Create(ctx, delegate); err != nil {
		if errors.Is(err, errors.AlreadyExists) {
			return nil, conflict("Username or email already exists")
		}
		return nil, errors.Trace(err)
	}
	logging.Info().Uint("parent_id", parent.ID).Uint("user_id", delegate.ID).Str("sub_role", string(subRole)).Msg("Delegate added")
	return delegate, nil
}

// List returns the caller's delegates, newest first.
func (s *DelegateService) List(ctx context.Context, callerID uint) ([]models.User, error) {
	if _, err := s.parentCustomer(ctx, callerID); err != nil {
		return nil, err
	}
	delegates, err := s.users.ListDelegates(ctx, callerID)
	return delegates, errors.Trace(err)
}

func (s *DelegateService) Update(ctx context.Context, callerID, id uint, in UpdateDelegateInput) (*models.User, error) {
	if err := checkClaimedParent(callerID, in.ParentUserID); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	delegate, err := s.ownedDelegate(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && normalizeEmail(*in.Email) != delegate.Email {
		email := normalizeEmail(*in.Email)
		taken, err := s.users.IsTaken(ctx, "", email, delegate.ID)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if taken {
			return nil, conflict("Email is already in use")
		}
		delegate.Email = email
	}
	if in.Password != nil {
		if delegate.Password, err = hashPassword(*in.Password); err != nil {
			return nil, err
		}
	}
	if in.Permissions != nil {
		delegate.Permissions = *in.Permissions
	}
	in.ProfileFields.apply(delegate)

	if err := s.users.Update(ctx, delegate); err != nil {
		if errors.Is(err, errors.AlreadyExists) {
			return nil, conflict("Email is already in use")
		}
		return nil, errors.Trace(err)
	}
	return delegate, nil
}

func (s *DelegateService) Remove(ctx context.Context, callerID, id uint) error {
	delegate, err := s.ownedDelegate(ctx, callerID, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, delegate.ID); err != nil {
		return errors.Trace(err)
	}
	logging.Info().Uint("parent_id", callerID).Uint("user_id", id).Msg("Delegate removed")
	return nil
}

// ResolveParent returns the contact profile of the customer a delegate acts for.
func (s *DelegateService) ResolveParent(ctx context.Context, callerID uint) (*models.ContactProfile, error) {
	caller, err := findUser(ctx, s.users, callerID, "User")
	if err != nil {
		return nil, err
	}
	if !caller.IsDelegate() {
		return nil, forbidden("Only family members and caregivers have a parent account")
	}
	parent, err := findUser(ctx, s.users, *caller.ParentUserID, "Parent user")
	if err != nil {
		return nil, err
	}
	contact := parent.Contact()
	return &contact, nil
}
