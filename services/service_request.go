package services

import (
	"context"
	"strings"
	"time"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/repository"
	"github.com/meinhoongagan/senior-care-app/validation"
)

type CreateServiceRequestInput struct {
	CategoryID    uint       `json:"categoryId" validate:"required"`
	SubcategoryID *uint      `json:"subcategoryId"`
	Title         string     `json:"title" validate:"required,max=200"`
	Description   string     `json:"description" validate:"max=2000"`
	Location      string     `json:"location" validate:"max=255"`
	Latitude      *float64   `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64   `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Budget        *float64   `json:"budget" validate:"omitempty,gte=0"`
	ServiceDate   *time.Time `json:"serviceDate"`
}

type UpdateServiceRequestInput struct {
	CategoryID    *uint      `json:"categoryId"`
	SubcategoryID *uint      `json:"subcategoryId"`
	Title         *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=2000"`
	Location      *string    `json:"location" validate:"omitempty,max=255"`
	Latitude      *float64   `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64   `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Budget        *float64   `json:"budget" validate:"omitempty,gte=0"`
	ServiceDate   *time.Time `json:"serviceDate"`
	Status        *string    `json:"status" validate:"omitempty,min=1,max=30"`
}

type ServiceRequestService struct {
	users      repository.UserRepository
	requests   repository.ServiceRequestRepository
	categories repository.CategoryRepository
}

func NewServiceRequestService(users repository.UserRepository, requests repository.ServiceRequestRepository, categories repository.CategoryRepository) *ServiceRequestService {
	return &ServiceRequestService{users: users, requests: requests, categories: categories}
}

// checkPlacement verifies the category exists and, when given, that the
// subcategory belongs to it.
func (s *ServiceRequestService) checkPlacement(ctx context.Context, categoryID uint, subcategoryID *uint) error {
	if _, err := s.categories.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, errors.NotFound) {
			return notFound("Category not found")
		}
		return errors.Trace(err)
	}
	if subcategoryID == nil {
		return nil
	}
	sub, err := s.categories.FindSubcategoryByID(ctx, *subcategoryID)
	if errors.Is(err, errors.NotFound) {
		return notFound("Subcategory not found")
	}
	if err != nil {
		return errors.Trace(err)
	}
	if sub.CategoryID != categoryID {
		return validation.NewFieldError("subcategoryId", "subcategoryId does not belong to the selected category")
	}
	return nil
}

func (s *ServiceRequestService) Create(ctx context.Context, callerID uint, in CreateServiceRequestInput) (*models.ServiceRequest, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	caller, err := findUser(ctx, s.users, callerID, "User")
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleCustomer {
		return nil, forbidden("Only customers can post service requests")
	}
	if err := s.checkPlacement(ctx, in.CategoryID, in.SubcategoryID); err != nil {
		return nil, err
	}

	req := &models.ServiceRequest{
		UserID:        caller.ID,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Location:      in.Location,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		Budget:        in.Budget,
		ServiceDate:   in.ServiceDate,
		Status:        models.ServiceRequestStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, errors.Trace(err)
	}
	return req, nil
}

func (s *ServiceRequestService) ListOwn(ctx context.Context, callerID uint) ([]models.ServiceRequest, error) {
	reqs, err := s.requests.ListByUser(ctx, callerID)
	return reqs, errors.Trace(err)
}

// ListOpen is the providers' view of unmatched requests.
func (s *ServiceRequestService) ListOpen(ctx context.Context, callerID uint, categoryID *uint) ([]models.ServiceRequest, error) {
	caller, err := findUser(ctx, s.users, callerID, "User")
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleProvider && caller.Role != models.RoleAdmin {
		return nil, forbidden("Only providers can browse open service requests")
	}
	reqs, err := s.requests.ListOpen(ctx, categoryID)
	return reqs, errors.Trace(err)
}

func (s *ServiceRequestService) find(ctx context.Context, id uint) (*models.ServiceRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if errors.Is(err, errors.NotFound) {
		return nil, notFound("Service request not found")
	}
	return req, errors.Trace(err)
}

func (s *ServiceRequestService) owned(ctx context.Context, callerID, id uint) (*models.ServiceRequest, error) {
	req, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID != callerID {
		return nil, forbidden("You do not have permission to modify this service request")
	}
	return req, nil
}

func (s *ServiceRequestService) Get(ctx context.Context, callerID, id uint) (*models.ServiceRequest, error) {
	req, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID == callerID {
		return req, nil
	}
	caller, err := findUser(ctx, s.users, callerID, "User")
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleProvider && caller.Role != models.RoleAdmin {
		return nil, forbidden("You do not have permission to view this service request")
	}
	return req, nil
}

func (s *ServiceRequestService) Update(ctx context.Context, callerID, id uint, in UpdateServiceRequestInput) (*models.ServiceRequest, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	req, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if in.CategoryID != nil || in.SubcategoryID != nil {
		categoryID := req.CategoryID
		if in.CategoryID != nil {
			categoryID = *in.CategoryID
		}
		subcategoryID := req.SubcategoryID
		if in.SubcategoryID != nil {
			subcategoryID = in.SubcategoryID
		} else if categoryID != req.CategoryID {
			subcategoryID = nil
		}
		if err := s.checkPlacement(ctx, categoryID, subcategoryID); err != nil {
			return nil, err
		}
		req.CategoryID = categoryID
		req.SubcategoryID = subcategoryID
		req.Category, req.Subcategory = nil, nil
	}
	if in.Title != nil {
		req.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		req.Description = *in.Description
	}
	if in.Location != nil {
		req.Location = *in.Location
	}
	if in.Latitude != nil {
		req.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		req.Longitude = in.Longitude
	}
	if in.Budget != nil {
		req.Budget = in.Budget
	}
	if in.ServiceDate != nil {
		req.ServiceDate = in.ServiceDate
	}
	if in.Status != nil {
		req.Status = strings.TrimSpace(*in.Status)
	}

	if err := s.requests.Update(ctx, req); err != nil {
		return nil, errors.Trace(err)
	}
	return req, nil
}

func (s *ServiceRequestService) Delete(ctx context.Context, callerID, id uint) error {
	req, err := s.owned(ctx, callerID, id)
	if err != nil {
		return err
	}
	return errors.Trace(s.requests.Delete(ctx, req.ID))
}
