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

type CreateInquiryInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type UpdateInquiryInput struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	AdminNotes *string `json:"adminNotes" validate:"omitempty,max=2000"`
}

type InquiryQuery struct {
	Status   string
	Priority string
}

const (
	inquiryStatusMessage   = "status must be one of: PENDING REVIEWED RESPONDED CLOSED"
	inquiryPriorityMessage = "priority must be one of: LOW MEDIUM HIGH"
)

type InquiryService struct {
	users     repository.UserRepository
	inquiries repository.InquiryRepository
}

func NewInquiryService(users repository.UserRepository, inquiries repository.InquiryRepository) *InquiryService {
	return &InquiryService{users: users, inquiries: inquiries}
}

// Create records a contact-form submission. No authentication is required.
func (s *InquiryService) Create(ctx context.Context, in CreateInquiryInput) (*models.Inquiry, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	inquiry := &models.Inquiry{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Subject:  strings.TrimSpace(in.Subject),
		Message:  strings.TrimSpace(in.Message),
		Status:   models.InquiryStatusPending,
		Priority: models.InquiryPriorityMedium,
	}
	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, errors.Trace(err)
	}
	logging.Info().Uint("inquiry_id", inquiry.ID).Msg("Inquiry received")
	return inquiry, nil
}

func parsePriority(s string) (models.InquiryPriority, bool) {
	p := models.InquiryPriority(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.Valid()
}

func (s *InquiryService) List(ctx context.Context, adminID uint, q InquiryQuery) ([]models.Inquiry, error) {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return nil, err
	}
	var filter models.InquiryFilter
	if q.Status != "" {
		status, ok := models.ParseInquiryStatus(q.Status)
		if !ok {
			return nil, validation.NewFieldError("status", inquiryStatusMessage)
		}
		filter.Status = status
	}
	if q.Priority != "" {
		priority, ok := parsePriority(q.Priority)
		if !ok {
			return nil, validation.NewFieldError("priority", inquiryPriorityMessage)
		}
		filter.Priority = priority
	}
	inquiries, err := s.inquiries.List(ctx, filter)
	return inquiries, errors.Trace(err)
}

func (s *InquiryService) Update(ctx context.Context, adminID, id uint, in UpdateInquiryInput) (*models.Inquiry, error) {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}

	var (
		status   models.InquiryStatus
		priority models.InquiryPriority
		ok       bool
	)
	if in.Status != nil {
		if status, ok = models.ParseInquiryStatus(*in.Status); !ok {
			return nil, validation.NewFieldError("status", inquiryStatusMessage)
		}
	}
	if in.Priority != nil {
		if priority, ok = parsePriority(*in.Priority); !ok {
			return nil, validation.NewFieldError("priority", inquiryPriorityMessage)
		}
	}

	inquiry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if status != "" {
		inquiry.Status = status
	}
	if priority != "" {
		inquiry.Priority = priority
	}
	if in.AdminNotes != nil {
		inquiry.AdminNotes = strings.TrimSpace(*in.AdminNotes)
	}
	if err := s.inquiries.Update(ctx, inquiry); err != nil {
		return nil, errors.Trace(err)
	}
	return inquiry, nil
}

func (s *InquiryService) Delete(ctx context.Context, adminID, id uint) error {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return err
	}
	inquiry, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return errors.Trace(s.inquiries.Delete(ctx, inquiry.ID))
}

func (s *InquiryService) find(ctx context.Context, id uint) (*models.Inquiry, error) {
	inquiry, err := s.inquiries.FindByID(ctx, id)
	if errors.Is(err, errors.NotFound) {
		return nil, notFound("Inquiry not found")
	}
	return inquiry, errors.Trace(err)
}
