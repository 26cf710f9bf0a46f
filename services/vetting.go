package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/repository"
	"github.com/meinhoongagan/senior-care-app/storage"
	"github.com/meinhoongagan/senior-care-app/validation"
)

// Document kinds accepted by UploadDocument.
const (
	DocumentInsurance     = "insurance"
	DocumentWorkersComp   = "workersComp"
	DocumentCertification = "certification"
	DocumentOther         = "document"
)

type AdminSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// VettingSummary is returned after a status change.
type VettingSummary struct {
	ID           uint                `json:"id"`
	Username     string              `json:"username"`
	Email        string              `json:"email"`
	BusinessName string              `json:"businessName"`
	VettedStatus models.VettedStatus `json:"vettedStatus"`
	VettedAt     *time.Time          `json:"vettedAt"`
	VettedBy     *uint               `json:"vettedBy"`
	VettedNotes  string              `json:"vettedNotes"`
}

// VerificationDetail is the full provider verification bundle shown to admins.
type VerificationDetail struct {
	VettingSummary
	FirstName               string        `json:"firstName"`
	LastName                string        `json:"lastName"`
	Phone                   string        `json:"phone"`
	LicenseNumber           string        `json:"licenseNumber"`
	ServiceType             string        `json:"serviceType"`
	YearsOfExperience       *int          `json:"yearsOfExperience"`
	InsuranceProvider       string        `json:"insuranceProvider"`
	InsurancePolicyNumber   string        `json:"insurancePolicyNumber"`
	InsuranceExpiry         *time.Time    `json:"insuranceExpiry"`
	InsuranceDocument       string        `json:"insuranceDocument"`
	WorkersCompProvider     string        `json:"workersCompProvider"`
	WorkersCompPolicyNumber string        `json:"workersCompPolicyNumber"`
	WorkersCompDocument     string        `json:"workersCompDocument"`
	Certifications          []string      `json:"certifications"`
	Documents               []string      `json:"documents"`
	VettedByAdmin           *AdminSummary `json:"vettedByAdmin"`
	CreatedAt               time.Time     `json:"createdAt"`
}

type UpdateVerificationInput struct {
	InsuranceProvider       *string    `json:"insuranceProvider" validate:"omitempty,max=200"`
	InsurancePolicyNumber   *string    `json:"insurancePolicyNumber" validate:"omitempty,max=100"`
	InsuranceExpiry         *time.Time `json:"insuranceExpiry"`
	WorkersCompProvider     *string    `json:"workersCompProvider" validate:"omitempty,max=200"`
	WorkersCompPolicyNumber *string    `json:"workersCompPolicyNumber" validate:"omitempty,max=100"`
	Certifications          *[]string  `json:"certifications"`
	Documents               *[]string  `json:"documents"`
}

type VettingService struct {
	users repository.UserRepository
	files storage.Store
	now   clock
}

func NewVettingService(users repository.UserRepository, files storage.Store) *VettingService {
	return &VettingService{users: users, files: files, now: time.Now}
}

func summarize(u *models.User) VettingSummary {
	return VettingSummary{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		BusinessName: u.BusinessName,
		VettedStatus: u.VettedStatus,
		VettedAt:     u.VettedAt,
		VettedBy:     u.VettedBy,
		VettedNotes:  u.VettedNotes,
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// SetStatus records an admin's vetting decision on a provider.
func (s *VettingService) SetStatus(ctx context.Context, adminID, targetID uint, status models.VettedStatus, notes string) (*VettingSummary, error) {
	admin, err := requireAdmin(ctx, s.users, adminID)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, validation.NewFieldError("vettedStatus", "vettedStatus must be one of: NOT_VETTED PENDING_REVIEW VETTED REJECTED")
	}
	target, err := findUser(ctx, s.users, targetID, "User")
	if err != nil {
		return nil, err
	}
	if target.Role != models.RoleProvider {
		return nil, badRequest("Only providers can be vetted")
	}

	now := s.now()
	target.VettedStatus = status
	target.VettedAt = &now
	target.VettedBy = &admin.ID
	target.VettedNotes = strings.TrimSpace(notes)
	if err := s.users.Update(ctx, target); err != nil {
		return nil, errors.Trace(err)
	}

	logging.Info().
		Uint("admin_id", admin.ID).
		Uint("provider_id", target.ID).
		Str("vetted_status", string(status)).
		Msg("Provider vetting status updated")
	summary := summarize(target)
	return &summary, nil
}

// Detail returns a provider's verification bundle with the admin who last vetted it.
func (s *VettingService) Detail(ctx context.Context, adminID, targetID uint) (*VerificationDetail, error) {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return nil, err
	}
	target, err := findUser(ctx, s.users, targetID, "User")
	if err != nil {
		return nil, err
	}
	if target.Role != models.RoleProvider {
		return nil, badRequest("User is not a provider")
	}

	detail := &VerificationDetail{
		VettingSummary:          summarize(target),
		FirstName:               target.FirstName,
		LastName:                target.LastName,
		Phone:                   target.Phone,
		LicenseNumber:           target.LicenseNumber,
		ServiceType:             target.ServiceType,
		YearsOfExperience:       target.YearsOfExperience,
		InsuranceProvider:       target.InsuranceProvider,
		InsurancePolicyNumber:   target.InsurancePolicyNumber,
		InsuranceExpiry:         target.InsuranceExpiry,
		InsuranceDocument:       target.InsuranceDocument,
		WorkersCompProvider:     target.WorkersCompProvider,
		WorkersCompPolicyNumber: target.WorkersCompPolicyNumber,
		WorkersCompDocument:     target.WorkersCompDocument,
		Certifications:          nonNil(target.Certifications),
		Documents:               nonNil(target.Documents),
		CreatedAt:               target.CreatedAt,
	}

	if target.VettedBy != nil {
		vetter, err := s.users.FindByID(ctx, *target.VettedBy)
		switch {
		case err == nil:
			detail.VettedByAdmin = &AdminSummary{
				ID:       vetter.ID,
				Username: vetter.Username,
				Email:    vetter.Email,
				Name:     vetter.FullName(),
			}
		case !errors.Is(err, errors.NotFound):
			return nil, errors.Trace(err)
		}
	}
	return detail, nil
}

func (s *VettingService) provider(ctx context.Context, callerID uint) (*models.User, error) {
	user, err := findUser(ctx, s.users, callerID, "User")
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleProvider {
		return nil, forbidden("Only providers can manage verification details")
	}
	return user, nil
}

// UpdateVerification lets a provider maintain their own bundle. The vetting
// status is left as it is.
func (s *VettingService) UpdateVerification(ctx context.Context, callerID uint, in UpdateVerificationInput) (*models.User, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	user, err := s.provider(ctx, callerID)
	if err != nil {
		return nil, err
	}

	set(&user.InsuranceProvider, in.InsuranceProvider)
	set(&user.InsurancePolicyNumber, in.InsurancePolicyNumber)
	set(&user.WorkersCompProvider, in.WorkersCompProvider)
	set(&user.WorkersCompPolicyNumber, in.WorkersCompPolicyNumber)
	if in.InsuranceExpiry != nil {
		expiry := in.InsuranceExpiry.UTC()
		user.InsuranceExpiry = &expiry
	}
	if in.Certifications != nil {
		user.Certifications = *in.Certifications
	}
	if in.Documents != nil {
		user.Documents = *in.Documents
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, errors.Trace(err)
	}
	return user, nil
}

// UploadDocument stores a verification document and records it under kind.
func (s *VettingService) UploadDocument(ctx context.Context, callerID uint, kind string, up storage.Upload) (*models.User, error) {
	switch kind {
	case DocumentInsurance, DocumentWorkersComp, DocumentCertification, DocumentOther:
	default:
		return nil, validation.NewFieldError("type", "type must be one of: insurance workersComp certification document")
	}
	if err := storage.Check(up, storage.DocumentTypes, storage.MaxDocumentSize); err != nil {
		return nil, err
	}
	user, err := s.provider(ctx, callerID)
	if err != nil {
		return nil, err
	}

	location, err := s.files.Save(ctx, fmt.Sprintf("documents/%d", user.ID), up)
	if err != nil {
		return nil, errors.Annotate(err, "failed to store document")
	}

	var replaced string
	switch kind {
	case DocumentInsurance:
		replaced, user.InsuranceDocument = user.InsuranceDocument, location
	case DocumentWorkersComp:
		replaced, user.WorkersCompDocument = user.WorkersCompDocument, location
	case DocumentCertification:
		user.Certifications = append(user.Certifications, location)
	case DocumentOther:
		user.Documents = append(user.Documents, location)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if delErr := s.files.Delete(ctx, location); delErr != nil {
			logging.Warn().Err(delErr).Str("location", location).Msg("Failed to remove orphaned upload")
		}
		return nil, errors.Trace(err)
	}
	if replaced != "" {
		if err := s.files.Delete(ctx, replaced); err != nil {
			logging.Warn().Err(err).Str("location", replaced).Msg("Failed to remove replaced document")
		}
	}
	return user, nil
}
