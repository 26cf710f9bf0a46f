package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// SubRole marks a delegate account acting for its parent customer.
type SubRole string

const (
	SubRoleFamilyMember SubRole = "FAMILY_MEMBER"
	SubRoleCaregiver    SubRole = "CAREGIVER"
)

func (s SubRole) Valid() bool {
	return s == SubRoleFamilyMember || s == SubRoleCaregiver
}

type VettedStatus string

const (
	VettedStatusNotVetted     VettedStatus = "NOT_VETTED"
	VettedStatusPendingReview VettedStatus = "PENDING_REVIEW"
	VettedStatusVetted        VettedStatus = "VETTED"
	VettedStatusRejected      VettedStatus = "REJECTED"
)

func (v VettedStatus) Valid() bool {
	switch v {
	case VettedStatusNotVetted, VettedStatusPendingReview, VettedStatusVetted, VettedStatusRejected:
		return true
	}
	return false
}

type User struct {
	ID           uint                        `json:"id" gorm:"primaryKey"`
	Username     string                      `json:"username" gorm:"uniqueIndex;not null"`
	Email        string                      `json:"email" gorm:"uniqueIndex;not null"`
	Password     string                      `json:"-" gorm:"not null"`
	Role         Role                        `json:"role" gorm:"type:varchar(20);index;not null"`
	SubRole      *SubRole                    `json:"subRole" gorm:"type:varchar(20)"`
	ParentUserID *uint                       `json:"parentUserId" gorm:"index"`
	Permissions  datatypes.JSONSlice[string] `json:"permissions"`

	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	ProfileImage string `json:"profileImage"`

	// Provider-only fields.
	BusinessName      string `json:"businessName"`
	LicenseNumber     string `json:"licenseNumber"`
	ServiceType       string `json:"serviceType" gorm:"index"`
	YearsOfExperience *int   `json:"yearsOfExperience"`
	Description       string `json:"description"`

	InsuranceProvider       string                      `json:"insuranceProvider"`
	InsurancePolicyNumber   string                      `json:"insurancePolicyNumber"`
	InsuranceExpiry         *time.Time                  `json:"insuranceExpiry"`
	InsuranceDocument       string                      `json:"insuranceDocument"`
	WorkersCompProvider     string                      `json:"workersCompProvider"`
	WorkersCompPolicyNumber string                      `json:"workersCompPolicyNumber"`
	WorkersCompDocument     string                      `json:"workersCompDocument"`
	Certifications          datatypes.JSONSlice[string] `json:"certifications"`
	Documents               datatypes.JSONSlice[string] `json:"documents"`

	VettedStatus VettedStatus `json:"vettedStatus" gorm:"type:varchar(20);default:NOT_VETTED"`
	VettedAt     *time.Time   `json:"vettedAt"`
	VettedBy     *uint        `json:"vettedBy"`
	VettedNotes  string       `json:"vettedNotes"`

	GoogleRefreshToken *string    `json:"-"`
	GoogleAccessToken  *string    `json:"-"`
	GoogleTokenExpiry  *time.Time `json:"-"`

	EmailVerified bool       `json:"emailVerified"`
	OTP           string     `json:"-"`
	OTPExpiresAt  *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate keeps vetting state on providers only.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.VettedStatus == "" || u.Role != RoleProvider {
		u.VettedStatus = VettedStatusNotVetted
	}
	return nil
}

// IsDelegate reports whether the user is a family member or caregiver account.
func (u *User) IsDelegate() bool {
	return u.SubRole != nil && u.ParentUserID != nil
}

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

// HasCalendarConnection reports whether a refresh token is stored.
func (u *User) HasCalendarConnection() bool {
	return u.GoogleRefreshToken != nil && *u.GoogleRefreshToken != ""
}

// ContactProfile is the subset of a user shared with delegates and counterparties.
type ContactProfile struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
}

func (u *User) Contact() ContactProfile {
	return ContactProfile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Address:   u.Address,
		City:      u.City,
		State:     u.State,
		ZipCode:   u.ZipCode,
	}
}

// UserFilter narrows admin and directory listings.
type UserFilter struct {
	Role         Role
	VettedStatus VettedStatus
	ServiceType  string
	Search       string
}
