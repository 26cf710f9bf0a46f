package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type InquiryStatus string

const (
	InquiryStatusPending   InquiryStatus = "PENDING"
	InquiryStatusReviewed  InquiryStatus = "REVIEWED"
	InquiryStatusResponded InquiryStatus = "RESPONDED"
	InquiryStatusClosed    InquiryStatus = "CLOSED"
)

// ParseInquiryStatus accepts the canonical set plus OPEN as an alias of PENDING.
func ParseInquiryStatus(s string) (InquiryStatus, bool) {
	switch v := InquiryStatus(strings.ToUpper(strings.TrimSpace(s))); v {
	case InquiryStatusPending, InquiryStatusReviewed, InquiryStatusResponded, InquiryStatusClosed:
		return v, true
	case "OPEN":
		return InquiryStatusPending, true
	}
	return "", false
}

type InquiryPriority string

const (
	InquiryPriorityLow    InquiryPriority = "LOW"
	InquiryPriorityMedium InquiryPriority = "MEDIUM"
	InquiryPriorityHigh   InquiryPriority = "HIGH"
)

func (p InquiryPriority) Valid() bool {
	return p == InquiryPriorityLow || p == InquiryPriorityMedium || p == InquiryPriorityHigh
}

type Inquiry struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Name       string          `json:"name" gorm:"not null"`
	Email      string          `json:"email" gorm:"index;not null"`
	Phone      string          `json:"phone"`
	Subject    string          `json:"subject"`
	Message    string          `json:"message" gorm:"not null"`
	Status     InquiryStatus   `json:"status" gorm:"type:varchar(20);index"`
	Priority   InquiryPriority `json:"priority" gorm:"type:varchar(10)"`
	AdminNotes string          `json:"adminNotes"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.Status == "" {
		i.Status = InquiryStatusPending
	}
	if i.Priority == "" {
		i.Priority = InquiryPriorityMedium
	}
	return nil
}

type InquiryFilter struct {
	Status   InquiryStatus
	Priority InquiryPriority
}
