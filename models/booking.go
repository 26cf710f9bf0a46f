package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
	BookingStatusNoShow     BookingStatus = "NO_SHOW"
)

// BookingStatuses lists every status; any of them may be written by a party to the booking.
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
	BookingStatusNoShow,
}

func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ActiveBookingStatuses block account deletion.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// SyncStatus tracks whether the customer's calendar reflects the booking.
type SyncStatus string

const (
	SyncStatusNotSynced   SyncStatus = "NOT_SYNCED"
	SyncStatusPendingSync SyncStatus = "PENDING_SYNC"
	SyncStatusSynced      SyncStatus = "SYNCED"
	SyncStatusSyncFailed  SyncStatus = "SYNC_FAILED"
)

type Booking struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	CustomerID         uint          `json:"customerId" gorm:"index;not null"`
	Customer           *User         `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	ProviderID         uint          `json:"providerId" gorm:"index;not null"`
	Provider           *User         `json:"provider,omitempty" gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
	CategoryID         uint          `json:"categoryId" gorm:"index;not null"`
	Category           *Category     `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Title              string        `json:"title" gorm:"not null"`
	Description        string        `json:"description"`
	StartTime          time.Time     `json:"startTime" gorm:"index;not null"`
	EndTime            time.Time     `json:"endTime" gorm:"not null"`
	Duration           int           `json:"duration"`
	Location           string        `json:"location"`
	Budget             *float64      `json:"budget"`
	Notes              string        `json:"notes"`
	Status             BookingStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	CancellationReason string        `json:"cancellationReason"`
	GoogleEventID      *string       `json:"googleEventId"`
	SyncStatus         SyncStatus    `json:"syncStatus" gorm:"type:varchar(20);index;default:NOT_SYNCED"`
	SyncError          string        `json:"syncError,omitempty"`
	SyncedAt           *time.Time    `json:"syncedAt"`
	ReminderSentAt     *time.Time    `json:"reminderSentAt"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	if b.SyncStatus == "" {
		b.SyncStatus = SyncStatusNotSynced
	}
	return nil
}

// DurationMinutes rounds the span between start and end to whole minutes.
func DurationMinutes(start, end time.Time) int {
	return int(math.Round(float64(end.Sub(start).Milliseconds()) / 60000))
}

// IsParty reports whether userID is the booking's customer or provider.
func (b *Booking) IsParty(userID uint) bool {
	return b.CustomerID == userID || b.ProviderID == userID
}

// StatusCount is one row of the dashboard aggregation.
type StatusCount struct {
	Status BookingStatus `json:"status"`
	Count  int64         `json:"count"`
}
