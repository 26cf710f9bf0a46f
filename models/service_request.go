package models

import (
	"time"

	"gorm.io/gorm"
)

const ServiceRequestStatusPending = "PENDING"

// ServiceRequest is an open need posted by a customer, not yet matched to a provider.
type ServiceRequest struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	UserID        uint         `json:"userId" gorm:"index;not null"`
	User          *User        `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CategoryID    uint         `json:"categoryId" gorm:"index;not null"`
	Category      *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	SubcategoryID *uint        `json:"subcategoryId"`
	Subcategory   *Subcategory `json:"subcategory,omitempty" gorm:"foreignKey:SubcategoryID"`
	Title         string       `json:"title" gorm:"not null"`
	Description   string       `json:"description"`
	Location      string       `json:"location"`
	Latitude      *float64     `json:"latitude"`
	Longitude     *float64     `json:"longitude"`
	Budget        *float64     `json:"budget"`
	ServiceDate   *time.Time   `json:"serviceDate"`
	Status        string       `json:"status" gorm:"index;default:PENDING"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

func (r *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = ServiceRequestStatusPending
	}
	return nil
}
