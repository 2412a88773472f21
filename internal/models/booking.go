package models

import (
	"time"

	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// ActivityBooking is one activity-booking row as received from the
// booking platform webhook. ActivityBookingID is the platform's unique
// identity; ID is local.
type ActivityBooking struct {
	ID                int64          `gorm:"primaryKey" json:"id"`
	ActivityBookingID int64          `gorm:"not null;uniqueIndex" json:"activity_booking_id"`
	BookingID         int64          `gorm:"not null;index" json:"booking_id"`
	ActivityID        int64          `gorm:"not null;index:idx_booking_activity_date" json:"activity_id"`
	BookingDate       string         `gorm:"type:varchar(10);not null;index:idx_booking_activity_date" json:"booking_date"`
	StartTime         string         `gorm:"type:varchar(8);not null" json:"start_time"`
	Status            BookingStatus  `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	RawPayload        datatypes.JSON `json:"raw_payload,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`

	Activity                *Activity                `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	PricingCategoryBookings []PricingCategoryBooking `gorm:"foreignKey:ActivityBookingID;references:ActivityBookingID" json:"pricing_category_bookings,omitempty"`
}

// PricingCategoryBooking is one passenger line inside a booking.
type PricingCategoryBooking struct {
	ID                int64  `gorm:"primaryKey" json:"id"`
	ActivityBookingID int64  `gorm:"not null;index" json:"activity_booking_id"`
	PricingCategoryID string `gorm:"type:varchar(32)" json:"pricing_category_id"`
	BookedTitle       string `gorm:"not null" json:"booked_title"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	DateOfBirth       string `gorm:"type:varchar(10)" json:"date_of_birth"`
	Quantity          int    `gorm:"not null;default:1" json:"quantity"`
}

type Customer struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// BookingCustomer joins a platform booking id to its lead customer.
type BookingCustomer struct {
	ID         int64 `gorm:"primaryKey" json:"id"`
	BookingID  int64 `gorm:"not null;uniqueIndex" json:"booking_id"`
	CustomerID int64 `gorm:"not null" json:"customer_id"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}
