package models

import "time"

// TimeSlotSplit is an operator-defined sub-partition of a slot's
// bookings/vouchers, typically used to hand one large slot to several
// guides. Membership is tracked in the two member tables; a booking or
// voucher belongs to at most one split (unique index on the member id).
type TimeSlotSplit struct {
	ID                     int64     `gorm:"primaryKey" json:"id"`
	ActivityAvailabilityID int64     `gorm:"not null;index" json:"activity_availability_id"`
	SplitName              string    `gorm:"not null" json:"split_name"`
	GuideID                *int64    `json:"guide_id"`
	DisplayOrder           int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	Guide *Guide `gorm:"foreignKey:GuideID" json:"guide,omitempty"`
}

type SplitBooking struct {
	ID                int64 `gorm:"primaryKey" json:"id"`
	SplitID           int64 `gorm:"not null;index" json:"split_id"`
	ActivityBookingID int64 `gorm:"not null;uniqueIndex" json:"activity_booking_id"`
}

type SplitVoucher struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	SplitID   int64 `gorm:"not null;index" json:"split_id"`
	VoucherID int64 `gorm:"not null;uniqueIndex" json:"voucher_id"`
}
