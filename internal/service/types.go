package service

import "strings"

// Passenger is one included passenger line of a booking.
type Passenger struct {
	PricingCategoryID string `json:"pricing_category_id,omitempty"`
	BookedTitle       string `json:"booked_title"`
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	DateOfBirth       string `json:"date_of_birth,omitempty"`
	Quantity          int    `json:"quantity"`
}

type CustomerInfo struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (c *CustomerInfo) FullName() string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Booking is one normalized activity-booking row. Built fresh on every
// fetch, immutable afterwards.
type Booking struct {
	ActivityID         int64         `json:"activity_id"`
	ActivityTitle      string        `json:"activity_title"`
	BookingDate        string        `json:"booking_date"`
	StartTime          string        `json:"start_time"`
	BookingID          int64         `json:"booking_id"`
	ActivityBookingID  int64         `json:"activity_booking_id"`
	TotalParticipants  int           `json:"total_participants"`
	ParticipantsDetail string        `json:"participants_detail"`
	Passengers         []Passenger   `json:"passengers"`
	Customer           *CustomerInfo `json:"customer,omitempty"`
}

type TimeSlot struct {
	Time              string    `json:"time"`
	Bookings          []Booking `json:"bookings"`
	TotalParticipants int       `json:"total_participants"`
}

type Tour struct {
	TourTitle         string     `json:"tour_title"`
	TimeSlots         []TimeSlot `json:"time_slots"`
	TotalParticipants int        `json:"total_participants"`
}

type Person struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// StaffAssignment carries the staff resolved for one availability.
// Exactly one assignment matches one time slot under time
// normalization; a slot with no availability row is staff-less.
type StaffAssignment struct {
	ActivityAvailabilityID int64    `json:"activity_availability_id"`
	ActivityID             int64    `json:"activity_id"`
	LocalTime              string   `json:"local_time"`
	Guides                 []Person `json:"guides"`
	Escorts                []Person `json:"escorts"`
	Headphones             []Person `json:"headphones"`
	Printing               []Person `json:"printing"`
}

type VoucherInfo struct {
	ID            int64  `json:"id"`
	BookingNumber string `json:"booking_number"`
	TotalTickets  int    `json:"total_tickets"`
	ProductName   string `json:"product_name"`
	CategoryName  string `json:"category_name,omitempty"`
	PDFPath       string `json:"pdf_path,omitempty"`
	EntryTime     string `json:"entry_time,omitempty"`
}

type AttachmentInfo struct {
	ID                     int64  `json:"id"`
	FileName               string `json:"file_name"`
	FilePath               string `json:"file_path"`
	ActivityAvailabilityID int64  `json:"activity_availability_id"`
}

// SplitView is one split with its members resolved.
type SplitView struct {
	ID                     int64         `json:"id"`
	ActivityAvailabilityID int64         `json:"activity_availability_id"`
	SplitName              string        `json:"split_name"`
	GuideID                *int64        `json:"guide_id"`
	DisplayOrder           int           `json:"display_order"`
	Bookings               []Booking     `json:"bookings"`
	Vouchers               []VoucherInfo `json:"vouchers"`
}
