package models

import "time"

// Voucher is one ticket voucher delivered by a supplier for a slot.
type Voucher struct {
	ID                     int64     `gorm:"primaryKey" json:"id"`
	ActivityAvailabilityID int64     `gorm:"not null;index" json:"activity_availability_id"`
	BookingNumber          string    `gorm:"not null" json:"booking_number"`
	TotalTickets           int       `gorm:"not null;default:0" json:"total_tickets"`
	ProductName            string    `json:"product_name"`
	PDFPath                string    `json:"pdf_path"`
	EntryTime              string    `gorm:"type:varchar(8)" json:"entry_time"`
	CreatedAt              time.Time `json:"created_at"`

	TicketCategories []TicketCategory `gorm:"foreignKey:VoucherID" json:"ticket_categories,omitempty"`
}

type TicketCategory struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	VoucherID int64  `gorm:"not null;index" json:"voucher_id"`
	Name      string `gorm:"not null" json:"name"`
	Quantity  int    `gorm:"not null;default:1" json:"quantity"`
}

// ServiceAttachment is an uploaded PDF bound to a slot.
type ServiceAttachment struct {
	ID                     int64     `gorm:"primaryKey" json:"id"`
	ActivityAvailabilityID int64     `gorm:"not null;index" json:"activity_availability_id"`
	FileName               string    `gorm:"not null" json:"file_name"`
	FilePath               string    `gorm:"not null" json:"file_path"`
	CreatedAt              time.Time `json:"created_at"`
}
