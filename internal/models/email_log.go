package models

import "time"

type EmailStatus string

const (
	EmailPending   EmailStatus = "pending"
	EmailSent      EmailStatus = "sent"
	EmailDelivered EmailStatus = "delivered"
	EmailRead      EmailStatus = "read"
	EmailReplied   EmailStatus = "replied"
	EmailFailed    EmailStatus = "failed"
)

// EmailLog is an append-only record of one send attempt.
type EmailLog struct {
	ID             string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RecipientEmail string      `gorm:"not null" json:"recipient_email"`
	RecipientName  string      `json:"recipient_name"`
	RecipientType  string      `gorm:"type:varchar(16)" json:"recipient_type"`
	Subject        string      `json:"subject"`
	Status         EmailStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	ErrorMessage   string      `json:"error_message"`
	ServiceDate    string      `gorm:"type:varchar(10);index" json:"service_date"`
	SentAt         time.Time   `json:"sent_at"`
}
