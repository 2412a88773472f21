package mailer

import (
	"context"
	"time"
)

// Attachment is one file to include in a send. Either Content (raw
// bytes, e.g. a generated roster) or Path (a fetchable URL, e.g. a
// stored voucher PDF) is set, never both.
type Attachment struct {
	Filename    string
	Content     []byte
	Path        string
	ContentType string
}

// SendRequest contains the data needed to send an email via an
// external provider.
type SendRequest struct {
	To          []string
	From        string // sender address; falls back to the configured default
	Subject     string
	HTML        string
	ReplyTo     string
	Attachments []Attachment
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
