package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/internal/repository"
	"github.com/tourops/daily-list-service/pkg/mailer"
)

var (
	ErrNoEmailRecipients = errors.New("at least one recipient is required")
	ErrBadAttachmentData = errors.New("daily list attachment is not valid base64")
)

type NamedAttachment struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// SendEmailRequest is the fully-resolved send payload: recipients,
// rendered subject/body, and any combination of stored attachment
// URLs, named remote attachments, and an inline base64 workbook.
type SendEmailRequest struct {
	Recipients             []string          `json:"recipients"`
	Subject                string            `json:"subject"`
	Body                   string            `json:"body"`
	ActivityAvailabilityID *int64            `json:"activityAvailabilityId,omitempty"`
	AttachmentURLs         []string          `json:"attachmentUrls,omitempty"`
	NamedAttachments       []NamedAttachment `json:"namedAttachments,omitempty"`
	DailyListData          string            `json:"dailyListData,omitempty"`
	DailyListFileName      string            `json:"dailyListFileName,omitempty"`
	ServiceDate            string            `json:"serviceDate"`
	RecipientType          string            `json:"recipientType,omitempty"`
}

type SendEmailResult struct {
	Sent   int              `json:"sent"`
	Failed int              `json:"failed"`
	Errors []RecipientError `json:"errors,omitempty"`
}

type EmailService interface {
	Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error)
	Logs(ctx context.Context, date string) ([]models.EmailLog, error)
}

type emailService struct {
	sender  mailer.Sender
	logRepo repository.EmailLogRepository
}

func NewEmailService(sender mailer.Sender, logRepo repository.EmailLogRepository) EmailService {
	return &emailService{sender: sender, logRepo: logRepo}
}

// Send delivers to each recipient in series; a failure is recorded and
// the loop continues.
func (s *emailService) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error) {
	if len(req.Recipients) == 0 {
		return nil, ErrNoEmailRecipients
	}

	attachments, err := buildAttachments(req)
	if err != nil {
		return nil, err
	}

	result := &SendEmailResult{}
	for _, to := range req.Recipients {
		_, sendErr := s.sender.Send(ctx, mailer.SendRequest{
			To:          []string{to},
			Subject:     req.Subject,
			HTML:        req.Body,
			Attachments: attachments,
		})

		entry := &models.EmailLog{
			ID:             uuid.NewString(),
			RecipientEmail: to,
			RecipientType:  req.RecipientType,
			Subject:        req.Subject,
			Status:         models.EmailSent,
			ServiceDate:    req.ServiceDate,
			SentAt:         time.Now(),
		}
		if sendErr != nil {
			entry.Status = models.EmailFailed
			entry.ErrorMessage = sendErr.Error()
			result.Failed++
			result.Errors = append(result.Errors, RecipientError{
				RecipientEmail: to,
				Error:          sendErr.Error(),
			})
		} else {
			result.Sent++
		}
		if err := s.logRepo.Create(ctx, entry); err != nil {
			log.Printf("[Email] write email log: %v", err)
		}
	}

	return result, nil
}

func buildAttachments(req SendEmailRequest) ([]mailer.Attachment, error) {
	var out []mailer.Attachment
	for _, url := range req.AttachmentURLs {
		out = append(out, mailer.Attachment{Path: url})
	}
	for _, named := range req.NamedAttachments {
		out = append(out, mailer.Attachment{Path: named.URL, Filename: named.Filename})
	}
	if req.DailyListData != "" {
		content, err := base64.StdEncoding.DecodeString(req.DailyListData)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadAttachmentData, err)
		}
		name := req.DailyListFileName
		if name == "" {
			name = "daily-list.xlsx"
		}
		out = append(out, mailer.Attachment{
			Filename:    name,
			Content:     content,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		})
	}
	return out, nil
}

func (s *emailService) Logs(ctx context.Context, date string) ([]models.EmailLog, error) {
	return s.logRepo.FindByServiceDate(ctx, date)
}
