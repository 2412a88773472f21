package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/pkg/mailer"
)

func TestEmailSend_RequiresRecipients(t *testing.T) {
	svc := NewEmailService(&mockSender{}, &mockEmailLogRepo{})

	_, err := svc.Send(context.Background(), SendEmailRequest{})
	assert.ErrorIs(t, err, ErrNoEmailRecipients)
}

func TestEmailSend_RejectsBadBase64(t *testing.T) {
	svc := NewEmailService(&mockSender{}, &mockEmailLogRepo{})

	_, err := svc.Send(context.Background(), SendEmailRequest{
		Recipients:    []string{"a@example.com"},
		DailyListData: "not-base64!!!",
	})
	assert.ErrorIs(t, err, ErrBadAttachmentData)
}

func TestEmailSend_PerRecipientIsolation(t *testing.T) {
	sender := &mockSender{
		sendFn: func(ctx context.Context, req mailer.SendRequest) (mailer.SendResult, error) {
			if req.To[0] == "bad@example.com" {
				return mailer.SendResult{}, errors.New("bounce")
			}
			return mailer.SendResult{}, nil
		},
	}
	logRepo := &mockEmailLogRepo{}
	svc := NewEmailService(sender, logRepo)

	result, err := svc.Send(context.Background(), SendEmailRequest{
		Recipients:  []string{"good@example.com", "bad@example.com", "also@example.com"},
		Subject:     "Daily list",
		ServiceDate: "2026-09-01",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "bad@example.com", result.Errors[0].RecipientEmail)

	assert.Len(t, logRepo.entries, 3)
	for _, entry := range logRepo.entries {
		assert.Equal(t, "2026-09-01", entry.ServiceDate)
		if entry.RecipientEmail == "bad@example.com" {
			assert.Equal(t, models.EmailFailed, entry.Status)
		} else {
			assert.Equal(t, models.EmailSent, entry.Status)
		}
	}
}

func TestEmailSend_BuildsAttachments(t *testing.T) {
	workbook := base64.StdEncoding.EncodeToString([]byte("xlsx-bytes"))
	sender := &mockSender{}
	svc := NewEmailService(sender, &mockEmailLogRepo{})

	_, err := svc.Send(context.Background(), SendEmailRequest{
		Recipients:        []string{"a@example.com"},
		AttachmentURLs:    []string{"https://files.example.com/voucher.pdf"},
		NamedAttachments:  []NamedAttachment{{URL: "https://files.example.com/x.pdf", Filename: "Guide - 09.00 - voucher.pdf"}},
		DailyListData:     workbook,
		DailyListFileName: "Colosseum + 01-09-2026 + 09.00.xlsx",
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	attachments := sender.sent[0].Attachments
	require.Len(t, attachments, 3)
	assert.Equal(t, "https://files.example.com/voucher.pdf", attachments[0].Path)
	assert.Equal(t, "Guide - 09.00 - voucher.pdf", attachments[1].Filename)
	assert.Equal(t, []byte("xlsx-bytes"), attachments[2].Content)
	assert.Equal(t, "Colosseum + 01-09-2026 + 09.00.xlsx", attachments[2].Filename)
}
