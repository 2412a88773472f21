package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/internal/repository"
)

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrNotAPDF            = errors.New("only PDF attachments are accepted")
)

type AttachmentService interface {
	Upload(ctx context.Context, availabilityID int64, fileName string, content io.Reader) (*models.ServiceAttachment, error)
	List(ctx context.Context, availabilityID int64) ([]models.ServiceAttachment, error)
	Delete(ctx context.Context, id int64) error
	DiskPath(attachment *models.ServiceAttachment) string
}

type attachmentService struct {
	repo         repository.AttachmentRepository
	activityRepo repository.ActivityRepository
	dir          string
}

func NewAttachmentService(repo repository.AttachmentRepository, activityRepo repository.ActivityRepository, dir string) AttachmentService {
	return &attachmentService{repo: repo, activityRepo: activityRepo, dir: dir}
}

// Upload stores the PDF on disk under a fresh name and records it
// against the availability. The original filename is kept for display.
func (s *attachmentService) Upload(ctx context.Context, availabilityID int64, fileName string, content io.Reader) (*models.ServiceAttachment, error) {
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return nil, ErrNotAPDF
	}
	if _, err := s.activityRepo.FindAvailabilityByID(ctx, availabilityID); err != nil {
		return nil, ErrAvailabilityNotFound
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}

	storedName := uuid.NewString() + ".pdf"
	f, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return nil, fmt.Errorf("create attachment file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, content); err != nil {
		return nil, fmt.Errorf("write attachment file: %w", err)
	}

	attachment := &models.ServiceAttachment{
		ActivityAvailabilityID: availabilityID,
		FileName:               fileName,
		FilePath:               storedName,
	}
	if err := s.repo.Create(ctx, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *attachmentService) List(ctx context.Context, availabilityID int64) ([]models.ServiceAttachment, error) {
	return s.repo.FindByAvailabilityIDs(ctx, []int64{availabilityID})
}

// Delete removes the row and best-effort removes the file; a missing
// file is not an error.
func (s *attachmentService) Delete(ctx context.Context, id int64) error {
	attachment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrAttachmentNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = os.Remove(filepath.Join(s.dir, attachment.FilePath))
	return nil
}

func (s *attachmentService) DiskPath(attachment *models.ServiceAttachment) string {
	return filepath.Join(s.dir, attachment.FilePath)
}
