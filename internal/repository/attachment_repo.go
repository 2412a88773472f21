package repository

import (
	"context"

	"github.com/tourops/daily-list-service/internal/models"
	"gorm.io/gorm"
)

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *models.ServiceAttachment) error
	FindByID(ctx context.Context, id int64) (*models.ServiceAttachment, error)
	FindByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.ServiceAttachment, error)
	Delete(ctx context.Context, id int64) error
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *models.ServiceAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *attachmentRepository) FindByID(ctx context.Context, id int64) (*models.ServiceAttachment, error) {
	var attachment models.ServiceAttachment
	if err := r.db.WithContext(ctx).First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepository) FindByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.ServiceAttachment, error) {
	if len(availabilityIDs) == 0 {
		return nil, nil
	}
	var attachments []models.ServiceAttachment
	err := r.db.WithContext(ctx).
		Where("activity_availability_id IN ?", availabilityIDs).
		Order("id ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *attachmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.ServiceAttachment{}, id).Error
}
