package repository

import (
	"context"

	"github.com/tourops/daily-list-service/internal/models"
	"gorm.io/gorm"
)

type EmailLogRepository interface {
	Create(ctx context.Context, entry *models.EmailLog) error
	FindByServiceDate(ctx context.Context, date string) ([]models.EmailLog, error)
}

type emailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Create(ctx context.Context, entry *models.EmailLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *emailLogRepository) FindByServiceDate(ctx context.Context, date string) ([]models.EmailLog, error) {
	var logs []models.EmailLog
	err := r.db.WithContext(ctx).
		Where("service_date = ?", date).
		Order("sent_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
