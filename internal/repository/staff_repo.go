package repository

import (
	"context"

	"github.com/tourops/daily-list-service/internal/models"
	"gorm.io/gorm"
)

type StaffRepository interface {
	FindAssignmentsByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.AvailabilityAssignment, error)
	FindGuideByID(ctx context.Context, id int64) (*models.Guide, error)
	FindActiveGuides(ctx context.Context) ([]models.Guide, error)
}

type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) FindAssignmentsByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.AvailabilityAssignment, error) {
	if len(availabilityIDs) == 0 {
		return nil, nil
	}
	var assignments []models.AvailabilityAssignment
	err := r.db.WithContext(ctx).
		Preload("Guide").
		Where("activity_availability_id IN ?", availabilityIDs).
		Order("id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *staffRepository) FindGuideByID(ctx context.Context, id int64) (*models.Guide, error) {
	var guide models.Guide
	if err := r.db.WithContext(ctx).First(&guide, id).Error; err != nil {
		return nil, err
	}
	return &guide, nil
}

func (r *staffRepository) FindActiveGuides(ctx context.Context) ([]models.Guide, error) {
	var guides []models.Guide
	err := r.db.WithContext(ctx).
		Where("active = true").
		Order("first_name ASC, last_name ASC").
		Find(&guides).Error
	if err != nil {
		return nil, err
	}
	return guides, nil
}
