package repository

import (
	"context"

	"github.com/tourops/daily-list-service/internal/models"
	"gorm.io/gorm"
)

type ServiceGroupRepository interface {
	FindByDate(ctx context.Context, date string) ([]models.ServiceGroup, error)
	MembershipByAvailability(ctx context.Context, date string) (map[int64]models.ServiceGroup, error)
}

type serviceGroupRepository struct {
	db *gorm.DB
}

func NewServiceGroupRepository(db *gorm.DB) ServiceGroupRepository {
	return &serviceGroupRepository{db: db}
}

func (r *serviceGroupRepository) FindByDate(ctx context.Context, date string) ([]models.ServiceGroup, error) {
	var groups []models.ServiceGroup
	err := r.db.WithContext(ctx).
		Preload("Members").
		Where("service_date = ?", date).
		Order("id ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// MembershipByAvailability flattens the day's groups into a lookup
// from availability id to its group.
func (r *serviceGroupRepository) MembershipByAvailability(ctx context.Context, date string) (map[int64]models.ServiceGroup, error) {
	groups, err := r.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	membership := map[int64]models.ServiceGroup{}
	for _, g := range groups {
		for _, m := range g.Members {
			membership[m.ActivityAvailabilityID] = models.ServiceGroup{
				ID:          g.ID,
				GroupName:   g.GroupName,
				ServiceDate: g.ServiceDate,
			}
		}
	}
	return membership, nil
}
