package repository

import (
	"context"

	"github.com/tourops/daily-list-service/internal/models"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	FindAll(ctx context.Context) ([]models.Activity, error)
	TitlesByID(ctx context.Context, ids []int64) (map[int64]string, error)
	FindAvailabilities(ctx context.Context, date string, activityIDs []int64) ([]models.ActivityAvailability, error)
	FindAvailabilityByID(ctx context.Context, id int64) (*models.ActivityAvailability, error)
	MeetingPointTexts(ctx context.Context, activityIDs []int64) (map[int64]string, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) FindAll(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) TitlesByID(ctx context.Context, ids []int64) (map[int64]string, error) {
	var activities []models.Activity
	q := r.db.WithContext(ctx)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	if err := q.Find(&activities).Error; err != nil {
		return nil, err
	}

	titles := make(map[int64]string, len(activities))
	for _, a := range activities {
		titles[a.ID] = a.Title
	}
	return titles, nil
}

// FindAvailabilities returns the sold availabilities for one date,
// optionally filtered to an activity-id set.
func (r *activityRepository) FindAvailabilities(ctx context.Context, date string, activityIDs []int64) ([]models.ActivityAvailability, error) {
	var availabilities []models.ActivityAvailability
	q := r.db.WithContext(ctx).Where("local_date = ? AND vacancy_sold > 0", date)
	if len(activityIDs) > 0 {
		q = q.Where("activity_id IN ?", activityIDs)
	}
	if err := q.Order("id ASC").Find(&availabilities).Error; err != nil {
		return nil, err
	}
	return availabilities, nil
}

func (r *activityRepository) FindAvailabilityByID(ctx context.Context, id int64) (*models.ActivityAvailability, error) {
	var av models.ActivityAvailability
	if err := r.db.WithContext(ctx).First(&av, id).Error; err != nil {
		return nil, err
	}
	return &av, nil
}

// MeetingPointTexts resolves the display text per activity, preferring
// the meeting point's address over its name.
func (r *activityRepository) MeetingPointTexts(ctx context.Context, activityIDs []int64) (map[int64]string, error) {
	var rows []models.ActivityMeetingPoint
	q := r.db.WithContext(ctx).Preload("MeetingPoint")
	if len(activityIDs) > 0 {
		q = q.Where("activity_id IN ?", activityIDs)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	texts := make(map[int64]string, len(rows))
	for _, row := range rows {
		if row.MeetingPoint == nil {
			continue
		}
		if row.MeetingPoint.Address != "" {
			texts[row.ActivityID] = row.MeetingPoint.Address
		} else {
			texts[row.ActivityID] = row.MeetingPoint.Name
		}
	}
	return texts, nil
}
