package repository

import (
	"context"

	"github.com/tourops/daily-list-service/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	FindByDateAndActivities(ctx context.Context, date string, activityIDs []int64) ([]models.ActivityBooking, error)
	FindByActivityBookingIDs(ctx context.Context, ids []int64) ([]models.ActivityBooking, error)
	FindHistoricalByActivity(ctx context.Context, activityID int64) ([]models.ActivityBooking, error)
	CustomersByBookingIDs(ctx context.Context, bookingIDs []int64) (map[int64]models.Customer, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) FindByDateAndActivities(ctx context.Context, date string, activityIDs []int64) ([]models.ActivityBooking, error) {
	var bookings []models.ActivityBooking
	q := r.db.WithContext(ctx).
		Preload("PricingCategoryBookings").
		Where("booking_date = ? AND status <> ?", date, models.BookingCancelled)
	if len(activityIDs) > 0 {
		q = q.Where("activity_id IN ?", activityIDs)
	}
	if err := q.Order("start_time ASC, activity_booking_id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByActivityBookingIDs(ctx context.Context, ids []int64) ([]models.ActivityBooking, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var bookings []models.ActivityBooking
	err := r.db.WithContext(ctx).
		Preload("PricingCategoryBookings").
		Where("activity_booking_id IN ?", ids).
		Order("activity_booking_id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindHistoricalByActivity returns every booking ever taken for the
// activity; the export engine mines it for the full category set so
// that categories absent today still appear as zero columns.
func (r *bookingRepository) FindHistoricalByActivity(ctx context.Context, activityID int64) ([]models.ActivityBooking, error) {
	var bookings []models.ActivityBooking
	err := r.db.WithContext(ctx).
		Preload("PricingCategoryBookings").
		Where("activity_id = ?", activityID).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) CustomersByBookingIDs(ctx context.Context, bookingIDs []int64) (map[int64]models.Customer, error) {
	if len(bookingIDs) == 0 {
		return map[int64]models.Customer{}, nil
	}

	var rows []models.BookingCustomer
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("booking_id IN ?", bookingIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	customers := make(map[int64]models.Customer, len(rows))
	for _, row := range rows {
		if row.Customer != nil {
			customers[row.BookingID] = *row.Customer
		}
	}
	return customers, nil
}
