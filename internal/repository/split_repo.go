package repository

import (
	"context"

	"github.com/tourops/daily-list-service/internal/models"
	"gorm.io/gorm"
)

type SplitRepository interface {
	Create(ctx context.Context, split *models.TimeSlotSplit) error
	FindByID(ctx context.Context, id int64) (*models.TimeSlotSplit, error)
	FindByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.TimeSlotSplit, error)
	Update(ctx context.Context, split *models.TimeSlotSplit) error
	DeleteWithMembers(ctx context.Context, tx *gorm.DB, splitID int64) error

	BookingMembers(ctx context.Context, splitIDs []int64) ([]models.SplitBooking, error)
	VoucherMembers(ctx context.Context, splitIDs []int64) ([]models.SplitVoucher, error)
	MoveBookings(ctx context.Context, tx *gorm.DB, splitID int64, activityBookingIDs []int64) error
	MoveVouchers(ctx context.Context, tx *gorm.DB, splitID int64, voucherIDs []int64) error
	ReleaseBookings(ctx context.Context, tx *gorm.DB, activityBookingIDs []int64) error
	ReleaseVouchers(ctx context.Context, tx *gorm.DB, voucherIDs []int64) error

	GetDB() *gorm.DB
}

type splitRepository struct {
	db *gorm.DB
}

func NewSplitRepository(db *gorm.DB) SplitRepository {
	return &splitRepository{db: db}
}

func (r *splitRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *splitRepository) Create(ctx context.Context, split *models.TimeSlotSplit) error {
	return r.db.WithContext(ctx).Create(split).Error
}

func (r *splitRepository) FindByID(ctx context.Context, id int64) (*models.TimeSlotSplit, error) {
	var split models.TimeSlotSplit
	if err := r.db.WithContext(ctx).Preload("Guide").First(&split, id).Error; err != nil {
		return nil, err
	}
	return &split, nil
}

func (r *splitRepository) FindByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.TimeSlotSplit, error) {
	if len(availabilityIDs) == 0 {
		return nil, nil
	}
	var splits []models.TimeSlotSplit
	err := r.db.WithContext(ctx).
		Preload("Guide").
		Where("activity_availability_id IN ?", availabilityIDs).
		Order("display_order ASC, id ASC").
		Find(&splits).Error
	if err != nil {
		return nil, err
	}
	return splits, nil
}

func (r *splitRepository) Update(ctx context.Context, split *models.TimeSlotSplit) error {
	return r.db.WithContext(ctx).Save(split).Error
}

// DeleteWithMembers removes the split and its membership rows in one
// transaction; the members thereby return to the unsplit pool.
func (r *splitRepository) DeleteWithMembers(ctx context.Context, tx *gorm.DB, splitID int64) error {
	if err := tx.WithContext(ctx).Where("split_id = ?", splitID).Delete(&models.SplitBooking{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("split_id = ?", splitID).Delete(&models.SplitVoucher{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Delete(&models.TimeSlotSplit{}, splitID).Error
}

func (r *splitRepository) BookingMembers(ctx context.Context, splitIDs []int64) ([]models.SplitBooking, error) {
	if len(splitIDs) == 0 {
		return nil, nil
	}
	var members []models.SplitBooking
	err := r.db.WithContext(ctx).Where("split_id IN ?", splitIDs).Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *splitRepository) VoucherMembers(ctx context.Context, splitIDs []int64) ([]models.SplitVoucher, error) {
	if len(splitIDs) == 0 {
		return nil, nil
	}
	var members []models.SplitVoucher
	err := r.db.WithContext(ctx).Where("split_id IN ?", splitIDs).Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// MoveBookings implements move semantics: the ids are detached from
// whichever split holds them, then attached to the target split. The
// unique index on activity_booking_id backs the one-place-at-a-time
// invariant.
func (r *splitRepository) MoveBookings(ctx context.Context, tx *gorm.DB, splitID int64, activityBookingIDs []int64) error {
	if len(activityBookingIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).
		Where("activity_booking_id IN ?", activityBookingIDs).
		Delete(&models.SplitBooking{}).Error; err != nil {
		return err
	}
	members := make([]models.SplitBooking, 0, len(activityBookingIDs))
	for _, id := range activityBookingIDs {
		members = append(members, models.SplitBooking{SplitID: splitID, ActivityBookingID: id})
	}
	return tx.WithContext(ctx).Create(&members).Error
}

func (r *splitRepository) MoveVouchers(ctx context.Context, tx *gorm.DB, splitID int64, voucherIDs []int64) error {
	if len(voucherIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).
		Where("voucher_id IN ?", voucherIDs).
		Delete(&models.SplitVoucher{}).Error; err != nil {
		return err
	}
	members := make([]models.SplitVoucher, 0, len(voucherIDs))
	for _, id := range voucherIDs {
		members = append(members, models.SplitVoucher{SplitID: splitID, VoucherID: id})
	}
	return tx.WithContext(ctx).Create(&members).Error
}

func (r *splitRepository) ReleaseBookings(ctx context.Context, tx *gorm.DB, activityBookingIDs []int64) error {
	if len(activityBookingIDs) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Where("activity_booking_id IN ?", activityBookingIDs).
		Delete(&models.SplitBooking{}).Error
}

func (r *splitRepository) ReleaseVouchers(ctx context.Context, tx *gorm.DB, voucherIDs []int64) error {
	if len(voucherIDs) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Where("voucher_id IN ?", voucherIDs).
		Delete(&models.SplitVoucher{}).Error
}
