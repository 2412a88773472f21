package repository

import (
	"context"

	"github.com/tourops/daily-list-service/internal/models"
	"gorm.io/gorm"
)

type VoucherRepository interface {
	FindByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.Voucher, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Voucher, error)
}

type voucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) FindByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.Voucher, error) {
	if len(availabilityIDs) == 0 {
		return nil, nil
	}
	var vouchers []models.Voucher
	err := r.db.WithContext(ctx).
		Preload("TicketCategories").
		Where("activity_availability_id IN ?", availabilityIDs).
		Order("id ASC").
		Find(&vouchers).Error
	if err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (r *voucherRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Voucher, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var vouchers []models.Voucher
	err := r.db.WithContext(ctx).
		Preload("TicketCategories").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&vouchers).Error
	if err != nil {
		return nil, err
	}
	return vouchers, nil
}
