package service

import (
	"context"
	"errors"

	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSplitNotFound        = errors.New("split not found")
	ErrAvailabilityNotFound = errors.New("availability not found")
	ErrBookingNotInSlot     = errors.New("booking does not belong to this time slot")
	ErrVoucherNotInSlot     = errors.New("voucher does not belong to this time slot")
	ErrGuideNotFound        = errors.New("guide not found")
)

// SplitState is the full partition of one slot: the named splits plus
// the unsplit pool. Splits and pool are pairwise disjoint and together
// cover every booking/voucher of the availability.
type SplitState struct {
	ActivityAvailabilityID int64         `json:"activity_availability_id"`
	Splits                 []SplitView   `json:"splits"`
	UnsplitBookings        []Booking     `json:"unsplit_bookings"`
	UnsplitVouchers        []VoucherInfo `json:"unsplit_vouchers"`
}

type SplitService interface {
	CreateSplit(ctx context.Context, availabilityID int64, name string) (*models.TimeSlotSplit, error)
	AssignBookings(ctx context.Context, splitID int64, activityBookingIDs []int64) error
	AssignVouchers(ctx context.Context, splitID int64, voucherIDs []int64) error
	RemoveBookings(ctx context.Context, availabilityID int64, activityBookingIDs []int64) error
	RemoveVouchers(ctx context.Context, availabilityID int64, voucherIDs []int64) error
	AssignGuide(ctx context.Context, splitID int64, guideID *int64) error
	RenameSplit(ctx context.Context, splitID int64, name string) error
	DeleteSplit(ctx context.Context, splitID int64) error
	GetState(ctx context.Context, availabilityID int64) (*SplitState, error)
}

type splitService struct {
	splitRepo    repository.SplitRepository
	bookingRepo  repository.BookingRepository
	voucherRepo  repository.VoucherRepository
	activityRepo repository.ActivityRepository
	staffRepo    repository.StaffRepository
	normalizer   *Normalizer
}

func NewSplitService(
	splitRepo repository.SplitRepository,
	bookingRepo repository.BookingRepository,
	voucherRepo repository.VoucherRepository,
	activityRepo repository.ActivityRepository,
	staffRepo repository.StaffRepository,
	normalizer *Normalizer,
) SplitService {
	return &splitService{
		splitRepo:    splitRepo,
		bookingRepo:  bookingRepo,
		voucherRepo:  voucherRepo,
		activityRepo: activityRepo,
		staffRepo:    staffRepo,
		normalizer:   normalizer,
	}
}

// CreateSplit appends a new empty split; no members move.
func (s *splitService) CreateSplit(ctx context.Context, availabilityID int64, name string) (*models.TimeSlotSplit, error) {
	if _, err := s.activityRepo.FindAvailabilityByID(ctx, availabilityID); err != nil {
		return nil, ErrAvailabilityNotFound
	}

	existing, err := s.splitRepo.FindByAvailabilityIDs(ctx, []int64{availabilityID})
	if err != nil {
		return nil, err
	}

	split := &models.TimeSlotSplit{
		ActivityAvailabilityID: availabilityID,
		SplitName:              name,
		DisplayOrder:           len(existing),
	}
	if err := s.splitRepo.Create(ctx, split); err != nil {
		return nil, err
	}
	return split, nil
}

// AssignBookings moves the given bookings into the target split: they
// leave the unsplit pool and any split that currently holds them. The
// whole move is one transaction, so a failure never leaves a partial
// partition.
func (s *splitService) AssignBookings(ctx context.Context, splitID int64, activityBookingIDs []int64) error {
	split, err := s.splitRepo.FindByID(ctx, splitID)
	if err != nil {
		return ErrSplitNotFound
	}

	slotBookings, err := s.slotBookings(ctx, split.ActivityAvailabilityID)
	if err != nil {
		return err
	}
	inSlot := map[int64]bool{}
	for _, b := range slotBookings {
		inSlot[b.ActivityBookingID] = true
	}
	for _, id := range activityBookingIDs {
		if !inSlot[id] {
			return ErrBookingNotInSlot
		}
	}

	return s.splitRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.splitRepo.MoveBookings(ctx, tx, splitID, activityBookingIDs)
	})
}

func (s *splitService) AssignVouchers(ctx context.Context, splitID int64, voucherIDs []int64) error {
	split, err := s.splitRepo.FindByID(ctx, splitID)
	if err != nil {
		return ErrSplitNotFound
	}

	vouchers, err := s.voucherRepo.FindByIDs(ctx, voucherIDs)
	if err != nil {
		return err
	}
	if len(vouchers) != len(voucherIDs) {
		return ErrVoucherNotInSlot
	}
	for _, v := range vouchers {
		if v.ActivityAvailabilityID != split.ActivityAvailabilityID {
			return ErrVoucherNotInSlot
		}
	}

	return s.splitRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.splitRepo.MoveVouchers(ctx, tx, splitID, voucherIDs)
	})
}

// RemoveBookings returns the given bookings to the unsplit pool from
// whichever split currently holds them.
func (s *splitService) RemoveBookings(ctx context.Context, availabilityID int64, activityBookingIDs []int64) error {
	return s.splitRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.splitRepo.ReleaseBookings(ctx, tx, activityBookingIDs)
	})
}

func (s *splitService) RemoveVouchers(ctx context.Context, availabilityID int64, voucherIDs []int64) error {
	return s.splitRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.splitRepo.ReleaseVouchers(ctx, tx, voucherIDs)
	})
}

// AssignGuide sets or clears the split's guide; membership is
// untouched.
func (s *splitService) AssignGuide(ctx context.Context, splitID int64, guideID *int64) error {
	split, err := s.splitRepo.FindByID(ctx, splitID)
	if err != nil {
		return ErrSplitNotFound
	}
	if guideID != nil {
		if _, err := s.staffRepo.FindGuideByID(ctx, *guideID); err != nil {
			return ErrGuideNotFound
		}
	}
	split.GuideID = guideID
	split.Guide = nil
	return s.splitRepo.Update(ctx, split)
}

func (s *splitService) RenameSplit(ctx context.Context, splitID int64, name string) error {
	split, err := s.splitRepo.FindByID(ctx, splitID)
	if err != nil {
		return ErrSplitNotFound
	}
	split.SplitName = name
	split.Guide = nil
	return s.splitRepo.Update(ctx, split)
}

// DeleteSplit removes the split; its former members reappear exactly
// once in the unsplit pool.
func (s *splitService) DeleteSplit(ctx context.Context, splitID int64) error {
	if _, err := s.splitRepo.FindByID(ctx, splitID); err != nil {
		return ErrSplitNotFound
	}
	return s.splitRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.splitRepo.DeleteWithMembers(ctx, tx, splitID)
	})
}

// GetState resolves the full partition for one slot.
func (s *splitService) GetState(ctx context.Context, availabilityID int64) (*SplitState, error) {
	if _, err := s.activityRepo.FindAvailabilityByID(ctx, availabilityID); err != nil {
		return nil, ErrAvailabilityNotFound
	}

	slotBookings, err := s.slotBookings(ctx, availabilityID)
	if err != nil {
		return nil, err
	}

	voucherRows, err := s.voucherRepo.FindByAvailabilityIDs(ctx, []int64{availabilityID})
	if err != nil {
		return nil, err
	}
	slotVouchers := GroupVouchers(voucherRows)[availabilityID]

	splits, err := s.splitRepo.FindByAvailabilityIDs(ctx, []int64{availabilityID})
	if err != nil {
		return nil, err
	}

	splitIDs := make([]int64, 0, len(splits))
	for _, sp := range splits {
		splitIDs = append(splitIDs, sp.ID)
	}
	bookingMembers, err := s.splitRepo.BookingMembers(ctx, splitIDs)
	if err != nil {
		return nil, err
	}
	voucherMembers, err := s.splitRepo.VoucherMembers(ctx, splitIDs)
	if err != nil {
		return nil, err
	}

	bookingSplit := map[int64]int64{}
	for _, m := range bookingMembers {
		bookingSplit[m.ActivityBookingID] = m.SplitID
	}
	voucherSplit := map[int64]int64{}
	for _, m := range voucherMembers {
		voucherSplit[m.VoucherID] = m.SplitID
	}

	state := &SplitState{ActivityAvailabilityID: availabilityID}

	views := make(map[int64]*SplitView, len(splits))
	for _, sp := range splits {
		state.Splits = append(state.Splits, SplitView{
			ID:                     sp.ID,
			ActivityAvailabilityID: sp.ActivityAvailabilityID,
			SplitName:              sp.SplitName,
			GuideID:                sp.GuideID,
			DisplayOrder:           sp.DisplayOrder,
		})
		views[sp.ID] = &state.Splits[len(state.Splits)-1]
	}

	for _, b := range slotBookings {
		if splitID, ok := bookingSplit[b.ActivityBookingID]; ok {
			if view := views[splitID]; view != nil {
				view.Bookings = append(view.Bookings, b)
				continue
			}
		}
		state.UnsplitBookings = append(state.UnsplitBookings, b)
	}

	for _, v := range slotVouchers {
		if splitID, ok := voucherSplit[v.ID]; ok {
			if view := views[splitID]; view != nil {
				view.Vouchers = append(view.Vouchers, v)
				continue
			}
		}
		state.UnsplitVouchers = append(state.UnsplitVouchers, v)
	}

	return state, nil
}

// slotBookings resolves the normalized bookings belonging to one
// availability by matching activity, date and normalized time.
func (s *splitService) slotBookings(ctx context.Context, availabilityID int64) ([]Booking, error) {
	av, err := s.activityRepo.FindAvailabilityByID(ctx, availabilityID)
	if err != nil {
		return nil, ErrAvailabilityNotFound
	}

	rows, err := s.bookingRepo.FindByDateAndActivities(ctx, av.LocalDate, []int64{av.ActivityID})
	if err != nil {
		return nil, err
	}

	titles, err := s.activityRepo.TitlesByID(ctx, []int64{av.ActivityID})
	if err != nil {
		return nil, err
	}

	bookingIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		bookingIDs = append(bookingIDs, row.BookingID)
	}
	customerRows, err := s.bookingRepo.CustomersByBookingIDs(ctx, bookingIDs)
	if err != nil {
		return nil, err
	}
	customers := CustomerInfoMap(customerRows)

	all := s.normalizer.Normalize(rows, titles, customers)

	var out []Booking
	for _, b := range all {
		if SameTime(b.StartTime, av.LocalTime) {
			out = append(out, b)
		}
	}
	return out, nil
}
