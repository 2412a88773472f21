//go:build integration

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/internal/repository"
	"github.com/tourops/daily-list-service/internal/service"
)

func newSplitService() service.SplitService {
	return service.NewSplitService(
		repository.NewSplitRepository(testDB),
		repository.NewBookingRepository(testDB),
		repository.NewVoucherRepository(testDB),
		repository.NewActivityRepository(testDB),
		repository.NewStaffRepository(testDB),
		service.NewNormalizer(service.DefaultCategoryPolicy()),
	)
}

// seedSlot creates one activity with one 09:00 availability, two
// confirmed bookings in that slot and one voucher.
func seedSlot(t *testing.T) *models.ActivityAvailability {
	t.Helper()

	require.NoError(t, testDB.Create(&models.Activity{ID: 1, Title: "Colosseum Tour"}).Error)

	availability := &models.ActivityAvailability{
		ID: 10, ActivityID: 1, LocalDate: "2026-09-01", LocalTime: "09:00:00",
	}
	require.NoError(t, testDB.Create(availability).Error)

	bookings := []models.ActivityBooking{
		{ActivityBookingID: 101, BookingID: 501, ActivityID: 1, BookingDate: "2026-09-01", StartTime: "09:00:00", Status: models.BookingConfirmed},
		{ActivityBookingID: 102, BookingID: 502, ActivityID: 1, BookingDate: "2026-09-01", StartTime: "09:00:00", Status: models.BookingConfirmed},
	}
	require.NoError(t, testDB.Create(&bookings).Error)

	lines := []models.PricingCategoryBooking{
		{ActivityBookingID: 101, BookedTitle: "Adulto", Quantity: 2},
		{ActivityBookingID: 102, BookedTitle: "Adulto", Quantity: 3},
	}
	require.NoError(t, testDB.Create(&lines).Error)

	voucher := &models.Voucher{
		ID: 30, ActivityAvailabilityID: 10, BookingNumber: "VB-1", TotalTickets: 5,
	}
	require.NoError(t, testDB.Create(voucher).Error)

	return availability
}

func TestAssignBookings_MovesBetweenSplits(t *testing.T) {
	cleanTables()
	seedSlot(t)
	svc := newSplitService()

	splitA, err := svc.CreateSplit(t.Context(), 10, "Group A")
	require.NoError(t, err)
	splitB, err := svc.CreateSplit(t.Context(), 10, "Group B")
	require.NoError(t, err)

	require.NoError(t, svc.AssignBookings(t.Context(), splitA.ID, []int64{101}))
	// Moving to another split must detach from the first one
	require.NoError(t, svc.AssignBookings(t.Context(), splitB.ID, []int64{101}))

	state, err := svc.GetState(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, state.Splits, 2)

	var inA, inB []int64
	for _, sp := range state.Splits {
		for _, b := range sp.Bookings {
			if sp.ID == splitA.ID {
				inA = append(inA, b.ActivityBookingID)
			} else {
				inB = append(inB, b.ActivityBookingID)
			}
		}
	}
	assert.Empty(t, inA)
	assert.Equal(t, []int64{101}, inB)

	// Booking 102 never moved, so it stays in the pool
	require.Len(t, state.UnsplitBookings, 1)
	assert.Equal(t, int64(102), state.UnsplitBookings[0].ActivityBookingID)

	var memberCount int64
	testDB.Model(&models.SplitBooking{}).Where("activity_booking_id = ?", 101).Count(&memberCount)
	assert.Equal(t, int64(1), memberCount, "a booking belongs to at most one split")
}

func TestDeleteSplit_ReturnsMembersToPoolOnce(t *testing.T) {
	cleanTables()
	seedSlot(t)
	svc := newSplitService()

	split, err := svc.CreateSplit(t.Context(), 10, "Group A")
	require.NoError(t, err)
	require.NoError(t, svc.AssignBookings(t.Context(), split.ID, []int64{101, 102}))
	require.NoError(t, svc.AssignVouchers(t.Context(), split.ID, []int64{30}))

	require.NoError(t, svc.DeleteSplit(t.Context(), split.ID))

	state, err := svc.GetState(t.Context(), 10)
	require.NoError(t, err)
	assert.Empty(t, state.Splits)
	assert.Len(t, state.UnsplitBookings, 2)
	require.Len(t, state.UnsplitVouchers, 1)
	assert.Equal(t, int64(30), state.UnsplitVouchers[0].ID)

	// Member rows are gone, not orphaned
	var bookingMembers, voucherMembers int64
	testDB.Model(&models.SplitBooking{}).Count(&bookingMembers)
	testDB.Model(&models.SplitVoucher{}).Count(&voucherMembers)
	assert.Equal(t, int64(0), bookingMembers)
	assert.Equal(t, int64(0), voucherMembers)
}

func TestRemoveBookings_ReturnsToPool(t *testing.T) {
	cleanTables()
	seedSlot(t)
	svc := newSplitService()

	split, err := svc.CreateSplit(t.Context(), 10, "Group A")
	require.NoError(t, err)
	require.NoError(t, svc.AssignBookings(t.Context(), split.ID, []int64{101, 102}))

	require.NoError(t, svc.RemoveBookings(t.Context(), 10, []int64{101}))

	state, err := svc.GetState(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, state.Splits, 1)
	require.Len(t, state.Splits[0].Bookings, 1)
	assert.Equal(t, int64(102), state.Splits[0].Bookings[0].ActivityBookingID)
	require.Len(t, state.UnsplitBookings, 1)
	assert.Equal(t, int64(101), state.UnsplitBookings[0].ActivityBookingID)
}

func TestAssignGuide_SetAndClear(t *testing.T) {
	cleanTables()
	seedSlot(t)
	require.NoError(t, testDB.Create(&models.Guide{ID: 7, FirstName: "Ana", LastName: "Bianchi", Active: true}).Error)
	svc := newSplitService()

	split, err := svc.CreateSplit(t.Context(), 10, "Group A")
	require.NoError(t, err)

	guideID := int64(7)
	require.NoError(t, svc.AssignGuide(t.Context(), split.ID, &guideID))

	var stored models.TimeSlotSplit
	require.NoError(t, testDB.First(&stored, split.ID).Error)
	require.NotNil(t, stored.GuideID)
	assert.Equal(t, int64(7), *stored.GuideID)

	require.NoError(t, svc.AssignGuide(t.Context(), split.ID, nil))
	require.NoError(t, testDB.First(&stored, split.ID).Error)
	assert.Nil(t, stored.GuideID)
}

func TestCreateSplit_DisplayOrderAppends(t *testing.T) {
	cleanTables()
	seedSlot(t)
	svc := newSplitService()

	first, err := svc.CreateSplit(t.Context(), 10, "Group A")
	require.NoError(t, err)
	second, err := svc.CreateSplit(t.Context(), 10, "Group B")
	require.NoError(t, err)

	assert.Equal(t, 0, first.DisplayOrder)
	assert.Equal(t, 1, second.DisplayOrder)
}
