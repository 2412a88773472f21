package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tourops/daily-list-service/internal/models"
)

func TestBuildStaffAssignments_EmptyEntryPerAvailability(t *testing.T) {
	availabilities := []models.ActivityAvailability{
		{ID: 10, ActivityID: 1, LocalTime: "09:00:00"},
		{ID: 11, ActivityID: 1, LocalTime: "14:00:00"},
	}
	assignments := []models.AvailabilityAssignment{
		{
			ActivityAvailabilityID: 10,
			Role:                   models.RoleGuide,
			Guide:                  &models.Guide{ID: 1, FirstName: "Ana", LastName: "Bianchi"},
		},
		{
			ActivityAvailabilityID: 10,
			Role:                   models.RoleEscort,
			Guide:                  &models.Guide{ID: 2, FirstName: "Luca"},
		},
	}

	staff := BuildStaffAssignments(availabilities, assignments)

	assert.Len(t, staff, 2)
	assert.Len(t, staff[10].Guides, 1)
	assert.Equal(t, "Ana Bianchi", staff[10].Guides[0].FullName())
	assert.Len(t, staff[10].Escorts, 1)

	// Unstaffed availability still gets an entry
	assert.NotNil(t, staff[11])
	assert.Empty(t, staff[11].Guides)
}

func TestMatchAssignment_NormalizesTimes(t *testing.T) {
	staff := map[int64]*StaffAssignment{
		10: {ActivityAvailabilityID: 10, ActivityID: 1, LocalTime: "09:00:00"},
	}

	assert.NotNil(t, MatchAssignment(staff, 1, "09:00"))
	assert.Nil(t, MatchAssignment(staff, 1, "14:00"))
	assert.Nil(t, MatchAssignment(staff, 2, "09:00"))
}

func TestPeopleForRole(t *testing.T) {
	sa := &StaffAssignment{
		Guides:  []Person{{ID: 1}},
		Escorts: []Person{{ID: 2}, {ID: 3}},
	}

	assert.Len(t, sa.PeopleForRole(models.RoleGuide), 1)
	assert.Len(t, sa.PeopleForRole(models.RoleEscort), 2)
	assert.Empty(t, sa.PeopleForRole(models.RoleHeadphone))

	var nilSA *StaffAssignment
	assert.Nil(t, nilSA.PeopleForRole(models.RoleGuide))
}

func TestGroupVouchers_CategoryFromFirstTicketCategory(t *testing.T) {
	vouchers := []models.Voucher{
		{
			ID:                     2,
			ActivityAvailabilityID: 10,
			TotalTickets:           5,
			TicketCategories: []models.TicketCategory{
				{Name: "Ridotto"}, {Name: "Intero"},
			},
		},
		{ID: 1, ActivityAvailabilityID: 10, TotalTickets: 3},
	}

	grouped := GroupVouchers(vouchers)

	assert.Len(t, grouped[10], 2)
	// Sorted by id
	assert.Equal(t, int64(1), grouped[10][0].ID)
	assert.Empty(t, grouped[10][0].CategoryName)
	assert.Equal(t, "Ridotto", grouped[10][1].CategoryName)
}

func TestReconcileVouchers(t *testing.T) {
	vouchers := []VoucherInfo{{TotalTickets: 4}, {TotalTickets: 4}}

	status, total := ReconcileVouchers(10, vouchers)
	assert.Equal(t, ReconcileUnder, status)
	assert.Equal(t, 8, total)

	status, _ = ReconcileVouchers(8, vouchers)
	assert.Equal(t, ReconcileBalanced, status)

	status, _ = ReconcileVouchers(6, vouchers)
	assert.Equal(t, ReconcileOver, status)
}
