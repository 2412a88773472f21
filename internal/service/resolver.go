package service

import (
	"sort"

	"github.com/tourops/daily-list-service/internal/models"
)

// BuildStaffAssignments initializes one empty StaffAssignment per
// availability and joins assignment rows into the role lists. An
// availability with no assignment rows still gets an entry so a booked
// slot can show as staff-less rather than unmatched.
func BuildStaffAssignments(
	availabilities []models.ActivityAvailability,
	assignments []models.AvailabilityAssignment,
) map[int64]*StaffAssignment {
	staff := make(map[int64]*StaffAssignment, len(availabilities))

	for _, av := range availabilities {
		staff[av.ID] = &StaffAssignment{
			ActivityAvailabilityID: av.ID,
			ActivityID:             av.ActivityID,
			LocalTime:              av.LocalTime,
		}
	}

	for _, a := range assignments {
		sa, ok := staff[a.ActivityAvailabilityID]
		if !ok || a.Guide == nil {
			continue
		}
		p := Person{
			ID:        a.Guide.ID,
			FirstName: a.Guide.FirstName,
			LastName:  a.Guide.LastName,
			Email:     a.Guide.Email,
			Phone:     a.Guide.Phone,
		}
		switch a.Role {
		case models.RoleGuide:
			sa.Guides = append(sa.Guides, p)
		case models.RoleEscort:
			sa.Escorts = append(sa.Escorts, p)
		case models.RoleHeadphone:
			sa.Headphones = append(sa.Headphones, p)
		case models.RolePrinting:
			sa.Printing = append(sa.Printing, p)
		}
	}

	return staff
}

// MatchAssignment finds the assignment for a (tour activity, slot time)
// pair. Both times are normalized before comparison; done anywhere
// else, a slot silently shows no staff.
func MatchAssignment(staff map[int64]*StaffAssignment, activityID int64, slotTime string) *StaffAssignment {
	for _, sa := range staff {
		if sa.ActivityID == activityID && SameTime(sa.LocalTime, slotTime) {
			return sa
		}
	}
	return nil
}

// PeopleForRole returns the assignment's list for the given role.
func (sa *StaffAssignment) PeopleForRole(role models.StaffRole) []Person {
	if sa == nil {
		return nil
	}
	switch role {
	case models.RoleGuide:
		return sa.Guides
	case models.RoleEscort:
		return sa.Escorts
	case models.RoleHeadphone:
		return sa.Headphones
	case models.RolePrinting:
		return sa.Printing
	}
	return nil
}

// GroupVouchers maps availability id to its vouchers. The category
// name is taken from the voucher's first ticket category.
func GroupVouchers(vouchers []models.Voucher) map[int64][]VoucherInfo {
	out := map[int64][]VoucherInfo{}
	for _, v := range vouchers {
		info := VoucherInfo{
			ID:            v.ID,
			BookingNumber: v.BookingNumber,
			TotalTickets:  v.TotalTickets,
			ProductName:   v.ProductName,
			PDFPath:       v.PDFPath,
			EntryTime:     v.EntryTime,
		}
		if len(v.TicketCategories) > 0 {
			info.CategoryName = v.TicketCategories[0].Name
		}
		out[v.ActivityAvailabilityID] = append(out[v.ActivityAvailabilityID], info)
	}
	for id := range out {
		sort.SliceStable(out[id], func(a, b int) bool {
			return out[id][a].ID < out[id][b].ID
		})
	}
	return out
}

// GroupAttachments maps availability id to its uploaded attachments.
func GroupAttachments(attachments []models.ServiceAttachment) map[int64][]AttachmentInfo {
	out := map[int64][]AttachmentInfo{}
	for _, a := range attachments {
		out[a.ActivityAvailabilityID] = append(out[a.ActivityAvailabilityID], AttachmentInfo{
			ID:                     a.ID,
			FileName:               a.FileName,
			FilePath:               a.FilePath,
			ActivityAvailabilityID: a.ActivityAvailabilityID,
		})
	}
	return out
}

type ReconcileStatus string

const (
	ReconcileBalanced ReconcileStatus = "balanced"
	ReconcileUnder    ReconcileStatus = "under"
	ReconcileOver     ReconcileStatus = "over"
)

// ReconcileVouchers compares a slot's voucher ticket total against its
// participant total.
func ReconcileVouchers(totalParticipants int, vouchers []VoucherInfo) (ReconcileStatus, int) {
	total := 0
	for _, v := range vouchers {
		total += v.TotalTickets
	}
	switch {
	case total < totalParticipants:
		return ReconcileUnder, total
	case total > totalParticipants:
		return ReconcileOver, total
	default:
		return ReconcileBalanced, total
	}
}
