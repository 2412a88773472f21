package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/internal/repository"
)

// DailyData is everything one date's view needs, loaded in one pass:
// grouped bookings plus the staff/voucher/attachment/split/group maps
// keyed by availability id. Rebuilt whole on every load.
type DailyData struct {
	Date              string
	ActivityIDs       []int64
	Bookings          []Booking
	Tours             []Tour
	ActivityTitles    map[int64]string
	Availabilities    []models.ActivityAvailability
	Staff             map[int64]*StaffAssignment
	Vouchers          map[int64][]VoucherInfo
	Attachments       map[int64][]AttachmentInfo
	Splits            []models.TimeSlotSplit
	SplitBookings     map[int64]int64 // activity booking id -> split id
	SplitVouchers     map[int64]int64 // voucher id -> split id
	MeetingPoints     map[int64]string
	Groups            map[int64]models.ServiceGroup
}

// DataLoader runs the sequential fetch pipeline: activities, bookings,
// customers, staff, vouchers, attachments, splits, service groups.
type DataLoader struct {
	activityRepo     repository.ActivityRepository
	bookingRepo      repository.BookingRepository
	staffRepo        repository.StaffRepository
	voucherRepo      repository.VoucherRepository
	attachmentRepo   repository.AttachmentRepository
	splitRepo        repository.SplitRepository
	serviceGroupRepo repository.ServiceGroupRepository
	normalizer       *Normalizer
}

func NewDataLoader(
	activityRepo repository.ActivityRepository,
	bookingRepo repository.BookingRepository,
	staffRepo repository.StaffRepository,
	voucherRepo repository.VoucherRepository,
	attachmentRepo repository.AttachmentRepository,
	splitRepo repository.SplitRepository,
	serviceGroupRepo repository.ServiceGroupRepository,
	normalizer *Normalizer,
) *DataLoader {
	return &DataLoader{
		activityRepo:     activityRepo,
		bookingRepo:      bookingRepo,
		staffRepo:        staffRepo,
		voucherRepo:      voucherRepo,
		attachmentRepo:   attachmentRepo,
		splitRepo:        splitRepo,
		serviceGroupRepo: serviceGroupRepo,
		normalizer:       normalizer,
	}
}

func (l *DataLoader) Load(ctx context.Context, date string, activityIDs []int64) (*DailyData, error) {
	data := &DailyData{Date: date, ActivityIDs: activityIDs}

	titles, err := l.activityRepo.TitlesByID(ctx, activityIDs)
	if err != nil {
		return nil, err
	}
	data.ActivityTitles = titles

	rows, err := l.bookingRepo.FindByDateAndActivities(ctx, date, activityIDs)
	if err != nil {
		return nil, err
	}

	bookingIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		bookingIDs = append(bookingIDs, row.BookingID)
	}
	customerRows, err := l.bookingRepo.CustomersByBookingIDs(ctx, bookingIDs)
	if err != nil {
		return nil, err
	}

	data.Bookings = l.normalizer.Normalize(rows, titles, CustomerInfoMap(customerRows))
	data.Tours = GroupByTour(data.Bookings)

	availabilities, err := l.activityRepo.FindAvailabilities(ctx, date, activityIDs)
	if err != nil {
		return nil, err
	}
	data.Availabilities = availabilities

	availabilityIDs := make([]int64, 0, len(availabilities))
	seenActivity := map[int64]bool{}
	var availActivityIDs []int64
	for _, av := range availabilities {
		availabilityIDs = append(availabilityIDs, av.ID)
		if !seenActivity[av.ActivityID] {
			seenActivity[av.ActivityID] = true
			availActivityIDs = append(availActivityIDs, av.ActivityID)
		}
	}

	assignments, err := l.staffRepo.FindAssignmentsByAvailabilityIDs(ctx, availabilityIDs)
	if err != nil {
		return nil, err
	}
	data.Staff = BuildStaffAssignments(availabilities, assignments)

	voucherRows, err := l.voucherRepo.FindByAvailabilityIDs(ctx, availabilityIDs)
	if err != nil {
		return nil, err
	}
	data.Vouchers = GroupVouchers(voucherRows)

	attachmentRows, err := l.attachmentRepo.FindByAvailabilityIDs(ctx, availabilityIDs)
	if err != nil {
		return nil, err
	}
	data.Attachments = GroupAttachments(attachmentRows)

	splits, err := l.splitRepo.FindByAvailabilityIDs(ctx, availabilityIDs)
	if err != nil {
		return nil, err
	}
	data.Splits = splits

	splitIDs := make([]int64, 0, len(splits))
	for _, sp := range splits {
		splitIDs = append(splitIDs, sp.ID)
	}
	members, err := l.splitRepo.BookingMembers(ctx, splitIDs)
	if err != nil {
		return nil, err
	}
	data.SplitBookings = map[int64]int64{}
	for _, m := range members {
		data.SplitBookings[m.ActivityBookingID] = m.SplitID
	}

	voucherMembers, err := l.splitRepo.VoucherMembers(ctx, splitIDs)
	if err != nil {
		return nil, err
	}
	data.SplitVouchers = map[int64]int64{}
	for _, m := range voucherMembers {
		data.SplitVouchers[m.VoucherID] = m.SplitID
	}

	meetingPoints, err := l.activityRepo.MeetingPointTexts(ctx, availActivityIDs)
	if err != nil {
		return nil, err
	}
	data.MeetingPoints = meetingPoints

	groups, err := l.serviceGroupRepo.MembershipByAvailability(ctx, date)
	if err != nil {
		return nil, err
	}
	data.Groups = groups

	return data, nil
}

// MatchSlot finds the staff assignment for a slot of the given tour.
func (d *DailyData) MatchSlot(tourTitle, slotTime string) *StaffAssignment {
	activityID, ok := d.activityIDForTitle(tourTitle)
	if !ok {
		return nil
	}
	return MatchAssignment(d.Staff, activityID, slotTime)
}

func (d *DailyData) activityIDForTitle(title string) (int64, bool) {
	for id, t := range d.ActivityTitles {
		if t == title {
			return id, true
		}
	}
	return 0, false
}

// TimeSlotView is one slot with everything the tree shows resolved.
type TimeSlotView struct {
	Time                   string           `json:"time"`
	TotalParticipants      int              `json:"total_participants"`
	Bookings               []Booking        `json:"bookings"`
	ActivityAvailabilityID int64            `json:"activity_availability_id,omitempty"`
	Staff                  *StaffAssignment `json:"staff,omitempty"`
	Vouchers               []VoucherInfo    `json:"vouchers,omitempty"`
	VoucherStatus          ReconcileStatus  `json:"voucher_status"`
	VoucherTickets         int              `json:"voucher_tickets"`
	Attachments            []AttachmentInfo `json:"attachments,omitempty"`
	Splits                 []SplitView      `json:"splits,omitempty"`
	ServiceGroupID         int64            `json:"service_group_id,omitempty"`
	ServiceGroupName       string           `json:"service_group_name,omitempty"`
}

type TourView struct {
	TourTitle         string         `json:"tour_title"`
	TotalParticipants int            `json:"total_participants"`
	TimeSlots         []TimeSlotView `json:"time_slots"`
}

// DailyListResult echoes the request filters so clients can drop
// responses from superseded requests.
type DailyListResult struct {
	Date        string     `json:"date"`
	ActivityIDs []int64    `json:"activity_ids,omitempty"`
	Tours       []TourView `json:"tours"`
}

type DailyListService interface {
	GetDailyList(ctx context.Context, date string, activityIDs []int64) (*DailyListResult, error)
	ExportSlot(ctx context.Context, availabilityID int64) (*bytes.Buffer, string, error)
}

type dailyListService struct {
	loader       *DataLoader
	activityRepo repository.ActivityRepository
	export       *ExportService
	splits       SplitService
}

func NewDailyListService(loader *DataLoader, activityRepo repository.ActivityRepository, export *ExportService, splits SplitService) DailyListService {
	return &dailyListService{loader: loader, activityRepo: activityRepo, export: export, splits: splits}
}

func (s *dailyListService) GetDailyList(ctx context.Context, date string, activityIDs []int64) (*DailyListResult, error) {
	data, err := s.loader.Load(ctx, date, activityIDs)
	if err != nil {
		return nil, err
	}

	result := &DailyListResult{Date: date, ActivityIDs: activityIDs}

	for _, tour := range data.Tours {
		tv := TourView{TourTitle: tour.TourTitle, TotalParticipants: tour.TotalParticipants}

		for _, slot := range tour.TimeSlots {
			view := TimeSlotView{
				Time:              slot.Time,
				TotalParticipants: slot.TotalParticipants,
				Bookings:          slot.Bookings,
			}

			if sa := data.MatchSlot(tour.TourTitle, slot.Time); sa != nil {
				view.ActivityAvailabilityID = sa.ActivityAvailabilityID
				view.Staff = sa
				view.Vouchers = data.Vouchers[sa.ActivityAvailabilityID]
				view.Attachments = data.Attachments[sa.ActivityAvailabilityID]
				view.Splits = splitViewsFor(data, sa.ActivityAvailabilityID, slot.Bookings)
				if g, ok := data.Groups[sa.ActivityAvailabilityID]; ok {
					view.ServiceGroupID = g.ID
					view.ServiceGroupName = g.GroupName
				}
			}

			view.VoucherStatus, view.VoucherTickets = ReconcileVouchers(slot.TotalParticipants, view.Vouchers)
			tv.TimeSlots = append(tv.TimeSlots, view)
		}

		result.Tours = append(result.Tours, tv)
	}

	return result, nil
}

func splitViewsFor(data *DailyData, availabilityID int64, slotBookings []Booking) []SplitView {
	var views []SplitView
	byID := map[int64]*SplitView{}
	for _, sp := range data.Splits {
		if sp.ActivityAvailabilityID != availabilityID {
			continue
		}
		views = append(views, SplitView{
			ID:                     sp.ID,
			ActivityAvailabilityID: sp.ActivityAvailabilityID,
			SplitName:              sp.SplitName,
			GuideID:                sp.GuideID,
			DisplayOrder:           sp.DisplayOrder,
		})
		byID[sp.ID] = &views[len(views)-1]
	}
	for _, b := range slotBookings {
		if splitID, ok := data.SplitBookings[b.ActivityBookingID]; ok {
			if view := byID[splitID]; view != nil {
				view.Bookings = append(view.Bookings, b)
			}
		}
	}
	return views
}

// ExportSlot builds the per-slot roster workbook for download.
func (s *dailyListService) ExportSlot(ctx context.Context, availabilityID int64) (*bytes.Buffer, string, error) {
	av, err := s.activityRepo.FindAvailabilityByID(ctx, availabilityID)
	if err != nil {
		return nil, "", ErrAvailabilityNotFound
	}

	data, err := s.loader.Load(ctx, av.LocalDate, []int64{av.ActivityID})
	if err != nil {
		return nil, "", err
	}

	var slot *TimeSlot
	title := data.ActivityTitles[av.ActivityID]
	for ti := range data.Tours {
		if data.Tours[ti].TourTitle != title {
			continue
		}
		for si := range data.Tours[ti].TimeSlots {
			if SameTime(data.Tours[ti].TimeSlots[si].Time, av.LocalTime) {
				slot = &data.Tours[ti].TimeSlots[si]
			}
		}
	}
	if slot == nil {
		return nil, "", errors.New("no bookings for this time slot")
	}

	historical, err := s.export.HistoricalCategories(ctx, av.ActivityID)
	if err != nil {
		return nil, "", err
	}

	guideName := ""
	if sa := data.Staff[availabilityID]; sa != nil && len(sa.Guides) > 0 {
		guideName = joinNames(sa.Guides)
	}

	return BuildRoster(RosterSection{
		TourTitle:  title,
		Date:       av.LocalDate,
		Time:       av.LocalTime,
		GuideName:  guideName,
		Categories: MergeCategories(historical, slot.Bookings),
		Bookings:   slot.Bookings,
	})
}
