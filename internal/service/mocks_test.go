package service

import (
	"context"

	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/pkg/mailer"
	"gorm.io/gorm"
)

// Function-field mocks for the repository interfaces; unset fields
// return zero values.

type mockActivityRepo struct {
	findAllFn              func(ctx context.Context) ([]models.Activity, error)
	titlesByIDFn           func(ctx context.Context, ids []int64) (map[int64]string, error)
	findAvailabilitiesFn   func(ctx context.Context, date string, activityIDs []int64) ([]models.ActivityAvailability, error)
	findAvailabilityByIDFn func(ctx context.Context, id int64) (*models.ActivityAvailability, error)
	meetingPointTextsFn    func(ctx context.Context, activityIDs []int64) (map[int64]string, error)
}

func (m *mockActivityRepo) FindAll(ctx context.Context) ([]models.Activity, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}
func (m *mockActivityRepo) TitlesByID(ctx context.Context, ids []int64) (map[int64]string, error) {
	if m.titlesByIDFn != nil {
		return m.titlesByIDFn(ctx, ids)
	}
	return map[int64]string{}, nil
}
func (m *mockActivityRepo) FindAvailabilities(ctx context.Context, date string, activityIDs []int64) ([]models.ActivityAvailability, error) {
	if m.findAvailabilitiesFn != nil {
		return m.findAvailabilitiesFn(ctx, date, activityIDs)
	}
	return nil, nil
}
func (m *mockActivityRepo) FindAvailabilityByID(ctx context.Context, id int64) (*models.ActivityAvailability, error) {
	if m.findAvailabilityByIDFn != nil {
		return m.findAvailabilityByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockActivityRepo) MeetingPointTexts(ctx context.Context, activityIDs []int64) (map[int64]string, error) {
	if m.meetingPointTextsFn != nil {
		return m.meetingPointTextsFn(ctx, activityIDs)
	}
	return map[int64]string{}, nil
}

type mockBookingRepo struct {
	findByDateFn       func(ctx context.Context, date string, activityIDs []int64) ([]models.ActivityBooking, error)
	findHistoricalFn   func(ctx context.Context, activityID int64) ([]models.ActivityBooking, error)
	customersByIDsFn   func(ctx context.Context, bookingIDs []int64) (map[int64]models.Customer, error)
	findByBookingIDsFn func(ctx context.Context, ids []int64) ([]models.ActivityBooking, error)
}

func (m *mockBookingRepo) FindByDateAndActivities(ctx context.Context, date string, activityIDs []int64) ([]models.ActivityBooking, error) {
	if m.findByDateFn != nil {
		return m.findByDateFn(ctx, date, activityIDs)
	}
	return nil, nil
}
func (m *mockBookingRepo) FindByActivityBookingIDs(ctx context.Context, ids []int64) ([]models.ActivityBooking, error) {
	if m.findByBookingIDsFn != nil {
		return m.findByBookingIDsFn(ctx, ids)
	}
	return nil, nil
}
func (m *mockBookingRepo) FindHistoricalByActivity(ctx context.Context, activityID int64) ([]models.ActivityBooking, error) {
	if m.findHistoricalFn != nil {
		return m.findHistoricalFn(ctx, activityID)
	}
	return nil, nil
}
func (m *mockBookingRepo) CustomersByBookingIDs(ctx context.Context, bookingIDs []int64) (map[int64]models.Customer, error) {
	if m.customersByIDsFn != nil {
		return m.customersByIDsFn(ctx, bookingIDs)
	}
	return map[int64]models.Customer{}, nil
}
func (m *mockBookingRepo) GetDB() *gorm.DB { return nil }

type mockStaffRepo struct {
	findAssignmentsFn func(ctx context.Context, availabilityIDs []int64) ([]models.AvailabilityAssignment, error)
	findGuideByIDFn   func(ctx context.Context, id int64) (*models.Guide, error)
}

func (m *mockStaffRepo) FindAssignmentsByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.AvailabilityAssignment, error) {
	if m.findAssignmentsFn != nil {
		return m.findAssignmentsFn(ctx, availabilityIDs)
	}
	return nil, nil
}
func (m *mockStaffRepo) FindGuideByID(ctx context.Context, id int64) (*models.Guide, error) {
	if m.findGuideByIDFn != nil {
		return m.findGuideByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockStaffRepo) FindActiveGuides(ctx context.Context) ([]models.Guide, error) {
	return nil, nil
}

type mockVoucherRepo struct {
	findByAvailabilityFn func(ctx context.Context, availabilityIDs []int64) ([]models.Voucher, error)
	findByIDsFn          func(ctx context.Context, ids []int64) ([]models.Voucher, error)
}

func (m *mockVoucherRepo) FindByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.Voucher, error) {
	if m.findByAvailabilityFn != nil {
		return m.findByAvailabilityFn(ctx, availabilityIDs)
	}
	return nil, nil
}
func (m *mockVoucherRepo) FindByIDs(ctx context.Context, ids []int64) ([]models.Voucher, error) {
	if m.findByIDsFn != nil {
		return m.findByIDsFn(ctx, ids)
	}
	return nil, nil
}

type mockAttachmentRepo struct {
	findByAvailabilityFn func(ctx context.Context, availabilityIDs []int64) ([]models.ServiceAttachment, error)
}

func (m *mockAttachmentRepo) Create(ctx context.Context, attachment *models.ServiceAttachment) error {
	return nil
}
func (m *mockAttachmentRepo) FindByID(ctx context.Context, id int64) (*models.ServiceAttachment, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockAttachmentRepo) FindByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.ServiceAttachment, error) {
	if m.findByAvailabilityFn != nil {
		return m.findByAvailabilityFn(ctx, availabilityIDs)
	}
	return nil, nil
}
func (m *mockAttachmentRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockSplitRepo struct {
	findByIDFn            func(ctx context.Context, id int64) (*models.TimeSlotSplit, error)
	findByAvailabilityFn  func(ctx context.Context, availabilityIDs []int64) ([]models.TimeSlotSplit, error)
	bookingMembersFn      func(ctx context.Context, splitIDs []int64) ([]models.SplitBooking, error)
	voucherMembersFn      func(ctx context.Context, splitIDs []int64) ([]models.SplitVoucher, error)
}

func (m *mockSplitRepo) Create(ctx context.Context, split *models.TimeSlotSplit) error { return nil }
func (m *mockSplitRepo) FindByID(ctx context.Context, id int64) (*models.TimeSlotSplit, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockSplitRepo) FindByAvailabilityIDs(ctx context.Context, availabilityIDs []int64) ([]models.TimeSlotSplit, error) {
	if m.findByAvailabilityFn != nil {
		return m.findByAvailabilityFn(ctx, availabilityIDs)
	}
	return nil, nil
}
func (m *mockSplitRepo) Update(ctx context.Context, split *models.TimeSlotSplit) error { return nil }
func (m *mockSplitRepo) DeleteWithMembers(ctx context.Context, tx *gorm.DB, splitID int64) error {
	return nil
}
func (m *mockSplitRepo) BookingMembers(ctx context.Context, splitIDs []int64) ([]models.SplitBooking, error) {
	if m.bookingMembersFn != nil {
		return m.bookingMembersFn(ctx, splitIDs)
	}
	return nil, nil
}
func (m *mockSplitRepo) VoucherMembers(ctx context.Context, splitIDs []int64) ([]models.SplitVoucher, error) {
	if m.voucherMembersFn != nil {
		return m.voucherMembersFn(ctx, splitIDs)
	}
	return nil, nil
}
func (m *mockSplitRepo) MoveBookings(ctx context.Context, tx *gorm.DB, splitID int64, activityBookingIDs []int64) error {
	return nil
}
func (m *mockSplitRepo) MoveVouchers(ctx context.Context, tx *gorm.DB, splitID int64, voucherIDs []int64) error {
	return nil
}
func (m *mockSplitRepo) ReleaseBookings(ctx context.Context, tx *gorm.DB, activityBookingIDs []int64) error {
	return nil
}
func (m *mockSplitRepo) ReleaseVouchers(ctx context.Context, tx *gorm.DB, voucherIDs []int64) error {
	return nil
}
func (m *mockSplitRepo) GetDB() *gorm.DB { return nil }

type mockServiceGroupRepo struct {
	membershipFn func(ctx context.Context, date string) (map[int64]models.ServiceGroup, error)
}

func (m *mockServiceGroupRepo) FindByDate(ctx context.Context, date string) ([]models.ServiceGroup, error) {
	return nil, nil
}
func (m *mockServiceGroupRepo) MembershipByAvailability(ctx context.Context, date string) (map[int64]models.ServiceGroup, error) {
	if m.membershipFn != nil {
		return m.membershipFn(ctx, date)
	}
	return map[int64]models.ServiceGroup{}, nil
}

type mockTemplateRepo struct {
	findDefaultByTypeFn func(ctx context.Context, templateType models.TemplateType) (*models.EmailTemplate, error)
	activityTemplatesFn func(ctx context.Context) ([]models.ActivityGuideTemplate, error)
	findByIDFn          func(ctx context.Context, id int64) (*models.EmailTemplate, error)
}

func (m *mockTemplateRepo) Create(ctx context.Context, tmpl *models.EmailTemplate) error { return nil }
func (m *mockTemplateRepo) Update(ctx context.Context, tmpl *models.EmailTemplate) error { return nil }
func (m *mockTemplateRepo) Delete(ctx context.Context, id int64) error                   { return nil }
func (m *mockTemplateRepo) FindByID(ctx context.Context, id int64) (*models.EmailTemplate, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockTemplateRepo) FindByIDs(ctx context.Context, ids []int64) ([]models.EmailTemplate, error) {
	return nil, nil
}
func (m *mockTemplateRepo) FindByType(ctx context.Context, templateType models.TemplateType) ([]models.EmailTemplate, error) {
	return nil, nil
}
func (m *mockTemplateRepo) FindDefaultByType(ctx context.Context, templateType models.TemplateType) (*models.EmailTemplate, error) {
	if m.findDefaultByTypeFn != nil {
		return m.findDefaultByTypeFn(ctx, templateType)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockTemplateRepo) ClearDefault(ctx context.Context, tx *gorm.DB, templateType models.TemplateType) error {
	return nil
}
func (m *mockTemplateRepo) FindAllConsolidated(ctx context.Context) ([]models.EmailTemplate, error) {
	return nil, nil
}
func (m *mockTemplateRepo) ActivityTemplates(ctx context.Context) ([]models.ActivityGuideTemplate, error) {
	if m.activityTemplatesFn != nil {
		return m.activityTemplatesFn(ctx)
	}
	return nil, nil
}
func (m *mockTemplateRepo) UpsertActivityTemplate(ctx context.Context, activityID, templateID int64) error {
	return nil
}
func (m *mockTemplateRepo) GetDB() *gorm.DB { return nil }

type mockEmailLogRepo struct {
	entries []models.EmailLog
}

func (m *mockEmailLogRepo) Create(ctx context.Context, entry *models.EmailLog) error {
	m.entries = append(m.entries, *entry)
	return nil
}
func (m *mockEmailLogRepo) FindByServiceDate(ctx context.Context, date string) ([]models.EmailLog, error) {
	return m.entries, nil
}

type mockSender struct {
	sendFn func(ctx context.Context, req mailer.SendRequest) (mailer.SendResult, error)
	sent   []mailer.SendRequest
}

func (m *mockSender) Send(ctx context.Context, req mailer.SendRequest) (mailer.SendResult, error) {
	m.sent = append(m.sent, req)
	if m.sendFn != nil {
		return m.sendFn(ctx, req)
	}
	return mailer.SendResult{MessageID: "mock"}, nil
}

type mockPublisher struct {
	published []string
}

func (m *mockPublisher) Publish(routingKey string, payload any) error {
	m.published = append(m.published, routingKey)
	return nil
}
