package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/internal/repository"
	"github.com/tourops/daily-list-service/pkg/mailer"
	"gorm.io/gorm"
)

var ErrNoRecipients = errors.New("no recipients with an email address resolved")

// TooManyAttachmentsError blocks a printing run whose voucher PDFs
// exceed the configured per-send cap before anything is sent.
type TooManyAttachmentsError struct {
	RecipientName string
	Count         int
	Limit         int
}

func (e *TooManyAttachmentsError) Error() string {
	return fmt.Sprintf("%d voucher attachments for %s exceed the limit of %d",
		e.Count, e.RecipientName, e.Limit)
}

// NoConsolidatedTemplateError aborts a bulk run before any send when
// the role has no consolidated template at all.
type NoConsolidatedTemplateError struct {
	Role models.StaffRole
}

func (e *NoConsolidatedTemplateError) Error() string {
	return fmt.Sprintf("no consolidated email template configured for %s", e.Role)
}

// MissingActivityTemplatesError blocks a bulk guide run when any
// touched activity has no assigned guide template.
type MissingActivityTemplatesError struct {
	Titles []string
}

func (e *MissingActivityTemplatesError) Error() string {
	return "missing guide templates for activities: " + strings.Join(e.Titles, ", ")
}

// EventPublisher is satisfied by the RabbitMQ publisher.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type DispatchRequest struct {
	Role         models.StaffRole
	Date         string
	ActivityIDs  []int64
	RecipientIDs []int64 // empty selects every resolved recipient
}

type RecipientError struct {
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	Error          string `json:"error"`
}

type DispatchResult struct {
	Sent   int              `json:"sent"`
	Failed int              `json:"failed"`
	Errors []RecipientError `json:"errors,omitempty"`
}

// serviceEntry is one sendable service: a slot (or a guided split of a
// slot, or a staffed availability without bookings) resolved against
// everything the templates can reference.
type serviceEntry struct {
	AvailabilityID int64
	ActivityID     int64
	TourTitle      string
	Date           string
	Time           string
	PaxCount       int
	Bookings       []Booking
	Staff          *StaffAssignment
	Vouchers       []VoucherInfo
	MeetingPoint   string
	GuideName      string
	Group          *models.ServiceGroup
}

func (e serviceEntry) renderContext(extra map[string]string) RenderContext {
	return RenderContext{
		TourTitle:    e.TourTitle,
		Date:         e.Date,
		Time:         e.Time,
		PaxCount:     e.PaxCount,
		Staff:        e.Staff,
		MeetingPoint: e.MeetingPoint,
		Vouchers:     e.Vouchers,
		Bookings:     e.Bookings,
		Extra:        extra,
	}
}

// recipient is one staff member with their day's services.
type recipient struct {
	Person   Person
	Services []serviceEntry
}

// emailJob is one fully-resolved send.
type emailJob struct {
	To          string
	Name        string
	Subject     string
	Body        string
	Attachments []mailer.Attachment
}

type DispatchService interface {
	Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error)
	Recipients(ctx context.Context, role models.StaffRole, date string, activityIDs []int64) ([]RecipientView, error)
}

// RecipientView is what the selection drawer shows: staff without an
// email address stay listed but cannot be selected.
type RecipientView struct {
	Person       Person `json:"person"`
	HasEmail     bool   `json:"has_email"`
	ServiceCount int    `json:"service_count"`
}

type dispatchService struct {
	loader         *DataLoader
	templateRepo   repository.TemplateRepository
	logRepo        repository.EmailLogRepository
	export         *ExportService
	sender         mailer.Sender
	publisher      EventPublisher
	attachmentDir  string
	maxAttachments int // 0 means unlimited
}

func NewDispatchService(
	loader *DataLoader,
	templateRepo repository.TemplateRepository,
	logRepo repository.EmailLogRepository,
	export *ExportService,
	sender mailer.Sender,
	publisher EventPublisher,
	attachmentDir string,
	maxAttachments int,
) DispatchService {
	return &dispatchService{
		loader:         loader,
		templateRepo:   templateRepo,
		logRepo:        logRepo,
		export:         export,
		sender:         sender,
		publisher:      publisher,
		attachmentDir:  attachmentDir,
		maxAttachments: maxAttachments,
	}
}

func (s *dispatchService) Recipients(ctx context.Context, role models.StaffRole, date string, activityIDs []int64) ([]RecipientView, error) {
	data, err := s.loader.Load(ctx, date, activityIDs)
	if err != nil {
		return nil, err
	}

	views := map[int64]*RecipientView{}
	var order []int64
	for _, entry := range buildServices(data, role) {
		for _, p := range entry.Staff.PeopleForRole(role) {
			v, ok := views[p.ID]
			if !ok {
				v = &RecipientView{Person: p, HasEmail: p.Email != ""}
				views[p.ID] = v
				order = append(order, p.ID)
			}
			v.ServiceCount++
		}
	}

	out := make([]RecipientView, 0, len(order))
	for _, id := range order {
		out = append(out, *views[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Person.FullName() < out[j].Person.FullName()
	})
	return out, nil
}

// Dispatch runs one bulk send for a recipient class. Preconditions
// (missing templates) abort before any send; per-recipient failures
// are collected without stopping the loop.
func (s *dispatchService) Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error) {
	data, err := s.loader.Load(ctx, req.Date, req.ActivityIDs)
	if err != nil {
		return nil, err
	}

	recipients := resolveRecipients(buildServices(data, req.Role), req.Role, req.RecipientIDs)
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	var jobs []emailJob
	switch req.Role {
	case models.RoleGuide:
		jobs, err = s.guideJobs(ctx, data, recipients)
	default:
		jobs, err = s.consolidatedJobs(ctx, req.Role, req.Date, recipients)
	}
	if err != nil {
		return nil, err
	}

	// Serial loop: a slow or failing recipient cannot race the shared
	// data, and the progress counter stays accurate.
	result := &DispatchResult{}
	for _, job := range jobs {
		sendErr := s.sendOne(ctx, req, job)
		if sendErr != nil {
			result.Failed++
			result.Errors = append(result.Errors, RecipientError{
				RecipientName:  job.Name,
				RecipientEmail: job.To,
				Error:          sendErr.Error(),
			})
			log.Printf("[Dispatch] send to %s failed: %v", job.To, sendErr)
			continue
		}
		result.Sent++
	}

	if s.publisher != nil {
		if err := s.publisher.Publish("email.dispatched", map[string]any{
			"role":         req.Role,
			"service_date": req.Date,
			"sent":         result.Sent,
			"failed":       result.Failed,
		}); err != nil {
			log.Printf("[Dispatch] publish dispatch event: %v", err)
		}
	}

	return result, nil
}

func (s *dispatchService) sendOne(ctx context.Context, req DispatchRequest, job emailJob) error {
	_, sendErr := s.sender.Send(ctx, mailer.SendRequest{
		To:          []string{job.To},
		Subject:     job.Subject,
		HTML:        job.Body,
		Attachments: job.Attachments,
	})

	entry := &models.EmailLog{
		ID:             uuid.NewString(),
		RecipientEmail: job.To,
		RecipientName:  job.Name,
		RecipientType:  string(req.Role),
		Subject:        job.Subject,
		Status:         models.EmailSent,
		ServiceDate:    req.Date,
		SentAt:         time.Now(),
	}
	if sendErr != nil {
		entry.Status = models.EmailFailed
		entry.ErrorMessage = sendErr.Error()
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		log.Printf("[Dispatch] write email log: %v", err)
	}

	return sendErr
}

// guideJobs builds the guide send list: service-group members merge
// into one consolidated email per group when a group template exists;
// everything else sends one email per service using that activity's
// guide template. Every touched activity must have a template or the
// whole run is blocked.
func (s *dispatchService) guideJobs(ctx context.Context, data *DailyData, recipients []recipient) ([]emailJob, error) {
	groupTmpl, err := s.templateRepo.FindDefaultByType(ctx, models.TemplateGuideServiceGroup)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	activityRows, err := s.templateRepo.ActivityTemplates(ctx)
	if err != nil {
		return nil, err
	}
	activityTemplates := map[int64]*models.EmailTemplate{}
	for i := range activityRows {
		if activityRows[i].Template != nil {
			activityTemplates[activityRows[i].ActivityID] = activityRows[i].Template
		}
	}

	// Precondition pass: every distinct activity among the non-grouped
	// services needs a template before anything is sent.
	missing := map[string]bool{}
	for _, r := range recipients {
		for _, entry := range r.Services {
			grouped := groupTmpl != nil && entry.Group != nil
			if grouped {
				continue
			}
			if activityTemplates[entry.ActivityID] == nil {
				missing[entry.TourTitle] = true
			}
		}
	}
	if len(missing) > 0 {
		titles := make([]string, 0, len(missing))
		for t := range missing {
			titles = append(titles, t)
		}
		sort.Strings(titles)
		return nil, &MissingActivityTemplatesError{Titles: titles}
	}

	var jobs []emailJob
	for _, r := range recipients {
		var solo []serviceEntry
		groups := map[int64][]serviceEntry{}
		var groupOrder []int64

		for _, entry := range r.Services {
			if groupTmpl != nil && entry.Group != nil {
				if _, ok := groups[entry.Group.ID]; !ok {
					groupOrder = append(groupOrder, entry.Group.ID)
				}
				groups[entry.Group.ID] = append(groups[entry.Group.ID], entry)
				continue
			}
			solo = append(solo, entry)
		}

		for _, groupID := range groupOrder {
			entries := groups[groupID]
			sortByTime(entries)
			jobs = append(jobs, s.consolidatedJob(r, groupTmpl, entries, data.Date, nil))
		}

		for _, entry := range solo {
			tmpl := activityTemplates[entry.ActivityID]
			ctxVals := entry.renderContext(nil)
			jobs = append(jobs, emailJob{
				To:      r.Person.Email,
				Name:    r.Person.FullName(),
				Subject: RenderTemplate(tmpl.Subject, ctxVals),
				Body:    RenderTemplate(tmpl.Body, ctxVals),
			})
		}
	}
	return jobs, nil
}

// consolidatedJobs builds one email per recipient per day for escorts,
// headphones and printing from the role's default consolidated
// template.
func (s *dispatchService) consolidatedJobs(ctx context.Context, role models.StaffRole, date string, recipients []recipient) ([]emailJob, error) {
	var templateType models.TemplateType
	switch role {
	case models.RoleEscort:
		templateType = models.TemplateEscortConsolidated
	case models.RoleHeadphone:
		templateType = models.TemplateHeadphoneConsolidated
	case models.RolePrinting:
		templateType = models.TemplatePrintingConsolidated
	default:
		return nil, fmt.Errorf("unsupported consolidated role %q", role)
	}

	tmpl, err := s.templateRepo.FindDefaultByType(ctx, templateType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NoConsolidatedTemplateError{Role: role}
		}
		return nil, err
	}

	var jobs []emailJob
	for _, r := range recipients {
		entries := append([]serviceEntry(nil), r.Services...)
		sortByTime(entries)

		var attachments []mailer.Attachment
		switch role {
		case models.RoleEscort:
			sections, err := s.rosterSections(ctx, entries)
			if err != nil {
				return nil, err
			}
			buf, name, err := BuildConsolidatedRoster(r.Person.FullName(), date, sections)
			if err != nil {
				return nil, fmt.Errorf("build consolidated roster for %s: %w", r.Person.FullName(), err)
			}
			attachments = []mailer.Attachment{{
				Filename:    name,
				Content:     buf.Bytes(),
				ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			}}
		case models.RolePrinting:
			attachments = s.printingAttachments(entries)
			if s.maxAttachments > 0 && len(attachments) > s.maxAttachments {
				return nil, &TooManyAttachmentsError{
					RecipientName: r.Person.FullName(),
					Count:         len(attachments),
					Limit:         s.maxAttachments,
				}
			}
		}

		jobs = append(jobs, s.consolidatedJob(r, tmpl, entries, date, attachments))
	}
	return jobs, nil
}

func (s *dispatchService) consolidatedJob(r recipient, tmpl *models.EmailTemplate, entries []serviceEntry, date string, attachments []mailer.Attachment) emailJob {
	items := make([]string, 0, len(entries))
	for _, entry := range entries {
		items = append(items, RenderServiceItem(tmpl.ServiceItemTemplate, entry.renderContext(nil)))
	}
	servicesList := strings.Join(items, "\n\n")

	headCtx := RenderContext{
		Date:  date,
		Extra: map[string]string{"services_list": servicesList},
	}
	if len(entries) > 0 {
		headCtx = entries[0].renderContext(map[string]string{"services_list": servicesList})
	}

	return emailJob{
		To:          r.Person.Email,
		Name:        r.Person.FullName(),
		Subject:     RenderTemplate(tmpl.Subject, headCtx),
		Body:        RenderTemplate(tmpl.Body, headCtx),
		Attachments: attachments,
	}
}

// printingAttachments collects every service's voucher PDFs, each
// renamed "{guideName} - {HH.MM} - voucher.pdf"; additional vouchers
// in the same slot get " (n)" suffixes.
func (s *dispatchService) printingAttachments(entries []serviceEntry) []mailer.Attachment {
	var out []mailer.Attachment
	for _, entry := range entries {
		guideName := entry.GuideName
		if guideName == "" {
			guideName = joinNames(entry.Staff.PeopleForRole(models.RoleGuide))
		}
		n := 0
		for _, v := range entry.Vouchers {
			if v.PDFPath == "" {
				continue
			}
			content, err := os.ReadFile(filepath.Join(s.attachmentDir, v.PDFPath))
			if err != nil {
				log.Printf("[Dispatch] read voucher pdf %s: %v", v.PDFPath, err)
				continue
			}
			n++
			name := fmt.Sprintf("%s - %s - voucher.pdf",
				guideName, strings.ReplaceAll(ShortTime(entry.Time), ":", "."))
			if n > 1 {
				name = strings.TrimSuffix(name, ".pdf") + fmt.Sprintf(" (%d).pdf", n-1)
			}
			out = append(out, mailer.Attachment{
				Filename:    sanitizeFileName(name),
				Content:     content,
				ContentType: "application/pdf",
			})
		}
	}
	return out
}

// buildServices resolves every sendable service for one role: matched
// slots first, then orphan staffed availabilities with no booking
// match, synthesized as zero-pax services so they stay reachable for
// email.
func buildServices(data *DailyData, role models.StaffRole) []serviceEntry {
	var entries []serviceEntry
	matched := map[int64]bool{}

	for _, tour := range data.Tours {
		for _, slot := range tour.TimeSlots {
			sa := data.MatchSlot(tour.TourTitle, slot.Time)
			if sa == nil {
				continue
			}
			matched[sa.ActivityAvailabilityID] = true

			base := serviceEntry{
				AvailabilityID: sa.ActivityAvailabilityID,
				ActivityID:     sa.ActivityID,
				TourTitle:      tour.TourTitle,
				Date:           data.Date,
				Time:           slot.Time,
				Staff:          sa,
				Vouchers:       data.Vouchers[sa.ActivityAvailabilityID],
				MeetingPoint:   data.MeetingPoints[sa.ActivityID],
			}
			if g, ok := data.Groups[sa.ActivityAvailabilityID]; ok {
				group := g
				base.Group = &group
			}

			if role == models.RoleGuide {
				entries = append(entries, guideSlotEntries(data, base, sa, slot)...)
				continue
			}

			if len(sa.PeopleForRole(role)) == 0 {
				continue
			}
			entry := base
			entry.Bookings = slot.Bookings
			entry.PaxCount = slot.TotalParticipants
			entries = append(entries, entry)
		}
	}

	// Orphan pass: staffed availabilities the booking data never
	// touched (e.g. manually created slots).
	for _, av := range data.Availabilities {
		if matched[av.ID] {
			continue
		}
		sa := data.Staff[av.ID]
		if sa == nil || len(sa.PeopleForRole(role)) == 0 {
			continue
		}
		entries = append(entries, serviceEntry{
			AvailabilityID: av.ID,
			ActivityID:     av.ActivityID,
			TourTitle:      data.ActivityTitles[av.ActivityID],
			Date:           data.Date,
			Time:           av.LocalTime,
			Staff:          sa,
			Vouchers:       data.Vouchers[av.ID],
			MeetingPoint:   data.MeetingPoints[av.ActivityID],
		})
	}

	return entries
}

// guideSlotEntries expands one slot for the guide role. Splits bound
// to a guide become separate services carrying only that split's
// bookings and vouchers; the remainder goes to the slot's assigned
// guides.
func guideSlotEntries(data *DailyData, base serviceEntry, sa *StaffAssignment, slot TimeSlot) []serviceEntry {
	var splits []models.TimeSlotSplit
	for _, sp := range data.Splits {
		if sp.ActivityAvailabilityID == sa.ActivityAvailabilityID && sp.GuideID != nil {
			splits = append(splits, sp)
		}
	}

	if len(splits) == 0 {
		if len(sa.Guides) == 0 {
			return nil
		}
		entry := base
		entry.Bookings = slot.Bookings
		entry.PaxCount = slot.TotalParticipants
		return []serviceEntry{entry}
	}

	guided := map[int64]int64{} // activity booking id -> split id
	for _, b := range slot.Bookings {
		if splitID, ok := data.SplitBookings[b.ActivityBookingID]; ok {
			for _, sp := range splits {
				if sp.ID == splitID {
					guided[b.ActivityBookingID] = splitID
				}
			}
		}
	}
	guidedVouchers := map[int64]int64{} // voucher id -> split id
	for _, v := range base.Vouchers {
		if splitID, ok := data.SplitVouchers[v.ID]; ok {
			for _, sp := range splits {
				if sp.ID == splitID {
					guidedVouchers[v.ID] = splitID
				}
			}
		}
	}

	var entries []serviceEntry
	for _, sp := range splits {
		if sp.Guide == nil {
			continue
		}
		entry := base
		entry.GuideName = strings.TrimSpace(sp.Guide.FirstName + " " + sp.Guide.LastName)
		entry.Staff = splitStaff(sa, sp)
		for _, b := range slot.Bookings {
			if guided[b.ActivityBookingID] == sp.ID {
				entry.Bookings = append(entry.Bookings, b)
				entry.PaxCount += b.TotalParticipants
			}
		}
		entry.Vouchers = nil
		for _, v := range base.Vouchers {
			if guidedVouchers[v.ID] == sp.ID {
				entry.Vouchers = append(entry.Vouchers, v)
			}
		}
		entries = append(entries, entry)
	}

	// Unsplit remainder stays with the slot's assigned guides.
	if len(sa.Guides) > 0 {
		entry := base
		for _, b := range slot.Bookings {
			if _, ok := guided[b.ActivityBookingID]; !ok {
				entry.Bookings = append(entry.Bookings, b)
				entry.PaxCount += b.TotalParticipants
			}
		}
		entry.Vouchers = nil
		for _, v := range base.Vouchers {
			if _, ok := guidedVouchers[v.ID]; !ok {
				entry.Vouchers = append(entry.Vouchers, v)
			}
		}
		if len(entry.Bookings) > 0 {
			entries = append(entries, entry)
		}
	}

	return entries
}

// splitStaff presents the split's guide as the slot's guide while
// keeping the other roles intact.
func splitStaff(sa *StaffAssignment, sp models.TimeSlotSplit) *StaffAssignment {
	out := *sa
	out.Guides = []Person{{
		ID:        sp.Guide.ID,
		FirstName: sp.Guide.FirstName,
		LastName:  sp.Guide.LastName,
		Email:     sp.Guide.Email,
		Phone:     sp.Guide.Phone,
	}}
	return &out
}

// resolveRecipients fans services out per person, dropping staff with
// no email address and honoring an explicit selection.
func resolveRecipients(entries []serviceEntry, role models.StaffRole, selected []int64) []recipient {
	selectedSet := map[int64]bool{}
	for _, id := range selected {
		selectedSet[id] = true
	}

	byID := map[int64]*recipient{}
	var order []int64
	for _, entry := range entries {
		for _, p := range entry.Staff.PeopleForRole(role) {
			if p.Email == "" {
				continue
			}
			if len(selected) > 0 && !selectedSet[p.ID] {
				continue
			}
			r, ok := byID[p.ID]
			if !ok {
				r = &recipient{Person: p}
				byID[p.ID] = r
				order = append(order, p.ID)
			}
			r.Services = append(r.Services, entry)
		}
	}

	out := make([]recipient, 0, len(order))
	for _, id := range order {
		sortByTime(byID[id].Services)
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Person.FullName() < out[j].Person.FullName()
	})
	return out
}

func sortByTime(entries []serviceEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return NormalizeTime(entries[i].Time) < NormalizeTime(entries[j].Time)
	})
}

// rosterSections turns one recipient's services into roster sections,
// merging each activity's historical categories so columns line up
// across days.
func (s *dispatchService) rosterSections(ctx context.Context, entries []serviceEntry) ([]RosterSection, error) {
	historical := map[int64][]string{}
	sections := make([]RosterSection, 0, len(entries))
	for _, entry := range entries {
		hist, ok := historical[entry.ActivityID]
		if !ok {
			var err error
			hist, err = s.export.HistoricalCategories(ctx, entry.ActivityID)
			if err != nil {
				return nil, err
			}
			historical[entry.ActivityID] = hist
		}

		guideName := entry.GuideName
		if guideName == "" {
			guideName = joinNames(entry.Staff.PeopleForRole(models.RoleGuide))
		}
		sections = append(sections, RosterSection{
			TourTitle:  entry.TourTitle,
			Date:       entry.Date,
			Time:       entry.Time,
			GuideName:  guideName,
			Categories: MergeCategories(hist, entry.Bookings),
			Bookings:   entry.Bookings,
		})
	}
	return sections, nil
}
