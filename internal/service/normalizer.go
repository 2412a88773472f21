package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tourops/daily-list-service/internal/models"
)

// CategoryPolicy decides which passenger lines count toward a
// booking's participants. For an activity with an allow-list, only the
// listed pricing category ids are included and the title list is not
// consulted; otherwise a passenger is excluded when its booked title
// matches the activity's excluded-title list.
type CategoryPolicy struct {
	AllowedCategoryIDs map[int64][]string
	ExcludedTitles     map[int64][]string
}

// DefaultCategoryPolicy carries the production rules: the Colosseum
// arena-floor product (901961) only sells the listed categories, and
// the guided tour 217949 books non-participating child lines that must
// not count as pax.
func DefaultCategoryPolicy() CategoryPolicy {
	return CategoryPolicy{
		AllowedCategoryIDs: map[int64][]string{
			901961: {"780302", "780303"},
		},
		ExcludedTitles: map[int64][]string{
			217949: {"6 a 12 años", "0 a 5 años"},
		},
	}
}

// Includes reports whether a passenger line counts for the given
// activity.
func (p CategoryPolicy) Includes(activityID int64, pricingCategoryID, bookedTitle string) bool {
	if allowed, ok := p.AllowedCategoryIDs[activityID]; ok {
		for _, id := range allowed {
			if id == pricingCategoryID {
				return true
			}
		}
		return false
	}
	for _, title := range p.ExcludedTitles[activityID] {
		if strings.EqualFold(title, bookedTitle) {
			return false
		}
	}
	return true
}

// Normalizer turns raw booking rows into flat typed records with the
// category policy applied. Pure transform; safe to call on every fetch.
type Normalizer struct {
	policy CategoryPolicy
}

func NewNormalizer(policy CategoryPolicy) *Normalizer {
	return &Normalizer{policy: policy}
}

func (n *Normalizer) Policy() CategoryPolicy {
	return n.policy
}

// Normalize flattens raw rows into Bookings. activityTitles maps
// activity id to title; customers maps platform booking id to the lead
// customer. Excluded passengers contribute nothing: not to
// TotalParticipants, not to the detail string, not to the passenger
// list. Output is sorted by (bookingDate, startTime, activityTitle),
// all string-lexicographic.
func (n *Normalizer) Normalize(
	rows []models.ActivityBooking,
	activityTitles map[int64]string,
	customers map[int64]*CustomerInfo,
) []Booking {
	out := make([]Booking, 0, len(rows))

	for _, row := range rows {
		if row.Status == models.BookingCancelled {
			continue
		}

		b := Booking{
			ActivityID:        row.ActivityID,
			ActivityTitle:     activityTitles[row.ActivityID],
			BookingDate:       row.BookingDate,
			StartTime:         row.StartTime,
			BookingID:         row.BookingID,
			ActivityBookingID: row.ActivityBookingID,
			Customer:          customers[row.BookingID],
		}

		for _, pcb := range row.PricingCategoryBookings {
			if !n.policy.Includes(row.ActivityID, pcb.PricingCategoryID, pcb.BookedTitle) {
				continue
			}
			qty := pcb.Quantity
			if qty <= 0 {
				qty = 1
			}
			b.Passengers = append(b.Passengers, Passenger{
				PricingCategoryID: pcb.PricingCategoryID,
				BookedTitle:       pcb.BookedTitle,
				FirstName:         pcb.FirstName,
				LastName:          pcb.LastName,
				DateOfBirth:       pcb.DateOfBirth,
				Quantity:          qty,
			})
			b.TotalParticipants += qty
		}

		b.ParticipantsDetail = PaxTypes(b.Passengers)
		out = append(out, b)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BookingDate != out[j].BookingDate {
			return out[i].BookingDate < out[j].BookingDate
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ActivityTitle < out[j].ActivityTitle
	})

	return out
}

// CustomerInfoMap converts customer rows keyed by booking id into the
// normalizer's lookup shape.
func CustomerInfoMap(rows map[int64]models.Customer) map[int64]*CustomerInfo {
	out := make(map[int64]*CustomerInfo, len(rows))
	for bookingID, c := range rows {
		out[bookingID] = &CustomerInfo{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Phone:     c.Phone,
		}
	}
	return out
}

// PaxTypes aggregates passengers into a "2 Adulto, 1 Bambino" string,
// categories in order of first appearance.
func PaxTypes(passengers []Passenger) string {
	counts := map[string]int{}
	var order []string
	for _, p := range passengers {
		if _, seen := counts[p.BookedTitle]; !seen {
			order = append(order, p.BookedTitle)
		}
		counts[p.BookedTitle] += p.Quantity
	}

	parts := make([]string, 0, len(order))
	for _, title := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[title], title))
	}
	return strings.Join(parts, ", ")
}
