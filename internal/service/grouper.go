package service

import "sort"

// GroupByTour folds a flat booking list into the Tour → TimeSlot
// hierarchy. Time slots sort ascending by raw time string within a
// tour; tours sort descending by total participants, ties broken by
// title so the output is fully determined by the input.
func GroupByTour(bookings []Booking) []Tour {
	type slotKey struct {
		title string
		time  string
	}

	tourIdx := map[string]int{}
	slotIdx := map[slotKey]int{}
	var tours []Tour

	for _, b := range bookings {
		ti, ok := tourIdx[b.ActivityTitle]
		if !ok {
			ti = len(tours)
			tourIdx[b.ActivityTitle] = ti
			tours = append(tours, Tour{TourTitle: b.ActivityTitle})
		}

		key := slotKey{title: b.ActivityTitle, time: b.StartTime}
		si, ok := slotIdx[key]
		if !ok {
			si = len(tours[ti].TimeSlots)
			slotIdx[key] = si
			tours[ti].TimeSlots = append(tours[ti].TimeSlots, TimeSlot{Time: b.StartTime})
		}

		slot := &tours[ti].TimeSlots[si]
		slot.Bookings = append(slot.Bookings, b)
		slot.TotalParticipants += b.TotalParticipants
		tours[ti].TotalParticipants += b.TotalParticipants
	}

	for i := range tours {
		sort.SliceStable(tours[i].TimeSlots, func(a, b int) bool {
			return tours[i].TimeSlots[a].Time < tours[i].TimeSlots[b].Time
		})
	}

	sort.SliceStable(tours, func(a, b int) bool {
		if tours[a].TotalParticipants != tours[b].TotalParticipants {
			return tours[a].TotalParticipants > tours[b].TotalParticipants
		}
		return tours[a].TourTitle < tours[b].TourTitle
	})

	return tours
}
