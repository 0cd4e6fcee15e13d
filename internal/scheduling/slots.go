package scheduling

import (
	"sort"

	"medsched/internal/domain"
)

// GenerateSlots walks the resolved hours in fixed steps and returns the free slots, earliest first.
//
// slotMinutes <= 0 falls back to the period's own duration and then to the default.
// A slot touching lunch, a break or an occupying booking is skipped as a whole; the walk
// always advances by a full step and never emits a partial trailing slot.
func GenerateSlots(res Resolution, slotMinutes int, booked []domain.BookedInterval) []domain.Slot {
	if !res.Bookable() {
		return []domain.Slot{}
	}

	step := slotMinutes
	if step <= 0 {
		step = res.SlotMinutes
	}
	if step <= 0 {
		step = domain.DefaultSlotMinutes
	}

	blockers := res.Blockers()
	for _, b := range booked {
		if b.Status.Occupies() {
			blockers = append(blockers, b.Interval())
		}
	}
	blockers = mergeIntervals(blockers)

	slots := make([]domain.Slot, 0, res.Hours.Minutes()/step)
	next := 0
	for start := res.Hours.Start; start.Add(step) <= res.Hours.End; start = start.Add(step) {
		candidate := domain.Interval{Start: start, End: start.Add(step)}

		for next < len(blockers) && blockers[next].End <= candidate.Start {
			next++
		}
		if next < len(blockers) && domain.Overlaps(blockers[next], candidate) {
			continue
		}

		slots = append(slots, domain.Slot{Start: candidate.Start, End: candidate.End, Available: true})
	}

	return slots
}

// mergeIntervals sorts by start and coalesces overlapping or touching intervals,
// so the result is disjoint and ordered by both start and end. Empty intervals are dropped.
func mergeIntervals(in []domain.Interval) []domain.Interval {
	sorted := make([]domain.Interval, 0, len(in))
	for _, iv := range in {
		if iv.Start < iv.End {
			sorted = append(sorted, iv)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := make([]domain.Interval, 0, len(sorted))
	for _, iv := range sorted {
		if n := len(merged); n > 0 && iv.Start <= merged[n-1].End {
			if iv.End > merged[n-1].End {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// FirstN returns at most n slots from the front of slots.
func FirstN(slots []domain.Slot, n int) []domain.Slot {
	if n <= 0 || len(slots) <= n {
		return slots
	}
	out := make([]domain.Slot, n)
	copy(out, slots[:n])
	return out
}
