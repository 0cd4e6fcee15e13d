// Package scheduling holds the pure availability rules: which hours apply to a physician on a
// date at a location, and which slots inside those hours are still free.
package scheduling

import (
	"fmt"
	"sort"
	"time"

	"medsched/internal/domain"
)

type Kind int

const (
	NoSchedule Kind = iota
	Working
	Unavailable
	ModifiedHours
)

func (k Kind) String() string {
	switch k {
	case Working:
		return "working"
	case Unavailable:
		return "unavailable"
	case ModifiedHours:
		return "modified_hours"
	default:
		return "no_schedule"
	}
}

// Resolution is the outcome of resolving one physician, location and date.
// Hours, Lunch, Breaks and SlotMinutes are only meaningful when Bookable is true.
type Resolution struct {
	Kind        Kind
	Hours       domain.Interval
	Lunch       *domain.Interval
	Breaks      []domain.Interval
	SlotMinutes int
	Reason      string
	Period      *domain.WorkingPeriod
}

func (r Resolution) Bookable() bool {
	return r.Kind == Working || r.Kind == ModifiedHours
}

// Blockers returns lunch and breaks as plain intervals.
func (r Resolution) Blockers() []domain.Interval {
	out := make([]domain.Interval, 0, len(r.Breaks)+1)
	if r.Lunch != nil {
		out = append(out, *r.Lunch)
	}
	return append(out, r.Breaks...)
}

// PickException prefers the exception for locationID over a location-agnostic one.
func PickException(exceptions []domain.AvailabilityException, locationID int64) *domain.AvailabilityException {
	var fallback *domain.AvailabilityException
	for i := range exceptions {
		e := &exceptions[i]
		if e.LocationID != nil && *e.LocationID == locationID {
			return e
		}
		if e.LocationID == nil && fallback == nil {
			fallback = e
		}
	}
	return fallback
}

// ActivePeriod picks the period at locationID for date's weekday that is active on date.
// When several match, the latest effective date wins, then the highest id.
func ActivePeriod(periods []domain.WorkingPeriod, locationID int64, date time.Time) *domain.WorkingPeriod {
	weekday := int(date.Weekday())

	var best *domain.WorkingPeriod
	for i := range periods {
		wp := &periods[i]
		if wp.LocationID != locationID || wp.DayOfWeek != weekday || !wp.ActiveOn(date) {
			continue
		}
		if best == nil || newerPeriod(wp, best) {
			best = wp
		}
	}
	return best
}

func newerPeriod(a, b *domain.WorkingPeriod) bool {
	ae, be := domain.DateOf(a.EffectiveDate), domain.DateOf(b.EffectiveDate)
	if !ae.Equal(be) {
		return ae.After(be)
	}
	return a.ID > b.ID
}

// Resolve applies the exception for the date, if any, on top of the active working period.
func Resolve(date time.Time, locationID int64, periods []domain.WorkingPeriod, exceptions []domain.AvailabilityException) Resolution {
	exc := PickException(exceptions, locationID)

	if exc != nil {
		switch exc.Kind {
		case domain.ExceptionUnavailable:
			return Resolution{Kind: Unavailable, Reason: reasonOr(exc, "physician is unavailable on this date")}
		case domain.ExceptionLocationChange:
			if exc.AlternateLocationID != nil && *exc.AlternateLocationID == locationID {
				// a location-agnostic move onto this location leaves its own schedule intact
				exc = nil
				break
			}
			return Resolution{Kind: Unavailable, Reason: reasonOr(exc, relocatedReason(exc))}
		}
	}

	wp := ActivePeriod(periods, locationID, date)
	if wp == nil {
		return Resolution{Kind: NoSchedule}
	}

	res := fromPeriod(wp, Working)
	if exc != nil && exc.Kind == domain.ExceptionModifiedHours {
		if o := exc.Override(); o != nil {
			res.Kind = ModifiedHours
			res.Hours = *o
			res.Reason = exc.ReasonText()
		}
	}
	return res
}

// ResolveRelocated resolves a location the physician was moved to by a location_change
// exception. The source location's period supplies the hours unless the exception overrides them.
func ResolveRelocated(date time.Time, locationID int64, periods []domain.WorkingPeriod, exceptions []domain.AvailabilityException) Resolution {
	for i := range exceptions {
		exc := &exceptions[i]
		if exc.Kind != domain.ExceptionLocationChange || exc.AlternateLocationID == nil || *exc.AlternateLocationID != locationID {
			continue
		}

		source := sourcePeriod(exc, locationID, periods, date)
		if source == nil {
			if o := exc.Override(); o != nil {
				return Resolution{
					Kind:        ModifiedHours,
					Hours:       *o,
					SlotMinutes: domain.DefaultSlotMinutes,
					Reason:      exc.ReasonText(),
				}
			}
			continue
		}

		res := fromPeriod(source, Working)
		if o := exc.Override(); o != nil {
			res.Kind = ModifiedHours
			res.Hours = *o
		}
		res.Reason = exc.ReasonText()
		return res
	}

	return Resolution{Kind: NoSchedule}
}

func sourcePeriod(exc *domain.AvailabilityException, target int64, periods []domain.WorkingPeriod, date time.Time) *domain.WorkingPeriod {
	if exc.LocationID != nil {
		return ActivePeriod(periods, *exc.LocationID, date)
	}

	locations := make([]int64, 0, len(periods))
	for _, wp := range periods {
		if wp.LocationID != target {
			locations = append(locations, wp.LocationID)
		}
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i] < locations[j] })

	for _, loc := range locations {
		if wp := ActivePeriod(periods, loc, date); wp != nil {
			return wp
		}
	}
	return nil
}

func fromPeriod(wp *domain.WorkingPeriod, kind Kind) Resolution {
	breaks := make([]domain.Interval, 0, len(wp.Breaks))
	for _, b := range wp.Breaks {
		breaks = append(breaks, b.Interval())
	}

	return Resolution{
		Kind:        kind,
		Hours:       wp.Hours(),
		Lunch:       wp.Lunch(),
		Breaks:      breaks,
		SlotMinutes: wp.SlotMinutes,
		Period:      wp,
	}
}

func reasonOr(exc *domain.AvailabilityException, fallback string) string {
	if r := exc.ReasonText(); r != "" {
		return r
	}
	return fallback
}

func relocatedReason(exc *domain.AvailabilityException) string {
	if exc.AlternateLocationID == nil {
		return "physician is working at another location"
	}
	return fmt.Sprintf("physician is working at location %d", *exc.AlternateLocationID)
}
