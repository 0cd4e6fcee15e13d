package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"medsched/config"
	"medsched/internal/domain"
	"medsched/internal/repository"
	"medsched/internal/scheduling"
)

type AvailabilityServiceImpl struct {
	periodRepo      repository.WorkingPeriodRepository
	exceptionRepo   repository.ExceptionRepository
	appointmentRepo repository.AppointmentRepository
	directory       Directory
	cfg             config.SchedulingConfig
	tz              *time.Location
	now             func() time.Time
	metrics         Metrics
}

func NewAvailabilityService(
	periodRepo repository.WorkingPeriodRepository,
	exceptionRepo repository.ExceptionRepository,
	appointmentRepo repository.AppointmentRepository,
	directory Directory,
	cfg config.SchedulingConfig,
	tz *time.Location,
	now func() time.Time,
	metrics Metrics,
) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		periodRepo:      periodRepo,
		exceptionRepo:   exceptionRepo,
		appointmentRepo: appointmentRepo,
		directory:       directory,
		cfg:             cfg,
		tz:              tz,
		now:             now,
		metrics:         metrics,
	}
}

// physicianDay is everything the resolver needs for one physician on one date, across all locations.
type physicianDay struct {
	date       time.Time
	periods    []domain.WorkingPeriod
	exceptions []domain.AvailabilityException
	booked     []domain.BookedInterval
}

func (s *AvailabilityServiceImpl) loadDay(ctx context.Context, physicianID int64, date time.Time) (*physicianDay, error) {
	date = domain.DateOf(date)

	periods, err := s.periodRepo.ListForDay(ctx, physicianID, nil, int(date.Weekday()))
	if err != nil {
		return nil, err
	}

	exceptions, err := s.exceptionRepo.ListForDate(ctx, physicianID, date)
	if err != nil {
		return nil, err
	}

	// Bookings at every location block the physician, not only the one being reported.
	booked, err := s.appointmentRepo.ListBooked(ctx, physicianID, nil, date)
	if err != nil {
		return nil, err
	}

	return &physicianDay{date: date, periods: periods, exceptions: exceptions, booked: booked}, nil
}

func (d *physicianDay) resolve(locationID int64) scheduling.Resolution {
	res := scheduling.Resolve(d.date, locationID, d.periods, d.exceptions)
	if res.Kind == scheduling.NoSchedule {
		res = scheduling.ResolveRelocated(d.date, locationID, d.periods, d.exceptions)
	}
	return res
}

// locations lists, in ascending order, every location that may have something to report.
func (d *physicianDay) locations() []int64 {
	seen := make(map[int64]struct{})
	for _, wp := range d.periods {
		seen[wp.LocationID] = struct{}{}
	}
	for _, e := range d.exceptions {
		if e.LocationID != nil {
			seen[*e.LocationID] = struct{}{}
		}
		if e.AlternateLocationID != nil {
			seen[*e.AlternateLocationID] = struct{}{}
		}
	}

	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *AvailabilityServiceImpl) slotMinutes(res scheduling.Resolution) int {
	if res.SlotMinutes > 0 {
		return res.SlotMinutes
	}
	return s.cfg.DefaultSlotMinutes
}

func (s *AvailabilityServiceImpl) GetAvailability(ctx context.Context, physicianID int64, date time.Time, locationID *int64) (*domain.PhysicianAvailabilityResult, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveAvailability("get_availability", time.Since(started)) }()

	if _, err := s.directory.GetPhysician(ctx, physicianID); err != nil {
		return nil, err
	}

	return s.availability(ctx, physicianID, date, locationID)
}

func (s *AvailabilityServiceImpl) availability(ctx context.Context, physicianID int64, date time.Time, locationID *int64) (*domain.PhysicianAvailabilityResult, error) {
	day, err := s.loadDay(ctx, physicianID, date)
	if err != nil {
		return nil, err
	}

	result := &domain.PhysicianAvailabilityResult{
		PhysicianID: physicianID,
		Date:        day.date,
		Locations:   []domain.LocationAvailabilityReport{},
	}

	for _, loc := range day.locations() {
		if locationID != nil && *locationID != loc {
			continue
		}

		res := day.resolve(loc)
		if res.Kind == scheduling.NoSchedule {
			continue
		}

		// Periods and relocations can outlive an assignment.
		assigned, err := s.directory.IsAssigned(ctx, physicianID, loc)
		if err != nil {
			return nil, err
		}
		if !assigned {
			continue
		}

		report := domain.LocationAvailabilityReport{
			LocationID: loc,
			Slots:      scheduling.GenerateSlots(res, s.slotMinutes(res), day.booked),
			Reason:     res.Reason,
			Status:     res.Kind.String(),
		}
		report.Available = len(report.Slots) > 0

		location, err := s.directory.GetLocation(ctx, loc)
		switch {
		case err == nil:
			report.LocationName = location.Name
		case !errors.Is(err, domain.ErrLocationNotFound):
			return nil, err
		}

		result.Available = result.Available || report.Available
		result.Locations = append(result.Locations, report)
	}

	return result, nil
}

// CheckWithinHours verifies that req lies inside the resolved hours of the location and clear of lunch and breaks.
// Existing bookings are left to the guard.
func (s *AvailabilityServiceImpl) CheckWithinHours(ctx context.Context, req domain.SlotRequest) error {
	day, err := s.loadDay(ctx, req.PhysicianID, req.Date)
	if err != nil {
		return err
	}

	res := day.resolve(req.LocationID)
	if !res.Bookable() || !domain.Within(req.Interval, res.Hours) {
		return domain.ErrOutsideWorkingHours
	}

	for _, b := range res.Blockers() {
		if domain.Overlaps(req.Interval, b) {
			return domain.ErrOutsideWorkingHours
		}
	}

	return nil
}

// today is the current date in the clinic's time zone, as a UTC midnight.
func (s *AvailabilityServiceImpl) today() (time.Time, domain.Clock) {
	now := s.now().In(s.tz)
	return domain.DateOf(now), domain.Clock(now.Hour()*60 + now.Minute())
}
