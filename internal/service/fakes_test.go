package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"medsched/config"
	"medsched/internal/domain"
	"medsched/internal/events"
	"medsched/internal/repository"
)

var (
	monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	clinic = int64(10)
	annex  = int64(20)
)

func schedulingConfig() config.SchedulingConfig {
	return config.SchedulingConfig{
		DefaultSlotMinutes:        30,
		AlternativesWindowDays:    14,
		AlternativesMaxWindowDays: 60,
		AlternativesLimit:         10,
		SlotsPerAlternative:       3,
		AlternativesTimeout:       5 * time.Second,
		TimeZone:                  "UTC",
	}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func weekly(id, physicianID, locationID int64, day int, start, end string) domain.WorkingPeriod {
	return domain.WorkingPeriod{
		ID:            id,
		PhysicianID:   physicianID,
		LocationID:    locationID,
		DayOfWeek:     day,
		StartTime:     domain.MustClock(start),
		EndTime:       domain.MustClock(end),
		SlotMinutes:   30,
		EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
}

func withLunch(wp domain.WorkingPeriod, start, end string) domain.WorkingPeriod {
	s, e := domain.MustClock(start), domain.MustClock(end)
	wp.LunchStart, wp.LunchEnd = &s, &e
	return wp
}

// memPeriods serves ListForDay from memory. Other methods are unused by these tests.
type memPeriods struct {
	repository.WorkingPeriodRepository
	periods []domain.WorkingPeriod
	delay   time.Duration
}

func (m *memPeriods) ListForDay(_ context.Context, physicianID int64, locationID *int64, dayOfWeek int) ([]domain.WorkingPeriod, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	var out []domain.WorkingPeriod
	for _, wp := range m.periods {
		if wp.PhysicianID != physicianID || wp.DayOfWeek != dayOfWeek {
			continue
		}
		if locationID != nil && wp.LocationID != *locationID {
			continue
		}
		out = append(out, wp)
	}
	return out, nil
}

type memExceptions struct {
	repository.ExceptionRepository
	exceptions []domain.AvailabilityException
}

func (m *memExceptions) ListForDate(_ context.Context, physicianID int64, date time.Time) ([]domain.AvailabilityException, error) {
	var out []domain.AvailabilityException
	for _, e := range m.exceptions {
		if e.PhysicianID == physicianID && e.Date.Equal(domain.DateOf(date)) {
			out = append(out, e)
		}
	}
	return out, nil
}

// memAppointments is an in-memory appointment store. WithinSlotLock holds a mutex per lock key,
// so concurrent bookings of one physician-day serialize the way the advisory lock does.
type memAppointments struct {
	mu           sync.Mutex
	appointments []domain.Appointment
	nextID       int64

	locksMu sync.Mutex
	locks   map[domain.SlotLockKey]*sync.Mutex
}

func newMemAppointments(existing ...domain.Appointment) *memAppointments {
	m := &memAppointments{locks: make(map[domain.SlotLockKey]*sync.Mutex), nextID: 100}
	for _, a := range existing {
		m.appointments = append(m.appointments, a)
		if a.ID >= m.nextID {
			m.nextID = a.ID + 1
		}
	}
	return m
}

func (m *memAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.appointments {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memAppointments) List(_ context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Appointment
	for _, a := range m.appointments {
		if filter.PhysicianID != nil && a.PhysicianID != *filter.PhysicianID {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (m *memAppointments) ListBooked(_ context.Context, physicianID int64, locationID *int64, date time.Time) ([]domain.BookedInterval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.BookedInterval
	for _, a := range m.appointments {
		if a.PhysicianID != physicianID || !a.AppointmentDate.Equal(domain.DateOf(date)) || !a.Status.Occupies() {
			continue
		}
		if locationID != nil && a.LocationID != *locationID {
			continue
		}
		out = append(out, a.Booked())
	}
	return out, nil
}

func (m *memAppointments) UpdateStatus(_ context.Context, id int64, from, to domain.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.appointments {
		if m.appointments[i].ID == id {
			if m.appointments[i].Status != from {
				return domain.ErrInvalidStatusTransition
			}
			m.appointments[i].Status = to
			return nil
		}
	}
	return domain.ErrAppointmentNotFound
}

func (m *memAppointments) WithinSlotLock(_ context.Context, key domain.SlotLockKey, fn func(tx repository.AppointmentTx) error) error {
	m.locksMu.Lock()
	lock, ok := m.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[key] = lock
	}
	m.locksMu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	return fn(memTx{m})
}

func (m *memAppointments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appointments)
}

type memTx struct {
	m *memAppointments
}

func (t memTx) CountConflicts(_ context.Context, req domain.SlotRequest, excludeID *int64) (int, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	n := 0
	for _, a := range t.m.appointments {
		if a.PhysicianID != req.PhysicianID || !a.AppointmentDate.Equal(req.Date) || !a.Status.Occupies() {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if domain.Overlaps(a.Interval(), req.Interval) {
			n++
		}
	}
	return n, nil
}

func (t memTx) Insert(_ context.Context, appt *domain.Appointment) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	appt.ID = t.m.nextID
	t.m.nextID++
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	t.m.appointments = append(t.m.appointments, *appt)
	return nil
}

func (t memTx) Reschedule(_ context.Context, id int64, req domain.SlotRequest) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	for i := range t.m.appointments {
		a := &t.m.appointments[i]
		if a.ID == id {
			if a.Status != domain.AppointmentStatusScheduled && a.Status != domain.AppointmentStatusConfirmed {
				return domain.ErrInvalidStatusTransition
			}
			a.LocationID = req.LocationID
			a.AppointmentDate = req.Date
			a.StartTime = req.Interval.Start
			a.EndTime = req.Interval.End
			return nil
		}
	}
	return domain.ErrAppointmentNotFound
}

type fakeDirectory struct {
	mu          sync.Mutex
	physicians  map[int64]domain.Physician
	locations   map[int64]domain.Location
	invalidated []int64
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		physicians: make(map[int64]domain.Physician),
		locations: map[int64]domain.Location{
			clinic: {ID: clinic, Name: "Main Street Clinic", IsActive: true},
			annex:  {ID: annex, Name: "North Annex", IsActive: true},
		},
	}
}

func (d *fakeDirectory) addPhysician(id int64, first, last string, specialtyID int64, locations ...int64) {
	d.physicians[id] = domain.Physician{
		ID:          id,
		FirstName:   first,
		LastName:    last,
		SpecialtyID: specialtyID,
		IsActive:    true,
		LocationIDs: locations,
	}
}

func (d *fakeDirectory) GetPhysician(_ context.Context, id int64) (*domain.Physician, error) {
	p, ok := d.physicians[id]
	if !ok {
		return nil, domain.ErrPhysicianNotFound
	}
	return &p, nil
}

func (d *fakeDirectory) GetLocation(_ context.Context, id int64) (*domain.Location, error) {
	l, ok := d.locations[id]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	return &l, nil
}

func (d *fakeDirectory) ListBySpecialty(_ context.Context, specialtyID int64, locationID *int64) ([]domain.Physician, error) {
	var out []domain.Physician
	for _, p := range d.physicians {
		if p.SpecialtyID != specialtyID || !p.IsActive {
			continue
		}
		if locationID != nil && !containsID(p.LocationIDs, *locationID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (d *fakeDirectory) IsAssigned(_ context.Context, physicianID, locationID int64) (bool, error) {
	p, ok := d.physicians[physicianID]
	return ok && p.IsActive && containsID(p.LocationIDs, locationID), nil
}

func (d *fakeDirectory) InvalidatePhysician(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.invalidated = append(d.invalidated, id)
}

func (d *fakeDirectory) InvalidateLocation(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.invalidated = append(d.invalidated, -id)
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.AppointmentEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.AppointmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingMetrics struct {
	NopMetrics
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *recordingMetrics) RecordBooking(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[operation+"/"+outcome]++
}

func (m *recordingMetrics) get(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[key]
}

type fakeCopay struct {
	amounts map[string]float64
}

func (c fakeCopay) Estimate(_ context.Context, appointmentType string) (*domain.CopayEstimate, error) {
	amount, ok := c.amounts[appointmentType]
	if !ok {
		return nil, domain.ErrCopayRateNotFound
	}
	return &domain.CopayEstimate{AppointmentType: appointmentType, Amount: amount, Currency: "USD"}, nil
}

var errBroker = errors.New("broker unavailable")

// fixture wires the availability and booking services over the in-memory stores.
type fixture struct {
	periods      *memPeriods
	exceptions   *memExceptions
	appointments *memAppointments
	directory    *fakeDirectory
	publisher    *recordingPublisher
	metrics      *recordingMetrics
	cfg          config.SchedulingConfig
	now          time.Time
}

func newFixture() *fixture {
	return &fixture{
		periods:      &memPeriods{},
		exceptions:   &memExceptions{},
		appointments: newMemAppointments(),
		directory:    newFakeDirectory(),
		publisher:    &recordingPublisher{},
		metrics:      &recordingMetrics{},
		cfg:          schedulingConfig(),
		now:          monday.Add(7 * time.Hour),
	}
}

func (f *fixture) availability() *AvailabilityServiceImpl {
	return NewAvailabilityService(f.periods, f.exceptions, f.appointments, f.directory, f.cfg, time.UTC, fixedNow(f.now), f.metrics)
}

func (f *fixture) appointmentService() *AppointmentServiceImpl {
	return NewAppointmentService(
		f.appointments,
		NewSlotGuard(f.appointments),
		f.availability(),
		f.directory,
		fakeCopay{amounts: map[string]float64{"consultation": 25}},
		f.publisher,
		f.metrics,
		zap.NewNop(),
	)
}
