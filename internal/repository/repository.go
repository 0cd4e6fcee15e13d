package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"medsched/internal/domain"
)

type Repositories struct {
	Physician     PhysicianRepository
	Specialty     SpecialtyRepository
	Location      LocationRepository
	WorkingPeriod WorkingPeriodRepository
	Exception     ExceptionRepository
	Appointment   AppointmentRepository
	Copay         CopayRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Physician:     NewPhysicianRepository(db),
		Specialty:     NewSpecialtyRepository(db),
		Location:      NewLocationRepository(db),
		WorkingPeriod: NewWorkingPeriodRepository(db),
		Exception:     NewExceptionRepository(db),
		Appointment:   NewAppointmentRepository(db),
		Copay:         NewCopayRepository(db),
	}
}

type PhysicianRepository interface {
	Create(ctx context.Context, dto domain.CreatePhysicianDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Physician, error)
	Update(ctx context.Context, id int64, dto domain.UpdatePhysicianDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.PhysicianFilter) ([]domain.Physician, int, error)
	// ListBySpecialty returns active physicians ordered by last name, first name, id.
	ListBySpecialty(ctx context.Context, specialtyID int64, locationID *int64) ([]domain.Physician, error)
	UpdatePhotoURL(ctx context.Context, id int64, url string) error

	AssignLocation(ctx context.Context, physicianID, locationID int64) error
	UnassignLocation(ctx context.Context, physicianID, locationID int64) error
	IsAssigned(ctx context.Context, physicianID, locationID int64) (bool, error)
}

type SpecialtyRepository interface {
	Create(ctx context.Context, dto domain.CreateSpecialtyDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Specialty, error)
	Update(ctx context.Context, id int64, dto domain.UpdateSpecialtyDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, onlyActive bool) ([]domain.Specialty, error)
}

type LocationRepository interface {
	Create(ctx context.Context, dto domain.CreateLocationDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	Update(ctx context.Context, id int64, dto domain.UpdateLocationDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, onlyActive bool) ([]domain.Location, error)
}

type WorkingPeriodRepository interface {
	Create(ctx context.Context, wp domain.WorkingPeriod) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.WorkingPeriod, error)
	Update(ctx context.Context, wp domain.WorkingPeriod) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.WorkingPeriodFilter) ([]domain.WorkingPeriod, error)
	// ListForDay returns every period of the physician on the weekday, active or not.
	// A nil locationID covers all locations.
	ListForDay(ctx context.Context, physicianID int64, locationID *int64, dayOfWeek int) ([]domain.WorkingPeriod, error)
}

type ExceptionRepository interface {
	Create(ctx context.Context, e domain.AvailabilityException) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityException, error)
	Update(ctx context.Context, e domain.AvailabilityException) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.ExceptionFilter) ([]domain.AvailabilityException, int, error)
	// ListForDate returns both location-specific and location-agnostic exceptions.
	ListForDate(ctx context.Context, physicianID int64, date time.Time) ([]domain.AvailabilityException, error)
}

type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
	// ListBooked returns occupying appointments only. A nil locationID covers all locations.
	ListBooked(ctx context.Context, physicianID int64, locationID *int64, date time.Time) ([]domain.BookedInterval, error)
	// UpdateStatus is a compare-and-set: it fails with ErrInvalidStatusTransition when the stored status is not from.
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error
	// WithinSlotLock runs fn in one transaction holding the lock for key. The transaction
	// commits when fn returns nil and rolls back otherwise.
	WithinSlotLock(ctx context.Context, key domain.SlotLockKey, fn func(tx AppointmentTx) error) error
}

// AppointmentTx is the write side of a booking, valid only inside WithinSlotLock.
type AppointmentTx interface {
	// CountConflicts counts occupying appointments of the physician on the date whose
	// interval overlaps the request, ignoring excludeID when set.
	CountConflicts(ctx context.Context, req domain.SlotRequest, excludeID *int64) (int, error)
	Insert(ctx context.Context, appt *domain.Appointment) error
	// Reschedule moves a scheduled or confirmed appointment; any other status yields ErrInvalidStatusTransition.
	Reschedule(ctx context.Context, id int64, req domain.SlotRequest) error
}

type CopayRepository interface {
	GetByAppointmentType(ctx context.Context, appointmentType string) (*domain.CopayEstimate, error)
}
