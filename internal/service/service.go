package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"medsched/config"
	"medsched/internal/domain"
	"medsched/internal/events"
	"medsched/internal/repository"
	"medsched/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Directory   Directory
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Publisher   events.Publisher
	Metrics     Metrics
	// Now defaults to time.Now.
	Now func() time.Time
}

type Services struct {
	Physician     PhysicianService
	Specialty     SpecialtyService
	Location      LocationService
	WorkingPeriod WorkingPeriodService
	Exception     ExceptionService
	Availability  AvailabilityService
	Appointment   AppointmentService
	Copay         CopayEstimator
}

func NewServices(deps Deps) (*Services, error) {
	tz, err := deps.Config.Scheduling.Location()
	if err != nil {
		return nil, err
	}

	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Metrics == nil {
		deps.Metrics = NopMetrics{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	copay := NewCopayService(deps.Repos.Copay, deps.Logger)
	availability := NewAvailabilityService(
		deps.Repos.WorkingPeriod,
		deps.Repos.Exception,
		deps.Repos.Appointment,
		deps.Directory,
		deps.Config.Scheduling,
		tz,
		deps.Now,
		deps.Metrics,
	)

	return &Services{
		Physician:     NewPhysicianService(deps.Repos.Physician, deps.Repos.Specialty, deps.Repos.Location, deps.Directory, deps.FileStorage, deps.Logger),
		Specialty:     NewSpecialtyService(deps.Repos.Specialty, deps.Logger),
		Location:      NewLocationService(deps.Repos.Location, deps.Directory, deps.Logger),
		WorkingPeriod: NewWorkingPeriodService(deps.Repos.WorkingPeriod, deps.Directory, deps.Logger),
		Exception:     NewExceptionService(deps.Repos.Exception, deps.Directory, deps.Logger),
		Availability:  availability,
		Appointment: NewAppointmentService(
			deps.Repos.Appointment,
			NewSlotGuard(deps.Repos.Appointment),
			availability,
			deps.Directory,
			copay,
			deps.Publisher,
			deps.Metrics,
			deps.Logger,
		),
		Copay: copay,
	}, nil
}

// Directory is the physician directory the availability core reads through.
type Directory interface {
	GetPhysician(ctx context.Context, id int64) (*domain.Physician, error)
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
	// ListBySpecialty returns active physicians ordered by last name, first name, id.
	ListBySpecialty(ctx context.Context, specialtyID int64, locationID *int64) ([]domain.Physician, error)
	IsAssigned(ctx context.Context, physicianID, locationID int64) (bool, error)

	InvalidatePhysician(id int64)
	InvalidateLocation(id int64)
}

type CopayEstimator interface {
	Estimate(ctx context.Context, appointmentType string) (*domain.CopayEstimate, error)
}

type Metrics interface {
	RecordBooking(operation, outcome string)
	ObserveAvailability(operation string, duration time.Duration)
	ObserveAlternatives(found int)
}

type NopMetrics struct{}

func (NopMetrics) RecordBooking(string, string) {}

func (NopMetrics) ObserveAvailability(string, time.Duration) {}

func (NopMetrics) ObserveAlternatives(int) {}

type PhysicianService interface {
	Create(ctx context.Context, dto domain.CreatePhysicianDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Physician, error)
	Update(ctx context.Context, id int64, dto domain.UpdatePhysicianDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.PhysicianFilter) ([]domain.Physician, int, error)

	UploadProfilePhoto(ctx context.Context, physicianID int64, photo []byte, filename string) (string, error)
	DeleteProfilePhoto(ctx context.Context, physicianID int64) error

	AssignLocation(ctx context.Context, physicianID, locationID int64) error
	UnassignLocation(ctx context.Context, physicianID, locationID int64) error
}

type SpecialtyService interface {
	Create(ctx context.Context, dto domain.CreateSpecialtyDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Specialty, error)
	Update(ctx context.Context, id int64, dto domain.UpdateSpecialtyDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, onlyActive bool) ([]domain.Specialty, error)
}

type LocationService interface {
	Create(ctx context.Context, dto domain.CreateLocationDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	Update(ctx context.Context, id int64, dto domain.UpdateLocationDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, onlyActive bool) ([]domain.Location, error)
}

type WorkingPeriodService interface {
	Create(ctx context.Context, dto domain.CreateWorkingPeriodDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.WorkingPeriod, error)
	Update(ctx context.Context, id int64, dto domain.UpdateWorkingPeriodDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.WorkingPeriodFilter) ([]domain.WorkingPeriod, error)
}

type ExceptionService interface {
	Create(ctx context.Context, dto domain.CreateExceptionDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityException, error)
	Update(ctx context.Context, id int64, dto domain.UpdateExceptionDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.ExceptionFilter) ([]domain.AvailabilityException, int, error)
}

type AvailabilityService interface {
	GetAvailability(ctx context.Context, physicianID int64, date time.Time, locationID *int64) (*domain.PhysicianAvailabilityResult, error)
	FindAlternatives(ctx context.Context, referenceAppointmentID int64, preferredLocationID *int64, windowDays int) ([]domain.AlternativeOption, error)
}

type AppointmentService interface {
	Reserve(ctx context.Context, dto domain.ReserveSlotDTO) (*domain.Appointment, error)
	Reschedule(ctx context.Context, id int64, dto domain.RescheduleDTO) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
}

func PointerTo[T any](v T) *T {
	return &v
}
