package rest

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"medsched/internal/domain"
	"medsched/internal/service"
)

type appointmentServiceMock struct {
	mock.Mock
}

func (m *appointmentServiceMock) Reserve(ctx context.Context, dto domain.ReserveSlotDTO) (*domain.Appointment, error) {
	args := m.Called(ctx, dto)
	appt, _ := args.Get(0).(*domain.Appointment)
	return appt, args.Error(1)
}

func (m *appointmentServiceMock) Reschedule(ctx context.Context, id int64, dto domain.RescheduleDTO) (*domain.Appointment, error) {
	args := m.Called(ctx, id, dto)
	appt, _ := args.Get(0).(*domain.Appointment)
	return appt, args.Error(1)
}

func (m *appointmentServiceMock) Cancel(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *appointmentServiceMock) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *appointmentServiceMock) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	appt, _ := args.Get(0).(*domain.Appointment)
	return appt, args.Error(1)
}

func (m *appointmentServiceMock) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	args := m.Called(ctx, filter)
	appts, _ := args.Get(0).([]domain.Appointment)
	return appts, args.Int(1), args.Error(2)
}

type availabilityServiceMock struct {
	mock.Mock
}

func (m *availabilityServiceMock) GetAvailability(ctx context.Context, physicianID int64, date time.Time, locationID *int64) (*domain.PhysicianAvailabilityResult, error) {
	args := m.Called(ctx, physicianID, date, locationID)
	res, _ := args.Get(0).(*domain.PhysicianAvailabilityResult)
	return res, args.Error(1)
}

func (m *availabilityServiceMock) FindAlternatives(ctx context.Context, referenceAppointmentID int64, preferredLocationID *int64, windowDays int) ([]domain.AlternativeOption, error) {
	args := m.Called(ctx, referenceAppointmentID, preferredLocationID, windowDays)
	options, _ := args.Get(0).([]domain.AlternativeOption)
	return options, args.Error(1)
}

// Unmocked methods panic through the nil embedded interface.
type physicianServiceMock struct {
	mock.Mock
	service.PhysicianService
}

func (m *physicianServiceMock) Create(ctx context.Context, dto domain.CreatePhysicianDTO) (int64, error) {
	args := m.Called(ctx, dto)
	return args.Get(0).(int64), args.Error(1)
}

func (m *physicianServiceMock) GetByID(ctx context.Context, id int64) (*domain.Physician, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Physician)
	return p, args.Error(1)
}

type workingPeriodServiceMock struct {
	mock.Mock
	service.WorkingPeriodService
}

func (m *workingPeriodServiceMock) Create(ctx context.Context, dto domain.CreateWorkingPeriodDTO) (int64, error) {
	args := m.Called(ctx, dto)
	return args.Get(0).(int64), args.Error(1)
}

func (m *workingPeriodServiceMock) GetByID(ctx context.Context, id int64) (*domain.WorkingPeriod, error) {
	args := m.Called(ctx, id)
	wp, _ := args.Get(0).(*domain.WorkingPeriod)
	return wp, args.Error(1)
}

func (m *workingPeriodServiceMock) Update(ctx context.Context, id int64, dto domain.UpdateWorkingPeriodDTO) error {
	return m.Called(ctx, id, dto).Error(0)
}

type copayMock struct {
	mock.Mock
}

func (m *copayMock) Estimate(ctx context.Context, appointmentType string) (*domain.CopayEstimate, error) {
	args := m.Called(ctx, appointmentType)
	e, _ := args.Get(0).(*domain.CopayEstimate)
	return e, args.Error(1)
}
