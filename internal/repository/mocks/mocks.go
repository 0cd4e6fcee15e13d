// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"medsched/internal/domain"
	"medsched/internal/repository"
)

type PhysicianRepository struct {
	mock.Mock
}

func (m *PhysicianRepository) Create(ctx context.Context, dto domain.CreatePhysicianDTO) (int64, error) {
	args := m.Called(ctx, dto)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PhysicianRepository) GetByID(ctx context.Context, id int64) (*domain.Physician, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Physician)
	return p, args.Error(1)
}

func (m *PhysicianRepository) Update(ctx context.Context, id int64, dto domain.UpdatePhysicianDTO) error {
	return m.Called(ctx, id, dto).Error(0)
}

func (m *PhysicianRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PhysicianRepository) List(ctx context.Context, filter domain.PhysicianFilter) ([]domain.Physician, int, error) {
	args := m.Called(ctx, filter)
	physicians, _ := args.Get(0).([]domain.Physician)
	return physicians, args.Int(1), args.Error(2)
}

func (m *PhysicianRepository) ListBySpecialty(ctx context.Context, specialtyID int64, locationID *int64) ([]domain.Physician, error) {
	args := m.Called(ctx, specialtyID, locationID)
	physicians, _ := args.Get(0).([]domain.Physician)
	return physicians, args.Error(1)
}

func (m *PhysicianRepository) UpdatePhotoURL(ctx context.Context, id int64, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

func (m *PhysicianRepository) AssignLocation(ctx context.Context, physicianID, locationID int64) error {
	return m.Called(ctx, physicianID, locationID).Error(0)
}

func (m *PhysicianRepository) UnassignLocation(ctx context.Context, physicianID, locationID int64) error {
	return m.Called(ctx, physicianID, locationID).Error(0)
}

func (m *PhysicianRepository) IsAssigned(ctx context.Context, physicianID, locationID int64) (bool, error) {
	args := m.Called(ctx, physicianID, locationID)
	return args.Bool(0), args.Error(1)
}

type SpecialtyRepository struct {
	mock.Mock
}

func (m *SpecialtyRepository) Create(ctx context.Context, dto domain.CreateSpecialtyDTO) (int64, error) {
	args := m.Called(ctx, dto)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SpecialtyRepository) GetByID(ctx context.Context, id int64) (*domain.Specialty, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Specialty)
	return s, args.Error(1)
}

func (m *SpecialtyRepository) Update(ctx context.Context, id int64, dto domain.UpdateSpecialtyDTO) error {
	return m.Called(ctx, id, dto).Error(0)
}

func (m *SpecialtyRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *SpecialtyRepository) List(ctx context.Context, onlyActive bool) ([]domain.Specialty, error) {
	args := m.Called(ctx, onlyActive)
	specialties, _ := args.Get(0).([]domain.Specialty)
	return specialties, args.Error(1)
}

type LocationRepository struct {
	mock.Mock
}

func (m *LocationRepository) Create(ctx context.Context, dto domain.CreateLocationDTO) (int64, error) {
	args := m.Called(ctx, dto)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LocationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*domain.Location)
	return l, args.Error(1)
}

func (m *LocationRepository) Update(ctx context.Context, id int64, dto domain.UpdateLocationDTO) error {
	return m.Called(ctx, id, dto).Error(0)
}

func (m *LocationRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *LocationRepository) List(ctx context.Context, onlyActive bool) ([]domain.Location, error) {
	args := m.Called(ctx, onlyActive)
	locations, _ := args.Get(0).([]domain.Location)
	return locations, args.Error(1)
}

type WorkingPeriodRepository struct {
	mock.Mock
}

func (m *WorkingPeriodRepository) Create(ctx context.Context, wp domain.WorkingPeriod) (int64, error) {
	args := m.Called(ctx, wp)
	return args.Get(0).(int64), args.Error(1)
}

func (m *WorkingPeriodRepository) GetByID(ctx context.Context, id int64) (*domain.WorkingPeriod, error) {
	args := m.Called(ctx, id)
	wp, _ := args.Get(0).(*domain.WorkingPeriod)
	return wp, args.Error(1)
}

func (m *WorkingPeriodRepository) Update(ctx context.Context, wp domain.WorkingPeriod) error {
	return m.Called(ctx, wp).Error(0)
}

func (m *WorkingPeriodRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *WorkingPeriodRepository) List(ctx context.Context, filter domain.WorkingPeriodFilter) ([]domain.WorkingPeriod, error) {
	args := m.Called(ctx, filter)
	periods, _ := args.Get(0).([]domain.WorkingPeriod)
	return periods, args.Error(1)
}

func (m *WorkingPeriodRepository) ListForDay(ctx context.Context, physicianID int64, locationID *int64, dayOfWeek int) ([]domain.WorkingPeriod, error) {
	args := m.Called(ctx, physicianID, locationID, dayOfWeek)
	periods, _ := args.Get(0).([]domain.WorkingPeriod)
	return periods, args.Error(1)
}

type ExceptionRepository struct {
	mock.Mock
}

func (m *ExceptionRepository) Create(ctx context.Context, e domain.AvailabilityException) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ExceptionRepository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityException, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*domain.AvailabilityException)
	return e, args.Error(1)
}

func (m *ExceptionRepository) Update(ctx context.Context, e domain.AvailabilityException) error {
	return m.Called(ctx, e).Error(0)
}

func (m *ExceptionRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ExceptionRepository) List(ctx context.Context, filter domain.ExceptionFilter) ([]domain.AvailabilityException, int, error) {
	args := m.Called(ctx, filter)
	exceptions, _ := args.Get(0).([]domain.AvailabilityException)
	return exceptions, args.Int(1), args.Error(2)
}

func (m *ExceptionRepository) ListForDate(ctx context.Context, physicianID int64, date time.Time) ([]domain.AvailabilityException, error) {
	args := m.Called(ctx, physicianID, date)
	exceptions, _ := args.Get(0).([]domain.AvailabilityException)
	return exceptions, args.Error(1)
}

// AppointmentRepository mocks the read side. WithinSlotLock hands fn the Tx field.
type AppointmentRepository struct {
	mock.Mock
	Tx repository.AppointmentTx
}

func (m *AppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Appointment)
	return a, args.Error(1)
}

func (m *AppointmentRepository) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	args := m.Called(ctx, filter)
	appointments, _ := args.Get(0).([]domain.Appointment)
	return appointments, args.Int(1), args.Error(2)
}

func (m *AppointmentRepository) ListBooked(ctx context.Context, physicianID int64, locationID *int64, date time.Time) ([]domain.BookedInterval, error) {
	args := m.Called(ctx, physicianID, locationID, date)
	booked, _ := args.Get(0).([]domain.BookedInterval)
	return booked, args.Error(1)
}

func (m *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *AppointmentRepository) WithinSlotLock(ctx context.Context, key domain.SlotLockKey, fn func(tx repository.AppointmentTx) error) error {
	if err := m.Called(ctx, key).Error(0); err != nil {
		return err
	}
	return fn(m.Tx)
}

type AppointmentTx struct {
	mock.Mock
}

func (m *AppointmentTx) CountConflicts(ctx context.Context, req domain.SlotRequest, excludeID *int64) (int, error) {
	args := m.Called(ctx, req, excludeID)
	return args.Int(0), args.Error(1)
}

func (m *AppointmentTx) Insert(ctx context.Context, appt *domain.Appointment) error {
	return m.Called(ctx, appt).Error(0)
}

func (m *AppointmentTx) Reschedule(ctx context.Context, id int64, req domain.SlotRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

type CopayRepository struct {
	mock.Mock
}

func (m *CopayRepository) GetByAppointmentType(ctx context.Context, appointmentType string) (*domain.CopayEstimate, error) {
	args := m.Called(ctx, appointmentType)
	e, _ := args.Get(0).(*domain.CopayEstimate)
	return e, args.Error(1)
}
