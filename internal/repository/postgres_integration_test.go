//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"medsched/config"
	"medsched/internal/cache"
	"medsched/internal/domain"
	"medsched/internal/repository"
	"medsched/internal/service"
	"medsched/pkg/database"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, pool, err := startPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres: %v\n", err)
		os.Exit(1)
	}
	testPool = pool

	code := m.Run()

	pool.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func startPostgres(ctx context.Context) (testcontainers.Container, *pgxpool.Pool, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "medsched_test",
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "testpass",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return container, nil, err
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return container, nil, err
	}

	pool, err := database.NewPostgresDB(ctx, config.PostgresConfig{
		Host:               host,
		Port:               port.Port(),
		Username:           "test",
		Password:           "testpass",
		DBName:             "medsched_test",
		SSLMode:            "disable",
		MaxConnections:     20,
		MaxIdleConnections: 1,
		MaxLifetime:        time.Minute,
	})
	if err != nil {
		return container, nil, err
	}

	if _, err := database.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()); err != nil {
		pool.Close()
		return container, nil, err
	}

	return container, pool, nil
}

type stack struct {
	repos    *repository.Repositories
	services *service.Services
}

func newStack(t *testing.T) stack {
	t.Helper()

	repos := repository.NewRepositories(testPool)
	cfg := &config.Config{
		Scheduling: config.SchedulingConfig{
			DefaultSlotMinutes:        30,
			AlternativesWindowDays:    14,
			AlternativesMaxWindowDays: 60,
			AlternativesLimit:         10,
			SlotsPerAlternative:       3,
			AlternativesTimeout:       5 * time.Second,
			TimeZone:                  "UTC",
		},
	}
	now := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)

	services, err := service.NewServices(service.Deps{
		Repos:     repos,
		Directory: cache.NewDirectory(repos.Physician, repos.Location, config.CacheConfig{Enabled: true, Size: 64, TTL: time.Minute}, zap.NewNop()),
		Logger:    zap.NewNop(),
		Config:    cfg,
		Now:       func() time.Time { return now },
	})
	require.NoError(t, err)

	return stack{repos: repos, services: services}
}

// seedPhysician creates a physician with Monday hours 08:00-17:00 and lunch 12:00-13:00.
func seedPhysician(t *testing.T, s stack, specialtyID, locationID int64, email string) int64 {
	t.Helper()
	ctx := context.Background()

	id, err := s.services.Physician.Create(ctx, domain.CreatePhysicianDTO{
		FirstName:   "Dana",
		LastName:    "Whitfield",
		SpecialtyID: specialtyID,
		Email:       email,
		Phone:       "+15550001111",
	})
	require.NoError(t, err)
	require.NoError(t, s.services.Physician.AssignLocation(ctx, id, locationID))

	monday := 1
	lunchStart, lunchEnd := "12:00", "13:00"
	_, err = s.services.WorkingPeriod.Create(ctx, domain.CreateWorkingPeriodDTO{
		PhysicianID:   id,
		LocationID:    locationID,
		DayOfWeek:     &monday,
		StartTime:     "08:00",
		EndTime:       "17:00",
		LunchStart:    &lunchStart,
		LunchEnd:      &lunchEnd,
		SlotMinutes:   30,
		EffectiveDate: "2030-01-01",
	})
	require.NoError(t, err)

	return id
}

func seedDirectory(t *testing.T, s stack, name string) (specialtyID, locationID int64) {
	t.Helper()
	ctx := context.Background()

	specialtyID, err := s.services.Specialty.Create(ctx, domain.CreateSpecialtyDTO{Name: name, IsActive: true})
	require.NoError(t, err)

	locationID, err = s.services.Location.Create(ctx, domain.CreateLocationDTO{Name: name + " clinic", Address: "1 Main St"})
	require.NoError(t, err)

	return specialtyID, locationID
}

func TestMigrationsAreIdempotent(t *testing.T) {
	applied, err := database.RunMigrations(context.Background(), testPool, "../../migrations", zap.NewNop())

	require.NoError(t, err)
	assert.Zero(t, applied)
}

func TestAvailabilityAndBooking(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	specialtyID, locationID := seedDirectory(t, s, "Cardiology")
	physicianID := seedPhysician(t, s, specialtyID, locationID, "dana@example.com")
	monday := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

	result, err := s.services.Availability.GetAvailability(ctx, physicianID, monday, &locationID)
	require.NoError(t, err)
	require.Len(t, result.Locations, 1)
	assert.Len(t, result.Locations[0].Slots, 16)

	appt, err := s.services.Appointment.Reserve(ctx, domain.ReserveSlotDTO{
		PatientID:       501,
		PhysicianID:     physicianID,
		LocationID:      locationID,
		Date:            "2030-01-07",
		StartTime:       "09:00",
		EndTime:         "09:30",
		AppointmentType: "follow_up",
	})
	require.NoError(t, err)
	require.NotNil(t, appt.CopayAmount)
	assert.InDelta(t, 25.0, *appt.CopayAmount, 0.001)

	stored, err := s.repos.Appointment.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, appt.Reference, stored.Reference)
	assert.Equal(t, "09:00", stored.StartTime.String())

	result, err = s.services.Availability.GetAvailability(ctx, physicianID, monday, &locationID)
	require.NoError(t, err)
	assert.Len(t, result.Locations[0].Slots, 15)

	_, err = s.services.Appointment.Reserve(ctx, domain.ReserveSlotDTO{
		PatientID: 502, PhysicianID: physicianID, LocationID: locationID,
		Date: "2030-01-07", StartTime: "09:15", EndTime: "09:45", AppointmentType: "follow_up",
	})
	assert.ErrorIs(t, err, domain.ErrSlotConflict)

	require.NoError(t, s.services.Appointment.Cancel(ctx, appt.ID))
	result, err = s.services.Availability.GetAvailability(ctx, physicianID, monday, &locationID)
	require.NoError(t, err)
	assert.Len(t, result.Locations[0].Slots, 16, "a cancelled booking frees its slot")
}

func TestConcurrentReservationsYieldOneBooking(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	specialtyID, locationID := seedDirectory(t, s, "Dermatology")
	physicianID := seedPhysician(t, s, specialtyID, locationID, "lee@example.com")

	const attempts = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(patient int64) {
			defer wg.Done()
			_, err := s.services.Appointment.Reserve(ctx, domain.ReserveSlotDTO{
				PatientID: patient, PhysicianID: physicianID, LocationID: locationID,
				Date: "2030-01-07", StartTime: "10:00", EndTime: "10:30", AppointmentType: "consultation",
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrSlotConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(600 + i))
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
}

func TestStatusChangesCompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	specialtyID, locationID := seedDirectory(t, s, "Pediatrics")
	physicianID := seedPhysician(t, s, specialtyID, locationID, "ped@example.com")

	appt, err := s.services.Appointment.Reserve(ctx, domain.ReserveSlotDTO{
		PatientID: 610, PhysicianID: physicianID, LocationID: locationID,
		Date: "2030-01-07", StartTime: "10:00", EndTime: "10:30", AppointmentType: "follow_up",
	})
	require.NoError(t, err)

	require.NoError(t, s.repos.Appointment.UpdateStatus(ctx, appt.ID, domain.AppointmentStatusScheduled, domain.AppointmentStatusCancelled))

	err = s.repos.Appointment.UpdateStatus(ctx, appt.ID, domain.AppointmentStatusScheduled, domain.AppointmentStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	err = s.repos.Appointment.UpdateStatus(ctx, 987654, domain.AppointmentStatusScheduled, domain.AppointmentStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)

	req := domain.SlotRequest{
		PhysicianID: physicianID,
		LocationID:  locationID,
		Date:        time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC),
		Interval:    domain.Interval{Start: domain.MustClock("14:00"), End: domain.MustClock("14:30")},
	}
	err = s.repos.Appointment.WithinSlotLock(ctx, req.LockKey(), func(tx repository.AppointmentTx) error {
		return tx.Reschedule(ctx, appt.ID, req)
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	stored, err := s.repos.Appointment.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusCancelled, stored.Status)
	assert.Equal(t, "10:00", stored.StartTime.String())
}

func TestExceptionsAndAlternatives(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	specialtyID, locationID := seedDirectory(t, s, "Neurology")
	first := seedPhysician(t, s, specialtyID, locationID, "first@example.com")
	second := seedPhysician(t, s, specialtyID, locationID, "second@example.com")

	reason := "conference"
	_, err := s.services.Exception.Create(ctx, domain.CreateExceptionDTO{
		PhysicianID: first,
		Date:        "2030-01-14",
		Kind:        domain.ExceptionUnavailable,
		Reason:      &reason,
	})
	require.NoError(t, err)

	_, err = s.services.Exception.Create(ctx, domain.CreateExceptionDTO{
		PhysicianID: first,
		Date:        "2030-01-14",
		Kind:        domain.ExceptionUnavailable,
	})
	assert.ErrorIs(t, err, domain.ErrExceptionExists)

	result, err := s.services.Availability.GetAvailability(ctx, first, time.Date(2030, 1, 14, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	assert.False(t, result.Available)
	require.Len(t, result.Locations, 1)
	assert.Empty(t, result.Locations[0].Slots)
	assert.Equal(t, "conference", result.Locations[0].Reason)

	appt, err := s.services.Appointment.Reserve(ctx, domain.ReserveSlotDTO{
		PatientID: 700, PhysicianID: first, LocationID: locationID,
		Date: "2030-01-07", StartTime: "08:00", EndTime: "08:30", AppointmentType: "new_patient",
	})
	require.NoError(t, err)

	options, err := s.services.Availability.FindAlternatives(ctx, appt.ID, nil, 14)
	require.NoError(t, err)
	require.NotEmpty(t, options)
	assert.LessOrEqual(t, len(options), 10)
	assert.Equal(t, first, options[0].PhysicianID, "equal names fall back to id order")

	seen := map[int64]bool{}
	for _, o := range options {
		seen[o.PhysicianID] = true
		assert.NotEqual(t, time.Date(2030, 1, 14, 0, 0, 0, 0, time.UTC), o.Date.UTC(), "unavailable day offered for %d", o.PhysicianID)
	}
	assert.True(t, seen[second])
}

func TestDuplicateWorkingPeriod(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	specialtyID, locationID := seedDirectory(t, s, "Oncology")
	physicianID := seedPhysician(t, s, specialtyID, locationID, "onc@example.com")

	monday := 1
	_, err := s.services.WorkingPeriod.Create(ctx, domain.CreateWorkingPeriodDTO{
		PhysicianID: physicianID, LocationID: locationID, DayOfWeek: &monday,
		StartTime: "09:00", EndTime: "12:00", EffectiveDate: "2030-01-01",
	})

	assert.ErrorIs(t, err, domain.ErrWorkingPeriodExists)
}
