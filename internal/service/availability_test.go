package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medsched/internal/domain"
)

func slotStarts(slots []domain.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.String())
	}
	return out
}

func TestGetAvailabilityFullDayWithLunch(t *testing.T) {
	f := newFixture()
	f.directory.addPhysician(1, "Ada", "Adams", 5, clinic)
	f.periods.periods = []domain.WorkingPeriod{withLunch(weekly(1, 1, clinic, 1, "08:00", "17:00"), "12:00", "13:00")}

	result, err := f.availability().GetAvailability(context.Background(), 1, monday, nil)
	require.NoError(t, err)

	assert.True(t, result.Available)
	require.Len(t, result.Locations, 1)

	report := result.Locations[0]
	assert.Equal(t, clinic, report.LocationID)
	assert.Equal(t, "Main Street Clinic", report.LocationName)
	assert.Equal(t, "working", report.Status)
	assert.Len(t, report.Slots, 16)
	assert.NotContains(t, slotStarts(report.Slots), "12:00")
	assert.NotContains(t, slotStarts(report.Slots), "12:30")
}

func TestGetAvailabilitySkipsBookedSlot(t *testing.T) {
	f := newFixture()
	f.directory.addPhysician(1, "Ada", "Adams", 5, clinic)
	f.periods.periods = []domain.WorkingPeriod{weekly(1, 1, clinic, 1, "09:00", "10:00")}
	f.appointments = newMemAppointments(domain.Appointment{
		ID: 1, PhysicianID: 1, LocationID: clinic, AppointmentDate: monday,
		StartTime: domain.MustClock("09:30"), EndTime: domain.MustClock("10:00"),
		Status: domain.AppointmentStatusScheduled,
	})

	result, err := f.availability().GetAvailability(context.Background(), 1, monday, &clinic)
	require.NoError(t, err)

	require.Len(t, result.Locations, 1)
	assert.Equal(t, []string{"09:00"}, slotStarts(result.Locations[0].Slots))
}

func TestGetAvailabilityUnavailableException(t *testing.T) {
	f := newFixture()
	f.directory.addPhysician(1, "Ada", "Adams", 5, clinic)
	f.periods.periods = []domain.WorkingPeriod{weekly(1, 1, clinic, 1, "08:00", "17:00")}
	reason := "annual leave"
	f.exceptions.exceptions = []domain.AvailabilityException{{
		ID: 1, PhysicianID: 1, LocationID: &clinic, Date: monday,
		Kind: domain.ExceptionUnavailable, Reason: &reason,
	}}

	result, err := f.availability().GetAvailability(context.Background(), 1, monday, nil)
	require.NoError(t, err)

	assert.False(t, result.Available)
	require.Len(t, result.Locations, 1)
	report := result.Locations[0]
	assert.False(t, report.Available)
	assert.NotNil(t, report.Slots)
	assert.Empty(t, report.Slots)
	assert.Equal(t, "annual leave", report.Reason)
	assert.Equal(t, "unavailable", report.Status)
}

func TestGetAvailabilityAcrossLocations(t *testing.T) {
	f := newFixture()
	f.directory.addPhysician(1, "Ada", "Adams", 5, clinic, annex)
	f.periods.periods = []domain.WorkingPeriod{
		weekly(1, 1, annex, 1, "13:00", "15:00"),
		weekly(2, 1, clinic, 1, "09:00", "11:00"),
		weekly(3, 1, clinic, 2, "09:00", "17:00"),
	}
	// a booking at the annex overlapping clinic hours still blocks the physician
	f.appointments = newMemAppointments(domain.Appointment{
		ID: 1, PhysicianID: 1, LocationID: annex, AppointmentDate: monday,
		StartTime: domain.MustClock("10:00"), EndTime: domain.MustClock("10:30"),
		Status: domain.AppointmentStatusConfirmed,
	})

	svc := f.availability()
	result, err := svc.GetAvailability(context.Background(), 1, monday, nil)
	require.NoError(t, err)

	require.Len(t, result.Locations, 2)
	assert.Equal(t, clinic, result.Locations[0].LocationID, "locations come in ascending id order")
	assert.Equal(t, []string{"09:00", "09:30", "10:30"}, slotStarts(result.Locations[0].Slots))
	assert.Equal(t, annex, result.Locations[1].LocationID)
	assert.Equal(t, []string{"13:00", "13:30", "14:00", "14:30"}, slotStarts(result.Locations[1].Slots))

	only, err := svc.GetAvailability(context.Background(), 1, monday, &annex)
	require.NoError(t, err)
	require.Len(t, only.Locations, 1)
	assert.Equal(t, annex, only.Locations[0].LocationID)
}

func TestGetAvailabilityRelocatedDay(t *testing.T) {
	f := newFixture()
	f.directory.addPhysician(1, "Ada", "Adams", 5, clinic, annex)
	f.periods.periods = []domain.WorkingPeriod{weekly(1, 1, clinic, 1, "08:00", "17:00")}
	f.exceptions.exceptions = []domain.AvailabilityException{{
		ID: 1, PhysicianID: 1, LocationID: &clinic, Date: monday,
		Kind: domain.ExceptionLocationChange, AlternateLocationID: &annex,
	}}

	result, err := f.availability().GetAvailability(context.Background(), 1, monday, nil)
	require.NoError(t, err)

	require.Len(t, result.Locations, 2)
	assert.Equal(t, "unavailable", result.Locations[0].Status)
	assert.Empty(t, result.Locations[0].Slots)
	assert.NotEmpty(t, result.Locations[0].Reason)

	assert.Equal(t, annex, result.Locations[1].LocationID)
	assert.Equal(t, "North Annex", result.Locations[1].LocationName)
	assert.Len(t, result.Locations[1].Slots, 18)
	assert.True(t, result.Available)
}

func TestGetAvailabilityOmitsUnassignedLocations(t *testing.T) {
	f := newFixture()
	f.directory.addPhysician(1, "Ada", "Adams", 5, clinic)
	f.periods.periods = []domain.WorkingPeriod{
		weekly(1, 1, clinic, 1, "08:00", "12:00"),
		weekly(2, 1, 30, 1, "13:00", "17:00"),
	}
	f.exceptions.exceptions = []domain.AvailabilityException{{
		ID: 1, PhysicianID: 1, LocationID: &clinic, Date: monday,
		Kind: domain.ExceptionLocationChange, AlternateLocationID: &annex,
	}}
	svc := f.availability()
	ctx := context.Background()

	atAnnex, err := svc.GetAvailability(ctx, 1, monday, &annex)
	require.NoError(t, err)
	assert.False(t, atAnnex.Available)
	assert.Empty(t, atAnnex.Locations)

	all, err := svc.GetAvailability(ctx, 1, monday, nil)
	require.NoError(t, err)
	require.Len(t, all.Locations, 1, "only the assigned clinic is reported")
	assert.Equal(t, clinic, all.Locations[0].LocationID)
	assert.Equal(t, "unavailable", all.Locations[0].Status)
	assert.False(t, all.Available)

	dto := reserveDTO("09:00", "09:30")
	dto.LocationID = annex
	_, err = f.appointmentService().Reserve(ctx, dto)
	assert.ErrorIs(t, err, domain.ErrPhysicianNotAtLocation)
}

func TestGetAvailabilityNoSchedule(t *testing.T) {
	f := newFixture()
	f.directory.addPhysician(1, "Ada", "Adams", 5, clinic)
	f.periods.periods = []domain.WorkingPeriod{weekly(1, 1, clinic, 2, "08:00", "17:00")}

	result, err := f.availability().GetAvailability(context.Background(), 1, monday, nil)
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.Empty(t, result.Locations)
}

func TestGetAvailabilityUnknownPhysician(t *testing.T) {
	f := newFixture()

	_, err := f.availability().GetAvailability(context.Background(), 42, monday, nil)
	assert.ErrorIs(t, err, domain.ErrPhysicianNotFound)
}

func TestCheckWithinHours(t *testing.T) {
	f := newFixture()
	f.directory.addPhysician(1, "Ada", "Adams", 5, clinic)
	wp := withLunch(weekly(1, 1, clinic, 1, "08:00", "17:00"), "12:00", "13:00")
	wp.Breaks = []domain.BreakInterval{{Name: "rounds", Start: domain.MustClock("15:00"), End: domain.MustClock("15:30")}}
	f.periods.periods = []domain.WorkingPeriod{wp}
	svc := f.availability()

	req := func(date time.Time, start, end string) domain.SlotRequest {
		iv, err := domain.ParseInterval(start, end)
		require.NoError(t, err)
		return domain.SlotRequest{PhysicianID: 1, LocationID: clinic, Date: date, Interval: iv}
	}

	ctx := context.Background()
	assert.NoError(t, svc.CheckWithinHours(ctx, req(monday, "08:00", "08:30")))
	assert.NoError(t, svc.CheckWithinHours(ctx, req(monday, "11:30", "12:00")), "ends exactly at lunch")
	assert.NoError(t, svc.CheckWithinHours(ctx, req(monday, "16:40", "17:00")))

	assert.ErrorIs(t, svc.CheckWithinHours(ctx, req(monday, "07:30", "08:00")), domain.ErrOutsideWorkingHours)
	assert.ErrorIs(t, svc.CheckWithinHours(ctx, req(monday, "16:45", "17:15")), domain.ErrOutsideWorkingHours)
	assert.ErrorIs(t, svc.CheckWithinHours(ctx, req(monday, "11:45", "12:15")), domain.ErrOutsideWorkingHours)
	assert.ErrorIs(t, svc.CheckWithinHours(ctx, req(monday, "15:15", "15:45")), domain.ErrOutsideWorkingHours)
	assert.ErrorIs(t, svc.CheckWithinHours(ctx, req(monday.AddDate(0, 0, 1), "09:00", "09:30")), domain.ErrOutsideWorkingHours)
}
