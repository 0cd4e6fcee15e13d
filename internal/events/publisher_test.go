package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medsched/internal/domain"
)

func TestNewAppointmentEvent(t *testing.T) {
	ref := uuid.New()
	appt := domain.Appointment{
		ID:              42,
		Reference:       ref,
		PatientID:       7,
		PhysicianID:     3,
		LocationID:      10,
		AppointmentDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		StartTime:       domain.MustClock("09:00"),
		EndTime:         domain.MustClock("09:30"),
		Status:          domain.AppointmentStatusScheduled,
	}

	event := NewAppointmentEvent(AppointmentBooked, appt)

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "appointment.booked", decoded["type"])
	assert.Equal(t, ref.String(), decoded["reference"])
	assert.Equal(t, "2026-10-19", decoded["date"])
	assert.Equal(t, "09:00", decoded["start_time"])
	assert.Equal(t, "scheduled", decoded["status"])
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}

	assert.NoError(t, p.Publish(context.Background(), AppointmentEvent{Type: AppointmentCancelled}))
	assert.NoError(t, p.Close())
}
