package events

import (
	"context"
	"time"

	"medsched/internal/domain"
)

type Type string

const (
	AppointmentBooked      Type = "appointment.booked"
	AppointmentRescheduled Type = "appointment.rescheduled"
	AppointmentCancelled   Type = "appointment.cancelled"
	AppointmentStatus      Type = "appointment.status_changed"
)

// AppointmentEvent is the message consumed by the reminder and reporting collaborators.
type AppointmentEvent struct {
	Type          Type                     `json:"type"`
	OccurredAt    time.Time                `json:"occurred_at"`
	AppointmentID int64                    `json:"appointment_id"`
	Reference     string                   `json:"reference"`
	PatientID     int64                    `json:"patient_id"`
	PhysicianID   int64                    `json:"physician_id"`
	LocationID    int64                    `json:"location_id"`
	Date          string                   `json:"date"`
	StartTime     domain.Clock             `json:"start_time"`
	EndTime       domain.Clock             `json:"end_time"`
	Status        domain.AppointmentStatus `json:"status"`
}

func NewAppointmentEvent(t Type, a domain.Appointment) AppointmentEvent {
	return AppointmentEvent{
		Type:          t,
		OccurredAt:    time.Now().UTC(),
		AppointmentID: a.ID,
		Reference:     a.Reference.String(),
		PatientID:     a.PatientID,
		PhysicianID:   a.PhysicianID,
		LocationID:    a.LocationID,
		Date:          a.AppointmentDate.Format(domain.DateLayout),
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Status:        a.Status,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event AppointmentEvent) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AppointmentEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
