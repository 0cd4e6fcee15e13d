package domain

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCheckedIn AppointmentStatus = "checked_in"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// Occupies reports whether an appointment in this status blocks its slot.
func (s AppointmentStatus) Occupies() bool {
	return s != AppointmentStatusCancelled && s != AppointmentStatusNoShow
}

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {AppointmentStatusConfirmed, AppointmentStatusCheckedIn, AppointmentStatusCancelled, AppointmentStatusNoShow},
	AppointmentStatusConfirmed: {AppointmentStatusCheckedIn, AppointmentStatusCancelled, AppointmentStatusNoShow},
	AppointmentStatusCheckedIn: {AppointmentStatusCompleted},
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID              int64             `json:"id"`
	Reference       uuid.UUID         `json:"reference"`
	PatientID       int64             `json:"patient_id"`
	PhysicianID     int64             `json:"physician_id"`
	LocationID      int64             `json:"location_id"`
	AppointmentDate time.Time         `json:"appointment_date"`
	StartTime       Clock             `json:"start_time"`
	EndTime         Clock             `json:"end_time"`
	AppointmentType string            `json:"appointment_type"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes"`
	CopayAmount     *float64          `json:"copay_amount,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	PhysicianName   string            `json:"physician_name,omitempty"`
	LocationName    string            `json:"location_name,omitempty"`
}

func (a Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

func (a Appointment) Booked() BookedInterval {
	return BookedInterval{
		AppointmentID: a.ID,
		PhysicianID:   a.PhysicianID,
		LocationID:    a.LocationID,
		Date:          a.AppointmentDate,
		Start:         a.StartTime,
		End:           a.EndTime,
		Status:        a.Status,
	}
}

// BookedInterval is the part of an appointment the slot computation cares about.
type BookedInterval struct {
	AppointmentID int64             `json:"appointment_id"`
	PhysicianID   int64             `json:"physician_id"`
	LocationID    int64             `json:"location_id"`
	Date          time.Time         `json:"date"`
	Start         Clock             `json:"start"`
	End           Clock             `json:"end"`
	Status        AppointmentStatus `json:"status"`
}

func (b BookedInterval) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

type ReserveSlotDTO struct {
	PatientID       int64  `json:"patient_id"`
	PhysicianID     int64  `json:"physician_id" binding:"required"`
	LocationID      int64  `json:"location_id" binding:"required"`
	Date            string `json:"date" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
	AppointmentType string `json:"appointment_type" binding:"required"`
	Notes           string `json:"notes"`
}

type RescheduleDTO struct {
	LocationID *int64 `json:"location_id"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
}

type UpdateStatusDTO struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=confirmed checked_in completed cancelled no_show"`
}

// SlotRequest is a validated reservation target.
type SlotRequest struct {
	PhysicianID int64
	LocationID  int64
	Date        time.Time
	Interval    Interval
}

// SlotLockKey scopes the booking lock to one physician-day.
type SlotLockKey struct {
	PhysicianID int64
	Date        time.Time
}

func (r SlotRequest) LockKey() SlotLockKey {
	return SlotLockKey{PhysicianID: r.PhysicianID, Date: DateOf(r.Date)}
}

type AppointmentFilter struct {
	PatientID   *int64             `json:"patient_id"`
	PhysicianID *int64             `json:"physician_id"`
	LocationID  *int64             `json:"location_id"`
	Status      *AppointmentStatus `json:"status"`
	DateFrom    *time.Time         `json:"date_from"`
	DateTo      *time.Time         `json:"date_to"`
	Limit       int                `json:"limit"`
	Offset      int                `json:"offset"`
}

type CopayEstimate struct {
	AppointmentType string  `json:"appointment_type"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}
