package domain

import "errors"

var (
	ErrInvalidTimeFormat      = errors.New("invalid time format, expected HH:MM")
	ErrInvalidInterval        = errors.New("interval start must be before end")
	ErrInvalidDate            = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrPhysicianNotAtLocation = errors.New("physician is not assigned to this location")
	ErrSlotConflict           = errors.New("the requested slot is already booked")
	ErrInvalidWindow          = errors.New("invalid search window")
	ErrInvalidSchedule        = errors.New("invalid working period")
	ErrInvalidException       = errors.New("invalid availability exception")
	ErrOutsideWorkingHours    = errors.New("the requested time is outside the physician's working hours")
	ErrInvalidAppointmentType = errors.New("invalid appointment type")
	ErrInvalidInput           = errors.New("invalid input")

	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrPhysicianNotFound       = errors.New("physician not found")
	ErrLocationNotFound        = errors.New("location not found")
	ErrSpecialtyNotFound       = errors.New("specialty not found")
	ErrWorkingPeriodNotFound   = errors.New("working period not found")
	ErrExceptionNotFound       = errors.New("availability exception not found")
	ErrWorkingPeriodExists     = errors.New("working period already exists for this day and effective date")
	ErrExceptionExists         = errors.New("an availability exception already exists for this date")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrFileStorageDisabled     = errors.New("file storage is not configured")
	ErrCopayRateNotFound       = errors.New("no copay rate for this appointment type")
)
