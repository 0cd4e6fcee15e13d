package domain

import (
	"fmt"
	"time"
)

type ExceptionKind string

const (
	ExceptionUnavailable    ExceptionKind = "unavailable"
	ExceptionModifiedHours  ExceptionKind = "modified_hours"
	ExceptionLocationChange ExceptionKind = "location_change"
)

func (k ExceptionKind) IsValid() bool {
	switch k {
	case ExceptionUnavailable, ExceptionModifiedHours, ExceptionLocationChange:
		return true
	}
	return false
}

// AvailabilityException overrides a physician's working periods on one date.
// A nil LocationID applies to every location.
type AvailabilityException struct {
	ID                  int64         `json:"id"`
	PhysicianID         int64         `json:"physician_id"`
	LocationID          *int64        `json:"location_id,omitempty"`
	Date                time.Time     `json:"date"`
	Kind                ExceptionKind `json:"kind"`
	OverrideStart       *Clock        `json:"override_start,omitempty"`
	OverrideEnd         *Clock        `json:"override_end,omitempty"`
	Reason              *string       `json:"reason,omitempty"`
	AlternateLocationID *int64        `json:"alternate_location_id,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

func (e AvailabilityException) Override() *Interval {
	if e.OverrideStart == nil || e.OverrideEnd == nil {
		return nil
	}
	return &Interval{Start: *e.OverrideStart, End: *e.OverrideEnd}
}

func (e AvailabilityException) ReasonText() string {
	if e.Reason == nil {
		return ""
	}
	return *e.Reason
}

// AppliesTo reports whether the exception targets locationID, directly or as a location-agnostic entry.
func (e AvailabilityException) AppliesTo(locationID int64) bool {
	return e.LocationID == nil || *e.LocationID == locationID
}

func (e AvailabilityException) Validate() error {
	if !e.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidException, e.Kind)
	}

	if (e.OverrideStart == nil) != (e.OverrideEnd == nil) {
		return fmt.Errorf("%w: override_start and override_end must be set together", ErrInvalidException)
	}
	if o := e.Override(); o != nil && o.Start >= o.End {
		return fmt.Errorf("%w: override_start must be before override_end", ErrInvalidException)
	}

	switch e.Kind {
	case ExceptionModifiedHours:
		if e.Override() == nil {
			return fmt.Errorf("%w: modified_hours requires override times", ErrInvalidException)
		}
	case ExceptionLocationChange:
		if e.AlternateLocationID == nil {
			return fmt.Errorf("%w: location_change requires alternate_location_id", ErrInvalidException)
		}
		if e.LocationID != nil && *e.LocationID == *e.AlternateLocationID {
			return fmt.Errorf("%w: alternate location must differ from the location", ErrInvalidException)
		}
	}

	return nil
}

type CreateExceptionDTO struct {
	PhysicianID         int64         `json:"physician_id" binding:"required"`
	LocationID          *int64        `json:"location_id"`
	Date                string        `json:"date" binding:"required"`
	Kind                ExceptionKind `json:"kind" binding:"required,oneof=unavailable modified_hours location_change"`
	OverrideStart       *string       `json:"override_start"`
	OverrideEnd         *string       `json:"override_end"`
	Reason              *string       `json:"reason"`
	AlternateLocationID *int64        `json:"alternate_location_id"`
}

type UpdateExceptionDTO struct {
	Kind                *ExceptionKind `json:"kind" binding:"omitempty,oneof=unavailable modified_hours location_change"`
	OverrideStart       *string        `json:"override_start"`
	OverrideEnd         *string        `json:"override_end"`
	Reason              *string        `json:"reason"`
	AlternateLocationID *int64         `json:"alternate_location_id"`
}

type ExceptionFilter struct {
	PhysicianID *int64     `json:"physician_id"`
	LocationID  *int64     `json:"location_id"`
	DateFrom    *time.Time `json:"date_from"`
	DateTo      *time.Time `json:"date_to"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
}
