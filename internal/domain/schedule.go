package domain

import (
	"fmt"
	"sort"
	"time"
)

const (
	DefaultSlotMinutes = 30
	MinSlotMinutes     = 5
	MaxSlotMinutes     = 240
)

// BreakInterval is a named pause inside a working period, e.g. "rounds".
type BreakInterval struct {
	Name  string `json:"name"`
	Start Clock  `json:"start"`
	End   Clock  `json:"end"`
}

func (b BreakInterval) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// WorkingPeriod is a physician's recurring hours at one location on one weekday.
// DayOfWeek follows time.Weekday: 0 is Sunday.
type WorkingPeriod struct {
	ID            int64           `json:"id"`
	PhysicianID   int64           `json:"physician_id"`
	LocationID    int64           `json:"location_id"`
	DayOfWeek     int             `json:"day_of_week"`
	StartTime     Clock           `json:"start_time"`
	EndTime       Clock           `json:"end_time"`
	LunchStart    *Clock          `json:"lunch_start,omitempty"`
	LunchEnd      *Clock          `json:"lunch_end,omitempty"`
	Breaks        []BreakInterval `json:"breaks"`
	SlotMinutes   int             `json:"slot_minutes"`
	EffectiveDate time.Time       `json:"effective_date"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (wp WorkingPeriod) Hours() Interval {
	return Interval{Start: wp.StartTime, End: wp.EndTime}
}

func (wp WorkingPeriod) Lunch() *Interval {
	if wp.LunchStart == nil || wp.LunchEnd == nil {
		return nil
	}
	return &Interval{Start: *wp.LunchStart, End: *wp.LunchEnd}
}

// ActiveOn reports effective <= date < expiry (open-ended when expiry is nil) for an active period.
func (wp WorkingPeriod) ActiveOn(date time.Time) bool {
	if !wp.IsActive {
		return false
	}

	d := DateOf(date)
	if d.Before(DateOf(wp.EffectiveDate)) {
		return false
	}
	if wp.ExpiryDate != nil && !d.Before(DateOf(*wp.ExpiryDate)) {
		return false
	}
	return true
}

// Validate checks the structural invariants of the period.
func (wp WorkingPeriod) Validate() error {
	if wp.DayOfWeek < 0 || wp.DayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week must be between 0 and 6", ErrInvalidSchedule)
	}

	if wp.StartTime >= wp.EndTime {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidSchedule)
	}

	if wp.SlotMinutes < MinSlotMinutes || wp.SlotMinutes > MaxSlotMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes", ErrInvalidSchedule, MinSlotMinutes, MaxSlotMinutes)
	}

	hours := wp.Hours()

	if (wp.LunchStart == nil) != (wp.LunchEnd == nil) {
		return fmt.Errorf("%w: lunch_start and lunch_end must be set together", ErrInvalidSchedule)
	}
	if lunch := wp.Lunch(); lunch != nil {
		if lunch.Start >= lunch.End || !Within(*lunch, hours) {
			return fmt.Errorf("%w: lunch %s must lie within %s", ErrInvalidSchedule, lunch, hours)
		}
	}

	breaks := make([]Interval, 0, len(wp.Breaks))
	for _, b := range wp.Breaks {
		iv := b.Interval()
		if iv.Start >= iv.End || !Within(iv, hours) {
			return fmt.Errorf("%w: break %q %s must lie within %s", ErrInvalidSchedule, b.Name, iv, hours)
		}
		breaks = append(breaks, iv)
	}

	sort.Slice(breaks, func(i, j int) bool { return breaks[i].Start < breaks[j].Start })
	for i := 1; i < len(breaks); i++ {
		if Overlaps(breaks[i-1], breaks[i]) {
			return fmt.Errorf("%w: breaks %s and %s overlap", ErrInvalidSchedule, breaks[i-1], breaks[i])
		}
	}

	if wp.ExpiryDate != nil && !DateOf(wp.EffectiveDate).Before(DateOf(*wp.ExpiryDate)) {
		return fmt.Errorf("%w: expiry_date must be after effective_date", ErrInvalidSchedule)
	}

	return nil
}

type BreakDTO struct {
	Name  string `json:"name"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type CreateWorkingPeriodDTO struct {
	PhysicianID   int64      `json:"physician_id" binding:"required"`
	LocationID    int64      `json:"location_id" binding:"required"`
	DayOfWeek     *int       `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime     string     `json:"start_time" binding:"required"`
	EndTime       string     `json:"end_time" binding:"required"`
	LunchStart    *string    `json:"lunch_start"`
	LunchEnd      *string    `json:"lunch_end"`
	Breaks        []BreakDTO `json:"breaks"`
	SlotMinutes   int        `json:"slot_minutes"`
	EffectiveDate string     `json:"effective_date" binding:"required"`
	ExpiryDate    *string    `json:"expiry_date"`
}

type UpdateWorkingPeriodDTO struct {
	StartTime   *string     `json:"start_time"`
	EndTime     *string     `json:"end_time"`
	LunchStart  *string     `json:"lunch_start"`
	LunchEnd    *string     `json:"lunch_end"`
	ClearLunch  bool        `json:"clear_lunch"`
	Breaks      *[]BreakDTO `json:"breaks"`
	SlotMinutes *int        `json:"slot_minutes"`
	ExpiryDate  *string     `json:"expiry_date"`
	IsActive    *bool       `json:"is_active"`
}

type WorkingPeriodFilter struct {
	PhysicianID *int64 `json:"physician_id"`
	LocationID  *int64 `json:"location_id"`
	DayOfWeek   *int   `json:"day_of_week"`
	OnlyActive  bool   `json:"only_active"`
}
