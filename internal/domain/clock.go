package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Clock is a time of day at minute granularity, counted from midnight.
type Clock int

// ParseClock parses "HH:MM" (24h). Seconds are not accepted.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	return Clock(h*60 + m), nil
}

// MustClock is ParseClock for literals known to be valid.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) Minutes() int {
	return int(c)
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimeFormat, string(data))
	}

	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}

	*c = parsed
	return nil
}

// Interval is the half-open time-of-day range [Start, End).
type Interval struct {
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

func NewInterval(start, end Clock) (Interval, error) {
	if start >= end {
		return Interval{}, fmt.Errorf("%w: %s-%s", ErrInvalidInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// ParseInterval parses both bounds and requires start < end.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}

	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}

	return NewInterval(s, e)
}

func (i Interval) Minutes() int {
	return int(i.End - i.Start)
}

// Overlaps reports whether a and b share an instant. Back-to-back intervals do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Contains reports start <= p < end.
func Contains(a Interval, p Clock) bool {
	return a.Start <= p && p < a.End
}

// Within reports whether inner lies entirely inside outer.
func Within(inner, outer Interval) bool {
	return outer.Start <= inner.Start && inner.End <= outer.End
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}
