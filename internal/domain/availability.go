package domain

import "time"

// Slot is a computed bookable window. It is never persisted.
type Slot struct {
	Start     Clock `json:"start"`
	End       Clock `json:"end"`
	Available bool  `json:"available"`
}

func (s Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

type LocationAvailabilityReport struct {
	LocationID   int64  `json:"location_id"`
	LocationName string `json:"location_name,omitempty"`
	Available    bool   `json:"available"`
	Slots        []Slot `json:"slots"`
	Reason       string `json:"reason,omitempty"`
	Status       string `json:"status"`
}

type PhysicianAvailabilityResult struct {
	PhysicianID int64                        `json:"physician_id"`
	Date        time.Time                    `json:"date"`
	Available   bool                         `json:"available"`
	Locations   []LocationAvailabilityReport `json:"locations"`
}

type AlternativeOption struct {
	PhysicianID   int64     `json:"physician_id"`
	PhysicianName string    `json:"physician_name"`
	LocationID    int64     `json:"location_id"`
	LocationName  string    `json:"location_name,omitempty"`
	Date          time.Time `json:"date"`
	Slots         []Slot    `json:"slots"`
}
