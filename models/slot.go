package models

import "time"

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusAssigned  SlotStatus = "assigned"
)

// Slot is one bookable chunk of court time, exactly one match duration long.
// Slots are produced once by the capacity planner and only ever change
// status; they never move or resize.
type Slot struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	CourtID      int        `json:"court_id" db:"court_id"`
	Date         time.Time  `json:"date" db:"date"`
	StartTime    time.Time  `json:"start_time" db:"start_time"`
	EndTime      time.Time  `json:"end_time" db:"end_time"`
	Status       SlotStatus `json:"status" db:"status"`

	Court *Court `json:"court,omitempty" db:"-"`
}
