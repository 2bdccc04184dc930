package models

import "time"

// Court is a physical playing surface owned by a club venue.
type Court struct {
	ID        int       `json:"id" db:"id"`
	ClubID    int       `json:"club_id" db:"club_id"`
	Venue     string    `json:"venue" db:"venue"`
	Name      string    `json:"name" db:"name"`
	Indoor    bool      `json:"indoor" db:"indoor"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Availability []Availability `json:"availability,omitempty" db:"-"`
}

// Availability is one open window of a court: either recurring on a weekday
// or pinned to a specific date. Start and End are wall-clock times in the
// club's timezone, "15:04" formatted.
type Availability struct {
	ID      int           `json:"id" db:"id"`
	CourtID int           `json:"court_id" db:"court_id"`
	Weekday *time.Weekday `json:"weekday,omitempty" db:"weekday"`
	Date    *time.Time    `json:"date,omitempty" db:"date"`
	Start   string        `json:"start" db:"start_time"`
	End     string        `json:"end" db:"end_time"`
}
