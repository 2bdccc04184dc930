package schedule

import (
	"time"

	"github.com/courtside/padel-system/models"
)

// Booking is one court-time commitment of a player, reduced to what the
// clash rule needs.
type Booking struct {
	Date  time.Time
	Start time.Time
	End   time.Time
}

// BookingFromSlot projects a persisted slot onto the clash detector's view.
func BookingFromSlot(s models.Slot) Booking {
	return Booking{Date: s.Date, Start: s.StartTime, End: s.EndTime}
}

// Overlaps reports whether two bookings share court time on the same date.
// Windows are half-open [start, end), so back-to-back bookings do not
// overlap (they may still violate rest).
func Overlaps(a, b Booking) bool {
	return sameDate(a.Date, b.Date) && a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Clashes applies the scheduling rule for one player: the candidate booking
// conflicts with an existing one when both are on the same date and either
// overlap or leave less than minRest between the end of one and the start
// of the other.
func Clashes(candidate Booking, existing []Booking, minRest time.Duration) bool {
	for _, booked := range existing {
		if !sameDate(candidate.Date, booked.Date) {
			continue
		}
		if Overlaps(candidate, booked) {
			return true
		}
		var gap time.Duration
		if !candidate.Start.Before(booked.End) {
			gap = candidate.Start.Sub(booked.End)
		} else {
			gap = booked.Start.Sub(candidate.End)
		}
		if gap < minRest {
			return true
		}
	}
	return false
}
