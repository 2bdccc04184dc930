// Package schedule holds the pure court-time logic of the engine: expanding
// availability windows into bookable slots and detecting player clashes.
// Persistence and transactions stay in the services layer.
package schedule

import (
	"fmt"
	"time"

	"github.com/courtside/padel-system/models"
)

// MinMatchDuration is the enforced floor for a tournament's match length.
const MinMatchDuration = 15 * time.Minute

// ExpandWindows turns court availability into concrete slots for every day
// between from and to (inclusive). Each window yields consecutive
// non-overlapping chunks of exactly matchDuration from its start; a trailing
// remainder shorter than a full chunk is discarded. Windows that cover the
// same time on the same court (a weekday window plus a date-specific one, or
// duplicate rows) collapse: a chunk intersecting one already emitted for that
// court and day is skipped, so a court never holds two slots at once. All
// slots come back AVAILABLE and unpersisted.
func ExpandWindows(courts []models.Court, from, to time.Time, matchDuration time.Duration) ([]models.Slot, error) {
	if matchDuration < MinMatchDuration {
		matchDuration = MinMatchDuration
	}

	var slots []models.Slot
	for day := dateOnly(from); !day.After(dateOnly(to)); day = day.AddDate(0, 0, 1) {
		for _, court := range courts {
			var taken []models.Slot
			for _, window := range court.Availability {
				if !windowCovers(window, day) {
					continue
				}
				start, err := atClock(day, window.Start)
				if err != nil {
					return nil, fmt.Errorf("court %d window %d: %w", court.ID, window.ID, err)
				}
				end, err := atClock(day, window.End)
				if err != nil {
					return nil, fmt.Errorf("court %d window %d: %w", court.ID, window.ID, err)
				}
				if !end.After(start) {
					return nil, fmt.Errorf("court %d window %d: end %s not after start %s",
						court.ID, window.ID, window.End, window.Start)
				}
				for t := start; !t.Add(matchDuration).After(end); t = t.Add(matchDuration) {
					chunk := models.Slot{
						CourtID:   court.ID,
						Date:      day,
						StartTime: t,
						EndTime:   t.Add(matchDuration),
						Status:    models.SlotStatusAvailable,
					}
					if intersectsAny(chunk, taken) {
						continue
					}
					taken = append(taken, chunk)
					slots = append(slots, chunk)
				}
			}
		}
	}
	return slots, nil
}

func intersectsAny(chunk models.Slot, taken []models.Slot) bool {
	for _, s := range taken {
		if chunk.StartTime.Before(s.EndTime) && s.StartTime.Before(chunk.EndTime) {
			return true
		}
	}
	return false
}

func windowCovers(window models.Availability, day time.Time) bool {
	if window.Date != nil {
		return sameDate(*window.Date, day)
	}
	if window.Weekday != nil {
		return *window.Weekday == day.Weekday()
	}
	return false
}

func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
