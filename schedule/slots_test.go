package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/padel-system/models"
)

func weekdayPtr(d time.Weekday) *time.Weekday { return &d }

func datePtr(t time.Time) *time.Time { return &t }

func TestExpandWindows(t *testing.T) {
	// 2026-09-07 is a Monday.
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	t.Run("window splits into match-length chunks", func(t *testing.T) {
		courts := []models.Court{{
			ID: 1,
			Availability: []models.Availability{
				{ID: 10, Weekday: weekdayPtr(time.Monday), Start: "09:00", End: "11:00"},
			},
		}}

		slots, err := ExpandWindows(courts, monday, monday, 60*time.Minute)
		require.NoError(t, err)

		require.Len(t, slots, 2)
		assert.Equal(t, time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC), slots[0].StartTime)
		assert.Equal(t, time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC), slots[0].EndTime)
		assert.Equal(t, time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC), slots[1].StartTime)
		assert.Equal(t, time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC), slots[1].EndTime)
		for _, s := range slots {
			assert.Equal(t, models.SlotStatusAvailable, s.Status)
			assert.Equal(t, 1, s.CourtID)
		}
	})

	t.Run("trailing remainder shorter than a match is discarded", func(t *testing.T) {
		courts := []models.Court{{
			ID: 1,
			Availability: []models.Availability{
				{Weekday: weekdayPtr(time.Monday), Start: "09:00", End: "10:30"},
			},
		}}

		slots, err := ExpandWindows(courts, monday, monday, 60*time.Minute)
		require.NoError(t, err)
		assert.Len(t, slots, 1)
	})

	t.Run("weekday windows repeat, date windows fire once", func(t *testing.T) {
		courts := []models.Court{{
			ID: 1,
			Availability: []models.Availability{
				{Weekday: weekdayPtr(time.Monday), Start: "09:00", End: "10:00"},
				{Date: datePtr(tuesday), Start: "18:00", End: "19:00"},
			},
		}}

		slots, err := ExpandWindows(courts, monday, monday.AddDate(0, 0, 13), 60*time.Minute)
		require.NoError(t, err)

		// Two Mondays in range plus the one dated Tuesday window.
		require.Len(t, slots, 3)
		assert.Equal(t, monday, slots[0].Date)
		assert.Equal(t, tuesday, slots[1].Date)
		assert.Equal(t, monday.AddDate(0, 0, 7), slots[2].Date)
	})

	t.Run("overlapping windows on one court do not double a slot", func(t *testing.T) {
		// A recurring Monday window and a dated window cover the same
		// afternoon; the court must still hold one slot per hour.
		courts := []models.Court{{
			ID: 1,
			Availability: []models.Availability{
				{Weekday: weekdayPtr(time.Monday), Start: "09:00", End: "11:00"},
				{Date: datePtr(monday), Start: "10:00", End: "12:00"},
			},
		}}

		slots, err := ExpandWindows(courts, monday, monday, 60*time.Minute)
		require.NoError(t, err)

		require.Len(t, slots, 3)
		for i, s := range slots {
			assert.Equal(t, time.Date(2026, 9, 7, 9+i, 0, 0, 0, time.UTC), s.StartTime)
		}
		for i, a := range slots {
			for _, b := range slots[i+1:] {
				assert.False(t, a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime),
					"slots %v and %v overlap on court %d", a.StartTime, b.StartTime, a.CourtID)
			}
		}
	})

	t.Run("overlap collapsing is scoped to a single court", func(t *testing.T) {
		courts := []models.Court{
			{ID: 1, Availability: []models.Availability{
				{Weekday: weekdayPtr(time.Monday), Start: "09:00", End: "10:00"},
			}},
			{ID: 2, Availability: []models.Availability{
				{Weekday: weekdayPtr(time.Monday), Start: "09:00", End: "10:00"},
			}},
		}

		slots, err := ExpandWindows(courts, monday, monday, 60*time.Minute)
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.NotEqual(t, slots[0].CourtID, slots[1].CourtID)
	})

	t.Run("durations below the floor are raised to it", func(t *testing.T) {
		courts := []models.Court{{
			ID: 1,
			Availability: []models.Availability{
				{Weekday: weekdayPtr(time.Monday), Start: "09:00", End: "09:30"},
			},
		}}

		slots, err := ExpandWindows(courts, monday, monday, 5*time.Minute)
		require.NoError(t, err)

		require.Len(t, slots, 2)
		assert.Equal(t, MinMatchDuration, slots[0].EndTime.Sub(slots[0].StartTime))
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		courts := []models.Court{{
			ID: 1,
			Availability: []models.Availability{
				{Weekday: weekdayPtr(time.Monday), Start: "11:00", End: "09:00"},
			},
		}}

		_, err := ExpandWindows(courts, monday, monday, 60*time.Minute)
		assert.ErrorContains(t, err, "not after start")
	})

	t.Run("malformed clock value is rejected", func(t *testing.T) {
		courts := []models.Court{{
			ID: 1,
			Availability: []models.Availability{
				{Weekday: weekdayPtr(time.Monday), Start: "9am", End: "11:00"},
			},
		}}

		_, err := ExpandWindows(courts, monday, monday, 60*time.Minute)
		assert.ErrorContains(t, err, "invalid time")
	})

	t.Run("no matching windows yields no slots", func(t *testing.T) {
		courts := []models.Court{{
			ID: 1,
			Availability: []models.Availability{
				{Weekday: weekdayPtr(time.Friday), Start: "09:00", End: "11:00"},
			},
		}}

		slots, err := ExpandWindows(courts, monday, monday, 60*time.Minute)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})
}
