package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/courtside/padel-system/models"
)

var ErrCourtNotFound = errors.New("court not found")

type CourtRepository interface {
	GetByID(ctx context.Context, id int) (*models.Court, error)
	// ListByClubWithAvailability loads every court of a club together with
	// its availability windows, the capacity planner's full input.
	ListByClubWithAvailability(ctx context.Context, clubID int) ([]models.Court, error)
}

type postgresCourtRepository struct {
	db *sql.DB
}

func NewPostgresCourtRepository(db *sql.DB) CourtRepository {
	return &postgresCourtRepository{db: db}
}

func (r *postgresCourtRepository) GetByID(ctx context.Context, id int) (*models.Court, error) {
	query := `SELECT id, club_id, venue, name, indoor, created_at FROM courts WHERE id = $1`

	court := &models.Court{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&court.ID, &court.ClubID, &court.Venue, &court.Name, &court.Indoor, &court.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	return court, nil
}

func (r *postgresCourtRepository) ListByClubWithAvailability(ctx context.Context, clubID int) ([]models.Court, error) {
	query := `
		SELECT c.id, c.club_id, c.venue, c.name, c.indoor, c.created_at,
		       a.id, a.weekday, a.date, a.start_time, a.end_time
		FROM courts c
		LEFT JOIN court_availability a ON a.court_id = c.id
		WHERE c.club_id = $1
		ORDER BY c.id ASC, a.id ASC`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courts := make([]models.Court, 0)
	index := make(map[int]int)
	for rows.Next() {
		var court models.Court
		var availID, weekday sql.NullInt64
		var date sql.NullTime
		var start, end sql.NullString

		if scanErr := rows.Scan(
			&court.ID, &court.ClubID, &court.Venue, &court.Name, &court.Indoor, &court.CreatedAt,
			&availID, &weekday, &date, &start, &end,
		); scanErr != nil {
			return nil, scanErr
		}

		pos, seen := index[court.ID]
		if !seen {
			courts = append(courts, court)
			pos = len(courts) - 1
			index[court.ID] = pos
		}

		if availID.Valid {
			window := models.Availability{
				ID:      int(availID.Int64),
				CourtID: court.ID,
				Start:   start.String,
				End:     end.String,
			}
			if weekday.Valid {
				day := time.Weekday(weekday.Int64)
				window.Weekday = &day
			}
			if date.Valid {
				d := date.Time
				window.Date = &d
			}
			courts[pos].Availability = append(courts[pos].Availability, window)
		}
	}
	return courts, rows.Err()
}
