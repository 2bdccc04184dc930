package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/padel-system/models"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	// ErrSlotStatusStale is returned when a guarded status transition
	// matched no row: the slot moved under a concurrent request.
	ErrSlotStatusStale = errors.New("slot status changed concurrently")
)

type SlotRepository interface {
	BulkCreate(ctx context.Context, q Querier, slots []models.Slot) (int, error)
	GetByID(ctx context.Context, q Querier, id int) (*models.Slot, error)
	CountByTournament(ctx context.Context, q Querier, tournamentID int) (int, error)
	// TransitionStatus flips a slot between AVAILABLE and ASSIGNED, guarded
	// by the expected current status.
	TransitionStatus(ctx context.Context, q Querier, id int, from, to models.SlotStatus) error
	// ReleaseForModality frees every slot held by a match of the modality,
	// used when a draw is cleared for regeneration.
	ReleaseForModality(ctx context.Context, q Querier, modalityID int) error
	// ListByTournament returns slots ordered by day and start time with the
	// owning court attached, for roster display.
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Slot, error)
}

type postgresSlotRepository struct {
	db *sql.DB
}

func NewPostgresSlotRepository(db *sql.DB) SlotRepository {
	return &postgresSlotRepository{db: db}
}

func (r *postgresSlotRepository) BulkCreate(ctx context.Context, q Querier, slots []models.Slot) (int, error) {
	query := `
		INSERT INTO slots (tournament_id, court_id, date, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	created := 0
	for i := range slots {
		slot := &slots[i]
		err := q.QueryRowContext(ctx, query,
			slot.TournamentID,
			slot.CourtID,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			slot.Status,
		).Scan(&slot.ID)
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (r *postgresSlotRepository) GetByID(ctx context.Context, q Querier, id int) (*models.Slot, error) {
	query := `
		SELECT id, tournament_id, court_id, date, start_time, end_time, status
		FROM slots
		WHERE id = $1`

	slot := &models.Slot{}
	err := q.QueryRowContext(ctx, query, id).Scan(
		&slot.ID,
		&slot.TournamentID,
		&slot.CourtID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return slot, nil
}

func (r *postgresSlotRepository) CountByTournament(ctx context.Context, q Querier, tournamentID int) (int, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM slots WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	return count, err
}

func (r *postgresSlotRepository) TransitionStatus(ctx context.Context, q Querier, id int, from, to models.SlotStatus) error {
	result, err := q.ExecContext(ctx,
		`UPDATE slots SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSlotStatusStale)
}

func (r *postgresSlotRepository) ReleaseForModality(ctx context.Context, q Querier, modalityID int) error {
	_, err := q.ExecContext(ctx, `
		UPDATE slots SET status = $1
		WHERE id IN (
			SELECT slot_id FROM bracket_matches
			WHERE modality_id = $2 AND slot_id IS NOT NULL
		)`, models.SlotStatusAvailable, modalityID)
	return err
}

func (r *postgresSlotRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Slot, error) {
	query := `
		SELECT s.id, s.tournament_id, s.court_id, s.date, s.start_time, s.end_time, s.status,
		       c.id, c.club_id, c.venue, c.name, c.indoor, c.created_at
		FROM slots s
		JOIN courts c ON c.id = s.court_id
		WHERE s.tournament_id = $1
		ORDER BY s.date ASC, s.start_time ASC, c.name ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*models.Slot, 0)
	for rows.Next() {
		slot := &models.Slot{Court: &models.Court{}}
		if scanErr := rows.Scan(
			&slot.ID, &slot.TournamentID, &slot.CourtID,
			&slot.Date, &slot.StartTime, &slot.EndTime, &slot.Status,
			&slot.Court.ID, &slot.Court.ClubID, &slot.Court.Venue,
			&slot.Court.Name, &slot.Court.Indoor, &slot.Court.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
