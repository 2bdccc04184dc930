package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/courtside/padel-system/models"
)

var (
	ErrMatchNotFound     = errors.New("bracket match not found")
	ErrMatchPositionHeld = errors.New("bracket position already occupied")
)

type MatchRepository interface {
	Create(ctx context.Context, q Querier, match *models.BracketMatch) error
	GetByID(ctx context.Context, q Querier, id int) (*models.BracketMatch, error)
	GetByPosition(ctx context.Context, q Querier, modalityID int, stage models.BracketStage, round, matchOrder int) (*models.BracketMatch, error)
	// ListByStage returns the matches of one draw in (round, match_order)
	// order, with both team slots resolved for rendering.
	ListByStage(ctx context.Context, modalityID int, stage models.BracketStage) ([]*models.BracketMatch, error)
	ExistsByStage(ctx context.Context, q Querier, modalityID int, stage models.BracketStage) (bool, error)
	UpdateWinner(ctx context.Context, q Querier, id int, winner models.Winner) error
	SetTeamSlot(ctx context.Context, q Querier, id int, slotA bool, teamID int) error
	UpdateSlotAssignment(ctx context.Context, q Querier, id int, slotID *int, scheduledAt *time.Time, courtLabel *string) error
	DeleteByModality(ctx context.Context, q Querier, modalityID int) (int64, error)
	// ListScheduledByTournament returns every slotted match of a tournament
	// for per-day roster display.
	ListScheduledByTournament(ctx context.Context, tournamentID int) ([]*models.BracketMatch, error)
	// ListPlayerSlots returns every slot currently holding a match that
	// includes the player anywhere in the tournament, excluding one match.
	// This is the clash detector's view of existing assignments.
	ListPlayerSlots(ctx context.Context, q Querier, tournamentID, playerID, excludeMatchID int) ([]*models.Slot, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, modality_id, stage, round, match_order, group_id, team_a_id, team_b_id, winner, slot_id, scheduled_at, court_label, created_at`

func scanMatch(row interface{ Scan(dest ...interface{}) error }) (*models.BracketMatch, error) {
	match := &models.BracketMatch{}
	err := row.Scan(
		&match.ID,
		&match.ModalityID,
		&match.Stage,
		&match.Round,
		&match.MatchOrder,
		&match.GroupID,
		&match.TeamAID,
		&match.TeamBID,
		&match.Winner,
		&match.SlotID,
		&match.ScheduledAt,
		&match.CourtLabel,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, q Querier, match *models.BracketMatch) error {
	query := `
		INSERT INTO bracket_matches
			(modality_id, stage, round, match_order, group_id, team_a_id, team_b_id, winner)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := q.QueryRowContext(ctx, query,
		match.ModalityID,
		match.Stage,
		match.Round,
		match.MatchOrder,
		match.GroupID,
		match.TeamAID,
		match.TeamBID,
		match.Winner,
	).Scan(&match.ID, &match.CreatedAt)

	if IsUniqueViolation(err) {
		// The (modality_id, stage, round, match_order) constraint: a
		// concurrent generation got here first.
		return ErrMatchPositionHeld
	}
	return err
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, q Querier, id int) (*models.BracketMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM bracket_matches WHERE id = $1`
	match, err := scanMatch(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) GetByPosition(ctx context.Context, q Querier, modalityID int, stage models.BracketStage, round, matchOrder int) (*models.BracketMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM bracket_matches
		WHERE modality_id = $1 AND stage = $2 AND round = $3 AND match_order = $4`

	match, err := scanMatch(q.QueryRowContext(ctx, query, modalityID, stage, round, matchOrder))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByStage(ctx context.Context, modalityID int, stage models.BracketStage) ([]*models.BracketMatch, error) {
	query := `
		SELECT m.id, m.modality_id, m.stage, m.round, m.match_order, m.group_id,
		       m.team_a_id, m.team_b_id, m.winner, m.slot_id, m.scheduled_at, m.court_label, m.created_at,
		       ta.id, ta.modality_id, ta.player1_id, ta.player2_id, ta.player1_name, ta.player2_name, ta.score, ta.seed, ta.manual_seed, ta.created_at,
		       tb.id, tb.modality_id, tb.player1_id, tb.player2_id, tb.player1_name, tb.player2_name, tb.score, tb.seed, tb.manual_seed, tb.created_at
		FROM bracket_matches m
		LEFT JOIN teams ta ON ta.id = m.team_a_id
		LEFT JOIN teams tb ON tb.id = m.team_b_id
		WHERE m.modality_id = $1 AND m.stage = $2
		ORDER BY m.round ASC, m.match_order ASC`

	rows, err := r.db.QueryContext(ctx, query, modalityID, stage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.BracketMatch, 0)
	for rows.Next() {
		match := &models.BracketMatch{}
		teamA := nullableTeam{}
		teamB := nullableTeam{}
		if scanErr := rows.Scan(
			&match.ID, &match.ModalityID, &match.Stage, &match.Round, &match.MatchOrder, &match.GroupID,
			&match.TeamAID, &match.TeamBID, &match.Winner, &match.SlotID, &match.ScheduledAt, &match.CourtLabel, &match.CreatedAt,
			&teamA.id, &teamA.modalityID, &teamA.player1ID, &teamA.player2ID, &teamA.player1Name, &teamA.player2Name, &teamA.score, &teamA.seed, &teamA.manualSeed, &teamA.createdAt,
			&teamB.id, &teamB.modalityID, &teamB.player1ID, &teamB.player2ID, &teamB.player1Name, &teamB.player2Name, &teamB.score, &teamB.seed, &teamB.manualSeed, &teamB.createdAt,
		); scanErr != nil {
			return nil, scanErr
		}
		match.TeamA = teamA.toModel()
		match.TeamB = teamB.toModel()
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// nullableTeam absorbs the LEFT JOIN columns of an unresolved team slot.
type nullableTeam struct {
	id          sql.NullInt64
	modalityID  sql.NullInt64
	player1ID   sql.NullInt64
	player2ID   sql.NullInt64
	player1Name sql.NullString
	player2Name sql.NullString
	score       sql.NullInt64
	seed        sql.NullInt64
	manualSeed  sql.NullInt64
	createdAt   sql.NullTime
}

func (n nullableTeam) toModel() *models.Team {
	if !n.id.Valid {
		return nil
	}
	team := &models.Team{
		ID:          int(n.id.Int64),
		ModalityID:  int(n.modalityID.Int64),
		Player1ID:   int(n.player1ID.Int64),
		Player2ID:   int(n.player2ID.Int64),
		Player1Name: n.player1Name.String,
		Player2Name: n.player2Name.String,
		Score:       int(n.score.Int64),
		CreatedAt:   n.createdAt.Time,
	}
	if n.seed.Valid {
		seed := int(n.seed.Int64)
		team.Seed = &seed
	}
	if n.manualSeed.Valid {
		manual := int(n.manualSeed.Int64)
		team.ManualSeed = &manual
	}
	return team
}

func (r *postgresMatchRepository) ExistsByStage(ctx context.Context, q Querier, modalityID int, stage models.BracketStage) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bracket_matches WHERE modality_id = $1 AND stage = $2)`,
		modalityID, stage,
	).Scan(&exists)
	return exists, err
}

func (r *postgresMatchRepository) UpdateWinner(ctx context.Context, q Querier, id int, winner models.Winner) error {
	result, err := q.ExecContext(ctx,
		`UPDATE bracket_matches SET winner = $1 WHERE id = $2`, winner, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetTeamSlot(ctx context.Context, q Querier, id int, slotA bool, teamID int) error {
	column := "team_b_id"
	if slotA {
		column = "team_a_id"
	}
	result, err := q.ExecContext(ctx,
		`UPDATE bracket_matches SET `+column+` = $1 WHERE id = $2`, teamID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSlotAssignment(ctx context.Context, q Querier, id int, slotID *int, scheduledAt *time.Time, courtLabel *string) error {
	result, err := q.ExecContext(ctx,
		`UPDATE bracket_matches SET slot_id = $1, scheduled_at = $2, court_label = $3 WHERE id = $4`,
		slotID, scheduledAt, courtLabel, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByModality(ctx context.Context, q Querier, modalityID int) (int64, error) {
	result, err := q.ExecContext(ctx,
		`DELETE FROM bracket_matches WHERE modality_id = $1`, modalityID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresMatchRepository) ListScheduledByTournament(ctx context.Context, tournamentID int) ([]*models.BracketMatch, error) {
	query := `
		SELECT m.id, m.modality_id, m.stage, m.round, m.match_order, m.group_id,
		       m.team_a_id, m.team_b_id, m.winner, m.slot_id, m.scheduled_at, m.court_label, m.created_at,
		       ta.id, ta.modality_id, ta.player1_id, ta.player2_id, ta.player1_name, ta.player2_name, ta.score, ta.seed, ta.manual_seed, ta.created_at,
		       tb.id, tb.modality_id, tb.player1_id, tb.player2_id, tb.player1_name, tb.player2_name, tb.score, tb.seed, tb.manual_seed, tb.created_at
		FROM bracket_matches m
		JOIN modalities mo ON mo.id = m.modality_id
		LEFT JOIN teams ta ON ta.id = m.team_a_id
		LEFT JOIN teams tb ON tb.id = m.team_b_id
		WHERE mo.tournament_id = $1 AND m.slot_id IS NOT NULL
		ORDER BY m.scheduled_at ASC, m.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.BracketMatch, 0)
	for rows.Next() {
		match := &models.BracketMatch{}
		teamA := nullableTeam{}
		teamB := nullableTeam{}
		if scanErr := rows.Scan(
			&match.ID, &match.ModalityID, &match.Stage, &match.Round, &match.MatchOrder, &match.GroupID,
			&match.TeamAID, &match.TeamBID, &match.Winner, &match.SlotID, &match.ScheduledAt, &match.CourtLabel, &match.CreatedAt,
			&teamA.id, &teamA.modalityID, &teamA.player1ID, &teamA.player2ID, &teamA.player1Name, &teamA.player2Name, &teamA.score, &teamA.seed, &teamA.manualSeed, &teamA.createdAt,
			&teamB.id, &teamB.modalityID, &teamB.player1ID, &teamB.player2ID, &teamB.player1Name, &teamB.player2Name, &teamB.score, &teamB.seed, &teamB.manualSeed, &teamB.createdAt,
		); scanErr != nil {
			return nil, scanErr
		}
		match.TeamA = teamA.toModel()
		match.TeamB = teamB.toModel()
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) ListPlayerSlots(ctx context.Context, q Querier, tournamentID, playerID, excludeMatchID int) ([]*models.Slot, error) {
	query := `
		SELECT s.id, s.tournament_id, s.court_id, s.date, s.start_time, s.end_time, s.status
		FROM bracket_matches m
		JOIN slots s ON s.id = m.slot_id
		JOIN modalities mo ON mo.id = m.modality_id
		WHERE mo.tournament_id = $1
		  AND m.id <> $2
		  AND EXISTS (
			SELECT 1 FROM teams t
			WHERE t.id IN (m.team_a_id, m.team_b_id)
			  AND (t.player1_id = $3 OR t.player2_id = $3)
		  )`

	rows, err := q.QueryContext(ctx, query, tournamentID, excludeMatchID, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*models.Slot, 0)
	for rows.Next() {
		slot := &models.Slot{}
		if scanErr := rows.Scan(
			&slot.ID, &slot.TournamentID, &slot.CourtID,
			&slot.Date, &slot.StartTime, &slot.EndTime, &slot.Status,
		); scanErr != nil {
			return nil, scanErr
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
