package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/padel-system/models"
	"github.com/lib/pq"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	// ListByModality returns confirmed teams strongest-first, ties broken by
	// registration order. This is the seeding order.
	ListByModality(ctx context.Context, modalityID int) ([]*models.Team, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error)
	UpdateSeed(ctx context.Context, q Querier, teamID, seed int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, modality_id, player1_id, player2_id, player1_name, player2_name, score, seed, manual_seed, created_at`

func scanTeam(row interface{ Scan(dest ...interface{}) error }) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID,
		&team.ModalityID,
		&team.Player1ID,
		&team.Player2ID,
		&team.Player1Name,
		&team.Player2Name,
		&team.Score,
		&team.Seed,
		&team.ManualSeed,
		&team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByModality(ctx context.Context, modalityID int) ([]*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE modality_id = $1
		ORDER BY score DESC, created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, modalityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error) {
	if len(ids) == 0 {
		return []*models.Team{}, nil
	}
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ANY($1) ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0, len(ids))
	for rows.Next() {
		team, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) UpdateSeed(ctx context.Context, q Querier, teamID, seed int) error {
	result, err := q.ExecContext(ctx, `UPDATE teams SET seed = $1 WHERE id = $2`, seed, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
