package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/padel-system/models"
)

var (
	ErrModalityNotFound   = errors.New("modality not found")
	ErrTournamentNotFound = errors.New("tournament not found")
)

type ModalityRepository interface {
	GetByID(ctx context.Context, id int) (*models.Modality, error)
	UpdateStatus(ctx context.Context, q Querier, id int, status models.ModalityStatus) error
}

type postgresModalityRepository struct {
	db *sql.DB
}

func NewPostgresModalityRepository(db *sql.DB) ModalityRepository {
	return &postgresModalityRepository{db: db}
}

func (r *postgresModalityRepository) GetByID(ctx context.Context, id int) (*models.Modality, error) {
	query := `
		SELECT id, tournament_id, name, category, format, status, created_at
		FROM modalities
		WHERE id = $1`

	modality := &models.Modality{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&modality.ID,
		&modality.TournamentID,
		&modality.Name,
		&modality.Category,
		&modality.Format,
		&modality.Status,
		&modality.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrModalityNotFound
		}
		return nil, err
	}
	return modality, nil
}

func (r *postgresModalityRepository) UpdateStatus(ctx context.Context, q Querier, id int, status models.ModalityStatus) error {
	result, err := q.ExecContext(ctx,
		`UPDATE modalities SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrModalityNotFound)
}

type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, q Querier, id int, status models.TournamentStatus) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, club_id, name, start_date, end_date, match_duration_minutes, max_teams, status, created_at
		FROM tournaments
		WHERE id = $1`

	tournament := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tournament.ID,
		&tournament.ClubID,
		&tournament.Name,
		&tournament.StartDate,
		&tournament.EndDate,
		&tournament.MatchDurationMinutes,
		&tournament.MaxTeams,
		&tournament.Status,
		&tournament.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, q Querier, id int, status models.TournamentStatus) error {
	result, err := q.ExecContext(ctx,
		`UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
