package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/padel-system/models"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	Create(ctx context.Context, q Querier, group *models.Group) error
	CreatePlacement(ctx context.Context, q Querier, placement *models.Placement) error
	ExistsByModality(ctx context.Context, q Querier, modalityID int) (bool, error)
	ListByModality(ctx context.Context, modalityID int) ([]*models.Group, error)
	DeleteByModality(ctx context.Context, q Querier, modalityID int) error
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) Create(ctx context.Context, q Querier, group *models.Group) error {
	return q.QueryRowContext(ctx,
		`INSERT INTO groups (modality_id, name) VALUES ($1, $2) RETURNING id`,
		group.ModalityID, group.Name,
	).Scan(&group.ID)
}

func (r *postgresGroupRepository) CreatePlacement(ctx context.Context, q Querier, placement *models.Placement) error {
	return q.QueryRowContext(ctx,
		`INSERT INTO group_placements (group_id, team_id, position) VALUES ($1, $2, $3) RETURNING id`,
		placement.GroupID, placement.TeamID, placement.Position,
	).Scan(&placement.ID)
}

func (r *postgresGroupRepository) ExistsByModality(ctx context.Context, q Querier, modalityID int) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM groups WHERE modality_id = $1)`, modalityID,
	).Scan(&exists)
	return exists, err
}

func (r *postgresGroupRepository) ListByModality(ctx context.Context, modalityID int) ([]*models.Group, error) {
	query := `
		SELECT g.id, g.modality_id, g.name,
		       p.id, p.team_id, p.position,
		       t.id, t.modality_id, t.player1_id, t.player2_id, t.player1_name, t.player2_name, t.score, t.seed, t.manual_seed, t.created_at
		FROM groups g
		LEFT JOIN group_placements p ON p.group_id = g.id
		LEFT JOIN teams t ON t.id = p.team_id
		WHERE g.modality_id = $1
		ORDER BY g.name ASC, p.position ASC`

	rows, err := r.db.QueryContext(ctx, query, modalityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	index := make(map[int]int)
	for rows.Next() {
		group := models.Group{}
		var placementID, teamID, position sql.NullInt64
		team := nullableTeam{}

		if scanErr := rows.Scan(
			&group.ID, &group.ModalityID, &group.Name,
			&placementID, &teamID, &position,
			&team.id, &team.modalityID, &team.player1ID, &team.player2ID,
			&team.player1Name, &team.player2Name, &team.score, &team.seed, &team.manualSeed, &team.createdAt,
		); scanErr != nil {
			return nil, scanErr
		}

		pos, seen := index[group.ID]
		if !seen {
			groups = append(groups, &group)
			pos = len(groups) - 1
			index[group.ID] = pos
		}

		if placementID.Valid {
			groups[pos].Placements = append(groups[pos].Placements, models.Placement{
				ID:       int(placementID.Int64),
				GroupID:  group.ID,
				TeamID:   int(teamID.Int64),
				Position: int(position.Int64),
				Team:     team.toModel(),
			})
		}
	}
	return groups, rows.Err()
}

func (r *postgresGroupRepository) DeleteByModality(ctx context.Context, q Querier, modalityID int) error {
	// Placements cascade from the groups FK.
	_, err := q.ExecContext(ctx, `DELETE FROM groups WHERE modality_id = $1`, modalityID)
	return err
}
