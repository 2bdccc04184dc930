package models

import (
	"fmt"
	"time"
)

// Team is a confirmed pair registration inside one modality. The combined
// score is the sum of both players' category points, resolved by the
// registration layer before the draw is generated. Seed is written back by
// the generator; teams are frozen once their modality has a draw.
type Team struct {
	ID          int       `json:"id" db:"id"`
	ModalityID  int       `json:"modality_id" db:"modality_id"`
	Player1ID   int       `json:"player1_id" db:"player1_id"`
	Player2ID   int       `json:"player2_id" db:"player2_id"`
	Player1Name string    `json:"player1_name" db:"player1_name"`
	Player2Name string    `json:"player2_name" db:"player2_name"`
	Score       int       `json:"score" db:"score"`
	Seed        *int      `json:"seed,omitempty" db:"seed"`
	ManualSeed  *int      `json:"manual_seed,omitempty" db:"manual_seed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// DisplayName is the label used on rendered draws and schedules.
func (t *Team) DisplayName() string {
	if t == nil {
		return "TBD"
	}
	return fmt.Sprintf("%s / %s", t.Player1Name, t.Player2Name)
}

// PlayerIDs returns both player identifiers, used by the clash detector.
func (t *Team) PlayerIDs() []int {
	if t == nil {
		return nil
	}
	return []int{t.Player1ID, t.Player2ID}
}
