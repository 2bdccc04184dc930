package models

// Group is one round-robin pool of a modality.
type Group struct {
	ID         int    `json:"id" db:"id"`
	ModalityID int    `json:"modality_id" db:"modality_id"`
	Name       string `json:"name" db:"name"`

	Placements []Placement `json:"placements,omitempty" db:"-"`
}

// Placement pins a team to a position inside a group, in seed order.
type Placement struct {
	ID       int   `json:"id" db:"id"`
	GroupID  int   `json:"group_id" db:"group_id"`
	TeamID   int   `json:"team_id" db:"team_id"`
	Position int   `json:"position" db:"position"`
	Team     *Team `json:"team,omitempty" db:"-"`
}
