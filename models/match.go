package models

import "time"

// BracketStage distinguishes the draws a modality can hold. The group stage
// and the main/consolation brackets coexist under one modality, so the
// uniqueness of a match position is (modality_id, stage, round, match_order).
type BracketStage string

const (
	StageGroups      BracketStage = "groups"
	StageMain        BracketStage = "main"
	StageConsolation BracketStage = "consolation"
)

// Winner marks which slot of a bracket match won. A match with WinnerNone is
// pending; setting a winner is terminal for that match.
type Winner string

const (
	WinnerNone  Winner = "none"
	WinnerTeamA Winner = "team_a"
	WinnerTeamB Winner = "team_b"
)

// BracketMatch is one node of a draw, addressed by (stage, round, order).
// Round 0 is the group stage; elimination rounds start at 1. Team slots stay
// nil until seeding or advancement fills them.
type BracketMatch struct {
	ID         int          `json:"id" db:"id"`
	ModalityID int          `json:"modality_id" db:"modality_id"`
	Stage      BracketStage `json:"stage" db:"stage"`
	Round      int          `json:"round" db:"round"`
	MatchOrder int          `json:"match_order" db:"match_order"`
	GroupID    *int         `json:"group_id,omitempty" db:"group_id"`
	TeamAID    *int         `json:"team_a_id,omitempty" db:"team_a_id"`
	TeamBID    *int         `json:"team_b_id,omitempty" db:"team_b_id"`
	Winner     Winner       `json:"winner" db:"winner"`

	SlotID      *int       `json:"slot_id,omitempty" db:"slot_id"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	CourtLabel  *string    `json:"court_label,omitempty" db:"court_label"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	TeamA *Team `json:"team_a,omitempty" db:"-"`
	TeamB *Team `json:"team_b,omitempty" db:"-"`
}

// Decided reports whether the match has a terminal winner.
func (m *BracketMatch) Decided() bool {
	return m.Winner != WinnerNone
}

// WinnerTeamID resolves the winner indicator to a team id, nil while pending.
func (m *BracketMatch) WinnerTeamID() *int {
	switch m.Winner {
	case WinnerTeamA:
		return m.TeamAID
	case WinnerTeamB:
		return m.TeamBID
	}
	return nil
}

// IsBye reports a first-round match with exactly one team populated.
func (m *BracketMatch) IsBye() bool {
	return m.Round == 1 && (m.TeamAID == nil) != (m.TeamBID == nil)
}
