package models

import "time"

// TournamentStatus mirrors the tournament_status ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusRegistration TournamentStatus = "registration"
	TournamentStatusInProgress   TournamentStatus = "in_progress"
	TournamentStatusCompleted    TournamentStatus = "completed"
	TournamentStatusCanceled     TournamentStatus = "canceled"
)

// Tournament carries the engine-relevant configuration of a tournament.
// Registration, payments and club onboarding live in the CRUD layer and
// are not represented here.
type Tournament struct {
	ID                   int              `json:"id" db:"id"`
	ClubID               int              `json:"club_id" db:"club_id"`
	Name                 string           `json:"name" db:"name"`
	StartDate            time.Time        `json:"start_date" db:"start_date"`
	EndDate              time.Time        `json:"end_date" db:"end_date"`
	MatchDurationMinutes int              `json:"match_duration_minutes" db:"match_duration_minutes"`
	MaxTeams             int              `json:"max_teams" db:"max_teams"`
	Status               TournamentStatus `json:"status" db:"status"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`

	Modalities []Modality `json:"modalities,omitempty" db:"-"`
}

// ModalityFormat selects the draw structure built for a modality.
type ModalityFormat string

const (
	FormatElimination ModalityFormat = "elimination"
	FormatExpress     ModalityFormat = "express"
	FormatRoundRobin  ModalityFormat = "round_robin"
	FormatLeague      ModalityFormat = "league"
)

type ModalityStatus string

const (
	ModalityStatusRegistration ModalityStatus = "registration"
	ModalityStatusInProgress   ModalityStatus = "in_progress"
	ModalityStatusCompleted    ModalityStatus = "completed"
)

// Modality is one independent sub-draw of a tournament, e.g. "Men's 4th".
type Modality struct {
	ID           int            `json:"id" db:"id"`
	TournamentID int            `json:"tournament_id" db:"tournament_id"`
	Name         string         `json:"name" db:"name"`
	Category     string         `json:"category" db:"category"`
	Format       ModalityFormat `json:"format" db:"format"`
	Status       ModalityStatus `json:"status" db:"status"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}
