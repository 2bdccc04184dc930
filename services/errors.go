package services

import "errors"

// Shared sentinel errors, mapped to HTTP statuses in the handlers layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Precondition violations: rejected before any mutation, safe to retry
	// once the caller fixes the condition.
	ErrInsufficientTeams = errors.New("not enough confirmed teams to generate a draw (minimum 2)")
	ErrAlreadyGenerated  = errors.New("draw already generated for this modality")
	ErrNoSourceBracket   = errors.New("main bracket does not exist for this modality")
	ErrAlreadyDecided    = errors.New("match winner already decided")
	ErrUnsupportedFormat = errors.New("operation does not apply to this modality format")

	// Conflict errors: business-rule violations, recoverable by choosing a
	// different slot.
	ErrSlotConflict          = errors.New("player double-booked or rest period violated")
	ErrMatchAlreadyScheduled = errors.New("match already assigned to a slot")
	ErrMatchNotScheduled     = errors.New("match is not assigned to a slot")

	// Invalid-reference errors: stale or cross-tournament identifiers, a
	// caller bug. Logged at higher severity.
	ErrInvalidSlot   = errors.New("slot is unknown, unavailable, or belongs to another tournament")
	ErrInvalidWinner = errors.New("winner does not name a populated team slot")

	// Entity lookups.
	ErrModalityNotFound   = errors.New("modality not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")

	// ErrStorageConflict wraps serialization failures of the underlying
	// store; the operation left no partial state and can be retried as-is.
	ErrStorageConflict = errors.New("storage conflict, retry the operation")
)
