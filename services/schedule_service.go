package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtside/padel-system/brackets"
	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/repositories"
	"github.com/courtside/padel-system/schedule"
)

// SlotGenerationSummary reports what the capacity planner produced.
type SlotGenerationSummary struct {
	SlotsCreated int `json:"slots_created"`
}

type ScheduleService interface {
	// GenerateSlots expands the club's court availability into bookable
	// slots across the tournament's dates. Runs once per tournament.
	GenerateSlots(ctx context.Context, tournamentID int) (*SlotGenerationSummary, error)
	// AssignMatchToSlot books a pending unscheduled match into an AVAILABLE
	// slot, refusing decided matches and any assignment that double-books a
	// player or violates the minimum rest period.
	AssignMatchToSlot(ctx context.Context, matchID, slotID int) error
	// RescheduleMatch moves an already-booked match to a different
	// AVAILABLE slot, atomically freeing the old one.
	RescheduleMatch(ctx context.Context, matchID, newSlotID int) error
}

type scheduleService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	modalityRepo   repositories.ModalityRepository
	courtRepo      repositories.CourtRepository
	slotRepo       repositories.SlotRepository
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	hub            *brackets.Hub
	minRest        time.Duration
	logger         *slog.Logger
}

func NewScheduleService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	modalityRepo repositories.ModalityRepository,
	courtRepo repositories.CourtRepository,
	slotRepo repositories.SlotRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	hub *brackets.Hub,
	minRest time.Duration,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		db:             db,
		tournamentRepo: tournamentRepo,
		modalityRepo:   modalityRepo,
		courtRepo:      courtRepo,
		slotRepo:       slotRepo,
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		hub:            hub,
		minRest:        minRest,
		logger:         logger,
	}
}

func (s *scheduleService) GenerateSlots(ctx context.Context, tournamentID int) (*SlotGenerationSummary, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	courts, err := s.courtRepo.ListByClubWithAvailability(ctx, tournament.ClubID)
	if err != nil {
		return nil, fmt.Errorf("failed to load courts for club %d: %w", tournament.ClubID, err)
	}

	duration := time.Duration(tournament.MatchDurationMinutes) * time.Minute
	slots, err := schedule.ExpandWindows(courts, tournament.StartDate, tournament.EndDate, duration)
	if err != nil {
		return nil, fmt.Errorf("failed to expand availability windows: %w", err)
	}
	for i := range slots {
		slots[i].TournamentID = tournamentID
	}

	summary := &SlotGenerationSummary{}
	err = runSerializable(ctx, s.db, func(tx *sql.Tx) error {
		count, err := s.slotRepo.CountByTournament(ctx, tx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to count existing slots: %w", err)
		}
		if count > 0 {
			return ErrAlreadyGenerated
		}
		created, err := s.slotRepo.BulkCreate(ctx, tx, slots)
		if err != nil {
			return fmt.Errorf("failed to create slots: %w", err)
		}
		summary.SlotsCreated = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("slots generated",
		slog.Int("tournament", tournamentID),
		slog.Int("slots", summary.SlotsCreated),
		slog.Duration("match_duration", duration))
	return summary, nil
}

func (s *scheduleService) AssignMatchToSlot(ctx context.Context, matchID, slotID int) error {
	var modalityID int
	err := runSerializable(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByID(ctx, tx, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return fmt.Errorf("failed to load match %d: %w", matchID, err)
		}
		if match.SlotID != nil {
			return ErrMatchAlreadyScheduled
		}
		// Decided matches, byes included, need no court time.
		if match.Decided() {
			return ErrAlreadyDecided
		}
		modalityID = match.ModalityID

		modality, err := s.modalityRepo.GetByID(ctx, match.ModalityID)
		if err != nil {
			return fmt.Errorf("failed to load modality %d: %w", match.ModalityID, err)
		}

		slot, err := s.validateTargetSlot(ctx, tx, slotID, modality.TournamentID)
		if err != nil {
			return err
		}

		if err := s.checkPlayerClashes(ctx, tx, match, slot, modality.TournamentID); err != nil {
			return err
		}

		return s.book(ctx, tx, match.ID, slot)
	})
	if err != nil {
		return err
	}

	s.logger.Info("match assigned to slot", slog.Int("match", matchID), slog.Int("slot", slotID))
	s.hub.PublishDrawEvent(brackets.DrawEvent{
		Type:       brackets.EventScheduleUpdated,
		ModalityID: modalityID,
		Payload:    map[string]int{"match_id": matchID, "slot_id": slotID},
	})
	return nil
}

func (s *scheduleService) RescheduleMatch(ctx context.Context, matchID, newSlotID int) error {
	var modalityID int
	err := runSerializable(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByID(ctx, tx, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return fmt.Errorf("failed to load match %d: %w", matchID, err)
		}
		if match.SlotID == nil {
			return ErrMatchNotScheduled
		}
		modalityID = match.ModalityID

		modality, err := s.modalityRepo.GetByID(ctx, match.ModalityID)
		if err != nil {
			return fmt.Errorf("failed to load modality %d: %w", match.ModalityID, err)
		}

		newSlot, err := s.validateTargetSlot(ctx, tx, newSlotID, modality.TournamentID)
		if err != nil {
			return err
		}

		// Clash check against the new slot; the match's own current booking
		// is excluded by ListPlayerSlots.
		if err := s.checkPlayerClashes(ctx, tx, match, newSlot, modality.TournamentID); err != nil {
			return err
		}

		if err := s.slotRepo.TransitionStatus(ctx, tx, *match.SlotID,
			models.SlotStatusAssigned, models.SlotStatusAvailable); err != nil {
			if errors.Is(err, repositories.ErrSlotStatusStale) {
				return ErrStorageConflict
			}
			return fmt.Errorf("failed to free slot %d: %w", *match.SlotID, err)
		}
		return s.book(ctx, tx, match.ID, newSlot)
	})
	if err != nil {
		return err
	}

	s.logger.Info("match rescheduled", slog.Int("match", matchID), slog.Int("slot", newSlotID))
	s.hub.PublishDrawEvent(brackets.DrawEvent{
		Type:       brackets.EventScheduleUpdated,
		ModalityID: modalityID,
		Payload:    map[string]int{"match_id": matchID, "slot_id": newSlotID},
	})
	return nil
}

// validateTargetSlot loads the booking target and enforces the
// invalid-reference rules: the slot must exist, belong to the same
// tournament, and currently be AVAILABLE.
func (s *scheduleService) validateTargetSlot(ctx context.Context, tx *sql.Tx, slotID, tournamentID int) (*models.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, tx, slotID)
	if err != nil {
		if errors.Is(err, repositories.ErrSlotNotFound) {
			s.logger.Error("scheduling against unknown slot", slog.Int("slot", slotID))
			return nil, ErrInvalidSlot
		}
		return nil, fmt.Errorf("failed to load slot %d: %w", slotID, err)
	}
	if slot.TournamentID != tournamentID {
		s.logger.Error("scheduling against cross-tournament slot",
			slog.Int("slot", slotID), slog.Int("tournament", tournamentID))
		return nil, ErrInvalidSlot
	}
	if slot.Status != models.SlotStatusAvailable {
		return nil, ErrInvalidSlot
	}
	return slot, nil
}

// checkPlayerClashes applies the clash rule for every player of the match
// (up to four) against all their other current bookings in the tournament.
func (s *scheduleService) checkPlayerClashes(ctx context.Context, tx *sql.Tx, match *models.BracketMatch, slot *models.Slot, tournamentID int) error {
	candidate := schedule.BookingFromSlot(*slot)
	for _, teamID := range []*int{match.TeamAID, match.TeamBID} {
		if teamID == nil {
			continue
		}
		team, err := s.teamRepo.GetByID(ctx, *teamID)
		if err != nil {
			return fmt.Errorf("failed to load team %d: %w", *teamID, err)
		}
		for _, playerID := range team.PlayerIDs() {
			booked, err := s.matchRepo.ListPlayerSlots(ctx, tx, tournamentID, playerID, match.ID)
			if err != nil {
				return fmt.Errorf("failed to load bookings for player %d: %w", playerID, err)
			}
			existing := make([]schedule.Booking, len(booked))
			for i, b := range booked {
				existing[i] = schedule.BookingFromSlot(*b)
			}
			if schedule.Clashes(candidate, existing, s.minRest) {
				s.logger.Warn("slot assignment rejected",
					slog.Int("match", match.ID),
					slog.Int("slot", slot.ID),
					slog.Int("player", playerID))
				return ErrSlotConflict
			}
		}
	}
	return nil
}

// book reserves the slot and stamps the match's derived display fields.
func (s *scheduleService) book(ctx context.Context, tx *sql.Tx, matchID int, slot *models.Slot) error {
	if err := s.slotRepo.TransitionStatus(ctx, tx, slot.ID,
		models.SlotStatusAvailable, models.SlotStatusAssigned); err != nil {
		if errors.Is(err, repositories.ErrSlotStatusStale) {
			return ErrInvalidSlot
		}
		return fmt.Errorf("failed to reserve slot %d: %w", slot.ID, err)
	}

	court, err := s.courtRepo.GetByID(ctx, slot.CourtID)
	if err != nil {
		return fmt.Errorf("failed to load court %d: %w", slot.CourtID, err)
	}
	label := court.Name
	if court.Venue != "" {
		label = fmt.Sprintf("%s (%s)", court.Name, court.Venue)
	}

	start := slot.StartTime
	return s.matchRepo.UpdateSlotAssignment(ctx, tx, matchID, &slot.ID, &start, &label)
}
