package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/courtside/padel-system/brackets"
	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/repositories"
)

type MatchService interface {
	// RecordResult sets a match winner and propagates it into the team slot
	// of the next-round match. Re-applying the same winner is a no-op;
	// changing a decided winner is refused, callers must clear downstream
	// state explicitly first.
	RecordResult(ctx context.Context, matchID int, winner models.Winner) error
}

type matchService struct {
	db        *sql.DB
	matchRepo repositories.MatchRepository
	hub       *brackets.Hub
	publisher *DrawPublisher
	logger    *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	publisher *DrawPublisher,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:        db,
		matchRepo: matchRepo,
		hub:       hub,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *matchService) RecordResult(ctx context.Context, matchID int, winner models.Winner) error {
	if winner != models.WinnerTeamA && winner != models.WinnerTeamB {
		s.logger.Error("record result called with invalid winner value",
			slog.Int("match", matchID), slog.String("winner", string(winner)))
		return ErrInvalidWinner
	}

	var modalityID int
	var applied bool
	err := runSerializable(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByID(ctx, tx, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return fmt.Errorf("failed to load match %d: %w", matchID, err)
		}
		modalityID = match.ModalityID

		if match.Decided() {
			if match.Winner == winner {
				// Duplicate delivery of the same result; nothing to do.
				return nil
			}
			return ErrAlreadyDecided
		}

		winnerTeam := match.TeamAID
		if winner == models.WinnerTeamB {
			winnerTeam = match.TeamBID
		}
		if winnerTeam == nil {
			s.logger.Error("winner names an empty team slot",
				slog.Int("match", matchID), slog.String("winner", string(winner)))
			return ErrInvalidWinner
		}

		if err := s.matchRepo.UpdateWinner(ctx, tx, matchID, winner); err != nil {
			return fmt.Errorf("failed to set winner on match %d: %w", matchID, err)
		}
		applied = true
		return s.advance(ctx, tx, match, *winnerTeam)
	})
	if err != nil {
		return err
	}

	if applied {
		s.hub.PublishDrawEvent(brackets.DrawEvent{
			Type:       brackets.EventMatchDecided,
			ModalityID: modalityID,
			Payload:    map[string]interface{}{"match_id": matchID, "winner": winner},
		})
		s.publisher.PublishDraw(ctx, modalityID)
	}
	return nil
}

// advance moves the winner into its slot of the next round. Group-stage and
// league matches, and the final of a bracket, have no destination: the
// position lookup misses and propagation simply stops.
func (s *matchService) advance(ctx context.Context, tx *sql.Tx, match *models.BracketMatch, winnerTeamID int) error {
	nextRound, nextOrder, slotA := brackets.AdvanceTarget(match.Round, match.MatchOrder)
	next, err := s.matchRepo.GetByPosition(ctx, tx, match.ModalityID, match.Stage, nextRound, nextOrder)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil
		}
		return fmt.Errorf("failed to locate destination match: %w", err)
	}

	// Idempotence guard: the winner may already occupy the destination.
	if slotA && next.TeamAID != nil && *next.TeamAID == winnerTeamID {
		return nil
	}
	if !slotA && next.TeamBID != nil && *next.TeamBID == winnerTeamID {
		return nil
	}

	if err := s.matchRepo.SetTeamSlot(ctx, tx, next.ID, slotA, winnerTeamID); err != nil {
		return fmt.Errorf("failed to advance team %d into match %d: %w", winnerTeamID, next.ID, err)
	}
	return nil
}
