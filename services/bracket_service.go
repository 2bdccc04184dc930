package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/courtside/padel-system/brackets"
	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/repositories"
)

// GenerationSummary reports what a draw generation produced.
type GenerationSummary struct {
	Rounds  int `json:"rounds"`
	Matches int `json:"matches"`
	Teams   int `json:"teams"`
	Byes    int `json:"byes"`
}

// GroupGenerationSummary reports what a group-stage generation produced.
type GroupGenerationSummary struct {
	Groups         int `json:"groups"`
	MatchesCreated int `json:"matches_created"`
}

type BracketService interface {
	// GenerateBracket seeds the modality's teams and builds its draw
	// (elimination/express or league, per the modality format).
	GenerateBracket(ctx context.Context, modalityID int) (*GenerationSummary, error)
	// GenerateGroups snake-distributes seeded teams into pools and creates
	// the all-pairs group-stage matches.
	GenerateGroups(ctx context.Context, modalityID, groupCount int) (*GroupGenerationSummary, error)
	// GeneratePlayoff builds the elimination bracket over the group-stage
	// qualifiers, in the order supplied by the caller (group standings are
	// computed externally).
	GeneratePlayoff(ctx context.Context, modalityID int, qualifierTeamIDs []int) (*GenerationSummary, error)
	// GenerateMirrorBracket derives the consolation draw. With no explicit
	// entry list it takes the first-round losers of the main draw.
	GenerateMirrorBracket(ctx context.Context, modalityID int, entryTeamIDs []int) (*GenerationSummary, error)
	// ClearBracket removes every match, group and placement of the modality
	// and frees any slots they held, allowing regeneration.
	ClearBracket(ctx context.Context, modalityID int) error
}

type bracketService struct {
	db             *sql.DB
	modalityRepo   repositories.ModalityRepository
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	groupRepo      repositories.GroupRepository
	slotRepo       repositories.SlotRepository
	hub            *brackets.Hub
	publisher      *DrawPublisher
	logger         *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	modalityRepo repositories.ModalityRepository,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	groupRepo repositories.GroupRepository,
	slotRepo repositories.SlotRepository,
	hub *brackets.Hub,
	publisher *DrawPublisher,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:             db,
		modalityRepo:   modalityRepo,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		groupRepo:      groupRepo,
		slotRepo:       slotRepo,
		hub:            hub,
		publisher:      publisher,
		logger:         logger,
	}
}

func (s *bracketService) GenerateBracket(ctx context.Context, modalityID int) (*GenerationSummary, error) {
	modality, err := s.modalityRepo.GetByID(ctx, modalityID)
	if err != nil {
		if errors.Is(err, repositories.ErrModalityNotFound) {
			return nil, ErrModalityNotFound
		}
		return nil, fmt.Errorf("failed to load modality %d: %w", modalityID, err)
	}

	var generator brackets.Generator
	switch modality.Format {
	case models.FormatElimination, models.FormatExpress:
		generator = brackets.NewEliminationGenerator()
	case models.FormatLeague:
		generator = brackets.NewLeagueGenerator()
	case models.FormatRoundRobin:
		return nil, ErrUnsupportedFormat
	default:
		return nil, fmt.Errorf("unknown modality format %q", modality.Format)
	}

	teams, err := s.teamRepo.ListByModality(ctx, modalityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for modality %d: %w", modalityID, err)
	}
	if len(teams) < 2 {
		return nil, ErrInsufficientTeams
	}

	entries := seedEntries(teams)
	layout, err := generator.Generate(entries)
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughEntries) {
			return nil, ErrInsufficientTeams
		}
		return nil, fmt.Errorf("failed to generate %s draw: %w", generator.Name(), err)
	}

	summary := &GenerationSummary{
		Rounds:  layout.Rounds,
		Matches: len(layout.Matches),
		Teams:   len(teams),
		Byes:    layout.Byes,
	}

	err = runSerializable(ctx, s.db, func(tx *sql.Tx) error {
		exists, err := s.matchRepo.ExistsByStage(ctx, tx, modalityID, models.StageMain)
		if err != nil {
			return fmt.Errorf("failed to check existing draw: %w", err)
		}
		if exists {
			return ErrAlreadyGenerated
		}

		// Seeds are frozen onto the teams at generation time.
		for _, entry := range entries {
			if err := s.teamRepo.UpdateSeed(ctx, tx, entry.TeamID, entry.Seed); err != nil {
				return fmt.Errorf("failed to persist seed for team %d: %w", entry.TeamID, err)
			}
		}

		if err := s.insertLayout(ctx, tx, modalityID, models.StageMain, layout, nil); err != nil {
			return err
		}

		if err := s.modalityRepo.UpdateStatus(ctx, tx, modalityID, models.ModalityStatusInProgress); err != nil {
			return fmt.Errorf("failed to update modality status: %w", err)
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, modality.TournamentID, models.TournamentStatusInProgress); err != nil {
			return fmt.Errorf("failed to update tournament status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("draw generated",
		slog.Int("modality", modalityID),
		slog.String("generator", generator.Name()),
		slog.Int("teams", summary.Teams),
		slog.Int("rounds", summary.Rounds),
		slog.Int("byes", summary.Byes))

	s.hub.PublishDrawEvent(brackets.DrawEvent{
		Type:       brackets.EventDrawGenerated,
		ModalityID: modalityID,
		Payload:    summary,
	})
	s.publisher.PublishDraw(ctx, modalityID)

	return summary, nil
}

func (s *bracketService) GenerateGroups(ctx context.Context, modalityID, groupCount int) (*GroupGenerationSummary, error) {
	modality, err := s.modalityRepo.GetByID(ctx, modalityID)
	if err != nil {
		if errors.Is(err, repositories.ErrModalityNotFound) {
			return nil, ErrModalityNotFound
		}
		return nil, fmt.Errorf("failed to load modality %d: %w", modalityID, err)
	}
	if modality.Format != models.FormatRoundRobin {
		return nil, ErrUnsupportedFormat
	}
	if groupCount < 1 {
		groupCount = 1
	}

	teams, err := s.teamRepo.ListByModality(ctx, modalityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for modality %d: %w", modalityID, err)
	}
	if len(teams) < 2 {
		return nil, ErrInsufficientTeams
	}

	entries := seedEntries(teams)
	pools := brackets.SnakeGroups(entries, groupCount)
	layout, err := brackets.NewRoundRobinGenerator(groupCount).Generate(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate group stage: %w", err)
	}

	summary := &GroupGenerationSummary{Groups: groupCount, MatchesCreated: len(layout.Matches)}

	err = runSerializable(ctx, s.db, func(tx *sql.Tx) error {
		exists, err := s.groupRepo.ExistsByModality(ctx, tx, modalityID)
		if err != nil {
			return fmt.Errorf("failed to check existing groups: %w", err)
		}
		if !exists {
			exists, err = s.matchRepo.ExistsByStage(ctx, tx, modalityID, models.StageGroups)
			if err != nil {
				return fmt.Errorf("failed to check existing group matches: %w", err)
			}
		}
		if exists {
			return ErrAlreadyGenerated
		}

		for _, entry := range entries {
			if err := s.teamRepo.UpdateSeed(ctx, tx, entry.TeamID, entry.Seed); err != nil {
				return fmt.Errorf("failed to persist seed for team %d: %w", entry.TeamID, err)
			}
		}

		// Group names run A, B, C... in pool order.
		groupIDs := make([]int, len(pools))
		for i, pool := range pools {
			group := &models.Group{ModalityID: modalityID, Name: string(rune('A' + i))}
			if err := s.groupRepo.Create(ctx, tx, group); err != nil {
				return fmt.Errorf("failed to create group %s: %w", group.Name, err)
			}
			groupIDs[i] = group.ID
			for position, entry := range pool {
				placement := &models.Placement{
					GroupID:  group.ID,
					TeamID:   entry.TeamID,
					Position: position + 1,
				}
				if err := s.groupRepo.CreatePlacement(ctx, tx, placement); err != nil {
					return fmt.Errorf("failed to place team %d in group %s: %w", entry.TeamID, group.Name, err)
				}
			}
		}

		if err := s.insertLayout(ctx, tx, modalityID, models.StageGroups, layout, groupIDs); err != nil {
			return err
		}

		if err := s.modalityRepo.UpdateStatus(ctx, tx, modalityID, models.ModalityStatusInProgress); err != nil {
			return fmt.Errorf("failed to update modality status: %w", err)
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, modality.TournamentID, models.TournamentStatusInProgress)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group stage generated",
		slog.Int("modality", modalityID),
		slog.Int("groups", groupCount),
		slog.Int("matches", summary.MatchesCreated))

	s.hub.PublishDrawEvent(brackets.DrawEvent{
		Type:       brackets.EventDrawGenerated,
		ModalityID: modalityID,
		Payload:    summary,
	})
	s.publisher.PublishDraw(ctx, modalityID)

	return summary, nil
}

func (s *bracketService) GeneratePlayoff(ctx context.Context, modalityID int, qualifierTeamIDs []int) (*GenerationSummary, error) {
	if _, err := s.modalityRepo.GetByID(ctx, modalityID); err != nil {
		if errors.Is(err, repositories.ErrModalityNotFound) {
			return nil, ErrModalityNotFound
		}
		return nil, fmt.Errorf("failed to load modality %d: %w", modalityID, err)
	}
	if len(qualifierTeamIDs) < 2 {
		return nil, ErrInsufficientTeams
	}

	teams, err := s.teamRepo.ListByIDs(ctx, qualifierTeamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load qualifiers: %w", err)
	}
	if len(teams) != len(qualifierTeamIDs) {
		return nil, ErrTeamNotFound
	}
	for _, team := range teams {
		if team.ModalityID != modalityID {
			return nil, ErrTeamNotFound
		}
	}

	// Qualifier order is the playoff seeding order: the caller computed
	// standings externally.
	entries := make([]brackets.Entry, len(qualifierTeamIDs))
	for i, teamID := range qualifierTeamIDs {
		entries[i] = brackets.Entry{TeamID: teamID, Seed: i + 1}
	}

	layout, err := brackets.NewEliminationGenerator().Generate(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate playoff draw: %w", err)
	}

	summary := &GenerationSummary{
		Rounds:  layout.Rounds,
		Matches: len(layout.Matches),
		Teams:   len(entries),
		Byes:    layout.Byes,
	}

	err = runSerializable(ctx, s.db, func(tx *sql.Tx) error {
		hasGroups, err := s.matchRepo.ExistsByStage(ctx, tx, modalityID, models.StageGroups)
		if err != nil {
			return fmt.Errorf("failed to check group stage: %w", err)
		}
		if !hasGroups {
			return ErrNoSourceBracket
		}
		exists, err := s.matchRepo.ExistsByStage(ctx, tx, modalityID, models.StageMain)
		if err != nil {
			return fmt.Errorf("failed to check existing playoff: %w", err)
		}
		if exists {
			return ErrAlreadyGenerated
		}
		return s.insertLayout(ctx, tx, modalityID, models.StageMain, layout, nil)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("playoff generated",
		slog.Int("modality", modalityID), slog.Int("qualifiers", len(entries)))

	s.hub.PublishDrawEvent(brackets.DrawEvent{
		Type:       brackets.EventDrawGenerated,
		ModalityID: modalityID,
		Payload:    summary,
	})
	s.publisher.PublishDraw(ctx, modalityID)

	return summary, nil
}

func (s *bracketService) GenerateMirrorBracket(ctx context.Context, modalityID int, entryTeamIDs []int) (*GenerationSummary, error) {
	if _, err := s.modalityRepo.GetByID(ctx, modalityID); err != nil {
		if errors.Is(err, repositories.ErrModalityNotFound) {
			return nil, ErrModalityNotFound
		}
		return nil, fmt.Errorf("failed to load modality %d: %w", modalityID, err)
	}

	mainDraw, err := s.matchRepo.ListByStage(ctx, modalityID, models.StageMain)
	if err != nil {
		return nil, fmt.Errorf("failed to load main draw: %w", err)
	}
	if len(mainDraw) == 0 {
		return nil, ErrNoSourceBracket
	}

	if len(entryTeamIDs) == 0 {
		entryTeamIDs = firstRoundLosers(mainDraw)
	}
	if len(entryTeamIDs) < 2 {
		return nil, ErrInsufficientTeams
	}

	teams, err := s.teamRepo.ListByIDs(ctx, entryTeamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load consolation entries: %w", err)
	}
	if len(teams) != len(entryTeamIDs) {
		return nil, ErrTeamNotFound
	}

	// Entries keep their relative main-draw seeding.
	sort.Slice(teams, func(i, j int) bool {
		si, sj := seedOrMax(teams[i]), seedOrMax(teams[j])
		if si != sj {
			return si < sj
		}
		return teams[i].ID < teams[j].ID
	})
	entries := make([]brackets.Entry, len(teams))
	for i, team := range teams {
		if team.ModalityID != modalityID {
			return nil, ErrTeamNotFound
		}
		entries[i] = brackets.Entry{TeamID: team.ID, Seed: i + 1}
	}

	layout, err := brackets.NewEliminationGenerator().Generate(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate consolation draw: %w", err)
	}

	summary := &GenerationSummary{
		Rounds:  layout.Rounds,
		Matches: len(layout.Matches),
		Teams:   len(entries),
		Byes:    layout.Byes,
	}

	err = runSerializable(ctx, s.db, func(tx *sql.Tx) error {
		exists, err := s.matchRepo.ExistsByStage(ctx, tx, modalityID, models.StageConsolation)
		if err != nil {
			return fmt.Errorf("failed to check existing consolation draw: %w", err)
		}
		if exists {
			return ErrAlreadyGenerated
		}
		return s.insertLayout(ctx, tx, modalityID, models.StageConsolation, layout, nil)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("consolation draw generated",
		slog.Int("modality", modalityID), slog.Int("entries", len(entries)))

	s.hub.PublishDrawEvent(brackets.DrawEvent{
		Type:       brackets.EventDrawGenerated,
		ModalityID: modalityID,
		Payload:    summary,
	})
	s.publisher.PublishDraw(ctx, modalityID)

	return summary, nil
}

func (s *bracketService) ClearBracket(ctx context.Context, modalityID int) error {
	if _, err := s.modalityRepo.GetByID(ctx, modalityID); err != nil {
		if errors.Is(err, repositories.ErrModalityNotFound) {
			return ErrModalityNotFound
		}
		return fmt.Errorf("failed to load modality %d: %w", modalityID, err)
	}

	err := runSerializable(ctx, s.db, func(tx *sql.Tx) error {
		// Slots first, while the match rows still reference them.
		if err := s.slotRepo.ReleaseForModality(ctx, tx, modalityID); err != nil {
			return fmt.Errorf("failed to release slots: %w", err)
		}
		deleted, err := s.matchRepo.DeleteByModality(ctx, tx, modalityID)
		if err != nil {
			return fmt.Errorf("failed to delete matches: %w", err)
		}
		if err := s.groupRepo.DeleteByModality(ctx, tx, modalityID); err != nil {
			return fmt.Errorf("failed to delete groups: %w", err)
		}
		if err := s.modalityRepo.UpdateStatus(ctx, tx, modalityID, models.ModalityStatusRegistration); err != nil {
			return fmt.Errorf("failed to reset modality status: %w", err)
		}
		s.logger.Info("draw cleared", slog.Int("modality", modalityID), slog.Int64("matches_deleted", deleted))
		return nil
	})
	return err
}

// insertLayout persists a generated layout under one stage. Bye matches are
// stored already decided; their round-two slots were pre-filled by the
// generator, so no played match is required for a bye to advance.
func (s *bracketService) insertLayout(ctx context.Context, tx *sql.Tx, modalityID int, stage models.BracketStage, layout *brackets.Layout, groupIDs []int) error {
	for _, bm := range layout.Matches {
		match := &models.BracketMatch{
			ModalityID: modalityID,
			Stage:      stage,
			Round:      bm.Round,
			MatchOrder: bm.MatchOrder,
			TeamAID:    bm.TeamAID,
			TeamBID:    bm.TeamBID,
			Winner:     models.WinnerNone,
		}
		if bm.GroupIndex >= 0 && bm.GroupIndex < len(groupIDs) {
			id := groupIDs[bm.GroupIndex]
			match.GroupID = &id
		}
		if bm.Bye {
			if bm.TeamAID != nil {
				match.Winner = models.WinnerTeamA
			} else {
				match.Winner = models.WinnerTeamB
			}
		}
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			if errors.Is(err, repositories.ErrMatchPositionHeld) {
				// Lost the generation race; the winning request's draw stands.
				return ErrAlreadyGenerated
			}
			return fmt.Errorf("failed to create match %s R%dM%d: %w", stage, bm.Round, bm.MatchOrder, err)
		}
	}
	return nil
}

// seedEntries turns the strongest-first team list into seeded entries.
// Manual overrides claim their seed outright; everyone else fills the free
// ranks in strength order.
func seedEntries(teams []*models.Team) []brackets.Entry {
	n := len(teams)
	taken := make(map[int]bool, n)
	seeds := make([]int, n)

	for i, team := range teams {
		if team.ManualSeed != nil && *team.ManualSeed >= 1 && *team.ManualSeed <= n && !taken[*team.ManualSeed] {
			seeds[i] = *team.ManualSeed
			taken[*team.ManualSeed] = true
		}
	}
	next := 1
	for i := range teams {
		if seeds[i] != 0 {
			continue
		}
		for taken[next] {
			next++
		}
		seeds[i] = next
		taken[next] = true
	}

	entries := make([]brackets.Entry, n)
	for i, team := range teams {
		entries[i] = brackets.Entry{TeamID: team.ID, Seed: seeds[i]}
	}
	return entries
}

// firstRoundLosers collects the defeated teams of decided round-one matches
// in match order. Byes have no loser and contribute nothing.
func firstRoundLosers(mainDraw []*models.BracketMatch) []int {
	losers := make([]int, 0)
	for _, match := range mainDraw {
		if match.Round != 1 || !match.Decided() || match.IsBye() {
			continue
		}
		switch match.Winner {
		case models.WinnerTeamA:
			if match.TeamBID != nil {
				losers = append(losers, *match.TeamBID)
			}
		case models.WinnerTeamB:
			if match.TeamAID != nil {
				losers = append(losers, *match.TeamAID)
			}
		}
	}
	return losers
}

func seedOrMax(team *models.Team) int {
	if team.Seed != nil {
		return *team.Seed
	}
	return int(^uint(0) >> 1)
}
