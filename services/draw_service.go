package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/repositories"
	"golang.org/x/sync/errgroup"
)

// MatchView is one draw node prepared for rendering.
type MatchView struct {
	ID          int           `json:"id"`
	Round       int           `json:"round"`
	Order       int           `json:"order"`
	TeamA       string        `json:"team_a"`
	TeamB       string        `json:"team_b"`
	Winner      models.Winner `json:"winner"`
	Bye         bool          `json:"bye,omitempty"`
	ScheduledAt *time.Time    `json:"scheduled_at,omitempty"`
	CourtLabel  *string       `json:"court_label,omitempty"`
}

type RoundView struct {
	Round   int         `json:"round"`
	Name    string      `json:"name"`
	Matches []MatchView `json:"matches"`
}

type GroupView struct {
	Name    string      `json:"name"`
	Teams   []string    `json:"teams"`
	Matches []MatchView `json:"matches"`
}

// DrawView is the full rendering payload of one modality.
type DrawView struct {
	Modality    *models.Modality `json:"modality"`
	Groups      []GroupView      `json:"groups,omitempty"`
	Main        []RoundView      `json:"main,omitempty"`
	Consolation []RoundView      `json:"consolation,omitempty"`
}

// ScheduleSlotView is one court booking line of the daily roster.
type ScheduleSlotView struct {
	SlotID int               `json:"slot_id"`
	Court  string            `json:"court"`
	Start  time.Time         `json:"start"`
	End    time.Time         `json:"end"`
	Status models.SlotStatus `json:"status"`
	Match  *string           `json:"match,omitempty"`
}

type DayScheduleView struct {
	Date  string             `json:"date"`
	Slots []ScheduleSlotView `json:"slots"`
}

type DrawService interface {
	// GetDraw loads every stage of a modality for bracket rendering.
	GetDraw(ctx context.Context, modalityID int) (*DrawView, error)
	// GetDailySchedule groups a tournament's slots by day for roster display.
	GetDailySchedule(ctx context.Context, tournamentID int) ([]DayScheduleView, error)
}

type drawService struct {
	modalityRepo repositories.ModalityRepository
	matchRepo    repositories.MatchRepository
	groupRepo    repositories.GroupRepository
	slotRepo     repositories.SlotRepository
}

func NewDrawService(
	modalityRepo repositories.ModalityRepository,
	matchRepo repositories.MatchRepository,
	groupRepo repositories.GroupRepository,
	slotRepo repositories.SlotRepository,
) DrawService {
	return &drawService{
		modalityRepo: modalityRepo,
		matchRepo:    matchRepo,
		groupRepo:    groupRepo,
		slotRepo:     slotRepo,
	}
}

func (s *drawService) GetDraw(ctx context.Context, modalityID int) (*DrawView, error) {
	modality, err := s.modalityRepo.GetByID(ctx, modalityID)
	if err != nil {
		if errors.Is(err, repositories.ErrModalityNotFound) {
			return nil, ErrModalityNotFound
		}
		return nil, fmt.Errorf("failed to load modality %d: %w", modalityID, err)
	}

	view := &DrawView{Modality: modality}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		matches, err := s.matchRepo.ListByStage(gCtx, modalityID, models.StageMain)
		if err != nil {
			return fmt.Errorf("failed to load main draw: %w", err)
		}
		view.Main = groupByRound(matches)
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByStage(gCtx, modalityID, models.StageConsolation)
		if err != nil {
			return fmt.Errorf("failed to load consolation draw: %w", err)
		}
		view.Consolation = groupByRound(matches)
		return nil
	})
	g.Go(func() error {
		groups, err := s.groupRepo.ListByModality(gCtx, modalityID)
		if err != nil {
			return fmt.Errorf("failed to load groups: %w", err)
		}
		matches, err := s.matchRepo.ListByStage(gCtx, modalityID, models.StageGroups)
		if err != nil {
			return fmt.Errorf("failed to load group matches: %w", err)
		}
		view.Groups = buildGroupViews(groups, matches)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *drawService) GetDailySchedule(ctx context.Context, tournamentID int) ([]DayScheduleView, error) {
	slots, err := s.slotRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load slots for tournament %d: %w", tournamentID, err)
	}
	matches, err := s.matchRepo.ListScheduledByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduled matches: %w", err)
	}

	labelBySlot := make(map[int]string, len(matches))
	for _, match := range matches {
		if match.SlotID != nil {
			labelBySlot[*match.SlotID] = fmt.Sprintf("%s vs %s",
				match.TeamA.DisplayName(), match.TeamB.DisplayName())
		}
	}

	days := make([]DayScheduleView, 0)
	for _, slot := range slots {
		entry := ScheduleSlotView{
			SlotID: slot.ID,
			Start:  slot.StartTime,
			End:    slot.EndTime,
			Status: slot.Status,
		}
		if slot.Court != nil {
			entry.Court = slot.Court.Name
		}
		if label, ok := labelBySlot[slot.ID]; ok {
			entry.Match = &label
		}

		date := slot.Date.Format("2006-01-02")
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, DayScheduleView{Date: date})
		}
		days[len(days)-1].Slots = append(days[len(days)-1].Slots, entry)
	}
	return days, nil
}

func groupByRound(matches []*models.BracketMatch) []RoundView {
	rounds := make([]RoundView, 0)
	for _, match := range matches {
		if len(rounds) == 0 || rounds[len(rounds)-1].Round != match.Round {
			rounds = append(rounds, RoundView{Round: match.Round})
		}
		current := &rounds[len(rounds)-1]
		current.Matches = append(current.Matches, matchView(match))
	}
	for i := range rounds {
		rounds[i].Name = roundName(len(rounds[i].Matches))
	}
	return rounds
}

func buildGroupViews(groups []*models.Group, matches []*models.BracketMatch) []GroupView {
	views := make([]GroupView, 0, len(groups))
	byGroupID := make(map[int]int, len(groups))
	for i, group := range groups {
		view := GroupView{Name: group.Name}
		for _, placement := range group.Placements {
			view.Teams = append(view.Teams, placement.Team.DisplayName())
		}
		views = append(views, view)
		byGroupID[group.ID] = i
	}
	for _, match := range matches {
		if match.GroupID == nil {
			continue
		}
		if i, ok := byGroupID[*match.GroupID]; ok {
			views[i].Matches = append(views[i].Matches, matchView(match))
		}
	}
	return views
}

func matchView(match *models.BracketMatch) MatchView {
	teamA, teamB := match.TeamA.DisplayName(), match.TeamB.DisplayName()
	if match.IsBye() {
		if match.TeamAID == nil {
			teamA = "BYE"
		} else {
			teamB = "BYE"
		}
	}
	return MatchView{
		ID:          match.ID,
		Round:       match.Round,
		Order:       match.MatchOrder,
		TeamA:       teamA,
		TeamB:       teamB,
		Winner:      match.Winner,
		Bye:         match.IsBye(),
		ScheduledAt: match.ScheduledAt,
		CourtLabel:  match.CourtLabel,
	}
}

func roundName(matchesInRound int) string {
	switch matchesInRound {
	case 1:
		return "Final"
	case 2:
		return "Semifinals"
	case 4:
		return "Quarterfinals"
	default:
		return fmt.Sprintf("Round of %d", matchesInRound*2)
	}
}
