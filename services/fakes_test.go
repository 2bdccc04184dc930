package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/courtside/padel-system/brackets"
	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/repositories"
)

// newTestDB returns a *sql.DB whose transactions always succeed. The fakes
// below ignore the Querier they receive, so the transaction is only a
// commit/rollback boundary here.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 16; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHub() *brackets.Hub {
	// Not running: PublishDrawEvent buffers and never blocks.
	return brackets.NewHub(testLogger())
}

func intPtr(v int) *int { return &v }

// --- modality / tournament ---

type fakeModalityRepo struct {
	modalities map[int]*models.Modality
}

func newFakeModalityRepo(modalities ...*models.Modality) *fakeModalityRepo {
	r := &fakeModalityRepo{modalities: map[int]*models.Modality{}}
	for _, m := range modalities {
		r.modalities[m.ID] = m
	}
	return r
}

func (r *fakeModalityRepo) GetByID(_ context.Context, id int) (*models.Modality, error) {
	m, ok := r.modalities[id]
	if !ok {
		return nil, repositories.ErrModalityNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeModalityRepo) UpdateStatus(_ context.Context, _ repositories.Querier, id int, status models.ModalityStatus) error {
	m, ok := r.modalities[id]
	if !ok {
		return repositories.ErrModalityNotFound
	}
	m.Status = status
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: map[int]*models.Tournament{}}
	for _, tn := range tournaments {
		r.tournaments[tn.ID] = tn
	}
	return r
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	tn, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *tn
	return &copied, nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.Querier, id int, status models.TournamentStatus) error {
	tn, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	tn.Status = status
	return nil
}

// --- teams ---

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: map[int]*models.Team{}}
	for _, team := range teams {
		r.teams[team.ID] = team
	}
	return r
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) ListByModality(_ context.Context, modalityID int) ([]*models.Team, error) {
	var out []*models.Team
	for _, team := range r.teams {
		if team.ModalityID == modalityID {
			copied := *team
			out = append(out, &copied)
		}
	}
	// Strongest first, ties by id, like the real query.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeTeamRepo) ListByIDs(_ context.Context, ids []int) ([]*models.Team, error) {
	var out []*models.Team
	for _, id := range ids {
		if team, ok := r.teams[id]; ok {
			copied := *team
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) UpdateSeed(_ context.Context, _ repositories.Querier, teamID, seed int) error {
	team, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	s := seed
	team.Seed = &s
	return nil
}

// --- matches ---

type fakeMatchRepo struct {
	matches map[int]*models.BracketMatch
	nextID  int

	teams *fakeTeamRepo
	slots *fakeSlotRepo
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: map[int]*models.BracketMatch{}, nextID: 1}
}

func (r *fakeMatchRepo) add(m *models.BracketMatch) *models.BracketMatch {
	if m.ID == 0 {
		m.ID = r.nextID
		r.nextID++
	} else if m.ID >= r.nextID {
		r.nextID = m.ID + 1
	}
	r.matches[m.ID] = m
	return m
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.Querier, match *models.BracketMatch) error {
	for _, existing := range r.matches {
		if existing.ModalityID == match.ModalityID && existing.Stage == match.Stage &&
			existing.Round == match.Round && existing.MatchOrder == match.MatchOrder {
			return repositories.ErrMatchPositionHeld
		}
	}
	copied := *match
	r.add(&copied)
	match.ID = copied.ID
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, _ repositories.Querier, id int) (*models.BracketMatch, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) GetByPosition(_ context.Context, _ repositories.Querier, modalityID int, stage models.BracketStage, round, matchOrder int) (*models.BracketMatch, error) {
	for _, m := range r.matches {
		if m.ModalityID == modalityID && m.Stage == stage && m.Round == round && m.MatchOrder == matchOrder {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListByStage(_ context.Context, modalityID int, stage models.BracketStage) ([]*models.BracketMatch, error) {
	var out []*models.BracketMatch
	for _, m := range r.matches {
		if m.ModalityID == modalityID && m.Stage == stage {
			copied := *m
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].MatchOrder < out[j].MatchOrder
	})
	return out, nil
}

func (r *fakeMatchRepo) ExistsByStage(_ context.Context, _ repositories.Querier, modalityID int, stage models.BracketStage) (bool, error) {
	for _, m := range r.matches {
		if m.ModalityID == modalityID && m.Stage == stage {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMatchRepo) UpdateWinner(_ context.Context, _ repositories.Querier, id int, winner models.Winner) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Winner = winner
	return nil
}

func (r *fakeMatchRepo) SetTeamSlot(_ context.Context, _ repositories.Querier, id int, slotA bool, teamID int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if slotA {
		m.TeamAID = intPtr(teamID)
	} else {
		m.TeamBID = intPtr(teamID)
	}
	return nil
}

func (r *fakeMatchRepo) UpdateSlotAssignment(_ context.Context, _ repositories.Querier, id int, slotID *int, scheduledAt *time.Time, courtLabel *string) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.SlotID = slotID
	m.ScheduledAt = scheduledAt
	m.CourtLabel = courtLabel
	return nil
}

func (r *fakeMatchRepo) DeleteByModality(_ context.Context, _ repositories.Querier, modalityID int) (int64, error) {
	var deleted int64
	for id, m := range r.matches {
		if m.ModalityID == modalityID {
			delete(r.matches, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeMatchRepo) ListScheduledByTournament(_ context.Context, _ int) ([]*models.BracketMatch, error) {
	var out []*models.BracketMatch
	for _, m := range r.matches {
		if m.SlotID != nil {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListPlayerSlots(_ context.Context, _ repositories.Querier, _ int, playerID, excludeMatchID int) ([]*models.Slot, error) {
	var out []*models.Slot
	for _, m := range r.matches {
		if m.SlotID == nil || m.ID == excludeMatchID {
			continue
		}
		if !r.matchIncludesPlayer(m, playerID) {
			continue
		}
		if slot, ok := r.slots.slots[*m.SlotID]; ok {
			copied := *slot
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) matchIncludesPlayer(m *models.BracketMatch, playerID int) bool {
	for _, teamID := range []*int{m.TeamAID, m.TeamBID} {
		if teamID == nil {
			continue
		}
		team, ok := r.teams.teams[*teamID]
		if !ok {
			continue
		}
		if team.Player1ID == playerID || team.Player2ID == playerID {
			return true
		}
	}
	return false
}

// --- groups ---

type fakeGroupRepo struct {
	groups     map[int]*models.Group
	placements []*models.Placement
	nextID     int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: map[int]*models.Group{}, nextID: 1}
}

func (r *fakeGroupRepo) Create(_ context.Context, _ repositories.Querier, group *models.Group) error {
	group.ID = r.nextID
	r.nextID++
	copied := *group
	r.groups[group.ID] = &copied
	return nil
}

func (r *fakeGroupRepo) CreatePlacement(_ context.Context, _ repositories.Querier, placement *models.Placement) error {
	copied := *placement
	copied.ID = len(r.placements) + 1
	r.placements = append(r.placements, &copied)
	placement.ID = copied.ID
	return nil
}

func (r *fakeGroupRepo) ExistsByModality(_ context.Context, _ repositories.Querier, modalityID int) (bool, error) {
	for _, g := range r.groups {
		if g.ModalityID == modalityID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGroupRepo) ListByModality(_ context.Context, modalityID int) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range r.groups {
		if g.ModalityID == modalityID {
			copied := *g
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeGroupRepo) DeleteByModality(_ context.Context, _ repositories.Querier, modalityID int) error {
	for id, g := range r.groups {
		if g.ModalityID == modalityID {
			delete(r.groups, id)
		}
	}
	return nil
}

// --- slots ---

type fakeSlotRepo struct {
	slots   map[int]*models.Slot
	nextID  int
	matches *fakeMatchRepo
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: map[int]*models.Slot{}, nextID: 1}
}

func (r *fakeSlotRepo) add(s *models.Slot) *models.Slot {
	if s.ID == 0 {
		s.ID = r.nextID
		r.nextID++
	} else if s.ID >= r.nextID {
		r.nextID = s.ID + 1
	}
	r.slots[s.ID] = s
	return s
}

func (r *fakeSlotRepo) BulkCreate(_ context.Context, _ repositories.Querier, slots []models.Slot) (int, error) {
	for i := range slots {
		copied := slots[i]
		r.add(&copied)
	}
	return len(slots), nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, _ repositories.Querier, id int) (*models.Slot, error) {
	s, ok := r.slots[id]
	if !ok {
		return nil, repositories.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSlotRepo) CountByTournament(_ context.Context, _ repositories.Querier, tournamentID int) (int, error) {
	count := 0
	for _, s := range r.slots {
		if s.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSlotRepo) TransitionStatus(_ context.Context, _ repositories.Querier, id int, from, to models.SlotStatus) error {
	s, ok := r.slots[id]
	if !ok || s.Status != from {
		return repositories.ErrSlotStatusStale
	}
	s.Status = to
	return nil
}

func (r *fakeSlotRepo) ReleaseForModality(_ context.Context, _ repositories.Querier, modalityID int) error {
	for _, m := range r.matches.matches {
		if m.ModalityID != modalityID || m.SlotID == nil {
			continue
		}
		if s, ok := r.slots[*m.SlotID]; ok {
			s.Status = models.SlotStatusAvailable
		}
	}
	return nil
}

func (r *fakeSlotRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Slot, error) {
	var out []*models.Slot
	for _, s := range r.slots {
		if s.TournamentID == tournamentID {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// --- courts ---

type fakeCourtRepo struct {
	courts map[int]*models.Court
}

func newFakeCourtRepo(courts ...*models.Court) *fakeCourtRepo {
	r := &fakeCourtRepo{courts: map[int]*models.Court{}}
	for _, c := range courts {
		r.courts[c.ID] = c
	}
	return r
}

func (r *fakeCourtRepo) GetByID(_ context.Context, id int) (*models.Court, error) {
	c, ok := r.courts[id]
	if !ok {
		return nil, repositories.ErrCourtNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCourtRepo) ListByClubWithAvailability(_ context.Context, clubID int) ([]models.Court, error) {
	var out []models.Court
	for _, c := range r.courts {
		if c.ClubID == clubID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
