package brackets

import "errors"

var ErrNotEnoughEntries = errors.New("not enough entries to generate a draw (minimum 2)")

// Entry is a seeded team as the generators see it. Seed 1 is the strongest
// pair; seeds are assigned by the caller before generation.
type Entry struct {
	TeamID int
	Seed   int
}

// Match is one generated draw node before persistence. Team slots left nil
// are filled later by winner advancement. GroupIndex is -1 outside the
// group stage.
type Match struct {
	Round      int
	MatchOrder int
	GroupIndex int
	TeamAID    *int
	TeamBID    *int
	Bye        bool
}

// ByeWinner returns the team advancing from a bye match, nil otherwise.
func (m *Match) ByeWinner() *int {
	if !m.Bye {
		return nil
	}
	if m.TeamAID != nil {
		return m.TeamAID
	}
	return m.TeamBID
}

// Layout is the full structure produced by a generator for one stage.
type Layout struct {
	Rounds  int
	Byes    int
	Matches []*Match
}

type Generator interface {
	Generate(entries []Entry) (*Layout, error)
	Name() string
}

// AdvanceTarget maps a decided match position to the slot it feeds in the
// next round: destination order is ceil(order/2), slot A for odd orders.
// Orders are 1-based.
func AdvanceTarget(round, matchOrder int) (nextRound, nextOrder int, slotA bool) {
	return round + 1, (matchOrder-1)/2 + 1, (matchOrder-1)%2 == 0
}
