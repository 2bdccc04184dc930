package brackets

// RoundRobinGenerator builds the group stage: entries are snake-distributed
// into pools and every pool plays all internal pairings once. Group-stage
// matches carry round 0; standings and qualifiers are computed externally.
type RoundRobinGenerator struct {
	groupCount int
}

func NewRoundRobinGenerator(groupCount int) Generator {
	if groupCount < 1 {
		groupCount = 1
	}
	return &RoundRobinGenerator{groupCount: groupCount}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

func (g *RoundRobinGenerator) Generate(entries []Entry) (*Layout, error) {
	if len(entries) < 2 {
		return nil, ErrNotEnoughEntries
	}

	layout := &Layout{}
	order := 0
	for gi, group := range SnakeGroups(entries, g.groupCount) {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i].TeamID, group[j].TeamID
				order++
				layout.Matches = append(layout.Matches, &Match{
					Round:      0,
					MatchOrder: order,
					GroupIndex: gi,
					TeamAID:    &a,
					TeamBID:    &b,
				})
			}
		}
	}
	return layout, nil
}

// LeagueGenerator pairs every entry against every other exactly once, with
// no elimination rounds. The single uniform round never advances anywhere.
type LeagueGenerator struct{}

func NewLeagueGenerator() Generator {
	return &LeagueGenerator{}
}

func (g *LeagueGenerator) Name() string {
	return "League"
}

func (g *LeagueGenerator) Generate(entries []Entry) (*Layout, error) {
	if len(entries) < 2 {
		return nil, ErrNotEnoughEntries
	}

	layout := &Layout{Rounds: 1}
	order := 0
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i].TeamID, entries[j].TeamID
			order++
			layout.Matches = append(layout.Matches, &Match{
				Round:      1,
				MatchOrder: order,
				GroupIndex: -1,
				TeamAID:    &a,
				TeamBID:    &b,
			})
		}
	}
	return layout, nil
}
