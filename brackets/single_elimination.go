package brackets

import (
	"fmt"
	"math/bits"
	"sort"
)

// EliminationGenerator builds a single-elimination draw sized to the next
// power of two, with byes awarded to the top seeds. Matches beyond the first
// round are created empty and filled by advancement, except slots fed by a
// bye, which are populated immediately.
type EliminationGenerator struct{}

func NewEliminationGenerator() Generator {
	return &EliminationGenerator{}
}

func (g *EliminationGenerator) Name() string {
	return "SingleElimination"
}

func (g *EliminationGenerator) Generate(entries []Entry) (*Layout, error) {
	n := len(entries)
	if n < 2 {
		return nil, ErrNotEnoughEntries
	}

	bySeed := make(map[int]int, n)
	for _, e := range entries {
		if _, dup := bySeed[e.Seed]; dup {
			return nil, fmt.Errorf("duplicate seed %d in entries", e.Seed)
		}
		bySeed[e.Seed] = e.TeamID
	}

	size := NextPowerOfTwo(n)
	rounds := bits.Len(uint(size)) - 1

	slots := make([]*int, size)
	for i, seed := range SeedingOrder(size) {
		if teamID, ok := bySeed[seed]; ok {
			id := teamID
			slots[i] = &id
		}
	}

	layout := &Layout{Rounds: rounds, Byes: size - n}

	prev := make([]*Match, 0, size/2)
	for m := 0; m < size/2; m++ {
		bm := &Match{
			Round:      1,
			MatchOrder: m + 1,
			GroupIndex: -1,
			TeamAID:    slots[2*m],
			TeamBID:    slots[2*m+1],
		}
		bm.Bye = (bm.TeamAID == nil) != (bm.TeamBID == nil)
		layout.Matches = append(layout.Matches, bm)
		prev = append(prev, bm)
	}

	for r := 2; r <= rounds; r++ {
		cur := make([]*Match, len(prev)/2)
		for m := range cur {
			cur[m] = &Match{Round: r, MatchOrder: m + 1, GroupIndex: -1}
			layout.Matches = append(layout.Matches, cur[m])
		}
		// A bye resolves on the spot: its team is already in the next round.
		for _, pm := range prev {
			if winner := pm.ByeWinner(); winner != nil {
				if _, nextOrder, slotA := AdvanceTarget(pm.Round, pm.MatchOrder); slotA {
					cur[nextOrder-1].TeamAID = winner
				} else {
					cur[nextOrder-1].TeamBID = winner
				}
			}
		}
		prev = cur
	}

	sort.Slice(layout.Matches, func(i, j int) bool {
		if layout.Matches[i].Round != layout.Matches[j].Round {
			return layout.Matches[i].Round < layout.Matches[j].Round
		}
		return layout.Matches[i].MatchOrder < layout.Matches[j].MatchOrder
	})

	return layout, nil
}
