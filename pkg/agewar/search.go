package agewar

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnequalPlatoonCounts = errors.New("armies must have the same number of platoons")

// Arrangement is a qualifying ordering of the attacking army together with
// its per-position battle breakdown. Wins always equals the number of Win
// outcomes in Battles.
type Arrangement struct {
	Attacking Army     `json:"attacking"`
	Battles   []Battle `json:"battles"`
	Wins      int      `json:"wins"`
}

// WarPlan pairs a fixed defending army against an attacking army whose
// ordering is free. Both sides must field the same number of platoons;
// that is checked at construction, never during the search. A WarPlan is
// read-only after construction, so independent plans may be solved
// concurrently without locking.
type WarPlan struct {
	attacking Army
	defending Army
	rules     Rules
}

// NewWarPlan validates platoon counts and rules and returns a plan ready
// to search. Unequal platoon counts surface here as
// ErrUnequalPlatoonCounts, distinguishable from a search that finds no
// qualifying arrangement.
func NewWarPlan(attacking, defending Army, rules Rules) (*WarPlan, error) {
	if attacking.Len() != defending.Len() {
		return nil, fmt.Errorf("%w: attacking has %d, defending has %d",
			ErrUnequalPlatoonCounts, attacking.Len(), defending.Len())
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &WarPlan{attacking: attacking, defending: defending, rules: rules}, nil
}

// Rules returns the rules in force for this plan.
func (p *WarPlan) Rules() Rules { return p.rules }

// cancelCheckInterval is how many orderings are evaluated between context
// checks. Cancellation never alters results for orderings already
// evaluated.
const cancelCheckInterval = 1024

// FindWinningArrangement enumerates every ordering of the attacking army's
// platoons in lexicographic index order, pairing each position-by-position
// against the fixed defending order, and returns the first ordering that
// produces at least RequiredWins wins. Returns (nil, nil) when the full
// space is exhausted with no qualifying ordering.
//
// Platoons are positionally distinguishable: two platoons with the same
// kind and count still count as distinct positions, so duplicate-valued
// orderings are enumerated and evaluated like any other. The enumeration
// is O(n! * n) battles in the worst case and is only practical for small
// armies (n <= 8 or so).
func (p *WarPlan) FindWinningArrangement(ctx context.Context) (*Arrangement, error) {
	n := p.attacking.Len()
	base := p.attacking.platoons

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	// order and battles are reused across iterations; only a qualifying
	// result is copied out.
	order := make([]Platoon, n)
	battles := make([]Battle, n)
	iteration := 0

	for {
		wins := 0
		for i, idx := range indices {
			order[i] = base[idx]
			battles[i] = ResolveBattle(order[i], p.defending.platoons[i], p.rules.AdvantageFactor)
			if battles[i].Outcome == Win {
				wins++
			}
		}

		if wins >= p.rules.RequiredWins {
			arranged := make([]Platoon, n)
			copy(arranged, order)
			result := make([]Battle, n)
			copy(result, battles)
			return &Arrangement{
				Attacking: Army{platoons: arranged},
				Battles:   result,
				Wins:      wins,
			}, nil
		}

		iteration++
		if iteration%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if !nextPermutation(indices) {
			return nil, nil
		}
	}
}

// BattleReport evaluates an explicit attacking order position-by-position
// against the defending army, returning the breakdown and the win count.
func (p *WarPlan) BattleReport(attacking Army) ([]Battle, int, error) {
	if attacking.Len() != p.defending.Len() {
		return nil, 0, fmt.Errorf("%w: attacking has %d, defending has %d",
			ErrUnequalPlatoonCounts, attacking.Len(), p.defending.Len())
	}

	battles := make([]Battle, attacking.Len())
	wins := 0
	for i := range battles {
		battles[i] = ResolveBattle(attacking.At(i), p.defending.At(i), p.rules.AdvantageFactor)
		if battles[i].Outcome == Win {
			wins++
		}
	}
	return battles, wins, nil
}

// nextPermutation advances idx to the next lexicographic permutation,
// returning false when idx is already the last one. The indices are all
// distinct, so this visits each of the n! orderings exactly once.
func nextPermutation(idx []int) bool {
	i := len(idx) - 2
	for i >= 0 && idx[i] >= idx[i+1] {
		i--
	}
	if i < 0 {
		return false
	}

	j := len(idx) - 1
	for idx[j] <= idx[i] {
		j--
	}
	idx[i], idx[j] = idx[j], idx[i]

	for l, r := i+1, len(idx)-1; l < r; l, r = l+1, r-1 {
		idx[l], idx[r] = idx[r], idx[l]
	}
	return true
}
