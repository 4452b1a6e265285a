package agewar

import (
	"errors"
	"fmt"
)

// Reference rule constants.
const (
	DefaultAdvantageFactor = 2
	DefaultRequiredWins    = 3
)

var ErrInvalidRules = errors.New("invalid rules")

// Rules holds the two tunable battle constants: the multiplier applied on
// class advantage (and floor-divided on disadvantage) and the number of
// wins an arrangement needs to qualify.
type Rules struct {
	AdvantageFactor int `json:"advantage_factor"`
	RequiredWins    int `json:"required_wins"`
}

// DefaultRules returns the reference rules: factor 2, three required wins.
func DefaultRules() Rules {
	return Rules{
		AdvantageFactor: DefaultAdvantageFactor,
		RequiredWins:    DefaultRequiredWins,
	}
}

// Validate checks that the rules are usable: the factor must be at least 1
// and the win threshold non-negative.
func (r Rules) Validate() error {
	if r.AdvantageFactor < 1 {
		return fmt.Errorf("%w: advantage factor must be >= 1, got %d", ErrInvalidRules, r.AdvantageFactor)
	}
	if r.RequiredWins < 0 {
		return fmt.Errorf("%w: required wins must be >= 0, got %d", ErrInvalidRules, r.RequiredWins)
	}
	return nil
}

// Battle is one positional confrontation and its outcome.
type Battle struct {
	Attacker Platoon `json:"attacker"`
	Defender Platoon `json:"defender"`
	Outcome  Outcome `json:"outcome"`
}

// EffectiveCount returns the attacker's head count after the class
// advantage modifier: multiplied by factor when the attacker's class beats
// the defender's, floor-divided by factor when the defender's beats the
// attacker's, unchanged otherwise. The floor division is deliberately
// asymmetric with the multiplication: a single unit at a disadvantage
// floors to zero.
func EffectiveCount(attacker, defender Platoon, factor int) int {
	switch {
	case Beats(attacker.Kind, defender.Kind):
		return attacker.Count * factor
	case Beats(defender.Kind, attacker.Kind):
		return attacker.Count / factor
	default:
		return attacker.Count
	}
}

// ResolveBattle decides a single confrontation from the attacker's
// perspective: Win if the effective count exceeds the defender's count,
// Draw on equality, Loss otherwise. Pure and deterministic.
func ResolveBattle(attacker, defender Platoon, factor int) Battle {
	effective := EffectiveCount(attacker, defender, factor)

	outcome := Loss
	switch {
	case effective > defender.Count:
		outcome = Win
	case effective == defender.Count:
		outcome = Draw
	}

	return Battle{Attacker: attacker, Defender: defender, Outcome: outcome}
}
