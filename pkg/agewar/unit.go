// Package agewar implements the Age of War battle rules: six unit classes
// with a fixed rock-paper-scissors advantage relation, platoon-vs-platoon
// battle resolution, and an exhaustive search for an attacking arrangement
// that wins a required number of battles against a fixed defending order.
// The package is pure computation: no I/O, no shared state across calls.
package agewar

// UnitKind identifies one of the six unit classes.
type UnitKind string

const (
	Militia       UnitKind = "Militia"
	Spearmen      UnitKind = "Spearmen"
	LightCavalry  UnitKind = "LightCavalry"
	HeavyCavalry  UnitKind = "HeavyCavalry"
	FootArcher    UnitKind = "FootArcher"
	CavalryArcher UnitKind = "CavalryArcher"
)

// AllUnitKinds returns the six unit kinds in canonical order.
func AllUnitKinds() []UnitKind {
	return []UnitKind{Militia, Spearmen, LightCavalry, HeavyCavalry, FootArcher, CavalryArcher}
}

// advantages is the fixed class-advantage table. An attacker doubles its
// effective count against the kinds its class lists, and is floor-halved
// against any class that lists it. The relation is asymmetric: no kind
// appears in the list of a kind it beats.
var advantages = map[UnitKind][]UnitKind{
	Militia:       {Spearmen, LightCavalry},
	Spearmen:      {LightCavalry, HeavyCavalry},
	LightCavalry:  {FootArcher, CavalryArcher},
	HeavyCavalry:  {Militia, FootArcher, LightCavalry},
	FootArcher:    {Militia, CavalryArcher},
	CavalryArcher: {Spearmen, HeavyCavalry},
}

// Beats reports whether kind a holds the class advantage over kind b.
func Beats(a, b UnitKind) bool {
	for _, k := range advantages[a] {
		if k == b {
			return true
		}
	}
	return false
}

// IsValidKind reports whether k is one of the six known unit kinds.
func IsValidKind(k UnitKind) bool {
	_, ok := advantages[k]
	return ok
}

// Outcome is the result of a single battle, always from the attacker's
// perspective.
type Outcome string

const (
	Win  Outcome = "win"
	Draw Outcome = "draw"
	Loss Outcome = "loss"
)
