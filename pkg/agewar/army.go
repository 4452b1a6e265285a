package agewar

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownUnitKind = errors.New("unknown unit kind")
	ErrNegativeCount   = errors.New("platoon count must be non-negative")
)

// Platoon is a homogeneous block of units: one kind and a head count.
// A count of zero is legal; such a platoon can at best draw against an
// empty opposing platoon.
type Platoon struct {
	Kind  UnitKind `json:"kind"`
	Count int      `json:"count"`
}

// NewPlatoon validates kind membership and count sign.
func NewPlatoon(kind UnitKind, count int) (Platoon, error) {
	if !IsValidKind(kind) {
		return Platoon{}, fmt.Errorf("%w: %q", ErrUnknownUnitKind, kind)
	}
	if count < 0 {
		return Platoon{}, fmt.Errorf("%w: got %d", ErrNegativeCount, count)
	}
	return Platoon{Kind: kind, Count: count}, nil
}

// Army is a fixed-order sequence of platoons belonging to one side.
// Order is semantically meaningful: position i of one army fights
// position i of the other. An Army is immutable after construction.
type Army struct {
	platoons []Platoon
}

// NewArmy builds an army from the given platoons, validating each.
// The input slice is copied; later mutation of it does not affect the army.
func NewArmy(platoons []Platoon) (Army, error) {
	for _, p := range platoons {
		if _, err := NewPlatoon(p.Kind, p.Count); err != nil {
			return Army{}, err
		}
	}
	cp := make([]Platoon, len(platoons))
	copy(cp, platoons)
	return Army{platoons: cp}, nil
}

// Len returns the number of platoons.
func (a Army) Len() int { return len(a.platoons) }

// At returns the platoon at position i.
func (a Army) At(i int) Platoon { return a.platoons[i] }

// Platoons returns a copy of the platoon sequence.
func (a Army) Platoons() []Platoon {
	cp := make([]Platoon, len(a.platoons))
	copy(cp, a.platoons)
	return cp
}
