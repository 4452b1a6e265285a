package model

import (
	"encoding/json"
	"time"
)

// User represents a registered user.
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Scenario status values.
const (
	ScenarioSolved     = "solved"
	ScenarioNoSolution = "no_solution"
)

// Scenario represents a solved war scenario: the two armies as submitted,
// the rules in force, and the outcome of the arrangement search.
type Scenario struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	CreatorID       string          `json:"creator_id"`
	Status          string          `json:"status"` // solved, no_solution
	AttackingArmy   string          `json:"attacking_army"`
	DefendingArmy   string          `json:"defending_army"`
	RequiredWins    int             `json:"required_wins"`
	AdvantageFactor int             `json:"advantage_factor"`
	Arrangement     string          `json:"arrangement,omitempty"`
	Battles         json.RawMessage `json:"battles,omitempty"`
	WinCount        int             `json:"win_count"`
	BattleCount     int             `json:"battle_count"`
	CreatedAt       time.Time       `json:"created_at"`
}
