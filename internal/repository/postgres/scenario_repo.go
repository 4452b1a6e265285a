package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/warcouncil/age-of-war/internal/model"
)

// ScenarioRepo handles scenario database operations.
type ScenarioRepo struct {
	db *sql.DB
}

// NewScenarioRepo creates a ScenarioRepo.
func NewScenarioRepo(db *sql.DB) *ScenarioRepo {
	return &ScenarioRepo{db: db}
}

// Create inserts a solved scenario and returns it with ID and timestamp populated.
func (r *ScenarioRepo) Create(ctx context.Context, s *model.Scenario) (*model.Scenario, error) {
	var created model.Scenario
	var arrangement sql.NullString
	var battles []byte
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO scenarios (name, creator_id, status, attacking_army, defending_army,
		                        required_wins, advantage_factor, arrangement, battles, win_count, battle_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, name, creator_id, status, attacking_army, defending_army,
		           required_wins, advantage_factor, arrangement, battles, win_count, battle_count, created_at`,
		s.Name, s.CreatorID, s.Status, s.AttackingArmy, s.DefendingArmy,
		s.RequiredWins, s.AdvantageFactor, nullIfEmpty(s.Arrangement), []byte(s.Battles), s.WinCount, s.BattleCount,
	).Scan(&created.ID, &created.Name, &created.CreatorID, &created.Status, &created.AttackingArmy, &created.DefendingArmy,
		&created.RequiredWins, &created.AdvantageFactor, &arrangement, &battles, &created.WinCount, &created.BattleCount, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create scenario: %w", err)
	}
	created.Arrangement = arrangement.String
	created.Battles = battles
	return &created, nil
}

// FindByID returns a scenario by ID. Returns (nil, nil) when no scenario exists.
func (r *ScenarioRepo) FindByID(ctx context.Context, id string) (*model.Scenario, error) {
	var s model.Scenario
	var arrangement sql.NullString
	var battles []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, creator_id, status, attacking_army, defending_army,
		        required_wins, advantage_factor, arrangement, battles, win_count, battle_count, created_at
		 FROM scenarios WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.CreatorID, &s.Status, &s.AttackingArmy, &s.DefendingArmy,
		&s.RequiredWins, &s.AdvantageFactor, &arrangement, &battles, &s.WinCount, &s.BattleCount, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find scenario: %w", err)
	}
	s.Arrangement = arrangement.String
	s.Battles = battles
	return &s, nil
}

// ListByUser returns scenarios created by a user, most recent first.
func (r *ScenarioRepo) ListByUser(ctx context.Context, userID string) ([]model.Scenario, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, creator_id, status, attacking_army, defending_army,
		        required_wins, advantage_factor, arrangement, win_count, battle_count, created_at
		 FROM scenarios WHERE creator_id = $1 ORDER BY created_at DESC LIMIT 100`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user scenarios: %w", err)
	}
	defer rows.Close()
	return scanScenarios(rows)
}

// ListRecent returns the most recently solved scenarios across all users.
func (r *ScenarioRepo) ListRecent(ctx context.Context) ([]model.Scenario, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, creator_id, status, attacking_army, defending_army,
		        required_wins, advantage_factor, arrangement, win_count, battle_count, created_at
		 FROM scenarios ORDER BY created_at DESC LIMIT 50`)
	if err != nil {
		return nil, fmt.Errorf("list recent scenarios: %w", err)
	}
	defer rows.Close()
	return scanScenarios(rows)
}

// Delete removes a scenario by ID.
func (r *ScenarioRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	return nil
}

// scanScenarios scans list rows. Listings omit the battle breakdown column;
// clients fetch the full scenario by ID when they need it.
func scanScenarios(rows *sql.Rows) ([]model.Scenario, error) {
	var scenarios []model.Scenario
	for rows.Next() {
		var s model.Scenario
		var arrangement sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatorID, &s.Status, &s.AttackingArmy, &s.DefendingArmy,
			&s.RequiredWins, &s.AdvantageFactor, &arrangement, &s.WinCount, &s.BattleCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		s.Arrangement = arrangement.String
		scenarios = append(scenarios, s)
	}
	return scenarios, rows.Err()
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
