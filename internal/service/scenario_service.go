package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/warcouncil/age-of-war/internal/metrics"
	"github.com/warcouncil/age-of-war/internal/model"
	"github.com/warcouncil/age-of-war/internal/repository"
	"github.com/warcouncil/age-of-war/pkg/agewar"
)

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrInvalidArmy      = errors.New("invalid army")
	ErrNotCreator       = errors.New("only the creator can delete a scenario")
)

// EventScenarioSolved is broadcast to WebSocket subscribers when a solve completes.
const EventScenarioSolved = "scenario_solved"

// solveTimeout caps how long a single arrangement search may run. The
// search space is n! orderings, so a hostile platoon count would otherwise
// pin a CPU indefinitely.
const solveTimeout = 30 * time.Second

// ScenarioService runs arrangement searches and persists the outcomes.
type ScenarioService struct {
	scenarioRepo repository.ScenarioRepository
	cache        repository.SolveCache
	broadcaster  Broadcaster
	defaults     agewar.Rules
}

// NewScenarioService creates a ScenarioService. The defaults apply when a
// request omits the threshold or advantage factor.
func NewScenarioService(scenarioRepo repository.ScenarioRepository, cache repository.SolveCache, broadcaster Broadcaster, defaults agewar.Rules) *ScenarioService {
	return &ScenarioService{scenarioRepo: scenarioRepo, cache: cache, broadcaster: broadcaster, defaults: defaults}
}

// solveOutcome is the cached form of a solve result. It carries only what
// the inputs determine, never scenario identity, so a cached entry can be
// replayed for any user submitting the same armies and rules.
type solveOutcome struct {
	Status      string          `json:"status"`
	Arrangement string          `json:"arrangement,omitempty"`
	Battles     json.RawMessage `json:"battles,omitempty"`
	WinCount    int             `json:"win_count"`
	BattleCount int             `json:"battle_count"`
}

// Solve parses both armies, searches for a qualifying arrangement, persists
// the scenario, and broadcasts the result. Identical inputs are served from
// the cache without re-running the search.
func (s *ScenarioService) Solve(ctx context.Context, name, creatorID, attacking, defending string, requiredWins, advantageFactor int) (*model.Scenario, error) {
	attackingArmy, err := agewar.ParseArmy(attacking)
	if err != nil {
		return nil, fmt.Errorf("%w: attacking: %v", ErrInvalidArmy, err)
	}
	defendingArmy, err := agewar.ParseArmy(defending)
	if err != nil {
		return nil, fmt.Errorf("%w: defending: %v", ErrInvalidArmy, err)
	}

	rules := agewar.Rules{RequiredWins: requiredWins, AdvantageFactor: advantageFactor}
	if advantageFactor == 0 {
		rules.AdvantageFactor = s.defaults.AdvantageFactor
	}
	if requiredWins < 0 {
		rules.RequiredWins = s.defaults.RequiredWins
	}

	plan, err := agewar.NewWarPlan(attackingArmy, defendingArmy, rules)
	if err != nil {
		return nil, err
	}

	outcome, cached, err := s.solve(ctx, plan, attackingArmy.String(), defendingArmy.String())
	if err != nil {
		return nil, err
	}

	scenario := &model.Scenario{
		Name:            name,
		CreatorID:       creatorID,
		Status:          outcome.Status,
		AttackingArmy:   attackingArmy.String(),
		DefendingArmy:   defendingArmy.String(),
		RequiredWins:    rules.RequiredWins,
		AdvantageFactor: rules.AdvantageFactor,
		Arrangement:     outcome.Arrangement,
		Battles:         outcome.Battles,
		WinCount:        outcome.WinCount,
		BattleCount:     outcome.BattleCount,
	}
	created, err := s.scenarioRepo.Create(ctx, scenario)
	if err != nil {
		return nil, err
	}

	metrics.SolvesTotal.WithLabelValues(created.Status).Inc()
	if cached {
		metrics.SolveCacheHits.Inc()
	}

	s.broadcaster.BroadcastScenarioEvent(created.ID, EventScenarioSolved, created)
	return created, nil
}

// solve runs the arrangement search, consulting the cache first. The
// returned bool reports whether the outcome came from the cache.
func (s *ScenarioService) solve(ctx context.Context, plan *agewar.WarPlan, attacking, defending string) (*solveOutcome, bool, error) {
	rules := plan.Rules()
	key := solveKey(attacking, defending, rules)

	if data, err := s.cache.GetResult(ctx, key); err != nil {
		log.Warn().Err(err).Msg("Solve cache lookup failed, running search")
	} else if data != nil {
		var outcome solveOutcome
		if err := json.Unmarshal(data, &outcome); err == nil {
			return &outcome, true, nil
		}
		log.Warn().Str("key", key).Msg("Corrupt solve cache entry, running search")
	}

	searchCtx, cancel := context.WithTimeout(ctx, solveTimeout)
	defer cancel()

	start := time.Now()
	arrangement, err := plan.FindWinningArrangement(searchCtx)
	if err != nil {
		return nil, false, fmt.Errorf("arrangement search: %w", err)
	}
	metrics.SolveDuration.Observe(time.Since(start).Seconds())

	outcome := &solveOutcome{Status: model.ScenarioNoSolution}
	if arrangement != nil {
		battles, err := json.Marshal(arrangement.Battles)
		if err != nil {
			return nil, false, fmt.Errorf("marshal battles: %w", err)
		}
		outcome.Status = model.ScenarioSolved
		outcome.Arrangement = arrangement.Attacking.String()
		outcome.Battles = battles
		outcome.WinCount = arrangement.Wins
		outcome.BattleCount = len(arrangement.Battles)
	}

	if data, err := json.Marshal(outcome); err == nil {
		if err := s.cache.SetResult(ctx, key, data); err != nil {
			log.Warn().Err(err).Msg("Failed to cache solve result")
		}
	}
	return outcome, false, nil
}

// Get returns a scenario by ID.
func (s *ScenarioService) Get(ctx context.Context, id string) (*model.Scenario, error) {
	scenario, err := s.scenarioRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scenario == nil {
		return nil, ErrScenarioNotFound
	}
	return scenario, nil
}

// List returns the caller's scenarios or the most recent across all users.
func (s *ScenarioService) List(ctx context.Context, userID, filter string) ([]model.Scenario, error) {
	if filter == "my" {
		return s.scenarioRepo.ListByUser(ctx, userID)
	}
	return s.scenarioRepo.ListRecent(ctx)
}

// Delete removes a scenario. Only the creator can delete it.
func (s *ScenarioService) Delete(ctx context.Context, id, userID string) error {
	scenario, err := s.scenarioRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if scenario == nil {
		return ErrScenarioNotFound
	}
	if scenario.CreatorID != userID {
		return ErrNotCreator
	}
	return s.scenarioRepo.Delete(ctx, id)
}

// solveKey builds the cache key for a solve. Armies are in canonical wire
// form by the time this is called, so equal inputs always produce equal keys.
func solveKey(attacking, defending string, rules agewar.Rules) string {
	return attacking + "|" + defending + "|" + strconv.Itoa(rules.RequiredWins) + "|" + strconv.Itoa(rules.AdvantageFactor)
}
