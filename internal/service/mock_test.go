package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/warcouncil/age-of-war/internal/model"
)

// mockScenarioRepo implements repository.ScenarioRepository for testing.
type mockScenarioRepo struct {
	scenarios map[string]*model.Scenario
	seq       int
}

func newMockScenarioRepo() *mockScenarioRepo {
	return &mockScenarioRepo{scenarios: make(map[string]*model.Scenario)}
}

func (m *mockScenarioRepo) Create(_ context.Context, s *model.Scenario) (*model.Scenario, error) {
	m.seq++
	cp := *s
	cp.ID = fmt.Sprintf("scenario-%d", m.seq)
	m.scenarios[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockScenarioRepo) FindByID(_ context.Context, id string) (*model.Scenario, error) {
	s, ok := m.scenarios[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *mockScenarioRepo) ListByUser(_ context.Context, userID string) ([]model.Scenario, error) {
	var result []model.Scenario
	for _, s := range m.scenarios {
		if s.CreatorID == userID {
			result = append(result, *s)
		}
	}
	sortScenarios(result)
	return result, nil
}

func (m *mockScenarioRepo) ListRecent(_ context.Context) ([]model.Scenario, error) {
	var result []model.Scenario
	for _, s := range m.scenarios {
		result = append(result, *s)
	}
	sortScenarios(result)
	return result, nil
}

func (m *mockScenarioRepo) Delete(_ context.Context, id string) error {
	delete(m.scenarios, id)
	return nil
}

func sortScenarios(scenarios []model.Scenario) {
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].ID > scenarios[j].ID })
}

// mockSolveCache implements repository.SolveCache for testing.
type mockSolveCache struct {
	results map[string]json.RawMessage
	hits    int
	misses  int
}

func newMockSolveCache() *mockSolveCache {
	return &mockSolveCache{results: make(map[string]json.RawMessage)}
}

func (c *mockSolveCache) GetResult(_ context.Context, key string) (json.RawMessage, error) {
	if data, ok := c.results[key]; ok {
		c.hits++
		return data, nil
	}
	c.misses++
	return nil, nil
}

func (c *mockSolveCache) SetResult(_ context.Context, key string, result json.RawMessage) error {
	c.results[key] = result
	return nil
}

// recordingBroadcaster captures broadcast events for assertions.
type recordingBroadcaster struct {
	events []broadcastEvent
}

type broadcastEvent struct {
	scenarioID string
	eventType  string
	data       any
}

func (b *recordingBroadcaster) BroadcastScenarioEvent(scenarioID string, eventType string, data any) {
	b.events = append(b.events, broadcastEvent{scenarioID: scenarioID, eventType: eventType, data: data})
}
