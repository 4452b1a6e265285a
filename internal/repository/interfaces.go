package repository

import (
	"context"
	"encoding/json"

	"github.com/warcouncil/age-of-war/internal/model"
)

// UserRepository defines user data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// ScenarioRepository defines scenario data operations.
type ScenarioRepository interface {
	Create(ctx context.Context, s *model.Scenario) (*model.Scenario, error)
	FindByID(ctx context.Context, id string) (*model.Scenario, error)
	ListByUser(ctx context.Context, userID string) ([]model.Scenario, error)
	ListRecent(ctx context.Context) ([]model.Scenario, error)
	Delete(ctx context.Context, id string) error
}

// SolveCache defines cached solve result operations (Redis). A cached
// result is keyed by the exact solve inputs, so identical requests skip
// the permutation search entirely.
type SolveCache interface {
	GetResult(ctx context.Context, key string) (json.RawMessage, error)
	SetResult(ctx context.Context, key string, result json.RawMessage) error
}
