//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/warcouncil/age-of-war/internal/model"
	"github.com/warcouncil/age-of-war/internal/testutil"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	m.Run()
}

func setup(t *testing.T) {
	t.Helper()
	if testDB == nil {
		testDB = testutil.SetupDB(t)
	}
	testutil.CleanupDB(t, testDB)
}

// createTestUser is a helper that inserts a user and returns it.
func createTestUser(t *testing.T, repo *UserRepo, suffix string) *model.User {
	t.Helper()
	u, err := repo.Upsert(context.Background(), "google", "provider-"+suffix, "User "+suffix, "https://avatar/"+suffix)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}

// solvedScenario builds a scenario row ready to insert.
func solvedScenario(name, creatorID string) *model.Scenario {
	return &model.Scenario{
		Name:            name,
		CreatorID:       creatorID,
		Status:          model.ScenarioSolved,
		AttackingArmy:   "Spearmen#10;Militia#30;FootArcher#20;LightCavalry#1000;HeavyCavalry#120",
		DefendingArmy:   "Militia#10;Spearmen#10;FootArcher#1000;LightCavalry#120;CavalryArcher#100",
		RequiredWins:    3,
		AdvantageFactor: 2,
		Arrangement:     "Spearmen#10;Militia#30;FootArcher#20;HeavyCavalry#120;LightCavalry#1000",
		Battles:         json.RawMessage(`[{"outcome":"loss"},{"outcome":"win"},{"outcome":"loss"},{"outcome":"win"},{"outcome":"win"}]`),
		WinCount:        3,
		BattleCount:     5,
	}
}

// --- UserRepo Tests ---

func TestUserUpsertCreates(t *testing.T) {
	setup(t)
	repo := NewUserRepo(testDB)

	u, err := repo.Upsert(context.Background(), "google", "goog-123", "Alice", "https://avatar/alice")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if u.Provider != "google" || u.ProviderID != "goog-123" {
		t.Fatalf("unexpected provider data: %s / %s", u.Provider, u.ProviderID)
	}
	if u.DisplayName != "Alice" {
		t.Fatalf("expected display name Alice, got %s", u.DisplayName)
	}
}

func TestUserUpsertUpdates(t *testing.T) {
	setup(t)
	repo := NewUserRepo(testDB)

	u1, err := repo.Upsert(context.Background(), "google", "goog-456", "Bob", "https://old")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	u2, err := repo.Upsert(context.Background(), "google", "goog-456", "Bobby", "https://new")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if u1.ID != u2.ID {
		t.Fatalf("upsert should return same ID: %s vs %s", u1.ID, u2.ID)
	}
	if u2.DisplayName != "Bobby" {
		t.Fatalf("expected updated name Bobby, got %s", u2.DisplayName)
	}
}

func TestUserFindByID(t *testing.T) {
	setup(t)
	repo := NewUserRepo(testDB)

	created, _ := repo.Upsert(context.Background(), "google", "goog-find", "FindMe", "")
	found, err := repo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatal("expected to find user by ID")
	}

	// Not found
	notFound, err := repo.FindByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if notFound != nil {
		t.Fatal("expected nil for missing user")
	}
}

func TestUserUpdateDisplayName(t *testing.T) {
	setup(t)
	repo := NewUserRepo(testDB)

	u, _ := repo.Upsert(context.Background(), "google", "goog-upd", "OldName", "")
	if err := repo.UpdateDisplayName(context.Background(), u.ID, "NewName"); err != nil {
		t.Fatalf("update display name: %v", err)
	}

	found, _ := repo.FindByID(context.Background(), u.ID)
	if found.DisplayName != "NewName" {
		t.Fatalf("expected NewName, got %s", found.DisplayName)
	}
}

// --- ScenarioRepo Tests ---

func TestScenarioCreate(t *testing.T) {
	setup(t)
	userRepo := NewUserRepo(testDB)
	scenarioRepo := NewScenarioRepo(testDB)

	creator := createTestUser(t, userRepo, "creator")

	created, err := scenarioRepo.Create(context.Background(), solvedScenario("Castle Assault", creator.ID))
	if err != nil {
		t.Fatalf("create scenario: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected non-empty scenario ID")
	}
	if created.Status != model.ScenarioSolved {
		t.Fatalf("expected solved status, got %s", created.Status)
	}
	if created.WinCount != 3 || created.BattleCount != 5 {
		t.Fatalf("unexpected counts: %d/%d", created.WinCount, created.BattleCount)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be populated")
	}

	// Verify JSONB round-trip of the battle breakdown
	var battles []map[string]any
	if err := json.Unmarshal(created.Battles, &battles); err != nil {
		t.Fatalf("unmarshal battles: %v", err)
	}
	if len(battles) != 5 {
		t.Fatalf("expected 5 battles, got %d", len(battles))
	}
}

func TestScenarioCreateNoSolution(t *testing.T) {
	setup(t)
	userRepo := NewUserRepo(testDB)
	scenarioRepo := NewScenarioRepo(testDB)

	creator := createTestUser(t, userRepo, "hopeless")

	s := solvedScenario("Hopeless", creator.ID)
	s.Status = model.ScenarioNoSolution
	s.Arrangement = ""
	s.Battles = nil
	s.WinCount = 0

	created, err := scenarioRepo.Create(context.Background(), s)
	if err != nil {
		t.Fatalf("create no-solution scenario: %v", err)
	}
	if created.Arrangement != "" {
		t.Fatalf("expected empty arrangement, got %q", created.Arrangement)
	}

	found, _ := scenarioRepo.FindByID(context.Background(), created.ID)
	if found.Status != model.ScenarioNoSolution {
		t.Fatalf("expected no_solution status, got %s", found.Status)
	}
	if found.Arrangement != "" {
		t.Fatal("expected NULL arrangement to read back as empty string")
	}
}

func TestScenarioFindByID(t *testing.T) {
	setup(t)
	userRepo := NewUserRepo(testDB)
	scenarioRepo := NewScenarioRepo(testDB)

	creator := createTestUser(t, userRepo, "finder")
	created, _ := scenarioRepo.Create(context.Background(), solvedScenario("Find Me", creator.ID))

	found, err := scenarioRepo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if found == nil || found.Name != "Find Me" {
		t.Fatal("expected to find scenario by ID")
	}
	if found.Arrangement != created.Arrangement {
		t.Fatalf("arrangement mismatch: %q vs %q", found.Arrangement, created.Arrangement)
	}

	missing, err := scenarioRepo.FindByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing scenario")
	}
}

func TestScenarioListByUser(t *testing.T) {
	setup(t)
	userRepo := NewUserRepo(testDB)
	scenarioRepo := NewScenarioRepo(testDB)

	u1 := createTestUser(t, userRepo, "u1")
	u2 := createTestUser(t, userRepo, "u2")

	scenarioRepo.Create(context.Background(), solvedScenario("U1 First", u1.ID))
	scenarioRepo.Create(context.Background(), solvedScenario("U1 Second", u1.ID))
	scenarioRepo.Create(context.Background(), solvedScenario("U2 Only", u2.ID))

	mine, err := scenarioRepo.ListByUser(context.Background(), u1.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 scenarios for u1, got %d", len(mine))
	}

	theirs, _ := scenarioRepo.ListByUser(context.Background(), u2.ID)
	if len(theirs) != 1 {
		t.Fatalf("expected 1 scenario for u2, got %d", len(theirs))
	}
}

func TestScenarioListRecent(t *testing.T) {
	setup(t)
	userRepo := NewUserRepo(testDB)
	scenarioRepo := NewScenarioRepo(testDB)

	u1 := createTestUser(t, userRepo, "recent-1")
	u2 := createTestUser(t, userRepo, "recent-2")

	scenarioRepo.Create(context.Background(), solvedScenario("Older", u1.ID))
	scenarioRepo.Create(context.Background(), solvedScenario("Newer", u2.ID))

	recent, err := scenarioRepo.ListRecent(context.Background())
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent scenarios, got %d", len(recent))
	}
}

func TestScenarioDelete(t *testing.T) {
	setup(t)
	userRepo := NewUserRepo(testDB)
	scenarioRepo := NewScenarioRepo(testDB)

	creator := createTestUser(t, userRepo, "deleter")
	created, _ := scenarioRepo.Create(context.Background(), solvedScenario("Doomed", creator.ID))

	if err := scenarioRepo.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete scenario: %v", err)
	}

	found, _ := scenarioRepo.FindByID(context.Background(), created.ID)
	if found != nil {
		t.Fatal("expected scenario to be deleted")
	}
}
