package handler

import (
	"errors"
	"net/http"

	"github.com/warcouncil/age-of-war/internal/auth"
	"github.com/warcouncil/age-of-war/internal/service"
	"github.com/warcouncil/age-of-war/pkg/agewar"
)

// ScenarioHandler handles scenario solve and lookup endpoints.
type ScenarioHandler struct {
	scenarioSvc *service.ScenarioService
}

// NewScenarioHandler creates a ScenarioHandler.
func NewScenarioHandler(scenarioSvc *service.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{scenarioSvc: scenarioSvc}
}

// SolveScenario handles POST /api/v1/scenarios
func (h *ScenarioHandler) SolveScenario(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	var req struct {
		Name            string `json:"name"`
		AttackingArmy   string `json:"attacking_army"`
		DefendingArmy   string `json:"defending_army"`
		RequiredWins    *int   `json:"required_wins,omitempty"`
		AdvantageFactor int    `json:"advantage_factor,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.AttackingArmy == "" || req.DefendingArmy == "" {
		writeError(w, http.StatusBadRequest, "attacking_army and defending_army are required")
		return
	}

	// required_wins is a pointer so an explicit zero threshold survives
	// decoding; -1 tells the service to apply its default.
	requiredWins := -1
	if req.RequiredWins != nil {
		requiredWins = *req.RequiredWins
	}

	scenario, err := h.scenarioSvc.Solve(r.Context(), req.Name, userID, req.AttackingArmy, req.DefendingArmy, requiredWins, req.AdvantageFactor)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidArmy) ||
			errors.Is(err, agewar.ErrUnequalPlatoonCounts) ||
			errors.Is(err, agewar.ErrInvalidRules) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, scenario)
}

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	filter := r.URL.Query().Get("filter")
	scenarios, err := h.scenarioSvc.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if scenarios == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, scenarios)
}

// GetScenario handles GET /api/v1/scenarios/{id}
func (h *ScenarioHandler) GetScenario(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	scenario, err := h.scenarioSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrScenarioNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenario)
}

// DeleteScenario handles DELETE /api/v1/scenarios/{id}
func (h *ScenarioHandler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.scenarioSvc.Delete(r.Context(), id, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrScenarioNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotCreator) {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
