/*
scenarios.go - Demo data loaders

PURPOSE:
  Seeds the store with predefined demo data so the API can be explored
  without manual setup. Each scenario creates models and employees and
  runs a few days of activity through the engine, exercising the same
  code paths real usage would.

SEE ALSO:
  - handlers.go: Response helpers
  - server.go: /api/scenarios routes
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/flexitime-engine/flexitime"
)

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "small-team",
		Name:        "Small Team",
		Description: "A full-time model and three employees with a week of clocked days",
	},
	{
		ID:          "part-time",
		Name:        "Part-Time",
		Description: "A reduced-hours model and one employee taking time off in lieu",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "small-team":
		err = h.loadSmallTeam(r.Context())
	case "part-time":
		err = h.loadPartTime(r.Context())
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// LOADERS
// =============================================================================

func (h *Handler) loadSmallTeam(ctx context.Context) error {
	model := flexitime.WorkTimeModel{
		Name:   "Standard 41",
		Weekly: decimal.NewFromFloat(41),
		Days: [5]decimal.Decimal{
			decimal.NewFromFloat(9), decimal.NewFromFloat(9), decimal.NewFromFloat(9),
			decimal.NewFromFloat(9), decimal.NewFromFloat(5),
		},
	}
	if err := h.Models.SaveModel(ctx, model); err != nil {
		return err
	}

	team := []flexitime.Employee{
		{ID: "10000001", LastName: "Winter", FirstName: "Anna", Model: model.Name, Rank: "Sergeant", Unit: "1st Platoon"},
		{ID: "10000002", LastName: "Brandt", FirstName: "Jonas", Model: model.Name, Rank: "Corporal", Unit: "1st Platoon"},
		{ID: "10000003", LastName: "Keller", FirstName: "Mira", Model: model.Name, Rank: "Captain", Unit: "HQ"},
	}
	ids := make([]string, 0, len(team))
	for _, emp := range team {
		if err := h.Engine.CreateEmployee(ctx, emp); err != nil {
			return err
		}
		ids = append(ids, emp.ID)
	}

	// A clocked-in morning for everyone, one full day for the first.
	if _, err := h.Engine.SetClockIn(ctx, ids, flexitime.Clock{Hour: 7, Minute: 30}, false); err != nil {
		return err
	}
	_, err := h.Engine.SetClockOut(ctx, ids[:1], flexitime.Clock{Hour: 17, Minute: 0}, false)
	return err
}

func (h *Handler) loadPartTime(ctx context.Context) error {
	model := flexitime.WorkTimeModel{
		Name:   "Part-Time 20",
		Weekly: decimal.NewFromFloat(20),
		Days: [5]decimal.Decimal{
			decimal.NewFromFloat(4), decimal.NewFromFloat(4), decimal.NewFromFloat(4),
			decimal.NewFromFloat(4), decimal.NewFromFloat(4),
		},
	}
	if err := h.Models.SaveModel(ctx, model); err != nil {
		return err
	}

	emp := flexitime.Employee{
		ID: "20000001", LastName: "Sommer", FirstName: "Theo", Model: model.Name, Unit: "Support",
	}
	if err := h.Engine.CreateEmployee(ctx, emp); err != nil {
		return err
	}

	lieu := "time off in lieu"
	_, err := h.Engine.UpdateRecord(ctx, emp.ID, flexitime.Today(), flexitime.RecordUpdate{Status: &lieu})
	return err
}
