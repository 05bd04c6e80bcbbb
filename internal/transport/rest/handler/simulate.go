package handler

import (
	"encoding/json"
	"net/http"

	"cothink/internal/model"
	"cothink/internal/service"
	"cothink/internal/transport/rest/middleware"
)

// SimulateHandler handles the simulation endpoint
type SimulateHandler struct {
	simulator   *service.SimulationService
	broadcaster service.Broadcaster
}

// NewSimulateHandler creates a new simulate handler
func NewSimulateHandler(simulator *service.SimulationService, broadcaster service.Broadcaster) *SimulateHandler {
	return &SimulateHandler{
		simulator:   simulator,
		broadcaster: broadcaster,
	}
}

type simulateRequest struct {
	Cohort         []model.AgentProfile `json:"cohort"`
	Scenarios      []model.Scenario     `json:"scenarios"`
	CollectSurveys bool                 `json:"collectSurveys"`
}

// PostSimulate handles POST /v1/simulate
func (h *SimulateHandler) PostSimulate(w http.ResponseWriter, r *http.Request) {
	researcherID := middleware.GetResearcherID(r.Context())
	if researcherID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Cohort) == 0 {
		writeError(w, http.StatusBadRequest, "cohort is required")
		return
	}

	scenarios := req.Scenarios
	if len(scenarios) == 0 {
		scenarios = service.DefaultScenarios()
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastProgress("simulation_started", map[string]any{
			"agents":    len(req.Cohort),
			"scenarios": len(scenarios),
		})
	}

	interactions := 0
	for _, scenario := range scenarios {
		interactions += len(h.simulator.RunScenario(r.Context(), scenario, req.Cohort))
	}

	surveys := 0
	if req.CollectSurveys {
		surveys = len(h.simulator.RunSurveyCollection(r.Context(), "post_session", service.DefaultSurveyQuestions(), req.Cohort))
	}

	diversity := h.simulator.Diversity(req.Cohort)

	if h.broadcaster != nil {
		h.broadcaster.BroadcastProgress("simulation_finished", map[string]any{
			"interactions": interactions,
			"surveys":      surveys,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"interactionsRecorded": interactions,
		"surveysRecorded":      surveys,
		"diversity":            diversity,
	})
}
