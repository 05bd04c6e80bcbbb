package handler

import (
	"encoding/json"
	"net/http"

	"cothink/internal/cache"
	"cothink/internal/model"
	"cothink/internal/service"
)

// RecordHandler handles the interaction and survey recording endpoints
type RecordHandler struct {
	recorder  *service.RecorderService
	surveys   *service.SurveyRecorderService
	summaries cache.SummaryCache
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(recorder *service.RecorderService, surveys *service.SurveyRecorderService, summaries cache.SummaryCache) *RecordHandler {
	return &RecordHandler{
		recorder:  recorder,
		surveys:   surveys,
		summaries: summaries,
	}
}

type interactionRequest struct {
	AgentID string                   `json:"agentId"`
	Payload model.InteractionPayload `json:"payload"`
}

type surveyRequest struct {
	AgentID string              `json:"agentId"`
	Payload model.SurveyPayload `json:"payload"`
}

// PostInteraction handles POST /v1/interactions
func (h *RecordHandler) PostInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AgentID == "" {
		writeError(w, http.StatusBadRequest, "agentId is required")
		return
	}

	rec := h.recorder.RecordInteraction(r.Context(), req.AgentID, req.Payload)
	h.invalidate(r)

	writeJSON(w, http.StatusCreated, rec)
}

// PostSurvey handles POST /v1/surveys
func (h *RecordHandler) PostSurvey(w http.ResponseWriter, r *http.Request) {
	var req surveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AgentID == "" {
		writeError(w, http.StatusBadRequest, "agentId is required")
		return
	}

	rec := h.surveys.RecordSurvey(r.Context(), req.AgentID, req.Payload)
	h.invalidate(r)

	writeJSON(w, http.StatusCreated, rec)
}

// invalidate drops cached statistics after a new record. Cache failures are
// ignored; a stale entry expires on its own TTL.
func (h *RecordHandler) invalidate(r *http.Request) {
	if h.summaries != nil {
		_ = h.summaries.Invalidate(r.Context())
	}
}
