package handler

import (
	"encoding/json"
	"net/http"

	"cothink/internal/service"
	"cothink/internal/transport/rest/middleware"
)

// ExportHandler handles the export endpoint
type ExportHandler struct {
	recorder    *service.RecorderService
	surveys     *service.SurveyRecorderService
	analyzer    *service.AnalyzerService
	exporter    *service.ExportService
	broadcaster service.Broadcaster
}

// NewExportHandler creates a new export handler
func NewExportHandler(recorder *service.RecorderService, surveys *service.SurveyRecorderService, analyzer *service.AnalyzerService, exporter *service.ExportService, broadcaster service.Broadcaster) *ExportHandler {
	return &ExportHandler{
		recorder:    recorder,
		surveys:     surveys,
		analyzer:    analyzer,
		exporter:    exporter,
		broadcaster: broadcaster,
	}
}

type exportRequest struct {
	Prefix string `json:"prefix"`
}

// PostExport handles POST /v1/export
func (h *ExportHandler) PostExport(w http.ResponseWriter, r *http.Request) {
	researcherID := middleware.GetResearcherID(r.Context())
	if researcherID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req exportRequest
	if r.Body != nil {
		// An empty body means default prefix.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	interactions := h.recorder.Snapshot()
	surveys := h.surveys.Snapshot()
	report := h.analyzer.Compute(interactions, surveys)

	artifacts, err := h.exporter.Export(report, interactions, surveys, req.Prefix)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastProgress("export_finished", map[string]any{
			"researcherId": researcherID,
			"artifacts":    artifacts,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"artifacts":    artifacts,
		"interactions": len(interactions),
		"surveys":      len(surveys),
	})
}
