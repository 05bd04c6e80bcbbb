package handler

import (
	"errors"
	"net/http"

	"cothink/internal/cache"
	"cothink/internal/service"
)

// ReportHandler handles the statistics and report endpoints
type ReportHandler struct {
	recorder  *service.RecorderService
	surveys   *service.SurveyRecorderService
	analyzer  *service.AnalyzerService
	summaries cache.SummaryCache
}

// NewReportHandler creates a new report handler
func NewReportHandler(recorder *service.RecorderService, surveys *service.SurveyRecorderService, analyzer *service.AnalyzerService, summaries cache.SummaryCache) *ReportHandler {
	return &ReportHandler{
		recorder:  recorder,
		surveys:   surveys,
		analyzer:  analyzer,
		summaries: summaries,
	}
}

// GetSummary handles GET /v1/summary
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if h.summaries != nil {
		if cached, err := h.summaries.GetSummary(r.Context()); err == nil && cached != nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	stats, err := h.recorder.SummaryStatistics()
	if errors.Is(err, service.ErrNoRecords) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.summaries != nil {
		_ = h.summaries.SetSummary(r.Context(), stats)
	}

	writeJSON(w, http.StatusOK, stats)
}

// GetReport handles GET /v1/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	if h.summaries != nil {
		if cached, err := h.summaries.GetReport(r.Context()); err == nil && cached != nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	report := h.analyzer.Compute(h.recorder.Snapshot(), h.surveys.Snapshot())

	// An error-tagged report (empty log) is a valid response but never cached.
	if h.summaries != nil && !report.IsError() {
		_ = h.summaries.SetReport(r.Context(), report)
	}

	writeJSON(w, http.StatusOK, report)
}
