package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cothink/internal/model"
)

func exportFixture() ([]model.InteractionRecord, []model.SurveyRecord) {
	interactions := []model.InteractionRecord{
		makeRecord("a1", "individualistic", 20, 0.8, 0.6, 0.7),
		makeRecord("a2", "collectivistic", 30, 0.6, 0.4, 0.5),
	}
	interactions[0].RawResponse = "I would verify the answer, then decide."
	interactions[1].RawResponse = "We should decide together."

	surveys := []model.SurveyRecord{
		{
			Timestamp:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			AgentID:        "a1",
			SurveyType:     "post_session",
			RawResponses:   "Question 1: Helpful. Rating: 6",
			Ratings:        map[int]int{1: 6},
			Reasonings:     []string{"it saved time"},
			KeyThemes:      []string{"trust"},
			Quality:        model.SurveyQuality{Completeness: 0.1, Coherence: 0.5},
			ProfileContext: "individualistic",
		},
	}
	return interactions, surveys
}

func TestExportWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	e := NewExportService(dir)
	a := NewAnalyzerService()

	interactions, surveys := exportFixture()
	report := a.Compute(interactions, surveys)

	artifacts, err := e.Export(report, interactions, surveys, "")
	require.NoError(t, err)

	for _, kind := range []string{"complete_json", "interactions_csv", "surveys_csv", "workbook", "research_report"} {
		path, ok := artifacts[kind]
		require.True(t, ok, "missing artifact %s", kind)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
		assert.True(t, strings.HasPrefix(filepath.Base(path), "co_thinking_data_"))
	}
}

func TestExportCompleteDatasetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	e := NewExportService(dir)
	a := NewAnalyzerService()

	interactions, surveys := exportFixture()
	report := a.Compute(interactions, surveys)

	artifacts, err := e.Export(report, interactions, surveys, "roundtrip")
	require.NoError(t, err)

	data, err := os.ReadFile(artifacts["complete_json"])
	require.NoError(t, err)

	var dataset CompleteDataset
	require.NoError(t, json.Unmarshal(data, &dataset))

	assert.Equal(t, interactions, dataset.InteractionRecords)
	assert.Equal(t, surveys, dataset.SurveyResponses)
	assert.Equal(t, report, dataset.AnalysisResults)
	assert.Equal(t, 2, dataset.Metadata.TotalInteractions)
	assert.Equal(t, 1, dataset.Metadata.TotalSurveys)
	assert.Equal(t, 2, dataset.Metadata.UniqueAgents)
	assert.NotEmpty(t, dataset.Metadata.ExportID)
}

func TestExportEmptyDataset(t *testing.T) {
	dir := t.TempDir()
	e := NewExportService(dir)
	a := NewAnalyzerService()

	report := a.Compute(nil, nil)
	require.True(t, report.IsError())

	artifacts, err := e.Export(report, nil, nil, "")
	require.NoError(t, err)

	// Per-log CSVs are skipped when their source log is empty.
	assert.NotContains(t, artifacts, "interactions_csv")
	assert.NotContains(t, artifacts, "surveys_csv")

	// The workbook is always written, with placeholder rows.
	workbook, err := os.ReadFile(artifacts["workbook"])
	require.NoError(t, err)
	assert.Contains(t, string(workbook), "No interaction data recorded")
	assert.Contains(t, string(workbook), "No survey data recorded")
	assert.Contains(t, string(workbook), "No analysis available - insufficient data")

	// The narrative report uses the degraded template.
	narrative, err := os.ReadFile(artifacts["research_report"])
	require.NoError(t, err)
	assert.Contains(t, string(narrative), "**Error**: no interaction records to analyze")
}

func TestExportNarrativeReport(t *testing.T) {
	dir := t.TempDir()
	e := NewExportService(dir)
	a := NewAnalyzerService()

	interactions, surveys := exportFixture()
	report := a.Compute(interactions, surveys)

	artifacts, err := e.Export(report, interactions, surveys, "narrative")
	require.NoError(t, err)

	narrative, err := os.ReadFile(artifacts["research_report"])
	require.NoError(t, err)

	text := string(narrative)
	assert.Contains(t, text, "# Co-Thinking Research Simulation Analysis Report")
	assert.Contains(t, text, "## Cultural Analysis")
	assert.Contains(t, text, "### collectivistic")
	assert.Contains(t, text, "### individualistic")
	assert.Contains(t, text, "## Research Recommendations")
	assert.Contains(t, text, "1. ")
}

func TestExportFailsOnUnwritableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}

	base := t.TempDir()
	blocked := filepath.Join(base, "blocked")
	require.NoError(t, os.MkdirAll(blocked, 0o555))
	t.Cleanup(func() { os.Chmod(blocked, 0o755) })

	e := NewExportService(filepath.Join(blocked, "out"))
	a := NewAnalyzerService()
	report := a.Compute(nil, nil)

	_, err := e.Export(report, nil, nil, "")
	require.Error(t, err)
}
