package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cothink/internal/model"
)

type stubGenerator struct {
	text    string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

func testCohort() []model.AgentProfile {
	return []model.AgentProfile{
		{
			AgentID:             "agent_001",
			CulturalBackground:  "collectivistic",
			Age:                 21,
			Gender:              "female",
			NativeLanguage:      "Mandarin",
			EnglishProficiency:  "advanced",
			SocioeconomicStatus: "middle",
			Mood:                "curious",
			TrustLevel:          0.7,
			HelpSeekingTendency: 0.6,
		},
		{
			AgentID:             "agent_002",
			CulturalBackground:  "individualistic",
			Age:                 34,
			Gender:              "male",
			NativeLanguage:      "English",
			EnglishProficiency:  "native",
			SocioeconomicStatus: "high",
			Mood:                "confident",
			TrustLevel:          0.4,
			HelpSeekingTendency: 0.3,
		},
	}
}

func TestRunScenarioRecordsEveryAgent(t *testing.T) {
	gen := &stubGenerator{text: "I think we should verify the plan together because it builds trust."}
	recorder := newTestRecorder()
	sim := NewSimulationService(gen, recorder, NewSurveyRecorderService())

	scenario := DefaultScenarios()[0]
	records := sim.RunScenario(context.Background(), scenario, testCohort())

	require.Len(t, records, 2)
	assert.Equal(t, 2, recorder.Count())
	for _, rec := range records {
		assert.Equal(t, scenario.Name, rec.ScenarioName)
		assert.Equal(t, scenario.ScenarioType, rec.ScenarioType)
		assert.Equal(t, gen.text, rec.RawResponse)
		assert.Empty(t, rec.GenerationError)
		assert.Greater(t, rec.Quality.Coherence, 0.0)
	}

	// The profile snapshot comes from each agent, not from the scenario.
	assert.Equal(t, "collectivistic", records[0].Profile.CulturalBackground)
	assert.Equal(t, "individualistic", records[1].Profile.CulturalBackground)
}

func TestRunScenarioProceedsPastGenerationFailures(t *testing.T) {
	gen := &stubGenerator{err: errors.New("backend unavailable")}
	recorder := newTestRecorder()
	sim := NewSimulationService(gen, recorder, NewSurveyRecorderService())

	records := sim.RunScenario(context.Background(), DefaultScenarios()[1], testCohort())

	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, "backend unavailable", rec.GenerationError)
		assert.Empty(t, rec.RawResponse)
		assert.Equal(t, []string{"empty"}, rec.ResponseCategories)
		assert.Zero(t, rec.Quality.Coherence)
	}
}

func TestScenarioPromptCarriesProfileAndTask(t *testing.T) {
	gen := &stubGenerator{text: "ok"}
	sim := NewSimulationService(gen, newTestRecorder(), NewSurveyRecorderService())

	scenario := model.Scenario{
		Name:         "custom",
		ScenarioType: "trust_calibration",
		Context:      "Reviewing an AI-produced proof.",
		Task:         "Decide whether to accept the proof.",
		TutorOpening: "Here is my reasoning.",
	}
	sim.RunScenario(context.Background(), scenario, testCohort()[:1])

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "LEARNING SCENARIO: Reviewing an AI-produced proof.")
	assert.Contains(t, prompt, "TASK: Decide whether to accept the proof.")
	assert.Contains(t, prompt, "AI TUTOR'S RESPONSE: Here is my reasoning.")
	assert.Contains(t, prompt, "21-year-old")
	assert.Contains(t, prompt, "collectivistic")
}

func TestRunSurveyCollection(t *testing.T) {
	gen := &stubGenerator{text: "Question 1: Very useful because it saved time. Rating: 6"}
	surveys := NewSurveyRecorderService()
	sim := NewSimulationService(gen, newTestRecorder(), surveys)

	records := sim.RunSurveyCollection(context.Background(), "post_session", DefaultSurveyQuestions(), testCohort())

	require.Len(t, records, 2)
	assert.Equal(t, 2, surveys.Count())
	for _, rec := range records {
		assert.Equal(t, "post_session", rec.SurveyType)
		assert.Equal(t, map[int]int{1: 6}, rec.Ratings)
	}

	// Each prompt enumerates the questions with their scales.
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "1. How much did you trust the AI tutor's suggestions? (Scale: 1-7)")
}

func TestRunSurveyCollectionToleratesFailures(t *testing.T) {
	gen := &stubGenerator{err: errors.New("timeout")}
	surveys := NewSurveyRecorderService()
	sim := NewSimulationService(gen, newTestRecorder(), surveys)

	records := sim.RunSurveyCollection(context.Background(), "post_session", DefaultSurveyQuestions(), testCohort())

	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Empty(t, rec.RawResponses)
		assert.Empty(t, rec.Ratings)
	}
}

func TestDiversitySummary(t *testing.T) {
	sim := NewSimulationService(&stubGenerator{}, newTestRecorder(), NewSurveyRecorderService())

	summary := sim.Diversity(testCohort())
	assert.Equal(t, 2, summary.TotalAgents)
	assert.Equal(t, map[string]int{"collectivistic": 1, "individualistic": 1}, summary.CulturalDistribution)
	assert.Equal(t, [2]int{21, 34}, summary.AgeRange)
	assert.InDelta(t, 27.5, summary.AgeMean, 0.0001)
	assert.InDelta(t, 0.55, summary.TrustMean, 0.0001)

	empty := sim.Diversity(nil)
	assert.Zero(t, empty.TotalAgents)
	assert.Empty(t, empty.CulturalDistribution)
}
