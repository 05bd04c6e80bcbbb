package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cothink/internal/model"
)

// DiversitySummary validates that a cohort covers the demographic spread the
// research design calls for.
type DiversitySummary struct {
	TotalAgents          int            `json:"totalAgents"`
	CulturalDistribution map[string]int `json:"culturalDistribution"`
	AgeMean              float64        `json:"ageMean"`
	AgeRange             [2]int         `json:"ageRange"`
	LanguageDistribution map[string]int `json:"languageDistribution"`
	GenderDistribution   map[string]int `json:"genderDistribution"`
	MoodDistribution     map[string]int `json:"moodDistribution"`
	TrustMean            float64        `json:"trustMean"`
	TrustStd             float64        `json:"trustStd"`
}

// SimulationService drives a cohort of agent profiles through co-thinking
// scenarios and survey collection, recording everything it produces. One
// agent's generation failure never blocks the rest of the cohort.
type SimulationService struct {
	generator      Generator
	recorder       *RecorderService
	surveyRecorder *SurveyRecorderService
	logger         *slog.Logger

	// Per-agent generation timeout.
	callTimeout time.Duration
}

// NewSimulationService creates a new simulation service
func NewSimulationService(generator Generator, recorder *RecorderService, surveyRecorder *SurveyRecorderService) *SimulationService {
	return &SimulationService{
		generator:      generator,
		recorder:       recorder,
		surveyRecorder: surveyRecorder,
		logger:         slog.Default().With(slog.String("component", "simulation")),
		callTimeout:    60 * time.Second,
	}
}

// RunScenario presents one scenario to every agent in the cohort. A failed
// or timed-out generation is stored on that agent's record and the run
// continues with the next agent.
func (s *SimulationService) RunScenario(ctx context.Context, scenario model.Scenario, cohort []model.AgentProfile) []model.InteractionRecord {
	s.logger.Info("running scenario", "name", scenario.Name, "agents", len(cohort))

	records := make([]model.InteractionRecord, 0, len(cohort))
	for _, profile := range cohort {
		payload := model.InteractionPayload{
			Timestamp:       time.Now().UTC(),
			InteractionType: "scenario",
			ScenarioName:    scenario.Name,
			ScenarioContext: scenario.Context,
			ScenarioType:    scenario.ScenarioType,
			Task:            scenario.Task,
			TutorInput:      scenario.TutorOpening,
			ProfileSummary:  profile.Summary(),
		}

		text, err := s.generate(ctx, s.scenarioPrompt(scenario, profile))
		if err != nil {
			s.logger.Warn("generation failed", "agentId", profile.AgentID, "error", err)
			payload.Error = err.Error()
		} else {
			payload.StudentResponse = text
		}

		records = append(records, s.recorder.RecordInteraction(ctx, profile.AgentID, payload))
	}

	return records
}

// RunSurveyCollection collects survey responses from every agent.
func (s *SimulationService) RunSurveyCollection(ctx context.Context, surveyType string, questions []model.SurveyQuestion, cohort []model.AgentProfile) []model.SurveyRecord {
	s.logger.Info("collecting survey responses", "agents", len(cohort))

	records := make([]model.SurveyRecord, 0, len(cohort))
	for _, profile := range cohort {
		text, err := s.generate(ctx, s.surveyPrompt(questions, profile))
		if err != nil {
			s.logger.Warn("survey generation failed", "agentId", profile.AgentID, "error", err)
			text = ""
		}

		records = append(records, s.surveyRecorder.RecordSurvey(ctx, profile.AgentID, model.SurveyPayload{
			Timestamp:       time.Now().UTC(),
			SurveyType:      surveyType,
			SurveyResponses: text,
			ProfileContext:  profile.CulturalBackground,
		}))
	}

	return records
}

func (s *SimulationService) generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.generator.Generate(callCtx, prompt)
}

func (s *SimulationService) scenarioPrompt(scenario model.Scenario, profile model.AgentProfile) string {
	var b strings.Builder
	b.WriteString(personaPrompt(profile))
	fmt.Fprintf(&b, "\n\nLEARNING SCENARIO: %s\n\n", scenario.Context)
	fmt.Fprintf(&b, "TASK: %s\nAI TUTOR'S RESPONSE: %s\n\n", scenario.Task, scenario.TutorOpening)
	b.WriteString("As the student described in your profile, respond to this AI tutor interaction. ")
	b.WriteString("Show your authentic reaction, reasoning process, and how you would engage with both the task and the AI's input.")
	return b.String()
}

func (s *SimulationService) surveyPrompt(questions []model.SurveyQuestion, profile model.AgentProfile) string {
	var b strings.Builder
	b.WriteString(personaPrompt(profile))
	b.WriteString("\n\nYou are completing a research survey about your experience with AI in learning. ")
	b.WriteString("Answer each question based on your profile, cultural background, and recent experiences.\n\nQUESTIONS:\n")
	for _, q := range questions {
		fmt.Fprintf(&b, "%d. %s (Scale: %d-%d)\n", q.Number, q.Text, q.ScaleMin, q.ScaleMax)
	}
	b.WriteString("\nFor each question answer in the form \"Question N: ... Rating: R\" and give brief reasoning that shows your cultural and personal context.")
	return b.String()
}

func personaPrompt(profile model.AgentProfile) string {
	return fmt.Sprintf(
		"You are a %d-year-old %s student. Cultural background: %s. Native language: %s (English proficiency: %s). "+
			"Socioeconomic status: %s. Current mood: %s. You trust AI tools at about %.1f/1.0 and tend to seek help at %.1f/1.0.",
		profile.Age, profile.Gender, profile.CulturalBackground, profile.NativeLanguage, profile.EnglishProficiency,
		profile.SocioeconomicStatus, profile.Mood, profile.TrustLevel, profile.HelpSeekingTendency,
	)
}

// Diversity summarizes the demographic spread of a cohort.
func (s *SimulationService) Diversity(cohort []model.AgentProfile) DiversitySummary {
	summary := DiversitySummary{
		TotalAgents:          len(cohort),
		CulturalDistribution: map[string]int{},
		LanguageDistribution: map[string]int{},
		GenderDistribution:   map[string]int{},
		MoodDistribution:     map[string]int{},
	}
	if len(cohort) == 0 {
		return summary
	}

	trusts := make([]float64, 0, len(cohort))
	ageSum := 0
	minAge, maxAge := cohort[0].Age, cohort[0].Age
	for _, p := range cohort {
		summary.CulturalDistribution[p.CulturalBackground]++
		summary.LanguageDistribution[p.NativeLanguage]++
		summary.GenderDistribution[p.Gender]++
		summary.MoodDistribution[p.Mood]++
		trusts = append(trusts, p.TrustLevel)
		ageSum += p.Age
		if p.Age < minAge {
			minAge = p.Age
		}
		if p.Age > maxAge {
			maxAge = p.Age
		}
	}

	summary.AgeMean = float64(ageSum) / float64(len(cohort))
	summary.AgeRange = [2]int{minAge, maxAge}
	summary.TrustMean = mean(trusts)
	summary.TrustStd = sampleStd(trusts)
	return summary
}

// DefaultScenarios returns the built-in co-thinking learning scenarios.
func DefaultScenarios() []model.Scenario {
	return []model.Scenario{
		{
			Name:         "collaborative_essay_planning",
			ScenarioType: "cognitive_partnership",
			Context:      "You are planning an argumentative essay with an AI tutor's help.",
			Task:         "Outline an essay on whether social media helps or harms learning.",
			TutorOpening: "Let's work through this together. What is your initial position, and what evidence do you already have?",
		},
		{
			Name:         "checking_ai_answers",
			ScenarioType: "trust_calibration",
			Context:      "The AI tutor has solved a statistics problem for you, but one step looks off.",
			Task:         "Decide whether to accept the AI's solution or verify it yourself.",
			TutorOpening: "Here is my solution. Step 3 uses the pooled variance formula. Would you like me to explain any step?",
		},
		{
			Name:         "dividing_the_work",
			ScenarioType: "agency_distribution",
			Context:      "You and the AI tutor are preparing a study guide for an exam.",
			Task:         "Decide which parts of the study guide you will write and which the AI should draft.",
			TutorOpening: "I can draft summaries of each chapter, or quiz you instead. How do you want to split the work?",
		},
	}
}

// DefaultSurveyQuestions returns the built-in post-session survey.
func DefaultSurveyQuestions() []model.SurveyQuestion {
	return []model.SurveyQuestion{
		{Number: 1, Text: "How much did you trust the AI tutor's suggestions?", ScaleMin: 1, ScaleMax: 7},
		{Number: 2, Text: "How comfortable were you sharing your reasoning with the AI?", ScaleMin: 1, ScaleMax: 7},
		{Number: 3, Text: "How much control did you feel over the final outcome?", ScaleMin: 1, ScaleMax: 7},
		{Number: 4, Text: "How well did the collaboration fit your usual way of learning?", ScaleMin: 1, ScaleMax: 7},
	}
}
