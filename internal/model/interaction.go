package model

import "time"

// ProfileSnapshot captures the agent's demographic and cultural context
// at the moment of an interaction. Missing upstream fields stay zero.
type ProfileSnapshot struct {
	CulturalBackground  string `json:"culturalBackground" bson:"culturalBackground"`
	Age                 int    `json:"age" bson:"age"`
	Gender              string `json:"gender" bson:"gender"`
	NativeLanguage      string `json:"nativeLanguage" bson:"nativeLanguage"`
	EnglishProficiency  string `json:"englishProficiency" bson:"englishProficiency"`
	SocioeconomicStatus string `json:"socioeconomicStatus" bson:"socioeconomicStatus"`
	EmotionalState      string `json:"emotionalState" bson:"emotionalState"`
}

// BehavioralSnapshot captures the agent's behavioral indicators, all 0-1.
type BehavioralSnapshot struct {
	TrustLevel          float64 `json:"trustLevel" bson:"trustLevel"`
	HelpSeekingTendency float64 `json:"helpSeekingTendency" bson:"helpSeekingTendency"`
	AuthorityDeference  float64 `json:"authorityDeference" bson:"authorityDeference"`
	PrivacyConcern      float64 `json:"privacyConcern" bson:"privacyConcern"`
}

// QualityScores are the per-response heuristic scores, all 0-1.
type QualityScores struct {
	Coherence           float64 `json:"coherence" bson:"coherence"`
	CulturalConsistency float64 `json:"culturalConsistency" bson:"culturalConsistency"`
	FoundationAlignment float64 `json:"foundationAlignment" bson:"foundationAlignment"`
}

// InteractionRecord is a single immutable data point: raw response text plus
// the profile snapshot and every derived score. Records are appended once and
// never mutated.
type InteractionRecord struct {
	Timestamp       time.Time `json:"timestamp" bson:"timestamp"`
	AgentID         string    `json:"agentId" bson:"agentId"`
	InteractionType string    `json:"interactionType" bson:"interactionType"` // "scenario", "survey", "followup"
	ScenarioName    string    `json:"scenarioName" bson:"scenarioName"`
	ScenarioType    string    `json:"scenarioType" bson:"scenarioType"`

	// Input data
	PromptText      string `json:"promptText" bson:"promptText"`
	Context         string `json:"context" bson:"context"`
	TaskDescription string `json:"taskDescription" bson:"taskDescription"`

	// Agent response
	RawResponse         string `json:"rawResponse" bson:"rawResponse"`
	ResponseLengthWords int    `json:"responseLengthWords" bson:"responseLengthWords"`
	ResponseLengthChars int    `json:"responseLengthChars" bson:"responseLengthChars"`

	// Generation failure, if the upstream collaborator errored for this agent.
	// The record is still produced; the response scores as empty.
	GenerationError string `json:"generationError,omitempty" bson:"generationError,omitempty"`

	Profile    ProfileSnapshot    `json:"profile" bson:"profile"`
	Behavioral BehavioralSnapshot `json:"behavioral" bson:"behavioral"`
	Quality    QualityScores      `json:"quality" bson:"quality"`

	// Analysis tags. Always non-nil, may be empty.
	QuestionTypes      []string `json:"questionTypes" bson:"questionTypes"`
	ResponseCategories []string `json:"responseCategories" bson:"responseCategories"`
	ConstructsEvident  []string `json:"constructsEvident" bson:"constructsEvident"`
}

// InteractionPayload is the input contract from the generation layer.
// All fields are optional; the recorder defaults anything missing.
type InteractionPayload struct {
	Timestamp       time.Time      `json:"timestamp"`
	InteractionType string         `json:"interactionType"`
	ScenarioName    string         `json:"scenarioName"`
	ScenarioContext string         `json:"scenarioContext"`
	ScenarioType    string         `json:"scenarioType"`
	Task            string         `json:"task"`
	TutorInput      string         `json:"tutorInput"`
	StudentResponse string         `json:"studentResponse"`
	Error           string         `json:"error,omitempty"`
	ProfileSummary  map[string]any `json:"profileSummary"`
}
