package model

import "time"

// SurveyQuality holds the four survey quality sub-scores, all capped at 1.0.
type SurveyQuality struct {
	Completeness      float64 `json:"completeness" bson:"completeness"`
	Coherence         float64 `json:"coherence" bson:"coherence"`
	Specificity       float64 `json:"specificity" bson:"specificity"`
	CulturalRelevance float64 `json:"culturalRelevance" bson:"culturalRelevance"`
}

// SurveyRecord is one structured survey response batch from a single agent.
type SurveyRecord struct {
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
	AgentID        string    `json:"agentId" bson:"agentId"`
	SurveyType     string    `json:"surveyType" bson:"surveyType"`
	RawResponses   string    `json:"rawResponses" bson:"rawResponses"`
	ProfileContext string    `json:"profileContext" bson:"profileContext"`

	// Parsed structure. Ratings maps question number to the stated rating.
	Ratings    map[int]int `json:"ratings" bson:"ratings"`
	Reasonings []string    `json:"reasonings" bson:"reasonings"`
	KeyThemes  []string    `json:"keyThemes" bson:"keyThemes"`

	Quality SurveyQuality `json:"quality" bson:"quality"`
}

// SurveyPayload is the survey input contract from the generation layer.
type SurveyPayload struct {
	Timestamp       time.Time `json:"timestamp"`
	SurveyType      string    `json:"surveyType"`
	SurveyResponses string    `json:"surveyResponses"`
	ProfileContext  string    `json:"profileContext"`
}
