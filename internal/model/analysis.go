package model

// LinguisticFeatures are surface-level features of one response.
type LinguisticFeatures struct {
	WordCount              int     `json:"wordCount" bson:"wordCount"`
	SentenceCount          int     `json:"sentenceCount" bson:"sentenceCount"`
	AvgSentenceLength      float64 `json:"avgSentenceLength" bson:"avgSentenceLength"`
	ComplexWords           int     `json:"complexWords" bson:"complexWords"`
	QuestionCount          int     `json:"questionCount" bson:"questionCount"`
	ExclamationCount       int     `json:"exclamationCount" bson:"exclamationCount"`
	ProficiencyConsistency float64 `json:"proficiencyConsistency" bson:"proficiencyConsistency"`
}

// ResponseAnalysis is the full scorer output for one response. All numeric
// scores are in [0,1]; tag slices are always non-nil.
type ResponseAnalysis struct {
	Coherence           float64 `json:"coherenceScore" bson:"coherenceScore"`
	CulturalConsistency float64 `json:"culturalConsistency" bson:"culturalConsistency"`
	FoundationAlignment float64 `json:"foundationAlignment" bson:"foundationAlignment"`

	QuestionTypes      []string `json:"questionTypes" bson:"questionTypes"`
	ResponseCategories []string `json:"responseCategories" bson:"responseCategories"`
	ConstructsEvident  []string `json:"constructsEvident" bson:"constructsEvident"`

	Linguistic          LinguisticFeatures `json:"linguisticAnalysis" bson:"linguisticAnalysis"`
	EmotionalIndicators []string           `json:"emotionalIndicators" bson:"emotionalIndicators"`
	Complexity          float64            `json:"complexityScore" bson:"complexityScore"`
}
