package model

import "time"

// SummaryStats is the cheap summary subset exposed without a full analysis run.
type SummaryStats struct {
	TotalInteractions  int       `json:"totalInteractions"`
	UniqueAgents       int       `json:"uniqueAgents"`
	CulturalDiversity  int       `json:"culturalDiversity"`
	AvgResponseLength  float64   `json:"avgResponseLength"`
	AvgCoherence       float64   `json:"avgCoherence"`
	AvgFoundationAlign float64   `json:"avgFoundationAlignment"`
	ScenarioTypes      []string  `json:"scenarioTypes"`
	FirstRecordAt      time.Time `json:"firstRecordAt"`
	LastRecordAt       time.Time `json:"lastRecordAt"`
}

// ReportSummary is the summary section of a full aggregate report.
type ReportSummary struct {
	TotalInteractions    int      `json:"totalInteractions"`
	UniqueAgents         int      `json:"uniqueAgents"`
	AvgResponseLength    float64  `json:"avgResponseLengthWords"`
	ResponseLengthStd    float64  `json:"responseLengthStd"`
	CulturalDiversity    int      `json:"culturalDiversity"`
	AgeRange             [2]int   `json:"ageRange"`
	AvgCoherence         float64  `json:"avgCoherenceScore"`
	AvgFoundationAlign   float64  `json:"avgFoundationAlignment"`
	ScenarioTypesCovered []string `json:"scenarioTypesCovered"`
	LanguagesRepresented []string `json:"languagesRepresented"`
}

// CultureStats aggregates records from one cultural background.
type CultureStats struct {
	Participants          int           `json:"nParticipants"`
	AvgResponseLength     float64       `json:"avgResponseLength"`
	AvgTrustLevel         float64       `json:"avgTrustLevel"`
	AvgAuthorityDeference float64       `json:"avgAuthorityDeference"`
	CommonConstructs      []string      `json:"commonConstructs"`
	ResponseQuality       QualityScores `json:"responseQuality"`
}

// ConstructStats describes how often one psychological construct surfaced.
type ConstructStats struct {
	Frequency            int            `json:"frequency"`
	Percentage           float64        `json:"percentage"`
	CulturalDistribution map[string]int `json:"culturalDistribution"`
	AvgCoherence         float64        `json:"avgCoherence"`
	AvgFoundationAlign   float64        `json:"avgFoundationAlignment"`
}

// Distribution is a four-number spread of one metric.
type Distribution struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// ResponseQualityStats is the global response quality section.
type ResponseQualityStats struct {
	CoherenceDistribution Distribution             `json:"coherenceDistribution"`
	AlignmentDistribution Distribution             `json:"foundationAlignmentDistribution"`
	QualityByCulture      map[string]QualityScores `json:"qualityByCulture"`
	HighQualityResponses  int                      `json:"highQualityResponses"`
	LowQualityResponses   int                      `json:"lowQualityResponses"`
}

// BehavioralPatterns groups behavioral indicators across demographic slices.
type BehavioralPatterns struct {
	TrustByCulture       map[string]float64 `json:"trustByCulture"`
	TrustByAgeGroup      map[string]float64 `json:"trustByAgeGroup"`
	HelpSeekingByCulture map[string]float64 `json:"helpSeekingByCulture"`
	HelpSeekingByMood    map[string]float64 `json:"helpSeekingByEmotionalState"`
	AuthorityByCulture   map[string]float64 `json:"authorityByCulture"`
	AuthorityBySES       map[string]float64 `json:"authorityBySocioeconomicStatus"`
}

// AlignmentTrends holds correlation and arg-max findings for alignment.
type AlignmentTrends struct {
	CorrelationWithTrust     float64 `json:"correlationWithTrust"`
	CorrelationWithCoherence float64 `json:"correlationWithCoherence"`
	BestAlignedCulture       string  `json:"bestAlignedCulture"`
	MostVariableCulture      string  `json:"mostVariableCulture"`
}

// FoundationAlignmentStats is the foundation alignment section.
type FoundationAlignmentStats struct {
	OverallAlignment    float64            `json:"overallAlignment"`
	AlignmentByCulture  map[string]float64 `json:"alignmentByCulture"`
	AlignmentByScenario map[string]float64 `json:"alignmentByScenario"`
	HighAlignmentCases  int                `json:"highAlignmentCases"`
	LowAlignmentCases   int                `json:"lowAlignmentCases"`
	Trends              AlignmentTrends    `json:"alignmentTrends"`
}

// DemographicInsights groups metrics across demographic slices.
type DemographicInsights struct {
	ResponseLengthByAge      map[string]float64 `json:"responseLengthByAge"`
	TrustByAge               map[string]float64 `json:"trustByAge"`
	ResponseLengthByGender   map[string]float64 `json:"responseLengthByGender"`
	HelpSeekingByGender      map[string]float64 `json:"helpSeekingByGender"`
	CoherenceByProficiency   map[string]float64 `json:"coherenceByProficiency"`
	ResponseLengthByLanguage map[string]float64 `json:"responseLengthByNativeLanguage"`
}

// AggregateReport is the full cross-record analysis. It is never persisted as
// state: it is recomputed from a log snapshot on every call, so two calls on
// an unchanged log produce identical reports.
type AggregateReport struct {
	// Error is set instead of the sections when there was nothing to analyze.
	Error string `json:"error,omitempty"`

	Summary             ReportSummary             `json:"summary"`
	CulturalAnalysis    map[string]CultureStats   `json:"culturalAnalysis"`
	Constructs          map[string]ConstructStats `json:"psychologicalConstructs"`
	ResponseQuality     ResponseQualityStats      `json:"responseQuality"`
	BehavioralPatterns  BehavioralPatterns        `json:"behavioralPatterns"`
	FoundationAlignment FoundationAlignmentStats  `json:"foundationAlignment"`
	DemographicInsights DemographicInsights       `json:"demographicInsights"`
	Recommendations     []string                  `json:"recommendations"`
}

// IsError reports whether the analysis ran on an empty dataset.
func (r *AggregateReport) IsError() bool {
	return r.Error != ""
}
