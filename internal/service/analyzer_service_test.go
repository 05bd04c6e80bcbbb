package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cothink/internal/model"
)

func makeRecord(agentID, culture string, age int, coherence, alignment, trust float64) model.InteractionRecord {
	return model.InteractionRecord{
		Timestamp:           time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		AgentID:             agentID,
		InteractionType:     "scenario",
		ScenarioType:        "cognitive_partnership",
		ResponseLengthWords: 40,
		Profile: model.ProfileSnapshot{
			CulturalBackground: culture,
			Age:                age,
			Gender:             "female",
			NativeLanguage:     "English",
			EnglishProficiency: "advanced",
		},
		Behavioral: model.BehavioralSnapshot{TrustLevel: trust},
		Quality: model.QualityScores{
			Coherence:           coherence,
			FoundationAlignment: alignment,
		},
		QuestionTypes:      []string{},
		ResponseCategories: []string{"neutral"},
		ConstructsEvident:  []string{"trust_calibration"},
	}
}

func TestComputeEmptyLog(t *testing.T) {
	a := NewAnalyzerService()

	report := a.Compute(nil, nil)
	require.True(t, report.IsError())
	assert.Equal(t, "no interaction records to analyze", report.Error)
	assert.Empty(t, report.Recommendations)
}

func TestComputeIsDeterministic(t *testing.T) {
	a := NewAnalyzerService()

	records := []model.InteractionRecord{
		makeRecord("a1", "individualistic", 20, 0.8, 0.6, 0.7),
		makeRecord("a2", "collectivistic", 30, 0.6, 0.4, 0.5),
		makeRecord("a3", "balanced", 45, 0.7, 0.5, 0.6),
	}

	first := a.Compute(records, nil)
	second := a.Compute(records, nil)
	assert.Equal(t, first, second)
}

func TestComputeSummary(t *testing.T) {
	a := NewAnalyzerService()

	records := []model.InteractionRecord{
		makeRecord("a1", "individualistic", 19, 0.8, 0.6, 0.7),
		makeRecord("a1", "individualistic", 19, 0.6, 0.4, 0.7),
		makeRecord("a2", "collectivistic", 52, 0.7, 0.5, 0.5),
	}

	report := a.Compute(records, nil)
	require.False(t, report.IsError())

	assert.Equal(t, 3, report.Summary.TotalInteractions)
	assert.Equal(t, 2, report.Summary.UniqueAgents)
	assert.Equal(t, 2, report.Summary.CulturalDiversity)
	assert.Equal(t, [2]int{19, 52}, report.Summary.AgeRange)
	assert.InDelta(t, 0.7, report.Summary.AvgCoherence, 0.001)
	assert.InDelta(t, 0.5, report.Summary.AvgFoundationAlign, 0.001)
	assert.Equal(t, []string{"cognitive_partnership"}, report.Summary.ScenarioTypesCovered)
}

func TestComputeConstructAnalysis(t *testing.T) {
	a := NewAnalyzerService()

	records := []model.InteractionRecord{
		makeRecord("a1", "individualistic", 20, 0.8, 0.6, 0.7),
		makeRecord("a2", "collectivistic", 30, 0.6, 0.4, 0.5),
	}
	records[1].ConstructsEvident = []string{}

	report := a.Compute(records, nil)

	stats, ok := report.Constructs["trust_calibration"]
	require.True(t, ok)
	assert.Equal(t, 1, stats.Frequency)
	assert.InDelta(t, 50.0, stats.Percentage, 0.001)
	assert.Equal(t, map[string]int{"individualistic": 1}, stats.CulturalDistribution)

	// Constructs never evidenced are omitted entirely.
	_, ok = report.Constructs["cognitive_load_management"]
	assert.False(t, ok)
}

func TestRecommendationThresholds(t *testing.T) {
	a := NewAnalyzerService()

	t.Run("all thresholds met", func(t *testing.T) {
		cultures := []string{"individualistic", "collectivistic", "balanced", "communal"}
		records := make([]model.InteractionRecord, 0, 120)
		for i := 0; i < 120; i++ {
			agentID := fmt.Sprintf("agent_%03d", i)
			records = append(records, makeRecord(agentID, cultures[i%len(cultures)], 20+i%30, 0.85, 0.75, 0.6))
		}

		report := a.Compute(records, nil)
		assert.Equal(t, []string{
			recCoherenceGood,
			recDiversityGood,
			recAlignmentGood,
			recSampleGood,
		}, report.Recommendations)
	})

	t.Run("no thresholds met", func(t *testing.T) {
		records := []model.InteractionRecord{
			makeRecord("a1", "individualistic", 20, 0.4, 0.3, 0.5),
		}

		report := a.Compute(records, nil)
		assert.Equal(t, []string{
			recCoherenceBad,
			recDiversityBad,
			recAlignmentBad,
			recSampleBad,
		}, report.Recommendations)
	})
}

func TestAgeGroupBuckets(t *testing.T) {
	assert.Equal(t, "Under 18", ageGroup(17))
	assert.Equal(t, "18-25", ageGroup(18))
	assert.Equal(t, "18-25", ageGroup(25))
	assert.Equal(t, "26-35", ageGroup(35))
	assert.Equal(t, "36-50", ageGroup(50))
	assert.Equal(t, "Over 50", ageGroup(51))
}

func TestArgMaxBreaksTiesAlphabetically(t *testing.T) {
	assert.Equal(t, "alpha", argMax(map[string]float64{"beta": 0.5, "alpha": 0.5}))
	assert.Equal(t, "beta", argMax(map[string]float64{"beta": 0.9, "alpha": 0.5}))
	assert.Equal(t, "", argMax(nil))
}

func TestStatisticsHelpers(t *testing.T) {
	t.Run("sample std needs two values", func(t *testing.T) {
		assert.Zero(t, sampleStd([]float64{1.0}))
		assert.InDelta(t, 1.0, sampleStd([]float64{1, 2, 3}), 0.0001)
	})

	t.Run("pearson degrades to zero", func(t *testing.T) {
		// Constant input has no defined correlation.
		assert.Zero(t, pearson([]float64{1, 1, 1}, []float64{1, 2, 3}))
		assert.InDelta(t, 1.0, pearson([]float64{1, 2, 3}, []float64{2, 4, 6}), 0.0001)
	})
}

func TestFoundationAlignmentTrends(t *testing.T) {
	a := NewAnalyzerService()

	records := []model.InteractionRecord{
		makeRecord("a1", "individualistic", 20, 0.8, 0.9, 0.7),
		makeRecord("a2", "collectivistic", 30, 0.6, 0.3, 0.5),
		makeRecord("a3", "collectivistic", 30, 0.6, 0.5, 0.5),
	}

	report := a.Compute(records, nil)

	assert.Equal(t, "individualistic", report.FoundationAlignment.Trends.BestAlignedCulture)
	assert.Equal(t, "collectivistic", report.FoundationAlignment.Trends.MostVariableCulture)
	assert.Equal(t, 1, report.FoundationAlignment.HighAlignmentCases)
	assert.Equal(t, 1, report.FoundationAlignment.LowAlignmentCases)
}
