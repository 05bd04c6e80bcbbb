package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreEmptyText(t *testing.T) {
	s := NewScorerService()

	for _, text := range []string{"", "   ", "\n\t"} {
		analysis := s.Score(text, nil)
		require.NotNil(t, analysis)
		assert.Zero(t, analysis.Coherence)
		assert.Zero(t, analysis.CulturalConsistency)
		assert.Zero(t, analysis.FoundationAlignment)
		assert.Zero(t, analysis.Complexity)
		assert.Equal(t, []string{"empty"}, analysis.ResponseCategories)
		assert.NotNil(t, analysis.QuestionTypes)
		assert.Empty(t, analysis.QuestionTypes)
		assert.NotNil(t, analysis.ConstructsEvident)
		assert.Empty(t, analysis.ConstructsEvident)
	}
}

func TestCoherenceWorkedExample(t *testing.T) {
	s := NewScorerService()

	// One substantial sentence of three, one connective, three personal
	// phrases: (1/3 + 0.2 + 1.0 + 0.8) / 4.
	text := "I think this is correct. I believe it works. However, I would verify."
	analysis := s.Score(text, nil)

	assert.InDelta(t, 0.5833, analysis.Coherence, 0.0001)
}

func TestCulturalConsistency(t *testing.T) {
	s := NewScorerService()

	tests := []struct {
		name    string
		culture string
		text    string
		want    float64
	}{
		{
			name:    "individualistic counts individual markers over eight",
			culture: "individualistic",
			text:    "I personally made my own plan myself.",
			want:    0.5, // i, personally, my, myself
		},
		{
			name:    "collectivistic counts collective markers over six",
			culture: "collectivistic",
			text:    "We worked together with our community.",
			want:    4.0 / 6.0,
		},
		{
			name:    "balanced rewards even marker usage",
			culture: "balanced",
			text:    "I shape my plan. We trust our team.",
			want:    1.0,
		},
		{
			name:    "unknown culture gets the fixed default",
			culture: "hierarchical",
			text:    "Whatever the teacher says goes.",
			want:    unknownCultureScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := s.Score(tt.text, map[string]any{"culture": tt.culture})
			assert.InDelta(t, tt.want, analysis.CulturalConsistency, 0.0001)
		})
	}
}

func TestFoundationAlignment(t *testing.T) {
	s := NewScorerService()

	// Two of six mollick terms, none from the other frameworks.
	analysis := s.Score("I trust my partner.", nil)
	assert.InDelta(t, (2.0/6.0)/3.0, analysis.FoundationAlignment, 0.0001)

	none := s.Score("The weather is nice today.", nil)
	assert.Zero(t, none.FoundationAlignment)
}

func TestQuestionTypes(t *testing.T) {
	s := NewScorerService()

	analysis := s.Score("Could you explain what this means?", nil)
	assert.ElementsMatch(t,
		[]string{"factual_question", "request_for_help", "clarification_request"},
		analysis.QuestionTypes)

	plain := s.Score("The answer is four.", nil)
	assert.Empty(t, plain.QuestionTypes)
}

func TestResponseCategories(t *testing.T) {
	s := NewScorerService()

	t.Run("appreciative", func(t *testing.T) {
		analysis := s.Score("Thank you, that was helpful.", nil)
		assert.Contains(t, analysis.ResponseCategories, "appreciative")
	})

	t.Run("procedural needs two sequencing words", func(t *testing.T) {
		one := s.Score("First outline the essay.", nil)
		assert.NotContains(t, one.ResponseCategories, "procedural")

		two := s.Score("First outline the essay, then draft it.", nil)
		assert.Contains(t, two.ResponseCategories, "procedural")
	})

	t.Run("neutral fallback", func(t *testing.T) {
		analysis := s.Score("The sun rose over quiet hills.", nil)
		assert.Equal(t, []string{"neutral"}, analysis.ResponseCategories)
	})
}

func TestConstructsEvident(t *testing.T) {
	s := NewScorerService()

	analysis := s.Score("I trust the tool and we can collaborate on the outline.", nil)
	assert.Contains(t, analysis.ConstructsEvident, "trust_calibration")
	assert.Contains(t, analysis.ConstructsEvident, "cognitive_partnership")
	assert.NotContains(t, analysis.ConstructsEvident, "agency_distribution")
}

func TestEmotionalIndicators(t *testing.T) {
	s := NewScorerService()

	analysis := s.Score("I am excited to start but worried about the deadline.", nil)
	assert.ElementsMatch(t, []string{"excitement", "anxiety"}, analysis.EmotionalIndicators)
}

func TestProficiencyConsistency(t *testing.T) {
	s := NewScorerService()

	// No complex words against a beginner expectation of 0.05:
	// 1 - 0.05/0.1 = 0.5.
	analysis := s.Score("the cat sat on the mat", map[string]any{"english_proficiency": "beginner"})
	assert.InDelta(t, 0.5, analysis.Linguistic.ProficiencyConsistency, 0.0001)
}

func TestLinguisticFeatures(t *testing.T) {
	s := NewScorerService()

	analysis := s.Score("What happens next? This is wonderful!", nil)
	assert.Equal(t, 6, analysis.Linguistic.WordCount)
	assert.Equal(t, 1, analysis.Linguistic.QuestionCount)
	assert.Equal(t, 1, analysis.Linguistic.ExclamationCount)
}

func TestScoresStayInRange(t *testing.T) {
	s := NewScorerService()

	texts := append([]string{
		"Because we collaborate, I trust the process. However, I verify each step myself.",
		"help",
		"Although the interface is overwhelming, I think I can manage it. What if we split the task? First you draft, then I review, and finally we merge.",
	}, mockResponses...)

	profiles := []map[string]any{
		nil,
		{"culture": "collectivistic", "english_proficiency": "advanced"},
		{"culture": "individualistic", "english_proficiency": "native"},
	}

	for _, text := range texts {
		for _, profile := range profiles {
			analysis := s.Score(text, profile)
			scores := []float64{
				analysis.Coherence,
				analysis.CulturalConsistency,
				analysis.FoundationAlignment,
				analysis.Complexity,
				analysis.Linguistic.ProficiencyConsistency,
			}
			for i, v := range scores {
				assert.GreaterOrEqual(t, v, 0.0, "score %d for %q", i, text)
				assert.LessOrEqual(t, v, 1.0, "score %d for %q", i, text)
			}
		}
	}
}
