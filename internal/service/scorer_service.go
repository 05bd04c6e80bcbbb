package service

import (
	"math"
	"strings"

	"cothink/internal/model"
)

// contextFactor is the fixed question-answer alignment factor in the
// coherence score. It is an unmeasured placeholder: replacing it with a
// computed value shifts every recorded coherence score and breaks
// comparability across runs.
const contextFactor = 0.8

// ScorerService scores a single response text against a profile snapshot.
// It is a pure function over (text, profile): no state, no I/O.
type ScorerService struct{}

// NewScorerService creates a new scorer service
func NewScorerService() *ScorerService {
	return &ScorerService{}
}

// Score analyzes one response. Empty or whitespace-only text yields all-zero
// scores and the single category "empty".
func (s *ScorerService) Score(text string, profile map[string]any) *model.ResponseAnalysis {
	if strings.TrimSpace(text) == "" {
		return emptyAnalysis()
	}

	return &model.ResponseAnalysis{
		Coherence:           s.coherence(text),
		CulturalConsistency: s.culturalConsistency(text, profile),
		FoundationAlignment: s.foundationAlignment(text),
		QuestionTypes:       s.questionTypes(text),
		ResponseCategories:  s.responseCategories(text),
		ConstructsEvident:   s.constructsEvident(text),
		Linguistic:          s.linguisticFeatures(text, profile),
		EmotionalIndicators: s.emotionalIndicators(text),
		Complexity:          s.complexity(text),
	}
}

func emptyAnalysis() *model.ResponseAnalysis {
	return &model.ResponseAnalysis{
		QuestionTypes:       []string{},
		ResponseCategories:  []string{"empty"},
		ConstructsEvident:   []string{},
		EmotionalIndicators: []string{},
	}
}

// neutralAnalysis is the fallback bundle substituted when scoring fails:
// every numeric score 0.5, every tag set empty.
func neutralAnalysis() *model.ResponseAnalysis {
	return &model.ResponseAnalysis{
		Coherence:           0.5,
		CulturalConsistency: 0.5,
		FoundationAlignment: 0.5,
		QuestionTypes:       []string{},
		ResponseCategories:  []string{},
		ConstructsEvident:   []string{},
		EmotionalIndicators: []string{},
		Complexity:          0.5,
	}
}

// sentences splits on '.' and drops empty fragments.
func sentences(text string) []string {
	parts := strings.Split(text, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// coherence is the mean of four factors: substantial-sentence fraction,
// capped connective count, capped first-person epistemic phrase count, and
// the fixed contextFactor.
func (s *ScorerService) coherence(text string) float64 {
	sents := sentences(text)
	if len(sents) == 0 {
		return 0.0
	}

	substantial := 0
	for _, sent := range sents {
		if len(strings.Fields(sent)) > 4 {
			substantial++
		}
	}
	structure := float64(substantial) / float64(len(sents))

	connectives := float64(len(connectiveRe.FindAllString(text, -1)))
	logical := math.Min(1.0, connectives/5)

	personal := float64(len(personalRe.FindAllString(text, -1)))
	engagement := math.Min(1.0, personal/3)

	return (structure + logical + engagement + contextFactor) / 4
}

// culturalConsistency matches the response's pronoun usage against the
// profile's stated cultural orientation.
func (s *ScorerService) culturalConsistency(text string, profile map[string]any) float64 {
	culture := strings.ToLower(getString(profile, "culture"))
	lower := strings.ToLower(text)

	for _, rule := range cultureRules {
		if strings.Contains(culture, rule.label) {
			count := float64(len(rule.markers.FindAllString(lower, -1)))
			return math.Min(1.0, count/rule.divisor)
		}
	}

	if strings.Contains(culture, "balanced") {
		individual := len(balancedIndividualRe.FindAllString(lower, -1))
		collective := len(balancedCollectiveRe.FindAllString(lower, -1))
		diff := math.Abs(float64(individual - collective))
		return 1.0 - diff/math.Max(1, float64(individual+collective))
	}

	return unknownCultureScore
}

// foundationAlignment averages, across the value frameworks, the fraction of
// each framework's terms present in the response.
func (s *ScorerService) foundationAlignment(text string) float64 {
	lower := strings.ToLower(text)

	total := 0.0
	for _, fw := range foundationFrameworks {
		matches := 0
		for _, term := range fw.terms {
			if strings.Contains(lower, term) {
				matches++
			}
		}
		total += math.Min(1.0, float64(matches)/float64(len(fw.terms)))
	}
	return total / float64(len(foundationFrameworks))
}

func (s *ScorerService) questionTypes(text string) []string {
	types := []string{}
	for _, rule := range questionTypeRules {
		if rule.pattern.MatchString(text) {
			types = append(types, rule.label)
		}
	}
	return types
}

func (s *ScorerService) responseCategories(text string) []string {
	lower := strings.ToLower(text)

	categories := []string{}
	for _, rule := range categoryRules {
		if len(rule.pattern.FindAllString(lower, -1)) >= rule.minCount {
			categories = append(categories, rule.label)
		}
	}
	if len(categories) == 0 {
		categories = append(categories, neutralCategory)
	}
	return categories
}

func (s *ScorerService) constructsEvident(text string) []string {
	lower := strings.ToLower(text)

	constructs := []string{}
	for _, rule := range constructRules {
		for _, indicator := range rule.indicators {
			if strings.Contains(lower, indicator) {
				constructs = append(constructs, rule.name)
				break
			}
		}
	}
	return constructs
}

func (s *ScorerService) linguisticFeatures(text string, profile map[string]any) model.LinguisticFeatures {
	words := strings.Fields(text)
	sents := sentences(text)

	complexWords := 0
	for _, w := range words {
		if len(w) > 6 {
			complexWords++
		}
	}

	return model.LinguisticFeatures{
		WordCount:              len(words),
		SentenceCount:          len(sents),
		AvgSentenceLength:      float64(len(words)) / math.Max(1, float64(len(sents))),
		ComplexWords:           complexWords,
		QuestionCount:          strings.Count(text, "?"),
		ExclamationCount:       strings.Count(text, "!"),
		ProficiencyConsistency: s.proficiencyConsistency(text, profile),
	}
}

// proficiencyConsistency compares the actual complex-word ratio against the
// ratio expected for the profile's stated English proficiency.
func (s *ScorerService) proficiencyConsistency(text string, profile map[string]any) float64 {
	words := strings.Fields(text)
	complexWords := 0
	for _, w := range words {
		if len(w) > 6 {
			complexWords++
		}
	}
	actual := float64(complexWords) / math.Max(1, float64(len(words)))

	proficiency := strings.ToLower(getString(profile, "english_proficiency"))
	expected, ok := expectedComplexity[proficiency]
	if !ok {
		expected = defaultExpectedComplexity
	}

	consistency := 1.0 - math.Abs(actual-expected)/math.Max(expected, 0.1)
	return clamp01(consistency)
}

func (s *ScorerService) emotionalIndicators(text string) []string {
	lower := strings.ToLower(text)

	emotions := []string{}
	for _, rule := range emotionRules {
		for _, indicator := range rule.indicators {
			if strings.Contains(lower, indicator) {
				emotions = append(emotions, rule.name)
				break
			}
		}
	}
	return emotions
}

// complexity is the mean of lexical diversity, normalized sentence length,
// and capped complex-structure count.
func (s *ScorerService) complexity(text string) float64 {
	words := strings.Fields(text)
	sents := sentences(text)

	unique := map[string]struct{}{}
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	lexical := float64(len(unique)) / math.Max(1, float64(len(words)))

	avgLen := float64(len(words)) / math.Max(1, float64(len(sents)))
	syntactic := math.Min(1.0, avgLen/15)

	structures := float64(len(complexStructureRe.FindAllString(text, -1)))
	semantic := math.Min(1.0, structures/3)

	return (lexical + syntactic + semantic) / 3
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

// getString reads a string field from a loosely-typed profile map.
func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
