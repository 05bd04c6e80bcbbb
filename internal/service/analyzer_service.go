package service

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"cothink/internal/model"
)

// Recommendation sentences, one pair per threshold check.
const (
	recCoherenceGood = "High response quality suggests simulation is suitable for research use"
	recCoherenceBad  = "Consider improving agent prompts to increase response coherence"
	recDiversityGood = "Good cultural diversity achieved for cross-cultural research"
	recDiversityBad  = "Consider adding more cultural backgrounds for comprehensive diversity"
	recAlignmentGood = "Strong foundation alignment validates theoretical consistency"
	recAlignmentBad  = "Review foundation document integration to improve theoretical alignment"
	recSampleGood    = "Sample size adequate for statistical analysis"
	recSampleBad     = "Consider increasing sample size for more robust statistical analysis"
)

// AnalyzerService computes the aggregate report. It is stateless: every call
// recomputes everything from the log snapshots it is given, so two calls on
// unchanged logs yield identical reports.
type AnalyzerService struct{}

// NewAnalyzerService creates a new analyzer service
func NewAnalyzerService() *AnalyzerService {
	return &AnalyzerService{}
}

// Compute builds the full aggregate report. An empty interaction log yields
// an error-tagged report, never a failure.
func (s *AnalyzerService) Compute(interactions []model.InteractionRecord, surveys []model.SurveyRecord) *model.AggregateReport {
	if len(interactions) == 0 {
		return &model.AggregateReport{Error: "no interaction records to analyze"}
	}

	return &model.AggregateReport{
		Summary:             s.summary(interactions),
		CulturalAnalysis:    s.culturalAnalysis(interactions),
		Constructs:          s.constructAnalysis(interactions),
		ResponseQuality:     s.responseQuality(interactions),
		BehavioralPatterns:  s.behavioralPatterns(interactions),
		FoundationAlignment: s.foundationAlignment(interactions),
		DemographicInsights: s.demographicInsights(interactions),
		Recommendations:     s.recommendations(interactions),
	}
}

func (s *AnalyzerService) summary(records []model.InteractionRecord) model.ReportSummary {
	agents := map[string]struct{}{}
	cultures := map[string]struct{}{}
	scenarioTypes := map[string]struct{}{}
	languages := map[string]struct{}{}

	lengths := make([]float64, 0, len(records))
	minAge, maxAge := records[0].Profile.Age, records[0].Profile.Age
	var coherenceSum, alignSum float64

	for _, r := range records {
		agents[r.AgentID] = struct{}{}
		cultures[r.Profile.CulturalBackground] = struct{}{}
		scenarioTypes[r.ScenarioType] = struct{}{}
		languages[r.Profile.NativeLanguage] = struct{}{}
		lengths = append(lengths, float64(r.ResponseLengthWords))
		coherenceSum += r.Quality.Coherence
		alignSum += r.Quality.FoundationAlignment
		if r.Profile.Age < minAge {
			minAge = r.Profile.Age
		}
		if r.Profile.Age > maxAge {
			maxAge = r.Profile.Age
		}
	}

	n := float64(len(records))
	return model.ReportSummary{
		TotalInteractions:    len(records),
		UniqueAgents:         len(agents),
		AvgResponseLength:    round1(mean(lengths)),
		ResponseLengthStd:    round1(sampleStd(lengths)),
		CulturalDiversity:    len(cultures),
		AgeRange:             [2]int{minAge, maxAge},
		AvgCoherence:         round2(coherenceSum / n),
		AvgFoundationAlign:   round2(alignSum / n),
		ScenarioTypesCovered: sortedKeys(scenarioTypes),
		LanguagesRepresented: sortedKeys(languages),
	}
}

func (s *AnalyzerService) culturalAnalysis(records []model.InteractionRecord) map[string]model.CultureStats {
	analysis := map[string]model.CultureStats{}

	for _, culture := range distinctCultures(records) {
		group := filterByCulture(records, culture)

		var lengthSum, trustSum, authoritySum float64
		var coherenceSum, consistencySum, alignSum float64
		constructCounts := map[string]int{}
		for _, r := range group {
			lengthSum += float64(r.ResponseLengthWords)
			trustSum += r.Behavioral.TrustLevel
			authoritySum += r.Behavioral.AuthorityDeference
			coherenceSum += r.Quality.Coherence
			consistencySum += r.Quality.CulturalConsistency
			alignSum += r.Quality.FoundationAlignment
			for _, c := range r.ConstructsEvident {
				constructCounts[c]++
			}
		}

		n := float64(len(group))
		analysis[culture] = model.CultureStats{
			Participants:          len(group),
			AvgResponseLength:     round1(lengthSum / n),
			AvgTrustLevel:         round2(trustSum / n),
			AvgAuthorityDeference: round2(authoritySum / n),
			CommonConstructs:      topConstructs(constructCounts, 3),
			ResponseQuality: model.QualityScores{
				Coherence:           round2(coherenceSum / n),
				CulturalConsistency: round2(consistencySum / n),
				FoundationAlignment: round2(alignSum / n),
			},
		}
	}

	return analysis
}

func (s *AnalyzerService) constructAnalysis(records []model.InteractionRecord) map[string]model.ConstructStats {
	analysis := map[string]model.ConstructStats{}

	for _, construct := range ConstructNames() {
		var matched []model.InteractionRecord
		for _, r := range records {
			for _, c := range r.ConstructsEvident {
				if c == construct {
					matched = append(matched, r)
					break
				}
			}
		}
		if len(matched) == 0 {
			continue
		}

		distribution := map[string]int{}
		var coherenceSum, alignSum float64
		for _, r := range matched {
			distribution[r.Profile.CulturalBackground]++
			coherenceSum += r.Quality.Coherence
			alignSum += r.Quality.FoundationAlignment
		}

		n := float64(len(matched))
		analysis[construct] = model.ConstructStats{
			Frequency:            len(matched),
			Percentage:           round1(n / float64(len(records)) * 100),
			CulturalDistribution: distribution,
			AvgCoherence:         round2(coherenceSum / n),
			AvgFoundationAlign:   round2(alignSum / n),
		}
	}

	return analysis
}

func (s *AnalyzerService) responseQuality(records []model.InteractionRecord) model.ResponseQualityStats {
	coherences := make([]float64, 0, len(records))
	alignments := make([]float64, 0, len(records))
	high, low := 0, 0
	for _, r := range records {
		coherences = append(coherences, r.Quality.Coherence)
		alignments = append(alignments, r.Quality.FoundationAlignment)
		if r.Quality.Coherence > 0.8 {
			high++
		}
		if r.Quality.Coherence < 0.5 {
			low++
		}
	}

	byCulture := map[string]model.QualityScores{}
	for _, culture := range distinctCultures(records) {
		group := filterByCulture(records, culture)
		var coherenceSum, consistencySum, alignSum float64
		for _, r := range group {
			coherenceSum += r.Quality.Coherence
			consistencySum += r.Quality.CulturalConsistency
			alignSum += r.Quality.FoundationAlignment
		}
		n := float64(len(group))
		byCulture[culture] = model.QualityScores{
			Coherence:           round2(coherenceSum / n),
			CulturalConsistency: round2(consistencySum / n),
			FoundationAlignment: round2(alignSum / n),
		}
	}

	return model.ResponseQualityStats{
		CoherenceDistribution: distribution(coherences),
		AlignmentDistribution: distribution(alignments),
		QualityByCulture:      byCulture,
		HighQualityResponses:  high,
		LowQualityResponses:   low,
	}
}

func (s *AnalyzerService) behavioralPatterns(records []model.InteractionRecord) model.BehavioralPatterns {
	return model.BehavioralPatterns{
		TrustByCulture: groupedMean(records,
			func(r model.InteractionRecord) string { return r.Profile.CulturalBackground },
			func(r model.InteractionRecord) float64 { return r.Behavioral.TrustLevel }),
		TrustByAgeGroup: groupedMean(records,
			func(r model.InteractionRecord) string { return ageGroup(r.Profile.Age) },
			func(r model.InteractionRecord) float64 { return r.Behavioral.TrustLevel }),
		HelpSeekingByCulture: groupedMean(records,
			func(r model.InteractionRecord) string { return r.Profile.CulturalBackground },
			func(r model.InteractionRecord) float64 { return r.Behavioral.HelpSeekingTendency }),
		HelpSeekingByMood: groupedMean(records,
			func(r model.InteractionRecord) string { return r.Profile.EmotionalState },
			func(r model.InteractionRecord) float64 { return r.Behavioral.HelpSeekingTendency }),
		AuthorityByCulture: groupedMean(records,
			func(r model.InteractionRecord) string { return r.Profile.CulturalBackground },
			func(r model.InteractionRecord) float64 { return r.Behavioral.AuthorityDeference }),
		AuthorityBySES: groupedMean(records,
			func(r model.InteractionRecord) string { return r.Profile.SocioeconomicStatus },
			func(r model.InteractionRecord) float64 { return r.Behavioral.AuthorityDeference }),
	}
}

func (s *AnalyzerService) foundationAlignment(records []model.InteractionRecord) model.FoundationAlignmentStats {
	alignments := make([]float64, 0, len(records))
	trusts := make([]float64, 0, len(records))
	coherences := make([]float64, 0, len(records))
	high, low := 0, 0
	for _, r := range records {
		alignments = append(alignments, r.Quality.FoundationAlignment)
		trusts = append(trusts, r.Behavioral.TrustLevel)
		coherences = append(coherences, r.Quality.Coherence)
		if r.Quality.FoundationAlignment > 0.8 {
			high++
		}
		if r.Quality.FoundationAlignment < 0.5 {
			low++
		}
	}

	byCulture := groupedMean(records,
		func(r model.InteractionRecord) string { return r.Profile.CulturalBackground },
		func(r model.InteractionRecord) float64 { return r.Quality.FoundationAlignment })
	byScenario := groupedMean(records,
		func(r model.InteractionRecord) string { return r.ScenarioType },
		func(r model.InteractionRecord) float64 { return r.Quality.FoundationAlignment })

	stdByCulture := groupedStd(records,
		func(r model.InteractionRecord) string { return r.Profile.CulturalBackground },
		func(r model.InteractionRecord) float64 { return r.Quality.FoundationAlignment })

	return model.FoundationAlignmentStats{
		OverallAlignment:    round2(mean(alignments)),
		AlignmentByCulture:  byCulture,
		AlignmentByScenario: byScenario,
		HighAlignmentCases:  high,
		LowAlignmentCases:   low,
		Trends: model.AlignmentTrends{
			CorrelationWithTrust:     round2(pearson(alignments, trusts)),
			CorrelationWithCoherence: round2(pearson(alignments, coherences)),
			BestAlignedCulture:       argMax(byCulture),
			MostVariableCulture:      argMax(stdByCulture),
		},
	}
}

func (s *AnalyzerService) demographicInsights(records []model.InteractionRecord) model.DemographicInsights {
	return model.DemographicInsights{
		ResponseLengthByAge: groupedMean(records,
			func(r model.InteractionRecord) string { return ageGroup(r.Profile.Age) },
			func(r model.InteractionRecord) float64 { return float64(r.ResponseLengthWords) }),
		TrustByAge: groupedMean(records,
			func(r model.InteractionRecord) string { return ageGroup(r.Profile.Age) },
			func(r model.InteractionRecord) float64 { return r.Behavioral.TrustLevel }),
		ResponseLengthByGender: groupedMean(records,
			func(r model.InteractionRecord) string { return r.Profile.Gender },
			func(r model.InteractionRecord) float64 { return float64(r.ResponseLengthWords) }),
		HelpSeekingByGender: groupedMean(records,
			func(r model.InteractionRecord) string { return r.Profile.Gender },
			func(r model.InteractionRecord) float64 { return r.Behavioral.HelpSeekingTendency }),
		CoherenceByProficiency: groupedMean(records,
			func(r model.InteractionRecord) string { return r.Profile.EnglishProficiency },
			func(r model.InteractionRecord) float64 { return r.Quality.Coherence }),
		ResponseLengthByLanguage: groupedMean(records,
			func(r model.InteractionRecord) string { return r.Profile.NativeLanguage },
			func(r model.InteractionRecord) float64 { return float64(r.ResponseLengthWords) }),
	}
}

func (s *AnalyzerService) recommendations(records []model.InteractionRecord) []string {
	var coherenceSum, alignSum float64
	cultures := map[string]struct{}{}
	for _, r := range records {
		coherenceSum += r.Quality.Coherence
		alignSum += r.Quality.FoundationAlignment
		cultures[r.Profile.CulturalBackground] = struct{}{}
	}
	n := float64(len(records))

	recommendations := make([]string, 0, 4)
	if coherenceSum/n > 0.7 {
		recommendations = append(recommendations, recCoherenceGood)
	} else {
		recommendations = append(recommendations, recCoherenceBad)
	}
	if len(cultures) >= 4 {
		recommendations = append(recommendations, recDiversityGood)
	} else {
		recommendations = append(recommendations, recDiversityBad)
	}
	if alignSum/n > 0.6 {
		recommendations = append(recommendations, recAlignmentGood)
	} else {
		recommendations = append(recommendations, recAlignmentBad)
	}
	if len(records) > 100 {
		recommendations = append(recommendations, recSampleGood)
	} else {
		recommendations = append(recommendations, recSampleBad)
	}
	return recommendations
}

// ageGroup buckets an age into the fixed research age ranges.
func ageGroup(age int) string {
	switch {
	case age < 18:
		return "Under 18"
	case age <= 25:
		return "18-25"
	case age <= 35:
		return "26-35"
	case age <= 50:
		return "36-50"
	default:
		return "Over 50"
	}
}

func distinctCultures(records []model.InteractionRecord) []string {
	seen := map[string]struct{}{}
	for _, r := range records {
		if r.Profile.CulturalBackground != "" {
			seen[r.Profile.CulturalBackground] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func filterByCulture(records []model.InteractionRecord, culture string) []model.InteractionRecord {
	var out []model.InteractionRecord
	for _, r := range records {
		if r.Profile.CulturalBackground == culture {
			out = append(out, r)
		}
	}
	return out
}

// topConstructs returns the n most frequent constructs, ties broken
// alphabetically.
func topConstructs(counts map[string]int, n int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	if names == nil {
		names = []string{}
	}
	return names
}

// groupedMean computes per-group means, rounded to two decimals.
func groupedMean(records []model.InteractionRecord, key func(model.InteractionRecord) string, val func(model.InteractionRecord) float64) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range records {
		k := key(r)
		sums[k] += val(r)
		counts[k]++
	}
	out := make(map[string]float64, len(sums))
	for k, sum := range sums {
		out[k] = round2(sum / float64(counts[k]))
	}
	return out
}

// groupedStd computes per-group sample standard deviations.
func groupedStd(records []model.InteractionRecord, key func(model.InteractionRecord) string, val func(model.InteractionRecord) float64) map[string]float64 {
	groups := map[string][]float64{}
	for _, r := range records {
		k := key(r)
		groups[k] = append(groups[k], val(r))
	}
	out := make(map[string]float64, len(groups))
	for k, vals := range groups {
		out[k] = round2(sampleStd(vals))
	}
	return out
}

// argMax returns the key with the greatest value, ties broken alphabetically.
func argMax(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := ""
	bestVal := math.Inf(-1)
	for _, k := range keys {
		if m[k] > bestVal {
			best, bestVal = k, m[k]
		}
	}
	return best
}

func distribution(values []float64) model.Distribution {
	if len(values) == 0 {
		return model.Distribution{}
	}
	minV, _ := stats.Min(values)
	maxV, _ := stats.Max(values)
	return model.Distribution{
		Mean: round2(mean(values)),
		Std:  round2(sampleStd(values)),
		Min:  round2(minV),
		Max:  round2(maxV),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(values)
	if err != nil {
		return 0
	}
	return sd
}

func pearson(a, b []float64) float64 {
	r, err := stats.Pearson(a, b)
	if err != nil || math.IsNaN(r) {
		return 0
	}
	return r
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
