package service

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"cothink/internal/model"
	"cothink/internal/repository"
)

// Survey parsing patterns.
var (
	likertRe    = regexp.MustCompile(`(?i)(?:Question\s*)?(\d+)[:.]\s*.*?(?:Scale|Rating)[:\s]*(\d+)`)
	reasoningRe = regexp.MustCompile(`(?i)(?:because|reason|explanation)[:\s]+(.*)`)

	substantialConnectiveRe = regexp.MustCompile(`(?i)\b(because|since|therefore|however|although)\b`)
	firstPersonRe           = regexp.MustCompile(`\b(I|my|me)\b`)
	digitRe                 = regexp.MustCompile(`\b\d+\b`)
	whWordRe                = regexp.MustCompile(`(?i)\b(when|where|how|why)\b`)
	exampleCueRe            = regexp.MustCompile(`(?i)\b(example|instance|specifically)\b`)

	familyKeywordRe    = regexp.MustCompile(`(?i)\b(family|community|tradition|culture)\b`)
	authorityKeywordRe = regexp.MustCompile(`(?i)\b(teacher|authority|respect|hierarchy)\b`)
	groupKeywordRe     = regexp.MustCompile(`(?i)\b(individual|group|collective|together)\b`)
)

// Theme vocabulary for survey responses: theme name to keyword substrings.
var surveyThemes = []struct {
	name     string
	keywords []string
}{
	{"trust", []string{"trust", "reliable", "dependable", "confidence"}},
	{"collaboration", []string{"collaborate", "work together", "partnership", "teamwork"}},
	{"control", []string{"control", "agency", "autonomy", "decision"}},
	{"learning", []string{"learn", "understand", "knowledge", "education"}},
	{"uncertainty", []string{"unsure", "uncertain", "doubt", "confused"}},
	{"efficiency", []string{"faster", "efficient", "quick", "time-saving"}},
	{"creativity", []string{"creative", "innovative", "original", "new ideas"}},
	{"cultural", []string{"culture", "tradition", "family", "community"}},
}

// SurveyRecorderService parses survey response batches into structured
// records and owns the append-only survey log.
type SurveyRecorderService struct {
	logger *slog.Logger

	mu      sync.Mutex
	records []model.SurveyRecord

	archive repository.SurveyRepo
}

// NewSurveyRecorderService creates a new survey recorder service
func NewSurveyRecorderService() *SurveyRecorderService {
	return &SurveyRecorderService{
		logger: slog.Default().With(slog.String("component", "survey-recorder")),
	}
}

// SetArchive enables best-effort persistence of each survey record.
func (s *SurveyRecorderService) SetArchive(repo repository.SurveyRepo) {
	s.archive = repo
}

// RecordSurvey parses one survey batch and appends it to the log.
func (s *SurveyRecorderService) RecordSurvey(ctx context.Context, agentID string, payload model.SurveyPayload) model.SurveyRecord {
	raw := payload.SurveyResponses

	ts := payload.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	surveyType := payload.SurveyType
	if surveyType == "" {
		surveyType = "general"
	}

	rec := model.SurveyRecord{
		Timestamp:      ts,
		AgentID:        agentID,
		SurveyType:     surveyType,
		RawResponses:   raw,
		ProfileContext: payload.ProfileContext,
		Ratings:        parseRatings(raw),
		Reasonings:     extractReasonings(raw),
		KeyThemes:      extractThemes(raw),
		Quality:        assessSurveyQuality(raw),
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	if s.archive != nil {
		if err := s.archive.Insert(ctx, &rec); err != nil {
			s.logger.Warn("survey archival failed", "agentId", agentID, "error", err)
		}
	}

	return rec
}

// Snapshot returns a copy of the survey log in insertion order.
func (s *SurveyRecorderService) Snapshot() []model.SurveyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SurveyRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Count returns the number of recorded surveys.
func (s *SurveyRecorderService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// parseRatings extracts "Question N ... Scale/Rating: R" pairs.
func parseRatings(raw string) map[int]int {
	ratings := map[int]int{}
	for _, m := range likertRe.FindAllStringSubmatch(raw, -1) {
		q, err1 := strconv.Atoi(m[1])
		r, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			ratings[q] = r
		}
	}
	return ratings
}

// extractReasonings collects the fragments following reasoning cue words,
// one per line.
func extractReasonings(raw string) []string {
	reasonings := []string{}
	for _, line := range strings.Split(raw, "\n") {
		if m := reasoningRe.FindStringSubmatch(line); m != nil {
			if frag := strings.TrimSpace(m[1]); frag != "" {
				reasonings = append(reasonings, frag)
			}
		}
	}
	return reasonings
}

// extractThemes matches the response against the fixed theme vocabulary.
func extractThemes(raw string) []string {
	lower := strings.ToLower(raw)

	themes := []string{}
	for _, theme := range surveyThemes {
		for _, kw := range theme.keywords {
			if strings.Contains(lower, kw) {
				themes = append(themes, theme.name)
				break
			}
		}
	}
	return themes
}

// assessSurveyQuality computes the four capped quality sub-scores.
func assessSurveyQuality(raw string) model.SurveyQuality {
	return model.SurveyQuality{
		Completeness:      math.Min(1.0, float64(len(strings.Fields(raw)))/50),
		Coherence:         surveyCoherence(raw),
		Specificity:       surveySpecificity(raw),
		CulturalRelevance: surveyCulturalRelevance(raw),
	}
}

func surveyCoherence(raw string) float64 {
	sents := strings.Split(raw, ".")
	if len(sents) < 2 {
		return 0.5
	}

	substantial := 0
	for _, sent := range sents {
		if len(strings.Fields(sent)) > 3 {
			substantial++
		}
	}
	connectives := len(substantialConnectiveRe.FindAllString(raw, -1))
	personal := 0
	if firstPersonRe.MatchString(raw) {
		personal = 1
	}

	return math.Min(1.0, float64(substantial+connectives+personal)/10)
}

func surveySpecificity(raw string) float64 {
	indicators := len(digitRe.FindAllString(raw, -1)) +
		len(whWordRe.FindAllString(raw, -1)) +
		len(exampleCueRe.FindAllString(raw, -1))
	return math.Min(1.0, float64(indicators)/5)
}

func surveyCulturalRelevance(raw string) float64 {
	indicators := len(familyKeywordRe.FindAllString(raw, -1)) +
		len(authorityKeywordRe.FindAllString(raw, -1)) +
		len(groupKeywordRe.FindAllString(raw, -1))
	return math.Min(1.0, float64(indicators)/3)
}
