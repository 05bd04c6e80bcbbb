package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"cothink/internal/model"
	"cothink/internal/repository"
)

// ErrNoRecords is returned when statistics are requested before any
// interaction has been recorded.
var ErrNoRecords = errors.New("no interaction records collected yet")

// RecorderService builds immutable interaction records and owns the
// append-only interaction log. Recording never fails: malformed payloads
// default field by field and a scoring failure substitutes a neutral
// analysis bundle.
type RecorderService struct {
	scorer *ScorerService
	logger *slog.Logger

	mu      sync.Mutex
	records []model.InteractionRecord

	// Optional collaborators.
	archive     repository.InteractionRepo
	broadcaster Broadcaster
}

// NewRecorderService creates a new recorder service
func NewRecorderService(scorer *ScorerService) *RecorderService {
	return &RecorderService{
		scorer: scorer,
		logger: slog.Default().With(slog.String("component", "recorder")),
	}
}

// SetArchive enables best-effort persistence of each record. Archive
// failures are logged, never propagated: the in-memory log stays
// authoritative for the session.
func (s *RecorderService) SetArchive(repo repository.InteractionRepo) {
	s.archive = repo
}

// SetBroadcaster enables live-monitor notifications per record.
func (s *RecorderService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// RecordInteraction scores the response, builds the record, and appends it
// to the log. A record is always produced.
func (s *RecorderService) RecordInteraction(ctx context.Context, agentID string, payload model.InteractionPayload) model.InteractionRecord {
	raw := payload.StudentResponse
	profile := payload.ProfileSummary

	analysis := s.safeScore(raw, profile)

	ts := payload.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	interactionType := payload.InteractionType
	if interactionType == "" {
		interactionType = "scenario"
	}
	scenarioType := payload.ScenarioType
	if scenarioType == "" {
		scenarioType = "general"
	}

	rec := model.InteractionRecord{
		Timestamp:       ts,
		AgentID:         agentID,
		InteractionType: interactionType,
		ScenarioName:    payload.ScenarioName,
		ScenarioType:    scenarioType,

		PromptText:      payload.TutorInput,
		Context:         payload.ScenarioContext,
		TaskDescription: payload.Task,

		RawResponse:         raw,
		ResponseLengthWords: analysisWordCount(raw),
		ResponseLengthChars: utf8.RuneCountInString(raw),
		GenerationError:     payload.Error,

		Profile: model.ProfileSnapshot{
			CulturalBackground:  getString(profile, "culture"),
			Age:                 getInt(profile, "age"),
			Gender:              getString(profile, "gender"),
			NativeLanguage:      getString(profile, "language"),
			EnglishProficiency:  getString(profile, "english_proficiency"),
			SocioeconomicStatus: getString(profile, "ses"),
			EmotionalState:      getString(profile, "mood"),
		},
		Behavioral: model.BehavioralSnapshot{
			TrustLevel:          getFloat(profile, "trust"),
			HelpSeekingTendency: getFloat(profile, "help_seeking"),
			AuthorityDeference:  getFloat(profile, "authority_deference"),
			PrivacyConcern:      getFloat(profile, "privacy_concern"),
		},
		Quality: model.QualityScores{
			Coherence:           analysis.Coherence,
			CulturalConsistency: analysis.CulturalConsistency,
			FoundationAlignment: analysis.FoundationAlignment,
		},

		QuestionTypes:      analysis.QuestionTypes,
		ResponseCategories: analysis.ResponseCategories,
		ConstructsEvident:  analysis.ConstructsEvident,
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	total := len(s.records)
	s.mu.Unlock()

	if s.archive != nil {
		if err := s.archive.Insert(ctx, &rec); err != nil {
			s.logger.Warn("record archival failed", "agentId", agentID, "error", err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastProgress("interaction_recorded", map[string]any{
			"agentId":           agentID,
			"interactionType":   rec.InteractionType,
			"scenarioType":      rec.ScenarioType,
			"coherence":         rec.Quality.Coherence,
			"totalInteractions": total,
		})
	}

	return rec
}

// safeScore never lets a scoring failure escape: any panic in the heuristics
// becomes the neutral fallback bundle.
func (s *RecorderService) safeScore(raw string, profile map[string]any) (analysis *model.ResponseAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("response analysis failed, using neutral fallback", "panic", r)
			analysis = neutralAnalysis()
		}
	}()
	return s.scorer.Score(raw, profile)
}

// Snapshot returns a copy of the interaction log in insertion order.
func (s *RecorderService) Snapshot() []model.InteractionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.InteractionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Count returns the number of recorded interactions.
func (s *RecorderService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// SummaryStatistics returns the cheap summary subset, or ErrNoRecords when
// nothing has been recorded.
func (s *RecorderService) SummaryStatistics() (*model.SummaryStats, error) {
	records := s.Snapshot()
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	agents := map[string]struct{}{}
	cultures := map[string]struct{}{}
	scenarioTypes := map[string]struct{}{}
	var lengthSum, coherenceSum, alignSum float64
	first, last := records[0].Timestamp, records[0].Timestamp

	for _, r := range records {
		agents[r.AgentID] = struct{}{}
		cultures[r.Profile.CulturalBackground] = struct{}{}
		scenarioTypes[r.ScenarioType] = struct{}{}
		lengthSum += float64(r.ResponseLengthWords)
		coherenceSum += r.Quality.Coherence
		alignSum += r.Quality.FoundationAlignment
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}

	types := make([]string, 0, len(scenarioTypes))
	for t := range scenarioTypes {
		types = append(types, t)
	}
	sort.Strings(types)

	n := float64(len(records))
	return &model.SummaryStats{
		TotalInteractions:  len(records),
		UniqueAgents:       len(agents),
		CulturalDiversity:  len(cultures),
		AvgResponseLength:  lengthSum / n,
		AvgCoherence:       coherenceSum / n,
		AvgFoundationAlign: alignSum / n,
		ScenarioTypes:      types,
		FirstRecordAt:      first,
		LastRecordAt:       last,
	}, nil
}

// analysisWordCount counts whitespace-delimited tokens.
func analysisWordCount(text string) int {
	return len(strings.Fields(text))
}

// getInt reads a numeric field from a loosely-typed profile map.
func getInt(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// getFloat reads a float field from a loosely-typed profile map.
func getFloat(m map[string]any, key string) float64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
