package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cothink/internal/model"
)

type captureBroadcaster struct {
	types    []string
	payloads []interface{}
}

func (b *captureBroadcaster) BroadcastProgress(msgType string, payload interface{}) {
	b.types = append(b.types, msgType)
	b.payloads = append(b.payloads, payload)
}

func newTestRecorder() *RecorderService {
	return NewRecorderService(NewScorerService())
}

func TestRecordInteractionDefaults(t *testing.T) {
	r := newTestRecorder()

	rec := r.RecordInteraction(context.Background(), "agent_001", model.InteractionPayload{})

	assert.Equal(t, "agent_001", rec.AgentID)
	assert.Equal(t, "scenario", rec.InteractionType)
	assert.Equal(t, "general", rec.ScenarioType)
	assert.False(t, rec.Timestamp.IsZero())

	// Empty response scores as empty, never fails.
	assert.Zero(t, rec.Quality.Coherence)
	assert.Equal(t, []string{"empty"}, rec.ResponseCategories)
	assert.NotNil(t, rec.QuestionTypes)
	assert.NotNil(t, rec.ConstructsEvident)
}

func TestRecordInteractionSnapshotsProfile(t *testing.T) {
	r := newTestRecorder()

	rec := r.RecordInteraction(context.Background(), "agent_002", model.InteractionPayload{
		StudentResponse: "I trust this approach because we can verify it together.",
		ProfileSummary: map[string]any{
			"culture":             "collectivistic",
			"age":                 22,
			"gender":              "female",
			"language":            "Mandarin",
			"english_proficiency": "advanced",
			"ses":                 "middle",
			"mood":                "curious",
			"trust":               0.7,
			"help_seeking":        0.6,
			"authority_deference": 0.8,
			"privacy_concern":     0.4,
		},
	})

	assert.Equal(t, "collectivistic", rec.Profile.CulturalBackground)
	assert.Equal(t, 22, rec.Profile.Age)
	assert.Equal(t, "Mandarin", rec.Profile.NativeLanguage)
	assert.Equal(t, "curious", rec.Profile.EmotionalState)
	assert.InDelta(t, 0.7, rec.Behavioral.TrustLevel, 0.0001)
	assert.InDelta(t, 0.8, rec.Behavioral.AuthorityDeference, 0.0001)
}

func TestRecordInteractionCountsWordsAndRunes(t *testing.T) {
	r := newTestRecorder()

	rec := r.RecordInteraction(context.Background(), "agent_003", model.InteractionPayload{
		StudentResponse: "héllo wörld",
	})

	assert.Equal(t, 2, rec.ResponseLengthWords)
	assert.Equal(t, 11, rec.ResponseLengthChars)
}

func TestRecordInteractionKeepsGenerationError(t *testing.T) {
	r := newTestRecorder()

	rec := r.RecordInteraction(context.Background(), "agent_004", model.InteractionPayload{
		Error: "upstream timeout",
	})

	assert.Equal(t, "upstream timeout", rec.GenerationError)
	assert.Equal(t, []string{"empty"}, rec.ResponseCategories)
}

func TestSnapshotIsACopy(t *testing.T) {
	r := newTestRecorder()
	ctx := context.Background()

	r.RecordInteraction(ctx, "a", model.InteractionPayload{StudentResponse: "first"})
	r.RecordInteraction(ctx, "b", model.InteractionPayload{StudentResponse: "second"})

	snap := r.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a", snap[0].AgentID)
	assert.Equal(t, "b", snap[1].AgentID)

	// Mutating the snapshot must not touch the log.
	snap[0].AgentID = "mutated"
	again := r.Snapshot()
	assert.Equal(t, "a", again[0].AgentID)
	assert.Equal(t, 2, r.Count())
}

func TestSummaryStatistics(t *testing.T) {
	r := newTestRecorder()
	ctx := context.Background()

	_, err := r.SummaryStatistics()
	require.ErrorIs(t, err, ErrNoRecords)

	early := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r.RecordInteraction(ctx, "agent_a", model.InteractionPayload{
		Timestamp:       late,
		ScenarioType:    "trust_calibration",
		StudentResponse: "I trust it but I verify.",
		ProfileSummary:  map[string]any{"culture": "individualistic"},
	})
	r.RecordInteraction(ctx, "agent_b", model.InteractionPayload{
		Timestamp:       early,
		ScenarioType:    "cognitive_partnership",
		StudentResponse: "We decide together as a group.",
		ProfileSummary:  map[string]any{"culture": "collectivistic"},
	})

	stats, err := r.SummaryStatistics()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalInteractions)
	assert.Equal(t, 2, stats.UniqueAgents)
	assert.Equal(t, 2, stats.CulturalDiversity)
	assert.Equal(t, []string{"cognitive_partnership", "trust_calibration"}, stats.ScenarioTypes)
	assert.Equal(t, early, stats.FirstRecordAt)
	assert.Equal(t, late, stats.LastRecordAt)
	assert.Greater(t, stats.AvgResponseLength, 0.0)
}

func TestRecordInteractionBroadcasts(t *testing.T) {
	r := newTestRecorder()
	b := &captureBroadcaster{}
	r.SetBroadcaster(b)

	r.RecordInteraction(context.Background(), "agent_005", model.InteractionPayload{
		StudentResponse: "Sounds good to me.",
	})

	require.Len(t, b.types, 1)
	assert.Equal(t, "interaction_recorded", b.types[0])
}
