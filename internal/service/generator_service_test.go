package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cothink/internal/config"
)

func testGenerator(srv *httptest.Server) *GeneratorService {
	return &GeneratorService{
		config: &config.AIConfig{
			APIKey:    "test-key",
			BaseURL:   srv.URL,
			Model:     "test-model",
			TimeoutMS: 1000,
		},
		client: srv.Client(),
	}
}

func TestGenerateUsesMockWithoutAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	g := NewGeneratorService()

	first, err := g.Generate(context.Background(), "same prompt")
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), "same prompt")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, mockResponses, first)
}

func TestGenerateParsesBackendResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"I would verify the steps first."}]}}]}`))
	}))
	defer srv.Close()

	g := testGenerator(srv)
	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "I would verify the steps first.", text)
}

func TestGenerateReturnsBackendErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := testGenerator(srv).Generate(context.Background(), "prompt")
		assert.ErrorContains(t, err, "generation request failed")
	})

	t.Run("empty candidates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()

		_, err := testGenerator(srv).Generate(context.Background(), "prompt")
		assert.ErrorContains(t, err, "empty response")
	})
}
