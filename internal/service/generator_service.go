package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"time"

	"cothink/internal/config"
)

// Generator is the narrow capability the analysis core depends on. The one
// truly external, non-deterministic collaborator sits behind it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorService produces student responses via the Gemini API. Without an
// API key it serves deterministic mock responses instead, so the pipeline
// stays runnable offline.
type GeneratorService struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeneratorService creates a new generator service
func NewGeneratorService() *GeneratorService {
	cfg := config.DefaultAIConfig()
	return &GeneratorService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Generate returns the model's response text for a prompt. Errors are
// returned to the caller so the recording layer can store them per agent.
func (s *GeneratorService) Generate(ctx context.Context, prompt string) (string, error) {
	if !s.config.IsEnabled() {
		return mockStudentResponse(prompt), nil
	}
	return s.callGemini(ctx, prompt)
}

// callGemini makes a request to the Gemini API
func (s *GeneratorService) callGemini(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation request failed: %s", resp.Status)
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from generation backend")
}

// mockResponses are deterministic stand-ins for offline runs. They carry
// enough structure to exercise every scoring heuristic.
var mockResponses = []string{
	"I think working together with the AI could help, because we can combine our strengths. However, I would want to verify its suggestions before I trust them completely.",
	"We should decide as a group how much control to give the tool. My family always says understanding comes first, so I would ask it to explain each step.",
	"This is great! I believe I can learn faster this way, although I feel a bit unsure about when to depend on it. Could you give me an example?",
	"Personally, I prefer to keep responsibility for my own decisions. The AI is reliable for facts, but I would check anything important myself.",
	"Honestly this is overwhelming. I am confused about what the tool expects from me, and I need help to understand how to manage the task.",
}

func mockStudentResponse(prompt string) string {
	h := fnv.New32a()
	h.Write([]byte(prompt))
	return mockResponses[int(h.Sum32())%len(mockResponses)]
}
