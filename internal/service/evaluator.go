package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"talentscope/internal/config"
	"talentscope/internal/model"
)

// BrushUpInput is the structured payload sent to the AI collaborator.
type BrushUpInput struct {
	TriggerType     model.TriggerType            `json:"triggerType"`
	BigFive         model.TraitVector            `json:"bigFive"`
	ThinkingPattern model.TraitVector            `json:"thinkingPattern"`
	BehaviorPattern model.TraitVector            `json:"behaviorPattern"`
	FeatureLabels   []string                     `json:"featureLabels"`
	Secondaries     []*model.SecondaryDiagnosis  `json:"secondaryDiagnoses,omitempty"`
	Evaluations     []*model.InterviewEvaluation `json:"interviewEvaluations,omitempty"`
}

// BrushUpSuggestion is the AI collaborator's proposed refinement.
type BrushUpSuggestion struct {
	FeatureLabels  []string           `json:"featureLabels"`
	BigFiveDeltas  map[string]float64 `json:"bigFiveDeltas"`
	ThinkingDeltas map[string]float64 `json:"thinkingDeltas"`
	BehaviorDeltas map[string]float64 `json:"behaviorDeltas"`
	Reasoning      string             `json:"reasoning"`
	Confidence     float64            `json:"confidence"`
	RiskFlags      []string           `json:"riskFlags"`
	Usage          model.TokenUsage   `json:"-"`
	ModelVersion   string             `json:"-"`
}

// EvaluatorService calls the Gemini API for brush-up suggestions. With no
// API key configured it returns a deterministic mock so local development
// and tests run without network access.
type EvaluatorService struct {
	config *config.AIConfig
	client *http.Client
}

func NewEvaluatorService(cfg *config.AIConfig) *EvaluatorService {
	return &EvaluatorService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// ModelVersion reports the model identifier used for audit entries.
func (s *EvaluatorService) ModelVersion() string {
	if !s.config.IsEnabled() {
		return "mock"
	}
	return s.config.Models.BrushUp
}

// SuggestBrushUp asks the collaborator for a bounded refinement proposal.
// Failures surface as *model.ExternalServiceError; the pipeline converts
// them into a FAILED outcome, never a retry.
func (s *EvaluatorService) SuggestBrushUp(ctx context.Context, input *BrushUpInput) (*BrushUpSuggestion, error) {
	if !s.config.IsEnabled() {
		return s.mockSuggestion(input), nil
	}

	prompt := buildBrushUpPrompt(input)
	text, usage, err := s.callGemini(ctx, s.config.Models.BrushUp, prompt)
	if err != nil {
		return nil, &model.ExternalServiceError{Service: "gemini", Err: err}
	}

	var suggestion BrushUpSuggestion
	if err := json.Unmarshal([]byte(stripMarkdownCodeFences(text)), &suggestion); err != nil {
		return nil, &model.ExternalServiceError{Service: "gemini", Err: fmt.Errorf("malformed suggestion: %w", err)}
	}
	suggestion.Usage = usage
	suggestion.ModelVersion = s.config.Models.BrushUp
	return &suggestion, nil
}

// callGemini makes a request to the Gemini API
func (s *EvaluatorService) callGemini(ctx context.Context, modelName, prompt string) (string, model.TokenUsage, error) {
	var usage model.TokenUsage

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", usage, err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", usage, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", usage, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", usage, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", usage, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
			TotalTokenCount      int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", usage, err
	}

	usage = model.TokenUsage{
		PromptTokens:     geminiResp.UsageMetadata.PromptTokenCount,
		CompletionTokens: geminiResp.UsageMetadata.CandidatesTokenCount,
		TotalTokens:      geminiResp.UsageMetadata.TotalTokenCount,
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, usage, nil
	}

	return "", usage, fmt.Errorf("empty response from Gemini")
}

// mockSuggestion nudges the two most extreme big-five values toward the
// middle. Deterministic and always low risk.
func (s *EvaluatorService) mockSuggestion(input *BrushUpInput) *BrushUpSuggestion {
	deltas := make(map[string]float64)
	for _, dim := range model.BigFiveDimensions {
		value := input.BigFive.Get(dim)
		switch {
		case value >= 75:
			deltas[dim] = -2
		case value <= 25:
			deltas[dim] = 2
		}
	}
	return &BrushUpSuggestion{
		FeatureLabels:  input.FeatureLabels,
		BigFiveDeltas:  deltas,
		ThinkingDeltas: map[string]float64{},
		BehaviorDeltas: map[string]float64{},
		Reasoning:      "Mock refinement: extreme dimensions regressed toward the mean.",
		Confidence:     60,
		RiskFlags:      nil,
		Usage:          model.TokenUsage{},
		ModelVersion:   "mock",
	}
}

// stripMarkdownCodeFences removes a wrapping ```json fence if present.
func stripMarkdownCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
