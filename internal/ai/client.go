package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"decision-analyzer/internal/scoring"
)

// Explainer produces a narrative for an evaluation result.
type Explainer interface {
	Enabled() bool
	Explain(ctx context.Context, input ExplanationInput) (Decision, error)
}

// Config holds OpenAI-compatible API configuration parameters.
type Config struct {
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Client implements the Explainer interface against a chat completions API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

const SourceModel = "model"

var ErrDisabled = errors.New("ai explainer disabled")

// NewClient constructs a Client if the supplied configuration is valid.
func NewClient(cfg Config) (*Client, error) {
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = "gpt-4.1-mini"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrDisabled
	}
	temp := cfg.Temperature
	if temp <= 0 {
		temp = 0.2
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 400
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		temperature: temp,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Enabled reports whether the client can make outbound calls.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Explain requests a narrative for a decision evaluation.
func (c *Client) Explain(ctx context.Context, input ExplanationInput) (Decision, error) {
	if c == nil || !c.Enabled() {
		return Decision{}, ErrDisabled
	}

	body, err := json.Marshal(c.buildPayload(input))
	if err != nil {
		return Decision{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Decision{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Decision{}, fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return Decision{}, fmt.Errorf("openai status %d: %v", resp.StatusCode, apiErr)
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Decision{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return Decision{}, errors.New("openai empty response")
	}

	content := normalizeJSONBlock(decoded.Choices[0].Message.Content)
	if content == "" {
		return Decision{}, errors.New("openai empty narrative")
	}

	var decision Decision
	if err := json.Unmarshal([]byte(content), &decision); err != nil {
		return Decision{}, fmt.Errorf("parse ai response: %w", err)
	}

	sanitizeDecision(&decision, input.Result.Recommendation)
	if decision.Narrative == "" {
		return Decision{}, errors.New("ai narrative missing")
	}
	decision.Source = SourceModel
	return decision, nil
}

func normalizeJSONBlock(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.IndexRune(trimmed, '\n'); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	trimmed = strings.TrimSpace(trimmed)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end >= start {
		return strings.TrimSpace(trimmed[start : end+1])
	}
	return trimmed
}

func (c *Client) buildPayload(input ExplanationInput) map[string]any {
	language := "English"
	if strings.HasPrefix(strings.ToLower(input.Locale), "es") {
		language = "Spanish"
	}
	messages := []map[string]string{
		{
			"role": "system",
			"content": "You are a behavioural economics advisor. Reply with a strict JSON object containing keys narrative and recommendation. " +
				"Narrative must contain exactly two sentences separated by a newline: the first explains the expected values, the second names the likely cognitive bias of the quadrant. " +
				"recommendation must be one of PREFER_SAFE, PREFER_RISKY or EQUIVALENT and must match the expected-value comparison supplied. " +
				"Write the narrative in " + language + ". Emit nothing outside the JSON object.",
		},
		{
			"role":    "user",
			"content": buildUserPrompt(input),
		},
	}
	payload := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": c.temperature,
	}
	if c.maxTokens > 0 {
		payload["max_tokens"] = c.maxTokens
	}
	return payload
}

func buildUserPrompt(input ExplanationInput) string {
	r := input.Result
	builder := &strings.Builder{}
	if input.Label != "" {
		fmt.Fprintf(builder, "Decision: %s\n", input.Label)
	}
	fmt.Fprintf(builder, "Scenario: %s\n", r.Scenario)
	fmt.Fprintf(builder, "Comparison model: %s\n", input.ModelText)
	fmt.Fprintf(builder, "Safe option: value %.2f, probability %.2f, expected value %.2f\n", r.SafeValue, r.SafeProbability, r.SafeExpectedValue)
	fmt.Fprintf(builder, "Risky option: value %.2f, probability %.2f, expected value %.2f\n", r.RiskyValue, r.RiskProbability, r.RiskyExpectedValue)
	fmt.Fprintf(builder, "Quadrant %d: %s (%s)\n", r.Quadrant, r.BiasLabel, r.BiasDescription)
	fmt.Fprintf(builder, "Expected-value recommendation: %s (%s)\n", r.Recommendation, input.RecommendationText)
	builder.WriteString("Do not contradict the expected-value recommendation; explain it and warn about the bias the quadrant predicts.\n")
	return builder.String()
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// sanitizeDecision trims the narrative and forces the recommendation back to
// the computed one when the model disagrees or answers with an unknown value.
func sanitizeDecision(decision *Decision, computed scoring.Recommendation) {
	if decision == nil {
		return
	}
	decision.Narrative = strings.TrimSpace(decision.Narrative)
	rec := scoring.Recommendation(strings.ToUpper(strings.TrimSpace(decision.Recommendation)))
	if !rec.Valid() || rec != computed {
		rec = computed
	}
	decision.Recommendation = string(rec)
}
