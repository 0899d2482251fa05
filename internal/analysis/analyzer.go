// Package analysis provides sentiment, summary, and keyword analysis of
// customer messages, using an AI provider with a heuristic fallback.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/harvestlane/contactsync/internal/errors"
	"github.com/harvestlane/contactsync/internal/logging"
	"github.com/harvestlane/contactsync/internal/models"
)

// Provider identifies a supported AI backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// endpoints maps providers to their chat endpoints.
var endpoints = map[Provider]string{
	ProviderOpenAI:    "https://api.openai.com/v1/chat/completions",
	ProviderAnthropic: "https://api.anthropic.com/v1/messages",
}

// Config holds analyzer configuration.
type Config struct {
	Provider Provider
	APIKey   string
	Model    string
	Endpoint string // override, mainly for tests
	Timeout  time.Duration
}

// Analyzer analyzes customer messages. When no provider is configured, or a
// provider call fails, it degrades to the heuristic analyzer rather than
// surfacing an error to the caller.
type Analyzer struct {
	config     Config
	httpClient *http.Client
	fallback   *Heuristic
}

// New creates an Analyzer.
func New(config Config) *Analyzer {
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &Analyzer{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		fallback: NewHeuristic(),
	}
}

// Configured reports whether an AI provider is usable.
func (a *Analyzer) Configured() bool {
	_, known := endpoints[a.config.Provider]
	return known && a.config.APIKey != ""
}

// Analyze produces the requested analysis of a message.
func (a *Analyzer) Analyze(ctx context.Context, message string, opts models.AnalysisOptions) (*models.MessageAnalysis, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New(errors.ErrInvalid, "no message provided")
	}

	if !a.Configured() {
		return a.fallback.Analyze(message, opts), nil
	}

	result, err := a.analyzeWithProvider(ctx, message, opts)
	if err != nil {
		logging.Warn("AI analysis failed, using heuristic fallback", map[string]interface{}{
			"provider": string(a.config.Provider),
			"error":    err.Error(),
		})
		return a.fallback.Analyze(message, opts), nil
	}
	return result, nil
}

// analyzeWithProvider calls the configured AI backend.
func (a *Analyzer) analyzeWithProvider(ctx context.Context, message string, opts models.AnalysisOptions) (*models.MessageAnalysis, error) {
	prompt := buildPrompt(message, opts)

	switch a.config.Provider {
	case ProviderOpenAI:
		return a.callOpenAI(ctx, prompt)
	case ProviderAnthropic:
		return a.callAnthropic(ctx, prompt)
	default:
		return nil, errors.New(errors.ErrAnalysisNotConfigured,
			fmt.Sprintf("unsupported provider: %s", a.config.Provider))
	}
}

// endpoint returns the provider endpoint, honoring the test override.
func (a *Analyzer) endpoint() string {
	if a.config.Endpoint != "" {
		return a.config.Endpoint
	}
	return endpoints[a.config.Provider]
}

// buildPrompt assembles the analysis instruction for the model.
func buildPrompt(message string, opts models.AnalysisOptions) string {
	var tasks []string
	if opts.IncludeSentiment {
		tasks = append(tasks, "sentiment (positive, negative, or neutral)")
	}
	if opts.IncludeSummary {
		tasks = append(tasks, "brief summary in 2-3 sentences")
	}
	if opts.IncludeKeywords {
		tasks = append(tasks, "up to 5 key topics or keywords")
	}
	if opts.IncludeSuggestion {
		tasks = append(tasks, "suggested response")
	}

	return fmt.Sprintf(`Analyze the following customer message for %s.

Customer message: %q

Format your response as JSON:
{
  "sentiment": "positive/negative/neutral",
  "summary": "Brief summary here",
  "keywords": ["keyword1", "keyword2", "keyword3"]
}

Only respond with the JSON object, nothing else.`, strings.Join(tasks, ", "), message)
}

// =====================================================
// OpenAI
// =====================================================

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (a *Analyzer) callOpenAI(ctx context.Context, prompt string) (*models.MessageAnalysis, error) {
	// Low temperature for consistent structured responses.
	body := openAIRequest{
		Model:       a.config.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.1,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
	}

	raw, err := a.post(ctx, a.endpoint(), headers, body)
	if err != nil {
		return nil, err
	}

	var decoded openAIResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrap(errors.ErrAnalysisFailed, "malformed provider response", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, errors.New(errors.ErrAnalysisFailed, "provider returned no choices")
	}

	return ParseResponse(decoded.Choices[0].Message.Content), nil
}

// =====================================================
// Anthropic
// =====================================================

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (a *Analyzer) callAnthropic(ctx context.Context, prompt string) (*models.MessageAnalysis, error) {
	body := anthropicRequest{
		Model:       a.config.Model,
		MaxTokens:   500,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.1,
	}

	headers := map[string]string{
		"x-api-key":         a.config.APIKey,
		"anthropic-version": "2023-06-01",
	}

	raw, err := a.post(ctx, a.endpoint(), headers, body)
	if err != nil {
		return nil, err
	}

	var decoded anthropicResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrap(errors.ErrAnalysisFailed, "malformed provider response", err)
	}
	if len(decoded.Content) == 0 {
		return nil, errors.New(errors.ErrAnalysisFailed, "provider returned no content")
	}

	return ParseResponse(decoded.Content[0].Text), nil
}

// post sends a JSON request to a provider and returns the raw body.
func (a *Analyzer) post(ctx context.Context, url string, headers map[string]string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to encode provider request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to build provider request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrAnalysisFailed, "provider request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(errors.ErrAnalysisFailed, "failed to read provider response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrAnalysisFailed,
			fmt.Sprintf("provider error: %d - %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	return raw, nil
}
