package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/skiguide/backend/internal/domain"
)

const (
	defaultModel = "gemini-2.0-flash-exp"

	// Low temperature: answers quote catalog numbers and should not get
	// creative with them.
	generationTemperature = 0.3
)

// Generator wraps the Google GenAI client behind the domain.TextGenerator
// interface. A rate limiter guards the upstream quota; when the limiter has no
// immediate token the call fails fast instead of queueing, because the caller
// has a deterministic fallback that is better than a slow answer.
type Generator struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	timeout time.Duration
}

// Config for NewGenerator.
type Config struct {
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// NewGenerator creates a generator for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)

	return &Generator{
		client:  client,
		model:   model,
		limiter: limiter,
		timeout: timeout,
	}, nil
}

// Generate sends one prompt and returns the assembled candidate text. An empty
// upstream answer is an error, never an empty string; callers treat any error
// as a signal to use their fallback.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	if !g.limiter.Allow() {
		return "", fmt.Errorf("%w: rate limit exhausted", domain.ErrGenerationFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(generationTemperature)),
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	text := assembleText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrGenerationFailed)
	}
	return text, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func assembleText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}
