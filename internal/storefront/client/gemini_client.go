package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/pkg/logger"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

// generationFailed is the message shown for every generation failure
const generationFailed = "Failed to generate AI review. The API may be unavailable or the key may be invalid."

const reviewPrompt = `You are an expert product reviewer. Write a balanced, insightful, and helpful review
for the following product: "%s".

Your review should be concise, around 80-120 words.

- Start with an engaging opening sentence.
- Mention one or two key positive aspects.
- Mention one potential drawback or something a consumer should consider.
- Conclude with a clear summary of who the product is best for.

Do not use markdown formatting. The output should be a single paragraph of text.`

var tracer = otel.Tracer("gemini-client")

// GeminiConfig holds the text generation settings
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiClient writes product reviews with the Gemini API
type GeminiClient struct {
	generate generateFunc
	model    string
	timeout  time.Duration
}

// NewGeminiClient creates a new Gemini client. Without an API key the client
// is still returned but every call fails.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	c := &GeminiClient{model: cfg.Model, timeout: cfg.Timeout}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = 60 * time.Second
	}

	if cfg.APIKey == "" {
		logger.Logger.Warn().Msg("Gemini API key not set, AI review generation will fail")
		return c, nil
	}

	genClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.generate = genClient.Models.GenerateContent

	logger.Logger.Info().
		Str("model", c.model).
		Msg("Gemini client initialized")

	return c, nil
}

// GenerateReview asks the model for a single paragraph review of productName
func (c *GeminiClient) GenerateReview(ctx context.Context, productName string) (string, error) {
	ctx, span := tracer.Start(ctx, "gemini.GenerateReview",
		trace.WithAttributes(
			attribute.String("gemini.model", c.model),
			attribute.String("product.name", productName),
		),
	)
	defer span.End()

	if c.generate == nil {
		span.SetStatus(codes.Error, "no api key")
		return "", domain.NewSubmissionError("generate review", generationFailed, domain.ErrGenerationUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.generate(ctx, c.model, genai.Text(fmt.Sprintf(reviewPrompt, productName)), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx).Err(err).Str("product", productName).Msg("Error generating review with Gemini API")
		return "", domain.NewSubmissionError("generate review", generationFailed, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		span.SetStatus(codes.Error, "empty response")
		return "", domain.NewSubmissionError("generate review", generationFailed, fmt.Errorf("model returned no text"))
	}

	span.SetAttributes(attribute.Int("review.length", len(text)))
	return text, nil
}
