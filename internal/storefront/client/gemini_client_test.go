package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

const defaultTestTimeout = 5 * time.Second

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func TestGeminiClient_GenerateReview(t *testing.T) {
	var gotModel, gotPrompt string
	c := &GeminiClient{
		model:   DefaultModel,
		timeout: defaultTestTimeout,
		generate: func(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			gotModel = model
			gotPrompt = contents[0].Parts[0].Text
			return textResponse("  A sturdy widget worth its price.\n"), nil
		},
	}

	text, err := c.GenerateReview(context.Background(), "Widget")
	require.NoError(t, err)
	assert.Equal(t, "A sturdy widget worth its price.", text)
	assert.Equal(t, DefaultModel, gotModel)
	assert.Contains(t, gotPrompt, `"Widget"`)
	assert.Contains(t, gotPrompt, "80-120 words")
}

func TestGeminiClient_PromptKeepsNameVerbatim(t *testing.T) {
	var gotPrompt string
	c := &GeminiClient{
		model:   DefaultModel,
		timeout: defaultTestTimeout,
		generate: func(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			gotPrompt = contents[0].Parts[0].Text
			return textResponse("Fine."), nil
		},
	}

	name := `The "Pro" 15\" Laptop Sleeve`
	_, err := c.GenerateReview(context.Background(), name)
	require.NoError(t, err)
	assert.Contains(t, gotPrompt, `for the following product: "`+name+`".`)
	assert.NotContains(t, gotPrompt, `\"Pro\"`)
}

func TestGeminiClient_Failures(t *testing.T) {
	t.Run("NoAPIKey", func(t *testing.T) {
		c, err := NewGeminiClient(context.Background(), GeminiConfig{})
		require.NoError(t, err)

		_, err = c.GenerateReview(context.Background(), "Widget")
		assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
		assert.Equal(t, generationFailed, domain.UserMessage(err, ""))
	})

	t.Run("APIError", func(t *testing.T) {
		c := &GeminiClient{
			model:   DefaultModel,
			timeout: defaultTestTimeout,
			generate: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return nil, errors.New("403 API key not valid")
			},
		}

		_, err := c.GenerateReview(context.Background(), "Widget")
		assert.True(t, domain.IsKind(err, domain.KindSubmission))
		assert.Equal(t, generationFailed, domain.UserMessage(err, ""))
	})

	t.Run("EmptyText", func(t *testing.T) {
		c := &GeminiClient{
			model:   DefaultModel,
			timeout: defaultTestTimeout,
			generate: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return textResponse(" "), nil
			},
		}

		_, err := c.GenerateReview(context.Background(), "Widget")
		assert.Error(t, err)
	})
}
