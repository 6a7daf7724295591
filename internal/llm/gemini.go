package llm

import (
	"context"
	"fmt"

	"ai-dinner-planner/internal/shared"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Sampling parameters for menu generation. The model is asked for strict
// JSON output, so generation is capped and kept moderately creative.
const (
	geminiTemperature     = 0.7
	geminiTopK            = 40
	geminiTopP            = 0.95
	geminiMaxOutputTokens = 2048
)

// GeminiClient is a TextGenerator backed by the Google Gemini API.
// Safety blocks are surfaced as errors carrying the provider's SAFETY
// marker, so callers can classify them the same way as transport errors.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// NewGeminiClient creates a new Gemini API client for the given model.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(geminiTemperature)
	model.SetTopK(geminiTopK)
	model.SetTopP(geminiTopP)
	model.SetMaxOutputTokens(geminiMaxOutputTokens)

	return &GeminiClient{client: client, model: model, modelName: modelName}, nil
}

// GenerateContent sends a prompt to the Gemini model and returns the
// generated text together with its token usage.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason == genai.BlockReasonSafety {
		return ContentResponse{}, fmt.Errorf("prompt blocked by provider: SAFETY")
	}

	if len(resp.Candidates) == 0 {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return ContentResponse{}, fmt.Errorf("generation stopped by provider: SAFETY")
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	text, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return ContentResponse{}, fmt.Errorf("generated content is not text")
	}

	return ContentResponse{
		Content: string(text),
		Usage:   c.usage(resp),
	}, nil
}

func (c *GeminiClient) usage(resp *genai.GenerateContentResponse) shared.TokenUsage {
	u := shared.TokenUsage{Model: c.modelName}
	if resp.UsageMetadata != nil {
		u.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		u.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		u.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return u
}

// Close closes the underlying Gemini client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
