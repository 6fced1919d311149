package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client requests structured JSON from a language model
type Client interface {
	// GenerateJSON sends prompt to the model configured for tier and returns
	// the JSON text of its answer
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GetModel names the model a tier resolves to
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// ResponseError reports a response that carried no usable answer
type ResponseError struct {
	Model  string
	Reason string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("model %s returned no usable answer: %s", e.Model, e.Reason)
}

// NewClient creates the client for config.Provider. Only Gemini is wired.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultGeminiConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateJSON asks for an application/json answer, constrained by
// config.ResponseSchema when one is set. Code fences are stripped; locating
// the object in a chatty answer is left to the caller.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	resp, err := c.jsonModel(modelName).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := responseText(modelName, resp)
	if err != nil {
		return "", err
	}
	return StripCodeFence(text), nil
}

func (c *GeminiClient) jsonModel(name string) *genai.GenerativeModel {
	model := c.client.GenerativeModel(name)
	model.SetTemperature(c.config.Temperature)
	if c.config.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(c.config.MaxOutputTokens)
	}
	if c.config.SystemInstruction != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(c.config.SystemInstruction))
	}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = c.config.ResponseSchema
	return model
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// responseText joins the text parts of the first candidate. Blocked prompts
// and candidates stopped for safety or recitation become a *ResponseError.
func responseText(model string, resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", &ResponseError{Model: model, Reason: "empty response"}
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != genai.BlockReasonUnspecified {
		return "", &ResponseError{Model: model, Reason: "prompt blocked (" + fb.BlockReason.String() + ")"}
	}
	if len(resp.Candidates) == 0 {
		return "", &ResponseError{Model: model, Reason: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return "", &ResponseError{Model: model, Reason: "stopped (" + candidate.FinishReason.String() + ")"}
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &ResponseError{Model: model, Reason: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", &ResponseError{Model: model, Reason: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
