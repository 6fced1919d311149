// Package llm provides the LLM configuration and client used to turn resume
// text into a structured record.
package llm

import "github.com/google/generative-ai-go/genai"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, extraction, basic summarization
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: resume parsing, structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or messy resumes that the standard model fumbles
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	// MaxOutputTokens bounds the answer length; zero keeps the model default
	MaxOutputTokens int32
	// SystemInstruction is sent ahead of every prompt
	SystemInstruction string
	// ResponseSchema constrains JSON answers; nil leaves them free-form
	ResponseSchema *genai.Schema
}

const (
	// DefaultTemperature keeps extraction output close to deterministic
	DefaultTemperature float32 = 0.1

	// DefaultMaxOutputTokens leaves room for long work histories
	DefaultMaxOutputTokens int32 = 8192

	// DefaultSystemInstruction frames every request as record extraction
	DefaultSystemInstruction = "You convert resume text into a JSON resume record. Answer with JSON only and never invent facts that are not in the resume."
)

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:       DefaultTemperature,
		MaxOutputTokens:   DefaultMaxOutputTokens,
		SystemInstruction: DefaultSystemInstruction,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := c.clone()
	newConfig.Models[tier] = model
	return newConfig
}

// WithTemperature returns a new Config with the given sampling temperature
func (c *Config) WithTemperature(t float32) *Config {
	newConfig := c.clone()
	newConfig.Temperature = t
	return newConfig
}

// WithResponseSchema returns a new Config whose JSON answers follow schema
func (c *Config) WithResponseSchema(schema *genai.Schema) *Config {
	newConfig := c.clone()
	newConfig.ResponseSchema = schema
	return newConfig
}

func (c *Config) clone() *Config {
	newConfig := &Config{
		Provider:          c.Provider,
		Models:            make(map[ModelTier]string, len(c.Models)),
		Temperature:       c.Temperature,
		MaxOutputTokens:   c.MaxOutputTokens,
		SystemInstruction: c.SystemInstruction,
		ResponseSchema:    c.ResponseSchema,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	return newConfig
}
