package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultTemperature, config.Temperature)
	assert.Equal(t, DefaultMaxOutputTokens, config.MaxOutputTokens)
	assert.Contains(t, config.SystemInstruction, "JSON")
	assert.Nil(t, config.ResponseSchema)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	// Empty config should return empty string
	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))

	// New config should have custom model
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))

	// Other tiers should be copied
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
}

func TestWithTemperature(t *testing.T) {
	config := DefaultConfig()
	hot := config.WithTemperature(0.7)

	assert.Equal(t, DefaultTemperature, config.Temperature)
	assert.Equal(t, float32(0.7), hot.Temperature)
	assert.Equal(t, config.Models, hot.Models)

	// Models map is not shared
	hot.Models[TierLite] = "other"
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
}

func TestModelTierConstants(t *testing.T) {
	assert.Equal(t, ModelTier("lite"), TierLite)
	assert.Equal(t, ModelTier("standard"), TierStandard)
	assert.Equal(t, ModelTier("advanced"), TierAdvanced)
}

func TestWithResponseSchema(t *testing.T) {
	config := DefaultConfig()
	schema := &genai.Schema{Type: genai.TypeObject}
	constrained := config.WithResponseSchema(schema)

	assert.Nil(t, config.ResponseSchema)
	assert.Same(t, schema, constrained.ResponseSchema)
	assert.Equal(t, config.SystemInstruction, constrained.SystemInstruction)
	assert.Equal(t, config.MaxOutputTokens, constrained.MaxOutputTokens)
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "openai"}, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider: openai")
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name       string
		resp       *genai.GenerateContentResponse
		want       string
		wantReason string
	}{
		{
			name:       "nil response",
			wantReason: "empty response",
		},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
			},
			wantReason: "prompt blocked",
		},
		{
			name:       "no candidates",
			resp:       &genai.GenerateContentResponse{},
			wantReason: "no candidates",
		},
		{
			name: "stopped for safety",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonSafety,
				Content:      &genai.Content{Parts: []genai.Part{genai.Text("{}")}},
			}}},
			wantReason: "stopped",
		},
		{
			name: "no text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}},
			}}},
			wantReason: "no text parts",
		},
		{
			name: "text parts joined",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonStop,
				Content:      &genai.Content{Parts: []genai.Part{genai.Text(`{"name":`), genai.Text(` "Jane"}`)}},
			}}},
			want: `{"name": "Jane"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := responseText("gemini-test", tt.resp)
			if tt.wantReason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			var respErr *ResponseError
			require.ErrorAs(t, err, &respErr)
			assert.Equal(t, "gemini-test", respErr.Model)
			assert.Contains(t, respErr.Reason, tt.wantReason)
		})
	}
}
