package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     Provider
		wantErr  bool
	}{
		{name: "valid openai", provider: "openai", want: ProviderOpenAI},
		{name: "valid ollama", provider: "ollama", want: ProviderOllama},
		{name: "valid anthropic", provider: "anthropic", want: ProviderAnthropic},
		{name: "valid gemini", provider: "gemini", want: ProviderGemini},
		{name: "tei is embeddings only", provider: "tei", wantErr: true},
		{name: "empty provider", provider: "", wantErr: true},
		{name: "case sensitive - OPENAI fails", provider: "OPENAI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateProvider(tt.provider)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateEmbeddingProvider(t *testing.T) {
	for _, p := range []string{"openai", "ollama", "gemini", "tei", "hashing"} {
		got, err := ValidateEmbeddingProvider(p)
		require.NoError(t, err, p)
		assert.Equal(t, Provider(p), got)
	}
	_, err := ValidateEmbeddingProvider("anthropic")
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, DefaultOpenAIChatModel, DefaultModelForProvider(ProviderOpenAI))
	assert.Equal(t, DefaultAnthropicChatModel, DefaultModelForProvider(ProviderAnthropic))
	assert.Empty(t, DefaultModelForProvider(ProviderTEI))
	assert.Equal(t, DefaultOllamaEmbeddingModel, DefaultEmbeddingModelForProvider(ProviderOllama))
	assert.Empty(t, DefaultEmbeddingModelForProvider(ProviderAnthropic))
}

func TestNewChatModel_MissingKeys(t *testing.T) {
	ctx := context.Background()
	for _, p := range []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGemini} {
		_, err := NewChatModel(ctx, Config{Provider: p})
		assert.Error(t, err, p)
	}
	_, err := NewChatModel(ctx, Config{Provider: ProviderTEI})
	assert.ErrorContains(t, err, "unsupported chat provider")
}

func TestNewEmbeddingModel_Errors(t *testing.T) {
	ctx := context.Background()
	_, err := NewEmbeddingModel(ctx, Config{Provider: ProviderOpenAI})
	assert.Error(t, err)
	_, err = NewEmbeddingModel(ctx, Config{Provider: ProviderHashing})
	assert.ErrorContains(t, err, "unsupported embedding provider")
}

func TestNewEmbeddingModel_TEI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float64{1, 2}, "index": 0}},
		})
	}))
	defer srv.Close()

	emb, err := NewEmbeddingModel(context.Background(), Config{Provider: ProviderTEI, BaseURL: srv.URL})
	require.NoError(t, err)
	vecs, err := emb.EmbedStrings(context.Background(), []string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}}, vecs)
}
