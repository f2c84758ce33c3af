package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/josephgoksu/tasksage/internal/llm"
	"github.com/spf13/viper"
)

// LoadLLMConfig loads the chat model configuration used for briefings.
// It handles precedence: Explicit Viper Config > Environment Variables > Defaults.
// ok is false when no chat provider is configured; briefings then use the
// built-in summary.
func LoadLLMConfig() (cfg llm.Config, ok bool, err error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		return llm.Config{}, false, nil
	}

	llmProvider, err := llm.ValidateProvider(provider)
	if err != nil {
		return llm.Config{}, false, fmt.Errorf("invalid provider: %w", err)
	}

	model := viper.GetString("llm.model")
	if model == "" {
		model = llm.DefaultModelForProvider(llmProvider)
	}

	baseURL := viper.GetString("llm.baseURL")
	if baseURL == "" && llmProvider == llm.ProviderOllama {
		baseURL = llm.DefaultOllamaURL
	}

	return llm.Config{
		Provider: llmProvider,
		Model:    model,
		APIKey:   ResolveAPIKey(llmProvider),
		BaseURL:  baseURL,
		Timeout:  getDurationWithDefault("llm.timeout", DefaultRequestTimeout),
	}, true, nil
}

// LoadEmbeddingConfig loads the Similarity Oracle backend. The default is the
// offline hashing oracle.
func LoadEmbeddingConfig() (llm.Config, error) {
	provider := getStringWithDefault("embedding.provider", DefaultEmbeddingProvider)

	p, err := llm.ValidateEmbeddingProvider(provider)
	if err != nil {
		return llm.Config{}, err
	}

	baseURL := viper.GetString("embedding.baseURL")
	if baseURL == "" {
		switch p {
		case llm.ProviderOllama:
			baseURL = llm.DefaultOllamaURL
		case llm.ProviderTEI:
			baseURL = llm.DefaultTEIURL
		}
	}

	model := viper.GetString("embedding.model")
	if model == "" {
		model = llm.DefaultEmbeddingModelForProvider(p)
	}

	return llm.Config{
		Provider:       p,
		EmbeddingModel: model,
		APIKey:         ResolveAPIKey(p),
		BaseURL:        baseURL,
		Timeout:        getDurationWithDefault("embedding.timeout", DefaultRequestTimeout),
	}, nil
}

// ResolveAPIKey returns the best API key for the given provider using
// per-provider config keys, then provider-specific env vars.
func ResolveAPIKey(provider llm.Provider) string {
	key := fmt.Sprintf("llm.apiKeys.%s", provider)
	if viper.IsSet(key) {
		if v := strings.TrimSpace(viper.GetString(key)); v != "" {
			return v
		}
	}
	return providerEnvKey(provider)
}

func providerEnvKey(provider llm.Provider) string {
	switch provider {
	case llm.ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case llm.ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case llm.ProviderGemini:
		key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			key = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
		return key
	case llm.ProviderTEI:
		return strings.TrimSpace(os.Getenv("TEI_API_KEY"))
	default:
		return ""
	}
}
