package llm

// Provider constants
const (
	// DefaultProvider is the default LLM provider
	DefaultProvider = ProviderOpenAI

	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"

	// ProviderTEI represents Text Embeddings Inference (embeddings only).
	// See: https://github.com/huggingface/text-embeddings-inference
	ProviderTEI Provider = "tei"

	// ProviderHashing is the offline feature-hashing oracle (embeddings only).
	ProviderHashing Provider = "hashing"
)

// DefaultTEIURL is the default URL for TEI server
const DefaultTEIURL = "http://localhost:8080"

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// Embedding model defaults
const (
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"
	DefaultOllamaEmbeddingModel = "nomic-embed-text"
	DefaultGeminiEmbeddingModel = "text-embedding-004"
)

// Chat model defaults, used for schedule briefings.
const (
	DefaultOpenAIChatModel    = "gpt-4o-mini"
	DefaultOllamaChatModel    = "llama3.2"
	DefaultAnthropicChatModel = "claude-3-5-haiku-latest"
	DefaultGeminiChatModel    = "gemini-2.0-flash"
)

// DefaultMaxTokens caps briefing responses.
const DefaultMaxTokens = 1024

// DefaultModelForProvider returns the default chat model for a provider, or ""
// for embedding-only providers.
func DefaultModelForProvider(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return DefaultOpenAIChatModel
	case ProviderOllama:
		return DefaultOllamaChatModel
	case ProviderAnthropic:
		return DefaultAnthropicChatModel
	case ProviderGemini:
		return DefaultGeminiChatModel
	default:
		return ""
	}
}

// DefaultEmbeddingModelForProvider returns the default embedding model for a provider.
func DefaultEmbeddingModelForProvider(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return DefaultOpenAIEmbeddingModel
	case ProviderOllama:
		return DefaultOllamaEmbeddingModel
	case ProviderGemini:
		return DefaultGeminiEmbeddingModel
	default:
		return ""
	}
}
