package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
)

// TeiConfig holds configuration for the TEI embedder.
type TeiConfig struct {
	// BaseURL is the TEI server URL (e.g., "http://localhost:8080")
	BaseURL string

	// Model is the model name (optional, TEI typically uses single model)
	Model string

	// APIKey is sent as a bearer token when set
	APIKey string

	// Timeout for HTTP requests (default: 30s)
	Timeout time.Duration
}

// TeiEmbedder implements the eino embedding.Embedder interface for TEI servers.
// It uses the OpenAI-compatible /v1/embeddings endpoint.
type TeiEmbedder struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// teiEmbeddingRequest is the request payload for /v1/embeddings
type teiEmbeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model,omitempty"`
}

type teiEmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// teiNativeEmbedRequest is the native TEI /embed request format
type teiNativeEmbedRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate,omitempty"`
}

// NewTeiEmbedder creates a new TEI embedder.
func NewTeiEmbedder(_ context.Context, cfg *TeiConfig) (*TeiEmbedder, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("TEI base URL is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &TeiEmbedder{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// EmbedStrings implements the embedding.Embedder interface.
// It sends texts to TEI and returns embeddings as [][]float64.
func (e *TeiEmbedder) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	// Try OpenAI-compatible endpoint first
	embeddings, err := e.embedViaOpenAI(ctx, texts)
	if err != nil {
		// Fallback to native TEI endpoint
		embeddings, err = e.embedViaNative(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("TEI embedding failed: %w", err)
		}
	}

	return embeddings, nil
}

// embedViaOpenAI uses the OpenAI-compatible /v1/embeddings endpoint.
func (e *TeiEmbedder) embedViaOpenAI(ctx context.Context, texts []string) ([][]float64, error) {
	var embResp teiEmbeddingResponse
	if err := e.post(ctx, "/v1/embeddings", teiEmbeddingRequest{Input: texts, Model: e.model}, &embResp); err != nil {
		return nil, err
	}
	if len(embResp.Data) != len(texts) {
		return nil, fmt.Errorf("TEI returned %d embeddings for %d inputs", len(embResp.Data), len(texts))
	}

	embeddings := make([][]float64, len(texts))
	for _, d := range embResp.Data {
		if d.Index < 0 || d.Index >= len(embeddings) {
			return nil, fmt.Errorf("TEI returned out-of-range index %d", d.Index)
		}
		embeddings[d.Index] = d.Embedding
	}
	return embeddings, nil
}

// embedViaNative uses the native TEI /embed endpoint.
func (e *TeiEmbedder) embedViaNative(ctx context.Context, texts []string) ([][]float64, error) {
	var embeddings [][]float64
	if err := e.post(ctx, "/embed", teiNativeEmbedRequest{Inputs: texts, Truncate: true}, &embeddings); err != nil {
		return nil, err
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("TEI returned %d embeddings for %d inputs", len(embeddings), len(texts))
	}
	return embeddings, nil
}

func (e *TeiEmbedder) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("TEI returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Verify interface compliance at compile time
var _ embedding.Embedder = (*TeiEmbedder)(nil)
