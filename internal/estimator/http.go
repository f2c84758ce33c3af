package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPConfig holds configuration for a remote estimator.
type HTTPConfig struct {
	// URL is the full prediction endpoint (e.g., "http://localhost:8500/predict/priority").
	URL string

	// APIKey is sent in the "api-key" header when set.
	APIKey string

	// Timeout for HTTP requests (default: 10s)
	Timeout time.Duration
}

// HTTPEstimator calls a model server that accepts {"features": [...]} and
// answers {"prediction": x}.
type HTTPEstimator struct {
	url    string
	apiKey string
	client *http.Client
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Prediction *float64 `json:"prediction"`
}

// NewHTTPEstimator creates an estimator backed by a model server.
func NewHTTPEstimator(cfg HTTPConfig) (*HTTPEstimator, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("estimator URL is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPEstimator{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Predict posts the feature vector and returns the server's prediction.
func (e *HTTPEstimator) Predict(ctx context.Context, features []float64) (float64, error) {
	body, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("api-key", e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("estimator returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if out.Prediction == nil {
		return 0, fmt.Errorf("estimator response missing prediction")
	}
	return *out.Prediction, nil
}

var _ Estimator = (*HTTPEstimator)(nil)
