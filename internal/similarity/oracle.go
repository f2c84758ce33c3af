package similarity

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/components/embedding"
)

// Oracle maps text to a fixed-length vector and scores two vectors.
// Implementations must be deterministic for identical text within one
// process and safe for concurrent use.
type Oracle interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Similarity(a, b []float64) float64
}

// BatchOracle is implemented by oracles that can embed many texts in one call.
type BatchOracle interface {
	Oracle
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// EmbedderOracle adapts an Eino embedding.Embedder (OpenAI, Ollama, Gemini,
// TEI) into an Oracle. Results are memoized per text so repeated lookups in
// the same process return the same vector.
type EmbedderOracle struct {
	embedder embedding.Embedder

	mu    sync.RWMutex
	cache map[string][]float64
}

// NewEmbedderOracle wraps the given embedder.
func NewEmbedderOracle(embedder embedding.Embedder) *EmbedderOracle {
	return &EmbedderOracle{
		embedder: embedder,
		cache:    make(map[string][]float64),
	}
}

// Embed returns the embedding for text.
func (o *EmbedderOracle) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts, sending only cache misses to the provider.
func (o *EmbedderOracle) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	var missing []string
	missingIdx := make(map[string][]int)

	o.mu.RLock()
	for i, text := range texts {
		if v, ok := o.cache[text]; ok {
			out[i] = v
			continue
		}
		if _, queued := missingIdx[text]; !queued {
			missing = append(missing, text)
		}
		missingIdx[text] = append(missingIdx[text], i)
	}
	o.mu.RUnlock()

	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := o.embedder.EmbedStrings(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("generate embedding: %w", err)
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("embedding provider returned %d vectors for %d inputs", len(vecs), len(missing))
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	for i, text := range missing {
		if len(vecs[i]) == 0 {
			return nil, fmt.Errorf("empty embedding returned for input %d", i)
		}
		// First writer wins so concurrent callers agree on one vector.
		v, ok := o.cache[text]
		if !ok {
			v = vecs[i]
			o.cache[text] = v
		}
		for _, idx := range missingIdx[text] {
			out[idx] = v
		}
	}
	return out, nil
}

// Similarity returns the cosine similarity of a and b.
func (o *EmbedderOracle) Similarity(a, b []float64) float64 {
	return CosineSimilarity(a, b)
}

var _ BatchOracle = (*EmbedderOracle)(nil)
