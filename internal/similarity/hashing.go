package similarity

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultHashDimensions is the vector length of the offline hashing oracle.
const DefaultHashDimensions = 256

// HashingOracle is an offline, dependency-free oracle. It embeds text as an
// L2-normalized bag of hashed lower-cased tokens, so texts sharing words land
// close together. It is the fallback when no embedding provider is configured.
type HashingOracle struct {
	dims int
}

// NewHashingOracle returns a hashing oracle with the given dimensionality.
// Non-positive values use DefaultHashDimensions.
func NewHashingOracle(dims int) *HashingOracle {
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return &HashingOracle{dims: dims}
}

// Embed never fails; the context is accepted for interface compatibility.
func (h *HashingOracle) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, h.dims)
	for _, tok := range Tokenize(text) {
		hasher := fnv.New64a()
		_, _ = hasher.Write([]byte(tok))
		sum := hasher.Sum64()
		idx := int(sum % uint64(h.dims))
		sign := 1.0
		if (sum>>63)&1 == 1 {
			sign = -1.0
		}
		vec[idx] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (h *HashingOracle) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v, _ := h.Embed(ctx, text)
		out[i] = v
	}
	return out, nil
}

// Similarity returns the cosine similarity of a and b.
func (h *HashingOracle) Similarity(a, b []float64) float64 {
	return CosineSimilarity(a, b)
}

// Tokenize lower-cases text and splits it on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

var _ BatchOracle = (*HashingOracle)(nil)
