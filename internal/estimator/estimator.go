// Package estimator defines the learned-estimator capability the engines
// consult for priority and dependency-count predictions, plus adapters for
// reaching a model server over HTTP.
package estimator

import "context"

// Estimator maps a fixed-layout feature vector to a single number.
// Implementations must be safe for concurrent use.
type Estimator interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}

// Func adapts an ordinary function into an Estimator.
type Func func(ctx context.Context, features []float64) (float64, error)

// Predict calls f.
func (f Func) Predict(ctx context.Context, features []float64) (float64, error) {
	return f(ctx, features)
}

// Constant always predicts the same value. Useful for wiring a fixed bias and
// in tests.
type Constant float64

// Predict returns c.
func (c Constant) Predict(_ context.Context, _ []float64) (float64, error) {
	return float64(c), nil
}
