// Package planner is the entry point to the planning engines. It validates
// task batches, fetches embeddings and features, and hands them to the
// grouping, dependency, priority and schedule engines.
package planner

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/josephgoksu/tasksage/internal/dependency"
	"github.com/josephgoksu/tasksage/internal/estimator"
	"github.com/josephgoksu/tasksage/internal/grouping"
	"github.com/josephgoksu/tasksage/internal/priority"
	"github.com/josephgoksu/tasksage/internal/schedule"
	"github.com/josephgoksu/tasksage/internal/similarity"
	"github.com/josephgoksu/tasksage/internal/task"
)

const (
	DefaultEmbedConcurrency = 4
	DefaultEmbedBatchSize   = 32
	DefaultSimilarThreshold = 0.7
)

// Options configures an Engine. Zero values use defaults.
type Options struct {
	// Grouping tunes clustering; nil uses grouping.DefaultOptions().
	Grouping *grouping.Options

	// SimilarityThreshold drives both batching bonuses and FindSimilar.
	SimilarityThreshold float64

	// EmbedConcurrency caps in-flight oracle calls per operation.
	EmbedConcurrency int
	// EmbedBatchSize is the chunk size for batch-capable oracles.
	EmbedBatchSize int

	// PriorityEstimator blends a learned score into prioritization. Optional.
	PriorityEstimator estimator.Estimator
	// DependencyEstimator predicts how many dependencies a task needs. Optional.
	DependencyEstimator estimator.Estimator
}

// Engine runs the four planning operations. It holds no per-call state and is
// safe for concurrent use as long as the oracle and estimators are.
type Engine struct {
	oracle similarity.Oracle

	grouper     *grouping.Engine
	inferrer    *dependency.Engine
	scorer      *priority.Engine
	threshold   float64
	fixed       grouping.Options
	batchSize   int
	concurrency int
}

// New creates an engine. oracle may be nil, in which case grouping and
// similarity search fail with OracleUnavailable and prioritization runs
// without embeddings.
func New(oracle similarity.Oracle, opts Options) *Engine {
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = DefaultSimilarThreshold
	}
	if opts.EmbedConcurrency <= 0 {
		opts.EmbedConcurrency = DefaultEmbedConcurrency
	}
	if opts.EmbedBatchSize <= 0 {
		opts.EmbedBatchSize = DefaultEmbedBatchSize
	}
	groupOpts := grouping.DefaultOptions()
	if opts.Grouping != nil {
		groupOpts = *opts.Grouping
	}

	var simFn func(a, b []float64) float64
	if oracle != nil {
		simFn = oracle.Similarity
	}

	fixed := groupOpts
	fixed.Adaptive = false

	return &Engine{
		oracle:   oracle,
		grouper:  grouping.NewEngine(groupOpts),
		inferrer: dependency.NewEngine(opts.DependencyEstimator),
		scorer: priority.NewEngine(opts.PriorityEstimator, priority.Options{
			SimilarityThreshold: opts.SimilarityThreshold,
			Similarity:          simFn,
		}),
		threshold:   opts.SimilarityThreshold,
		fixed:       fixed,
		batchSize:   opts.EmbedBatchSize,
		concurrency: opts.EmbedConcurrency,
	}
}

// GroupTasks clusters the batch using the configured radius mode.
func (e *Engine) GroupTasks(ctx context.Context, tasks []task.Task) ([]grouping.Group, error) {
	return e.group(ctx, tasks, e.grouper)
}

// GroupTasksFixed clusters the batch with the fixed radius regardless of configuration.
func (e *Engine) GroupTasksFixed(ctx context.Context, tasks []task.Task) ([]grouping.Group, error) {
	return e.group(ctx, tasks, grouping.NewEngine(e.fixed))
}

func (e *Engine) group(ctx context.Context, tasks []task.Task, grouper *grouping.Engine) ([]grouping.Group, error) {
	if err := task.ValidateBatch(tasks); err != nil {
		return nil, err
	}
	if len(tasks) < 2 {
		return nil, task.InsufficientData(len(tasks), 2)
	}

	vectors, err := e.embedAll(ctx, tasks, embeddingTexts(tasks))
	if err != nil {
		return nil, err
	}

	res, err := grouper.Group(tasks, vectors)
	if err != nil {
		return nil, err
	}
	return res.Groups, nil
}

// InferDependencies expands one task into ordered sub-tasks. now anchors the
// due-date features handed to the dependency estimator.
func (e *Engine) InferDependencies(ctx context.Context, t task.Task, now time.Time) ([]dependency.InferredTask, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	var features []float64
	if e.inferrer.HasEstimator() {
		all := e.features(ctx, []task.Task{t}, now)
		if all != nil {
			features = all[0]
		}
	}

	deps := e.inferrer.Infer(ctx, t, features)
	if deps == nil {
		deps = []dependency.InferredTask{}
	}
	return deps, nil
}

// PrioritizeTasks scores and ranks the batch relative to now.
func (e *Engine) PrioritizeTasks(ctx context.Context, tasks []task.Task, now time.Time) ([]priority.Assessment, error) {
	if err := task.ValidateBatch(tasks); err != nil {
		return nil, err
	}

	inputs := make([]priority.Input, len(tasks))
	for i, t := range tasks {
		inputs[i].Task = t
	}

	if e.oracle != nil && len(tasks) > 1 {
		vectors, err := e.embedAll(ctx, tasks, embeddingTexts(tasks))
		if err != nil {
			slog.Warn("embeddings unavailable, scoring without batching similarity", "error", err)
		} else {
			for i := range inputs {
				inputs[i].Embedding = vectors[i]
			}
		}
	}

	if e.scorer.HasEstimator() {
		if features := e.features(ctx, tasks, now); features != nil {
			for i := range inputs {
				inputs[i].Features = features[i]
			}
		}
	}

	return e.scorer.Prioritize(ctx, inputs, now), nil
}

// CreateSchedule prioritizes the batch and lays it out as pomodoro blocks
// starting at now.
func (e *Engine) CreateSchedule(ctx context.Context, tasks []task.Task, now time.Time) ([]schedule.Item, error) {
	ranked, err := e.PrioritizeTasks(ctx, tasks, now)
	if err != nil {
		return nil, err
	}
	return schedule.Build(schedule.Rank(ranked, tasks), now), nil
}

// Match is one result of a similarity search.
type Match struct {
	ID         int     `json:"id"`
	Similarity float64 `json:"similarity"`
}

// FindSimilar returns the candidates whose similarity to target exceeds
// threshold, most similar first. A non-positive threshold uses the engine
// default. The target itself is never returned.
func (e *Engine) FindSimilar(ctx context.Context, target task.Task, candidates []task.Task, threshold float64) ([]Match, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := task.ValidateBatch(candidates); err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = e.threshold
	}

	all := append([]task.Task{target}, candidates...)
	vectors, err := e.embedAll(ctx, all, embeddingTexts(all))
	if err != nil {
		return nil, err
	}

	matches := []Match{}
	for i, c := range candidates {
		if c.ID == target.ID {
			continue
		}
		if s := e.oracle.Similarity(vectors[0], vectors[i+1]); s > threshold {
			matches = append(matches, Match{ID: c.ID, Similarity: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches, nil
}

// features builds estimator inputs for tasks, or returns nil when the
// embeddings they need cannot be fetched.
func (e *Engine) features(ctx context.Context, tasks []task.Task, now time.Time) [][]float64 {
	if e.oracle == nil {
		slog.Warn("estimator configured without a similarity oracle, skipping it")
		return nil
	}
	vectors, err := e.embedAll(ctx, tasks, featureTexts(tasks))
	if err != nil {
		slog.Warn("feature embeddings unavailable, skipping estimator", "error", err)
		return nil
	}
	out := make([][]float64, len(tasks))
	for i, t := range tasks {
		out[i] = estimator.Features(t, vectors[i], now)
	}
	return out
}
