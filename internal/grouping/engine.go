// Package grouping clusters a task batch by embedding proximity and names the
// resulting groups.
package grouping

import (
	"log/slog"

	"github.com/josephgoksu/tasksage/internal/similarity"
	"github.com/josephgoksu/tasksage/internal/task"
)

const (
	// DefaultFixedRadius is the neighbourhood radius used when adaptive mode is off.
	DefaultFixedRadius = 0.5

	// DefaultPercentile is the pairwise-distance percentile used as the adaptive radius.
	DefaultPercentile = 30.0

	minBatchSize = 2
)

// Group is one cluster of related tasks, or a promoted high-priority outlier.
type Group struct {
	Name              string        `json:"name"`
	TaskIDs           []int         `json:"taskIds"`
	Priority          task.Priority `json:"priority"`
	EstimatedDuration int           `json:"estimatedDuration"`
}

// Options tunes the clustering radius.
type Options struct {
	// Adaptive derives the radius from the batch's pairwise distance distribution.
	Adaptive bool
	// FixedRadius is used when Adaptive is false.
	FixedRadius float64
	// Percentile of pairwise distances used as the adaptive radius (0-100).
	Percentile float64
}

// DefaultOptions returns adaptive clustering at the 30th percentile.
func DefaultOptions() Options {
	return Options{
		Adaptive:    true,
		FixedRadius: DefaultFixedRadius,
		Percentile:  DefaultPercentile,
	}
}

// Result is the clustering outcome for one batch.
type Result struct {
	Groups []Group
	// Radius is the neighbourhood radius the clustering ran with.
	Radius float64
	// Labels holds one DBSCAN label per input task, Noise for outliers.
	Labels []int
}

// Engine groups tasks whose embeddings were computed by the caller.
type Engine struct {
	opts Options
}

// NewEngine creates a grouping engine. Zero-valued radius settings fall back to defaults.
func NewEngine(opts Options) *Engine {
	if opts.FixedRadius <= 0 {
		opts.FixedRadius = DefaultFixedRadius
	}
	if opts.Percentile <= 0 || opts.Percentile > 100 {
		opts.Percentile = DefaultPercentile
	}
	return &Engine{opts: opts}
}

// Radius returns the neighbourhood radius for a batch of vectors.
// The adaptive pass needs every vector and costs O(n²).
func (e *Engine) Radius(vectors [][]float64) float64 {
	if !e.opts.Adaptive {
		return e.opts.FixedRadius
	}
	return similarity.Percentile(similarity.PairwiseDistances(vectors), e.opts.Percentile)
}

// Group clusters tasks using vectors[i] as the embedding of tasks[i].
// Groups come back in order of their first member's position in the input.
// Outliers with high or critical priority become singleton groups; other
// outliers are left ungrouped.
func (e *Engine) Group(tasks []task.Task, vectors [][]float64) (*Result, error) {
	if len(tasks) < minBatchSize {
		return nil, task.InsufficientData(len(tasks), minBatchSize)
	}
	if len(vectors) != len(tasks) {
		return nil, task.NewError(task.KindOracleUnavailable, "embedding count does not match task count").
			WithDetail("tasks", len(tasks)).
			WithDetail("embeddings", len(vectors))
	}

	radius := e.Radius(vectors)
	minSamples := MinSamples(len(tasks))
	labels := DBSCAN(vectors, radius, minSamples)

	members := make(map[int][]task.Task)
	for i, t := range tasks {
		if labels[i] != Noise {
			members[labels[i]] = append(members[labels[i]], t)
		}
	}

	groups := []Group{}
	emitted := make(map[int]bool)
	dropped := 0
	for i, t := range tasks {
		label := labels[i]
		if label == Noise {
			if t.Priority.IsUrgent() {
				groups = append(groups, Group{
					Name:              IndividualName(t),
					TaskIDs:           []int{t.ID},
					Priority:          t.Priority,
					EstimatedDuration: t.Duration(),
				})
			} else {
				dropped++
			}
			continue
		}
		if emitted[label] {
			continue
		}
		emitted[label] = true
		groups = append(groups, newClusterGroup(members[label]))
	}

	slog.Debug("grouped tasks",
		"tasks", len(tasks),
		"radius", radius,
		"min_samples", minSamples,
		"groups", len(groups),
		"ungrouped", dropped)

	return &Result{Groups: groups, Radius: radius, Labels: labels}, nil
}

func newClusterGroup(members []task.Task) Group {
	g := Group{
		TaskIDs:  make([]int, 0, len(members)),
		Priority: members[0].Priority,
	}
	for _, m := range members {
		g.TaskIDs = append(g.TaskIDs, m.ID)
		g.EstimatedDuration += m.Duration()
		if m.Priority.Level() > g.Priority.Level() {
			g.Priority = m.Priority
		}
	}
	if len(members) > 1 {
		g.Name = ClusterName(members)
	} else {
		// DBSCAN never yields a one-member cluster with minSamples >= 2.
		g.Name = IndividualName(members[0])
	}
	return g
}
