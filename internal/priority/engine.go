// Package priority scores a task batch for urgency and importance and ranks it.
package priority

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/josephgoksu/tasksage/internal/estimator"
	"github.com/josephgoksu/tasksage/internal/similarity"
	"github.com/josephgoksu/tasksage/internal/task"
)

// DefaultSimilarityThreshold is the cosine similarity above which two tasks of
// the same type count as batchable.
const DefaultSimilarityThreshold = 0.7

// Score weights.
const (
	levelWeight = 25.0

	dueWithinDayBonus   = 50.0
	dueWithinWeekBonus  = 30.0
	dueWithinMonthBonus = 10.0

	blockedBonus    = 40.0
	inProgressBonus = 20.0

	longTaskMinutes = 240
	longTaskBonus   = 15.0

	relatedTaskBonus   = 5.0
	minSharedWords     = 2
	batchingBonus      = 10.0
	minSimilarForBatch = 2
	timeOfDayBonus     = 10.0
)

// Label thresholds.
const (
	criticalScore = 80.0
	highScore     = 60.0
	mediumScore   = 40.0
)

// Reasoning phrases.
const (
	ReasonHighBase       = "high base priority"
	ReasonDueTomorrow    = "due tomorrow"
	ReasonDueThisWeek    = "due this week"
	ReasonBlocked        = "currently blocked"
	ReasonStandardPolicy = "standard prioritization"
)

type hourWindow struct{ from, to int }

// optimalHours are inclusive hour-of-day windows where a type gets a focus bonus.
var optimalHours = map[task.Type]hourWindow{
	task.TypeCreative:      {9, 11},
	task.TypeAdmin:         {13, 15},
	task.TypeCommunication: {10, 12},
}

// Assessment is the scored verdict for one task.
type Assessment struct {
	ID            int           `json:"id"`
	Priority      task.Priority `json:"priority"`
	PriorityScore float64       `json:"priorityScore"`
	Reasoning     string        `json:"reasoning"`
	Issues        []string      `json:"issues,omitempty"`
}

// Input is one task plus whatever the oracle produced for it.
type Input struct {
	Task task.Task
	// Embedding places the task for batching similarity. Nil means unknown.
	Embedding []float64
	// Features is the estimator input. Nil skips the regressor for this task.
	Features []float64
}

// Options tunes context adjustments.
type Options struct {
	// SimilarityThreshold is exclusive; zero uses DefaultSimilarityThreshold.
	SimilarityThreshold float64
	// Similarity scores two embeddings; nil uses cosine similarity.
	Similarity func(a, b []float64) float64
}

// Engine ranks task batches. The regressor is optional.
type Engine struct {
	regressor estimator.Estimator
	threshold float64
	simFn     func(a, b []float64) float64
}

// NewEngine creates a scoring engine. Pass a nil regressor for heuristic-only scoring.
func NewEngine(regressor estimator.Estimator, opts Options) *Engine {
	if opts.SimilarityThreshold == 0 {
		opts.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if opts.Similarity == nil {
		opts.Similarity = similarity.CosineSimilarity
	}
	return &Engine{
		regressor: regressor,
		threshold: opts.SimilarityThreshold,
		simFn:     opts.Similarity,
	}
}

// HasEstimator reports whether a priority regressor is configured.
func (e *Engine) HasEstimator() bool {
	return e.regressor != nil
}

// Prioritize scores every input and returns assessments sorted by score
// descending, keeping input order on ties. The context adjustment compares
// every pair of tasks, so the whole batch must be present.
func (e *Engine) Prioritize(ctx context.Context, inputs []Input, now time.Time) []Assessment {
	words := make([]map[string]struct{}, len(inputs))
	for i, in := range inputs {
		words[i] = wordSet(in.Task.Title)
	}

	out := make([]Assessment, 0, len(inputs))
	for i, in := range inputs {
		t := in.Task
		a := Assessment{ID: t.ID}

		days, hasDue, err := t.DueIn(now)
		if err != nil {
			slog.Warn("ignoring invalid due date", "task_id", t.ID, "due_date", t.DueDate, "error", err)
			a.Issues = append(a.Issues, err.Error())
		}

		score := BaseScore(t, days, hasDue)

		if e.regressor != nil && in.Features != nil {
			pred, perr := e.regressor.Predict(ctx, in.Features)
			if perr != nil {
				slog.Warn("priority estimator failed, using heuristic score", "task_id", t.ID, "error", perr)
			} else {
				score = (score + pred) / 2
			}
		}

		score += e.contextAdjustment(i, inputs, words, now)

		a.PriorityScore = score
		a.Priority = Label(score)
		a.Reasoning = Reasoning(t, days, hasDue)
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PriorityScore > out[j].PriorityScore
	})
	return out
}

// BaseScore combines priority level, due-date urgency, status and duration.
// hasDue is false when the task has no usable due date.
func BaseScore(t task.Task, days int, hasDue bool) float64 {
	score := float64(t.Priority.Level()) * levelWeight

	if hasDue {
		switch {
		case days <= 1:
			score += dueWithinDayBonus
		case days <= 7:
			score += dueWithinWeekBonus
		case days <= 30:
			score += dueWithinMonthBonus
		}
	}

	switch t.Status {
	case task.StatusBlocked:
		score += blockedBonus
	case task.StatusInProgress:
		score += inProgressBonus
	}

	if t.Duration() > longTaskMinutes {
		score += longTaskBonus
	}
	return score
}

func (e *Engine) contextAdjustment(i int, inputs []Input, words []map[string]struct{}, now time.Time) float64 {
	self := inputs[i]
	var adj float64

	similar := 0
	for j, other := range inputs {
		if j == i {
			continue
		}
		if sharedWords(words[i], words[j]) >= minSharedWords {
			adj += relatedTaskBonus
		}
		if e.batchable(self, other) {
			similar++
		}
	}
	if similar > minSimilarForBatch {
		adj += batchingBonus
	}

	if w, ok := optimalHours[self.Task.Type]; ok {
		if h := now.Hour(); h >= w.from && h <= w.to {
			adj += timeOfDayBonus
		}
	}
	return adj
}

func (e *Engine) batchable(a, b Input) bool {
	if a.Task.Type != b.Task.Type {
		return false
	}
	if len(a.Embedding) == 0 || len(b.Embedding) == 0 {
		return false
	}
	return e.simFn(a.Embedding, b.Embedding) > e.threshold
}

// Label maps a score to a priority bucket.
func Label(score float64) task.Priority {
	switch {
	case score >= criticalScore:
		return task.PriorityCritical
	case score >= highScore:
		return task.PriorityHigh
	case score >= mediumScore:
		return task.PriorityMedium
	default:
		return task.PriorityLow
	}
}

// Reasoning explains the score in short phrases joined by "; ".
func Reasoning(t task.Task, days int, hasDue bool) string {
	var reasons []string
	if t.Priority.IsUrgent() {
		reasons = append(reasons, ReasonHighBase)
	}
	if hasDue {
		switch {
		case days <= 1:
			reasons = append(reasons, ReasonDueTomorrow)
		case days <= 7:
			reasons = append(reasons, ReasonDueThisWeek)
		}
	}
	if t.Status == task.StatusBlocked {
		reasons = append(reasons, ReasonBlocked)
	}
	if len(reasons) == 0 {
		return ReasonStandardPolicy
	}
	return strings.Join(reasons, "; ")
}

func wordSet(title string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(title))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func sharedWords(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}
