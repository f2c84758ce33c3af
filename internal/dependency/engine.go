// Package dependency expands a single task into the prerequisite, preparation
// and buffer sub-tasks needed to finish it.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/josephgoksu/tasksage/internal/estimator"
	"github.com/josephgoksu/tasksage/internal/task"
	"github.com/josephgoksu/tasksage/internal/utils"
)

// Kind says how an inferred task relates to its source.
type Kind string

const (
	KindPrerequisite Kind = "prerequisite"
	KindPreparation  Kind = "preparation"
	KindBuffer       Kind = "buffer"
)

const (
	minPrerequisiteMinutes = 30
	preparationMinutes     = 45
	bufferMinutes          = 30
	highPriorityStepCount  = 2
)

// InferredTask is a derived sub-task. It is never merged back into the input batch.
type InferredTask struct {
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Type              task.Type     `json:"type"`
	Priority          task.Priority `json:"priority"`
	EstimatedDuration int           `json:"estimatedDuration"`
	DependencyType    Kind          `json:"dependencyType"`
}

// Engine infers dependencies. The estimator is optional.
type Engine struct {
	counter estimator.Estimator
}

// NewEngine creates an engine. counter predicts how many dependencies a task
// should have; pass nil to use patterns and buffers only.
func NewEngine(counter estimator.Estimator) *Engine {
	return &Engine{counter: counter}
}

// HasEstimator reports whether a dependency-count estimator is configured.
func (e *Engine) HasEstimator() bool {
	return e.counter != nil
}

// Infer expands t. features is the estimator input for t; nil skips the
// estimator. Earlier entries in the result matter more. An empty result is valid.
func (e *Engine) Infer(ctx context.Context, t task.Task, features []float64) []InferredTask {
	deps := prerequisites(t)

	if e.counter != nil && features != nil {
		pred, err := e.counter.Predict(ctx, features)
		if err != nil {
			slog.Warn("dependency estimator failed, skipping preparation steps",
				"task_id", t.ID, "error", err)
		} else if want := int(math.Round(pred)); want > len(deps) {
			deps = append(deps, preparations(t, want-len(deps))...)
		}
	}

	if t.HasDueDate() {
		deps = append(deps, InferredTask{
			Title:             fmt.Sprintf("Buffer time for %s", t.Title),
			Description:       fmt.Sprintf("Buffer time to handle unexpected issues with %s", t.Title),
			Type:              t.Type,
			Priority:          task.PriorityLow,
			EstimatedDuration: bufferMinutes,
			DependencyType:    KindBuffer,
		})
	}

	return deps
}

func prerequisites(t task.Task) []InferredTask {
	pattern, ok := MatchPattern(t)
	if !ok {
		return nil
	}

	minutes := t.Duration() / len(pattern.Steps)
	if minutes < minPrerequisiteMinutes {
		minutes = minPrerequisiteMinutes
	}

	out := make([]InferredTask, 0, len(pattern.Steps))
	for i, step := range pattern.Steps {
		prio := task.PriorityMedium
		if i < highPriorityStepCount {
			prio = task.PriorityHigh
		}
		out = append(out, InferredTask{
			Title:             fmt.Sprintf("%s for %s", utils.SnakeToTitle(step), t.Title),
			Description:       fmt.Sprintf("Required step %d to complete %s", i+1, t.Title),
			Type:              t.Type,
			Priority:          prio,
			EstimatedDuration: minutes,
			DependencyType:    KindPrerequisite,
		})
	}
	return out
}

func preparations(t task.Task, count int) []InferredTask {
	steps := preparationSteps(t.Type)
	if count > len(steps) {
		count = len(steps)
	}
	out := make([]InferredTask, 0, count)
	for _, step := range steps[:count] {
		out = append(out, InferredTask{
			Title:             fmt.Sprintf("%s for %s", utils.SnakeToTitle(step), t.Title),
			Description:       fmt.Sprintf("Essential preparation step for %s", t.Title),
			Type:              t.Type,
			Priority:          task.PriorityMedium,
			EstimatedDuration: preparationMinutes,
			DependencyType:    KindPreparation,
		})
	}
	return out
}
