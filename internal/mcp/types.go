// Package mcp exposes the planning operations as Model Context Protocol tools.
package mcp

import (
	"fmt"
	"time"

	"github.com/josephgoksu/tasksage/internal/task"
)

// BatchParams is the input for tools that work on a task batch.
type BatchParams struct {
	Tasks []task.Task `json:"tasks" mcp:"the tasks to plan"`
	Now   string      `json:"now,omitempty" mcp:"RFC 3339 reference time, defaults to the current time"`
}

// GroupParams is the input for group_tasks.
type GroupParams struct {
	Tasks []task.Task `json:"tasks" mcp:"at least two tasks to cluster"`
	Fixed bool        `json:"fixed,omitempty" mcp:"use the fixed clustering radius instead of the adaptive one"`
}

// InferParams is the input for infer_dependencies.
type InferParams struct {
	Task *task.Task `json:"task" mcp:"the task to expand into sub-tasks"`
	Now  string     `json:"now,omitempty" mcp:"RFC 3339 reference time"`
}

// ScheduleParams is the input for create_schedule.
type ScheduleParams struct {
	Tasks []task.Task `json:"tasks" mcp:"the tasks to schedule"`
	Now   string      `json:"now,omitempty" mcp:"RFC 3339 start time, defaults to the current time"`
	Brief bool        `json:"brief,omitempty" mcp:"append a short briefing for the day"`
}

// SimilarParams is the input for find_similar_tasks.
type SimilarParams struct {
	Target    *task.Task  `json:"target" mcp:"the task to compare against"`
	Tasks     []task.Task `json:"tasks" mcp:"candidate tasks"`
	Threshold float64     `json:"threshold,omitempty" mcp:"minimum cosine similarity, defaults to the configured threshold"`
}

// parseNow resolves an optional RFC 3339 override.
func parseNow(raw string, clock func() time.Time) (time.Time, error) {
	if raw == "" {
		return clock(), nil
	}
	now, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, task.NewError(task.KindInvalidDateFormat, fmt.Sprintf("now must be RFC 3339, got %q", raw))
	}
	return now, nil
}
