package server

import (
	"github.com/josephgoksu/tasksage/internal/briefing"
	"github.com/josephgoksu/tasksage/internal/planner"
	"github.com/josephgoksu/tasksage/internal/schedule"
	"github.com/josephgoksu/tasksage/internal/task"
)

// BatchRequest is the payload for the batch endpoints.
// Now is an optional RFC 3339 timestamp that replaces the server clock.
type BatchRequest struct {
	Tasks []task.Task `json:"tasks"`
	Now   string      `json:"now,omitempty"`
}

// TaskRequest is the payload for /infer_dependencies.
type TaskRequest struct {
	Task *task.Task `json:"task"`
	Now  string     `json:"now,omitempty"`
}

// SimilarRequest is the payload for /find_similar_tasks.
type SimilarRequest struct {
	Target    *task.Task  `json:"target"`
	Tasks     []task.Task `json:"tasks"`
	Threshold float64     `json:"threshold,omitempty"`
}

// SimilarResponse is the response for /find_similar_tasks.
type SimilarResponse struct {
	Matches []planner.Match `json:"matches"`
}

// BriefingResponse is the response for /schedule_briefing.
type BriefingResponse struct {
	Schedule []schedule.Item   `json:"schedule"`
	Briefing briefing.Briefing `json:"briefing"`
}

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse wraps every non-2xx reply.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure. Kind is a task.Kind or one of the
// request-level kinds below.
type ErrorBody struct {
	Kind      string         `json:"kind"`
	Message   string         `json:"message"`
	TaskID    int            `json:"taskId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
}

// Request-level error kinds.
const (
	KindInvalidRequest = "InvalidRequest"
	KindUnauthorized   = "Unauthorized"
	KindInternal       = "Internal"
)
