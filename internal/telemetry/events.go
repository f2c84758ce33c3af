package telemetry

import (
	"time"

	"github.com/josephgoksu/tasksage/internal/task"
)

// Event names.
const (
	EventCommandRun   = "command_run"
	EventCommandError = "command_error"
	EventServerStart  = "server_start"
)

// CommandRun describes one CLI invocation. Task content is never included.
type CommandRun struct {
	Command   string
	TaskCount int
	Duration  time.Duration
	Err       error
}

// Name returns the event name for the run.
func (r CommandRun) Name() string {
	if r.Err != nil {
		return EventCommandError
	}
	return EventCommandRun
}

// Properties returns the event payload.
func (r CommandRun) Properties() map[string]any {
	props := map[string]any{
		"command":     r.Command,
		"task_count":  r.TaskCount,
		"duration_ms": r.Duration.Milliseconds(),
		"success":     r.Err == nil,
	}
	if r.Err != nil {
		kind := string(task.KindOf(r.Err))
		if kind == "" {
			kind = "other"
		}
		props["error_kind"] = kind
	}
	return props
}

// TrackCommand sends a CommandRun through c.
func TrackCommand(c Client, run CommandRun) {
	c.Track(run.Name(), run.Properties())
}
