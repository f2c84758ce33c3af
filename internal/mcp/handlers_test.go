package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/tasksage/internal/planner"
	"github.com/josephgoksu/tasksage/internal/similarity"
	"github.com/josephgoksu/tasksage/internal/task"
)

var now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: 1, Title: "Write contract", Type: task.TypeWork, Priority: task.PriorityHigh, Status: task.StatusTodo, DueDate: "2026-10-17", EstimatedDuration: task.Minutes(60)},
		{ID: 2, Title: "Call plumber", Type: task.TypePersonal, Priority: task.PriorityLow, Status: task.StatusTodo, EstimatedDuration: task.Minutes(25)},
	}
}

func newHandlers() *Handlers {
	engine := planner.New(similarity.NewHashingOracle(0), planner.Options{})
	return NewHandlers(engine, nil, func() time.Time { return now })
}

func TestHandlers_Prioritize(t *testing.T) {
	out, err := newHandlers().Prioritize(context.Background(), BatchParams{Tasks: sampleTasks()})
	require.NoError(t, err)
	assert.Contains(t, out, "## Priorities")
	assert.Contains(t, out, "1. **#1 Write contract**")
	assert.Contains(t, out, "due tomorrow")
}

func TestHandlers_Schedule(t *testing.T) {
	out, err := newHandlers().Schedule(context.Background(), ScheduleParams{Tasks: sampleTasks(), Brief: true})
	require.NoError(t, err)
	assert.Contains(t, out, "| 1 | Write contract | 09:00-")
	assert.Contains(t, out, "## Briefing")
	assert.Contains(t, out, "2 tasks")
}

func TestHandlers_Infer(t *testing.T) {
	h := newHandlers()

	_, err := h.Infer(context.Background(), InferParams{})
	assert.ErrorIs(t, err, task.ErrMissingRequiredField)

	tk := sampleTasks()[0]
	out, err := h.Infer(context.Background(), InferParams{Task: &tk})
	require.NoError(t, err)
	assert.Contains(t, out, "Write contract")
}

func TestHandlers_GroupNeedsTwoTasks(t *testing.T) {
	_, err := newHandlers().Group(context.Background(), GroupParams{Tasks: sampleTasks()[:1]})
	assert.ErrorIs(t, err, task.ErrInsufficientData)
}

func TestHandlers_Similar(t *testing.T) {
	h := newHandlers()
	_, err := h.Similar(context.Background(), SimilarParams{Tasks: sampleTasks()})
	assert.ErrorIs(t, err, task.ErrMissingRequiredField)

	tasks := sampleTasks()
	out, err := h.Similar(context.Background(), SimilarParams{Target: &tasks[0], Tasks: tasks, Threshold: 0.99})
	require.NoError(t, err)
	assert.Equal(t, "No similar tasks.", out)
}

func TestHandlers_BadNow(t *testing.T) {
	_, err := newHandlers().Prioritize(context.Background(), BatchParams{Tasks: sampleTasks(), Now: "noon"})
	assert.ErrorIs(t, err, task.ErrInvalidDateFormat)
}

func TestTool_WrapsErrorsInResult(t *testing.T) {
	failing := tool("x", func(context.Context, BatchParams) (string, error) {
		return "", task.InsufficientData(1, 2)
	})
	res, err := failing(context.Background(), nil, &mcpsdk.CallToolParamsFor[BatchParams]{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	text := res.Content[0].(*mcpsdk.TextContent).Text
	assert.Contains(t, text, "**Kind**: InsufficientData")

	ok := tool("y", func(context.Context, BatchParams) (string, error) { return "done", nil })
	res, err = ok(context.Background(), nil, &mcpsdk.CallToolParamsFor[BatchParams]{})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "done", res.Content[0].(*mcpsdk.TextContent).Text)
}

func TestFormatError_PlainError(t *testing.T) {
	out := FormatError(errors.New("boom"))
	assert.NotContains(t, out, "**Kind**")
	assert.Contains(t, out, "**Details**: boom")
}
