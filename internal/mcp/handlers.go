package mcp

import (
	"context"
	"log/slog"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/josephgoksu/tasksage/internal/briefing"
	"github.com/josephgoksu/tasksage/internal/dependency"
	"github.com/josephgoksu/tasksage/internal/grouping"
	"github.com/josephgoksu/tasksage/internal/planner"
	"github.com/josephgoksu/tasksage/internal/priority"
	"github.com/josephgoksu/tasksage/internal/schedule"
	"github.com/josephgoksu/tasksage/internal/task"
)

// Planner is the engine surface the tools call. *planner.Engine implements it.
type Planner interface {
	GroupTasks(ctx context.Context, tasks []task.Task) ([]grouping.Group, error)
	GroupTasksFixed(ctx context.Context, tasks []task.Task) ([]grouping.Group, error)
	InferDependencies(ctx context.Context, t task.Task, now time.Time) ([]dependency.InferredTask, error)
	PrioritizeTasks(ctx context.Context, tasks []task.Task, now time.Time) ([]priority.Assessment, error)
	FindSimilar(ctx context.Context, target task.Task, candidates []task.Task, threshold float64) ([]planner.Match, error)
}

var _ Planner = (*planner.Engine)(nil)

// Handlers runs tool calls against a planner and renders Markdown.
type Handlers struct {
	engine  Planner
	briefer *briefing.Briefer
	clock   func() time.Time
}

// NewHandlers creates tool handlers. A nil briefer uses the built-in summary.
func NewHandlers(engine Planner, briefer *briefing.Briefer, clock func() time.Time) *Handlers {
	if briefer == nil {
		briefer = briefing.New(nil)
	}
	if clock == nil {
		clock = time.Now
	}
	return &Handlers{engine: engine, briefer: briefer, clock: clock}
}

// Group clusters related tasks.
func (h *Handlers) Group(ctx context.Context, p GroupParams) (string, error) {
	group := h.engine.GroupTasks
	if p.Fixed {
		group = h.engine.GroupTasksFixed
	}
	groups, err := group(ctx, p.Tasks)
	if err != nil {
		return "", err
	}
	return FormatGroups(groups, titlesOf(p.Tasks)), nil
}

// Prioritize ranks tasks by score.
func (h *Handlers) Prioritize(ctx context.Context, p BatchParams) (string, error) {
	now, err := parseNow(p.Now, h.clock)
	if err != nil {
		return "", err
	}
	assessments, err := h.engine.PrioritizeTasks(ctx, p.Tasks, now)
	if err != nil {
		return "", err
	}
	return FormatAssessments(assessments, titlesOf(p.Tasks)), nil
}

// Infer expands one task into preparation steps.
func (h *Handlers) Infer(ctx context.Context, p InferParams) (string, error) {
	if p.Task == nil {
		return "", task.NewError(task.KindMissingRequiredField, "task is required")
	}
	now, err := parseNow(p.Now, h.clock)
	if err != nil {
		return "", err
	}
	deps, err := h.engine.InferDependencies(ctx, *p.Task, now)
	if err != nil {
		return "", err
	}
	return FormatDependencies(*p.Task, deps), nil
}

// Schedule lays tasks out as pomodoro blocks, optionally with a briefing.
func (h *Handlers) Schedule(ctx context.Context, p ScheduleParams) (string, error) {
	now, err := parseNow(p.Now, h.clock)
	if err != nil {
		return "", err
	}
	assessments, err := h.engine.PrioritizeTasks(ctx, p.Tasks, now)
	if err != nil {
		return "", err
	}
	items := schedule.Build(schedule.Rank(assessments, p.Tasks), now)
	entries := briefing.Entries(items, p.Tasks, assessments)

	out := FormatSchedule(entries)
	if p.Brief {
		out += "\n\n" + FormatBriefing(h.briefer.Brief(ctx, entries))
	}
	return out, nil
}

// Similar lists tasks close to the target.
func (h *Handlers) Similar(ctx context.Context, p SimilarParams) (string, error) {
	if p.Target == nil {
		return "", task.NewError(task.KindMissingRequiredField, "target is required")
	}
	matches, err := h.engine.FindSimilar(ctx, *p.Target, p.Tasks, p.Threshold)
	if err != nil {
		return "", err
	}
	return FormatMatches(matches, titlesOf(p.Tasks)), nil
}

// Register adds every planning tool to server.
func Register(server *mcpsdk.Server, h *Handlers) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "group_tasks",
		Description: "Cluster related tasks by meaning. Returns named groups with combined priority and duration. Needs at least two tasks.",
	}, tool("group_tasks", h.Group))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "prioritize_tasks",
		Description: "Score and rank tasks by urgency, status, due date and batching opportunities. Returns the ranked list with reasons.",
	}, tool("prioritize_tasks", h.Prioritize))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "infer_dependencies",
		Description: "Suggest prerequisite, preparation and buffer tasks that should happen before the given task.",
	}, tool("infer_dependencies", h.Infer))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "create_schedule",
		Description: "Build a pomodoro schedule for the tasks starting at now, ordered by priority, with difficulty and energy hints.",
	}, tool("create_schedule", h.Schedule))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "find_similar_tasks",
		Description: "Find tasks semantically similar to a target task, most similar first.",
	}, tool("find_similar_tasks", h.Similar))
}

// tool adapts a Markdown handler to the SDK. Failures are returned in the
// result with IsError set so the calling model can see and correct them.
func tool[P any](name string, fn func(context.Context, P) (string, error)) mcpsdk.ToolHandlerFor[P, any] {
	return func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[P]) (*mcpsdk.CallToolResultFor[any], error) {
		start := time.Now()
		text, err := fn(ctx, params.Arguments)
		slog.Debug("mcp tool call", "tool", name, "duration_ms", time.Since(start).Milliseconds(), "error", err)
		if err != nil {
			return errorResult(err), nil
		}
		return &mcpsdk.CallToolResultFor[any]{
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
		}, nil
	}
}

func errorResult(err error) *mcpsdk.CallToolResultFor[any] {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: FormatError(err)}},
		IsError: true,
	}
}
