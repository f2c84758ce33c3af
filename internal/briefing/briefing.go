// Package briefing writes a short narrative for a pomodoro schedule, using a
// chat model when one is configured and a built-in summary otherwise.
package briefing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/josephgoksu/tasksage/internal/config"
	"github.com/josephgoksu/tasksage/internal/priority"
	"github.com/josephgoksu/tasksage/internal/schedule"
	"github.com/josephgoksu/tasksage/internal/task"
	"github.com/josephgoksu/tasksage/internal/utils"
)

// Sources of a briefing.
const (
	SourceModel   = "model"
	SourceBuiltin = "builtin"
)

// Entry is one scheduled block with the context needed to describe it.
type Entry struct {
	Item      schedule.Item
	Title     string
	Reasoning string
}

// Briefing is the narrative returned to the user.
type Briefing struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
	Source  string   `json:"source"`
}

// Briefer produces briefings. A nil chat model always yields the built-in text.
type Briefer struct {
	chat model.BaseChatModel
}

// New creates a Briefer.
func New(chat model.BaseChatModel) *Briefer {
	return &Briefer{chat: chat}
}

// Entries joins schedule items with their task titles and scoring reasons.
func Entries(items []schedule.Item, tasks []task.Task, assessments []priority.Assessment) []Entry {
	titles := make(map[int]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}
	reasons := make(map[int]string, len(assessments))
	for _, a := range assessments {
		reasons[a.ID] = a.Reasoning
	}
	out := make([]Entry, len(items))
	for i, it := range items {
		out[i] = Entry{Item: it, Title: titles[it.TaskID], Reasoning: reasons[it.TaskID]}
	}
	return out
}

// Brief asks the chat model for a briefing and falls back to Builtin when no
// model is configured or the call or its output fails.
func (b *Briefer) Brief(ctx context.Context, entries []Entry) Briefing {
	if b.chat == nil || len(entries) == 0 {
		return Builtin(entries)
	}

	messages := []*schema.Message{
		schema.SystemMessage(config.SystemPromptBriefing),
		schema.UserMessage(buildPrompt(entries)),
	}
	resp, err := b.chat.Generate(ctx, messages)
	if err != nil {
		slog.Warn("briefing model failed, using built-in summary", "error", err)
		return Builtin(entries)
	}

	parsed, err := utils.ExtractAndParseJSON[Briefing](resp.Content)
	if err != nil || strings.TrimSpace(parsed.Summary) == "" {
		slog.Warn("briefing model returned unusable output, using built-in summary", "error", err)
		return Builtin(entries)
	}
	parsed.Source = SourceModel
	return parsed
}

func buildPrompt(entries []Entry) string {
	var sb strings.Builder
	sb.WriteString("SCHEDULE:\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "%d. %s | %s-%s | %d pomodoros | difficulty %s | energy %s | %s\n",
			e.Item.Order+1, e.Title,
			e.Item.StartTime.Format("15:04"), e.Item.EndTime.Format("15:04"),
			e.Item.PomodoroCount, e.Item.Difficulty, e.Item.EnergyLevel, e.Reasoning)
	}
	sb.WriteString("\nRespond with JSON only:")
	return sb.String()
}

// Builtin summarizes a schedule without a model.
func Builtin(entries []Entry) Briefing {
	if len(entries) == 0 {
		return Briefing{Summary: "Nothing to schedule.", Tips: []string{}, Source: SourceBuiltin}
	}

	pomodoros := 0
	end := entries[0].Item.EndTime
	for _, e := range entries {
		pomodoros += e.Item.PomodoroCount
		if e.Item.EndTime.After(end) {
			end = e.Item.EndTime
		}
	}

	tips := []string{}
	for _, e := range entries {
		if e.Item.Difficulty == schedule.DifficultyHigh && e.Item.EnergyLevel == schedule.EnergyLow {
			tips = append(tips, fmt.Sprintf("%q is demanding but starts in a low-energy slot at %s.", e.Title, e.Item.StartTime.Format("15:04")))
		}
		if strings.Contains(e.Reasoning, priority.ReasonBlocked) {
			tips = append(tips, fmt.Sprintf("Clear the blocker on %q before its slot.", e.Title))
		}
		if strings.Contains(e.Reasoning, priority.ReasonDueTomorrow) {
			tips = append(tips, fmt.Sprintf("%q is due tomorrow.", e.Title))
		}
	}

	return Briefing{
		Summary: fmt.Sprintf("%d %s across %d %s, first up %q, wrapping up around %s.",
			len(entries), plural(len(entries), "task", "tasks"),
			pomodoros, plural(pomodoros, "pomodoro", "pomodoros"),
			entries[0].Title, end.Format("15:04")),
		Tips:   tips,
		Source: SourceBuiltin,
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
