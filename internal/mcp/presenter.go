package mcp

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/josephgoksu/tasksage/internal/briefing"
	"github.com/josephgoksu/tasksage/internal/dependency"
	"github.com/josephgoksu/tasksage/internal/grouping"
	"github.com/josephgoksu/tasksage/internal/planner"
	"github.com/josephgoksu/tasksage/internal/priority"
	"github.com/josephgoksu/tasksage/internal/task"
)

// FormatGroups renders clusters as a Markdown list.
func FormatGroups(groups []grouping.Group, titles map[int]string) string {
	if len(groups) == 0 {
		return "No groups found."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Groups (%d)\n\n", len(groups))
	for i, g := range groups {
		fmt.Fprintf(&sb, "%d. **%s** (%s priority, %d min)\n", i+1, g.Name, g.Priority, g.EstimatedDuration)
		for _, id := range g.TaskIDs {
			fmt.Fprintf(&sb, "   - #%d %s\n", id, titles[id])
		}
	}
	return strings.TrimSpace(sb.String())
}

// FormatAssessments renders a ranked priority list.
func FormatAssessments(assessments []priority.Assessment, titles map[int]string) string {
	if len(assessments) == 0 {
		return "No tasks to prioritize."
	}
	var sb strings.Builder
	sb.WriteString("## Priorities\n\n")
	for i, a := range assessments {
		fmt.Fprintf(&sb, "%d. **#%d %s** score %.1f (%s): %s\n", i+1, a.ID, titles[a.ID], a.PriorityScore, a.Priority, a.Reasoning)
		for _, issue := range a.Issues {
			fmt.Fprintf(&sb, "   - ⚠ %s\n", issue)
		}
	}
	return strings.TrimSpace(sb.String())
}

// FormatDependencies renders inferred sub-tasks in execution order.
func FormatDependencies(parent task.Task, deps []dependency.InferredTask) string {
	if len(deps) == 0 {
		return fmt.Sprintf("No dependencies inferred for **%s**.", parent.Title)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Before \"%s\"\n\n", parent.Title)
	for i, d := range deps {
		fmt.Fprintf(&sb, "%d. **%s** [%s] %s priority, %d min\n", i+1, d.Title, cases.Title(language.English).String(string(d.DependencyType)), d.Priority, d.EstimatedDuration)
		if d.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", d.Description)
		}
	}
	return strings.TrimSpace(sb.String())
}

// FormatSchedule renders pomodoro blocks with their slot times.
func FormatSchedule(entries []briefing.Entry) string {
	if len(entries) == 0 {
		return "Nothing to schedule."
	}
	var sb strings.Builder
	sb.WriteString("## Schedule\n\n")
	sb.WriteString("| # | Task | Time | Pomodoros | Difficulty | Energy |\n")
	sb.WriteString("|---|------|------|-----------|------------|--------|\n")
	for _, e := range entries {
		it := e.Item
		fmt.Fprintf(&sb, "| %d | %s | %s-%s | %d | %s | %s |\n",
			it.Order+1, escapeCell(e.Title),
			it.StartTime.Format("15:04"), it.EndTime.Format("15:04"),
			it.PomodoroCount, it.Difficulty, cases.Title(language.English).String(string(it.EnergyLevel)))
	}
	return strings.TrimSpace(sb.String())
}

// FormatBriefing renders the day summary and tips.
func FormatBriefing(b briefing.Briefing) string {
	var sb strings.Builder
	sb.WriteString("## Briefing\n\n")
	sb.WriteString(b.Summary)
	sb.WriteString("\n")
	for _, tip := range b.Tips {
		fmt.Fprintf(&sb, "- %s\n", tip)
	}
	return strings.TrimSpace(sb.String())
}

// FormatMatches renders similarity search results.
func FormatMatches(matches []planner.Match, titles map[int]string) string {
	if len(matches) == 0 {
		return "No similar tasks."
	}
	var sb strings.Builder
	sb.WriteString("## Similar tasks\n\n")
	for _, m := range matches {
		fmt.Fprintf(&sb, "- #%d %s (%.3f)\n", m.ID, titles[m.ID], m.Similarity)
	}
	return strings.TrimSpace(sb.String())
}

// FormatError returns a standardized Markdown error message.
func FormatError(err error) string {
	var sb strings.Builder
	sb.WriteString("## ❌ Error\n\n")
	if kind := task.KindOf(err); kind != "" {
		fmt.Fprintf(&sb, "**Kind**: %s\n", kind)
	}
	fmt.Fprintf(&sb, "**Details**: %s", err.Error())
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func titlesOf(tasks []task.Task) map[int]string {
	m := make(map[int]string, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t.Title
	}
	return m
}
