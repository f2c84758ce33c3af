package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/josephgoksu/tasksage/internal/briefing"
	"github.com/josephgoksu/tasksage/internal/dependency"
	"github.com/josephgoksu/tasksage/internal/grouping"
	"github.com/josephgoksu/tasksage/internal/planner"
	"github.com/josephgoksu/tasksage/internal/priority"
	"github.com/josephgoksu/tasksage/internal/utils"
)

// RenderGroups lists each group with its member ids.
func RenderGroups(groups []grouping.Group, maxWidth int) string {
	if len(groups) == 0 {
		return StyleSubtle.Render("No groups found.") + "\n"
	}
	t := Table{Headers: []string{"Group", "Tasks", "Priority", "Minutes"}, MaxWidth: maxWidth}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{
			g.Name,
			joinIDs(g.TaskIDs),
			PriorityStyle(g.Priority).Render(string(g.Priority)),
			strconv.Itoa(g.EstimatedDuration),
		})
	}
	return t.Render()
}

// RenderAssessments lists tasks in ranked order with their score and reasons.
func RenderAssessments(assessments []priority.Assessment, titles map[int]string, maxWidth int) string {
	t := Table{Headers: []string{"#", "ID", "Task", "Priority", "Score", "Reasoning"}, MaxWidth: maxWidth}
	for i, a := range assessments {
		reason := a.Reasoning
		if len(a.Issues) > 0 {
			reason += " " + StyleWarning.Render("("+strings.Join(a.Issues, "; ")+")")
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(a.ID),
			titles[a.ID],
			PriorityStyle(a.Priority).Render(string(a.Priority)),
			fmt.Sprintf("%.1f", a.PriorityScore),
			reason,
		})
	}
	return t.Render()
}

// RenderSchedule lists pomodoro blocks in order.
func RenderSchedule(entries []briefing.Entry, maxWidth int) string {
	t := Table{Headers: []string{"Start", "End", "Task", "Pomodoros", "Focus/Break", "Difficulty", "Energy"}, MaxWidth: maxWidth}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			e.Item.StartTime.Format("15:04"),
			e.Item.EndTime.Format("15:04"),
			e.Title,
			strconv.Itoa(e.Item.PomodoroCount),
			fmt.Sprintf("%d/%d min", e.Item.EstimatedMinutes, e.Item.BreakMinutes),
			DifficultyStyle(e.Item.Difficulty).Render(string(e.Item.Difficulty)),
			string(e.Item.EnergyLevel),
		})
	}
	return t.Render()
}

// RenderDependencies lists inferred sub-tasks in execution order.
func RenderDependencies(deps []dependency.InferredTask, maxWidth int) string {
	if len(deps) == 0 {
		return StyleSubtle.Render("No dependencies inferred.") + "\n"
	}
	t := Table{Headers: []string{"Step", "Title", "Kind", "Priority", "Minutes"}, MaxWidth: maxWidth}
	for i, d := range deps {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			d.Title,
			utils.ToTitle(string(d.DependencyType)),
			PriorityStyle(d.Priority).Render(string(d.Priority)),
			strconv.Itoa(d.EstimatedDuration),
		})
	}
	return t.Render()
}

// RenderMatches lists similarity search hits.
func RenderMatches(matches []planner.Match, titles map[int]string, maxWidth int) string {
	if len(matches) == 0 {
		return StyleSubtle.Render("No similar tasks.") + "\n"
	}
	t := Table{Headers: []string{"ID", "Task", "Similarity"}, MaxWidth: maxWidth}
	for _, m := range matches {
		t.Rows = append(t.Rows, []string{strconv.Itoa(m.ID), titles[m.ID], fmt.Sprintf("%.3f", m.Similarity)})
	}
	return t.Render()
}

// RenderBriefing boxes a briefing summary and its tips.
func RenderBriefing(b briefing.Briefing) string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(b.Summary))
	for _, tip := range b.Tips {
		sb.WriteString("\n• " + tip)
	}
	return StyleBriefingBox.Render(sb.String()) + "\n"
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
