package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/josephgoksu/tasksage/internal/briefing"
	"github.com/josephgoksu/tasksage/internal/dependency"
	"github.com/josephgoksu/tasksage/internal/grouping"
	"github.com/josephgoksu/tasksage/internal/planner"
	"github.com/josephgoksu/tasksage/internal/priority"
	"github.com/josephgoksu/tasksage/internal/schedule"
	"github.com/josephgoksu/tasksage/internal/task"
)

func TestTable_Render(t *testing.T) {
	tbl := Table{
		Headers: []string{"ID", "Name"},
		Rows: [][]string{
			{"1", "Short"},
			{"22", "A much longer task name"},
		},
		MaxWidth: 10,
	}
	assert.Equal(t, []int{2, 10}, tbl.ColumnWidths())

	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[3], "A much lo…")
	assert.NotContains(t, lines[3], "longer")

	assert.Empty(t, (&Table{}).Render())
}

func TestTable_ShortRowsPadded(t *testing.T) {
	tbl := Table{Headers: []string{"A", "B"}, Rows: [][]string{{"x"}}}
	out := tbl.Render()
	assert.Contains(t, out, " x  ")
}

func TestClipCell(t *testing.T) {
	assert.Equal(t, "abc", clipCell("abc", 5))
	assert.Equal(t, "ab…", clipCell("abcdef", 3))
	assert.Equal(t, "…", clipCell("abcdef", 1))
	assert.Equal(t, "é…", clipCell("éèêë", 2))
}

func TestRenderGroups(t *testing.T) {
	out := RenderGroups([]grouping.Group{
		{Name: "Work: Login", TaskIDs: []int{1, 3}, Priority: task.PriorityHigh, EstimatedDuration: 120},
	}, 0)
	assert.Contains(t, out, "Work: Login")
	assert.Contains(t, out, "1, 3")
	assert.Contains(t, out, "120")

	assert.Contains(t, RenderGroups(nil, 0), "No groups found.")
}

func TestRenderAssessments(t *testing.T) {
	out := RenderAssessments([]priority.Assessment{
		{ID: 7, Priority: task.PriorityCritical, PriorityScore: 125, Reasoning: "due tomorrow"},
		{ID: 8, Priority: task.PriorityLow, PriorityScore: 25, Reasoning: "standard prioritization", Issues: []string{"bad date"}},
	}, map[int]string{7: "Ship release", 8: "Tidy desk"}, 0)

	assert.Contains(t, out, "Ship release")
	assert.Contains(t, out, "125.0")
	assert.Contains(t, out, "bad date")
	assert.Less(t, strings.Index(out, "Ship release"), strings.Index(out, "Tidy desk"))
}

func TestRenderSchedule(t *testing.T) {
	start := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	out := RenderSchedule([]briefing.Entry{{
		Title: "Write contract",
		Item: schedule.Item{
			TaskID: 1, PomodoroCount: 2, StartTime: start, EndTime: start.Add(time.Hour),
			EstimatedMinutes: 50, BreakMinutes: 10,
			Difficulty: schedule.DifficultyLow, EnergyLevel: schedule.EnergyHigh,
		},
	}}, 0)
	assert.Contains(t, out, "09:00")
	assert.Contains(t, out, "10:00")
	assert.Contains(t, out, "50/10 min")
	assert.Contains(t, out, "high")
}

func TestRenderDependencies(t *testing.T) {
	out := RenderDependencies([]dependency.InferredTask{
		{Title: "Buffer time for X", DependencyType: dependency.KindBuffer, Priority: task.PriorityLow, EstimatedDuration: 30},
	}, 0)
	assert.Contains(t, out, "Buffer time for X")
	assert.Contains(t, out, "Buffer")

	assert.Contains(t, RenderDependencies(nil, 0), "No dependencies inferred.")
}

func TestRenderMatchesAndBriefing(t *testing.T) {
	out := RenderMatches([]planner.Match{{ID: 4, Similarity: 0.91234}}, map[int]string{4: "Fix signup"}, 0)
	assert.Contains(t, out, "Fix signup")
	assert.Contains(t, out, "0.912")
	assert.Contains(t, RenderMatches(nil, nil, 0), "No similar tasks.")

	b := RenderBriefing(briefing.Briefing{Summary: "Busy day", Tips: []string{"Start early"}})
	assert.Contains(t, b, "Busy day")
	assert.Contains(t, b, "• Start early")
}
