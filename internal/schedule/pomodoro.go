// Package schedule turns a ranked task list into pomodoro time blocks.
package schedule

import (
	"math"
	"time"

	"github.com/josephgoksu/tasksage/internal/priority"
	"github.com/josephgoksu/tasksage/internal/task"
)

// Pomodoro timing, in minutes.
const (
	WorkMinutes  = 25
	BreakMinutes = 5
	CycleMinutes = WorkMinutes + BreakMinutes

	// SlotStride separates successive start times. It does not depend on the
	// previous task's length, so long blocks overlap the next start. The start
	// times are ordering markers, not a conflict-free calendar.
	SlotStride = 30 * time.Minute
)

// Difficulty is the expected cognitive load of a task.
type Difficulty string

const (
	DifficultyLow    Difficulty = "low"
	DifficultyMedium Difficulty = "medium"
	DifficultyHigh   Difficulty = "high"
)

// Energy is the recommended energy level for a time slot.
type Energy string

const (
	EnergyLow        Energy = "low"
	EnergyMedium     Energy = "medium"
	EnergyMediumHigh Energy = "medium-high"
	EnergyHigh       Energy = "high"
)

// Type literals that are not declared task types but are still recognized
// when present on input that bypassed validation.
const (
	typeDevelopment task.Type = "development"
	typeAnalysis    task.Type = "analysis"
)

// extraPomodoroTypes get one additional pomodoro as a buffer.
var extraPomodoroTypes = map[task.Type]bool{
	task.TypeCreative: true,
	task.TypeLearning: true,
	typeDevelopment:   true,
}

// complexTypes are always rated high difficulty.
var complexTypes = map[task.Type]bool{
	typeDevelopment:   true,
	task.TypeCreative: true,
	task.TypeLearning: true,
	typeAnalysis:      true,
}

const (
	highDifficultyMinutes   = 180
	mediumDifficultyMinutes = 90
)

// Item is one scheduled block.
type Item struct {
	TaskID           int        `json:"taskId"`
	PomodoroCount    int        `json:"pomodoroCount"`
	Order            int        `json:"order"`
	StartTime        time.Time  `json:"startTime"`
	EndTime          time.Time  `json:"endTime"`
	EstimatedMinutes int        `json:"estimatedMinutes"`
	BreakMinutes     int        `json:"breakMinutes"`
	Difficulty       Difficulty `json:"difficulty"`
	EnergyLevel      Energy     `json:"energyLevel"`
}

// Rank reorders tasks to follow a prioritization result. Assessments whose id
// is not in tasks are skipped.
func Rank(assessments []priority.Assessment, tasks []task.Task) []task.Task {
	byID := make(map[int]task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	out := make([]task.Task, 0, len(assessments))
	for _, a := range assessments {
		if t, ok := byID[a.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Build lays out ranked tasks starting at now. The i-th task starts at
// now + i*SlotStride and runs for its pomodoro count of full cycles.
func Build(ranked []task.Task, now time.Time) []Item {
	items := make([]Item, 0, len(ranked))
	for i, t := range ranked {
		count := PomodoroCount(t.Duration(), t.Type)
		start := now.Add(time.Duration(i) * SlotStride)
		end := start.Add(time.Duration(count*CycleMinutes) * time.Minute)
		items = append(items, Item{
			TaskID:           t.ID,
			PomodoroCount:    count,
			Order:            i,
			StartTime:        start,
			EndTime:          end,
			EstimatedMinutes: count * WorkMinutes,
			BreakMinutes:     count * BreakMinutes,
			Difficulty:       AssessDifficulty(t.Duration(), t.Type),
			EnergyLevel:      EnergyFor(start),
		})
	}
	return items
}

// PomodoroCount is max(1, round(minutes/25)), plus one for complex types.
func PomodoroCount(minutes int, typ task.Type) int {
	count := int(math.Round(float64(minutes) / WorkMinutes))
	if count < 1 {
		count = 1
	}
	if extraPomodoroTypes[typ] {
		count++
	}
	return count
}

// AssessDifficulty rates a task by length and type.
func AssessDifficulty(minutes int, typ task.Type) Difficulty {
	switch {
	case minutes > highDifficultyMinutes || complexTypes[typ]:
		return DifficultyHigh
	case minutes > mediumDifficultyMinutes:
		return DifficultyMedium
	default:
		return DifficultyLow
	}
}

// EnergyFor recommends an energy level from the start hour. Windows are
// inclusive and checked in order, so 16:xx is medium-high.
func EnergyFor(start time.Time) Energy {
	h := start.Hour()
	switch {
	case h >= 9 && h <= 11:
		return EnergyHigh
	case h >= 14 && h <= 16:
		return EnergyMediumHigh
	case h >= 16 && h <= 18:
		return EnergyMedium
	default:
		return EnergyLow
	}
}
