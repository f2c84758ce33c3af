package task

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Layouts with an explicit offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// Layouts without an offset; parsed in the caller's location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDueDate parses an ISO-8601 date or date-time. Values without a zone
// offset are interpreted in loc.
func ParseDueDate(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized ISO-8601 value %q", raw)
}

// DaysUntil returns whole days from now until due, floored, so anything due
// later today is 0 and anything overdue is negative.
func DaysUntil(due, now time.Time) int {
	return int(math.Floor(due.Sub(now).Hours() / 24))
}

// DueIn resolves the task's due date relative to now.
// ok is false when the task has no due date. A malformed value returns an
// InvalidDateFormat error scoped to this task.
func (t Task) DueIn(now time.Time) (days int, ok bool, err error) {
	if !t.HasDueDate() {
		return 0, false, nil
	}
	due, perr := ParseDueDate(t.DueDate, now.Location())
	if perr != nil {
		return 0, false, NewError(KindInvalidDateFormat, fmt.Sprintf("task %d: invalid dueDate %q", t.ID, t.DueDate)).
			WithTask(t.ID).
			WithDetail("field", "dueDate").
			Wrap(perr)
	}
	return DaysUntil(due, now), true, nil
}
