package estimator

import (
	"time"

	"github.com/josephgoksu/tasksage/internal/task"
)

const (
	// NoDueDateDays is the days-until-due feature used when a task has no
	// usable due date.
	NoDueDateDays = 30

	// LongTaskMinutes is the duration above which a task is flagged as long.
	LongTaskMinutes = 120

	dueSoonDays = 7
)

// Features builds the estimator input for t. The layout is fixed:
//
//	embedding ++ one-hot(type, 8 slots) ++ [days] ++ [dueSoon] ++ [duration] ++ [long]
//
// embedding is the oracle vector of t.FeatureText(). An unparseable due date is
// treated as absent; the caller is responsible for reporting it.
func Features(t task.Task, embedding []float64, now time.Time) []float64 {
	out := make([]float64, 0, len(embedding)+len(task.Types)+4)
	out = append(out, embedding...)

	for _, typ := range task.Types {
		if t.Type == typ {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}

	days, ok, err := t.DueIn(now)
	if ok && err == nil {
		d := days
		if d < 0 {
			d = 0
		}
		out = append(out, float64(d))
		if days < dueSoonDays {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	} else {
		out = append(out, NoDueDateDays, 0)
	}

	duration := t.Duration()
	out = append(out, float64(duration))
	if duration > LongTaskMinutes {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}

	return out
}
