package dependency

import (
	"strings"

	"github.com/josephgoksu/tasksage/internal/task"
)

// Pattern maps a domain keyword to the canonical sub-steps of that kind of work.
type Pattern struct {
	Keyword string
	Steps   []string
}

// Patterns is scanned in order; the first keyword found wins.
var Patterns = []Pattern{
	{Keyword: "contract", Steps: []string{"legal_review", "template_creation", "client_approval"}},
	{Keyword: "presentation", Steps: []string{"research", "content_creation", "design", "rehearsal"}},
	{Keyword: "development", Steps: []string{"requirements", "design", "implementation", "testing", "deployment"}},
	{Keyword: "report", Steps: []string{"data_collection", "analysis", "writing", "review", "formatting"}},
	{Keyword: "meeting", Steps: []string{"agenda_preparation", "invite_participants", "book_room", "follow_up"}},
	{Keyword: "marketing", Steps: []string{"strategy", "content_creation", "approval", "distribution", "analytics"}},
}

// PreparationSteps are generic steps used to top up an estimator-predicted
// dependency count. Types without an entry use the work table.
var PreparationSteps = map[task.Type][]string{
	task.TypeWork:     {"stakeholder_alignment", "resource_allocation", "risk_assessment"},
	task.TypeLearning: {"prerequisite_knowledge", "practice_materials", "progress_tracking"},
	task.TypePersonal: {"time_blocking", "resource_gathering", "environment_setup"},
	task.TypeCreative: {"inspiration_research", "tool_preparation", "feedback_planning"},
}

// MatchPattern returns the first pattern whose keyword appears in the task's
// title or description, case-insensitively.
func MatchPattern(t task.Task) (Pattern, bool) {
	title := strings.ToLower(t.Title)
	desc := strings.ToLower(t.Description)
	for _, p := range Patterns {
		if strings.Contains(title, p.Keyword) || strings.Contains(desc, p.Keyword) {
			return p, true
		}
	}
	return Pattern{}, false
}

func preparationSteps(typ task.Type) []string {
	if steps, ok := PreparationSteps[typ]; ok {
		return steps
	}
	return PreparationSteps[task.TypeWork]
}
