// Package task defines the task records the planning engine consumes and the
// structured errors it reports.
package task

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultDuration is the estimated duration in minutes used when a task omits one.
const DefaultDuration = 60

// Type classifies what kind of work a task is.
type Type string

const (
	TypeWork          Type = "work"
	TypePersonal      Type = "personal"
	TypeLearning      Type = "learning"
	TypeAdmin         Type = "admin"
	TypeMeeting       Type = "meeting"
	TypeCreative      Type = "creative"
	TypeCommunication Type = "communication"
	TypeOther         Type = "other"
)

// Types lists every declared task type in the fixed order used for one-hot encoding.
var Types = []Type{
	TypeWork,
	TypePersonal,
	TypeLearning,
	TypeAdmin,
	TypeMeeting,
	TypeCreative,
	TypeCommunication,
	TypeOther,
}

// Priority is the user-assigned importance of a task.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Level maps a priority to its numeric weight (low=1 .. critical=4).
// Unknown priorities weigh as medium.
func (p Priority) Level() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 2
	}
}

// IsUrgent reports whether the priority is high or critical.
func (p Priority) IsUrgent() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
	StatusArchived   Status = "archived"
)

// Task is a single unit of work submitted for planning.
// It is treated as immutable for the duration of one engine call.
type Task struct {
	ID                int      `json:"id" yaml:"id" validate:"required"`
	Title             string   `json:"title" yaml:"title" validate:"required"`
	Description       string   `json:"description,omitempty" yaml:"description,omitempty"`
	Type              Type     `json:"type" yaml:"type" validate:"required,oneof=work personal learning admin meeting creative communication other"`
	Priority          Priority `json:"priority" yaml:"priority" validate:"required,oneof=low medium high critical"`
	Status            Status   `json:"status" yaml:"status" validate:"required,oneof=todo in_progress done blocked archived"`
	DueDate           string   `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	EstimatedDuration *int     `json:"estimatedDuration,omitempty" yaml:"estimatedDuration,omitempty"`
}

// Duration returns the estimated duration in minutes. DefaultDuration applies
// only when no estimate was given; an explicit 0 is kept.
func (t Task) Duration() int {
	if t.EstimatedDuration == nil {
		return DefaultDuration
	}
	return *t.EstimatedDuration
}

// HasDueDate reports whether a due date was supplied, regardless of whether it parses.
func (t Task) HasDueDate() bool {
	return strings.TrimSpace(t.DueDate) != ""
}

// EmbeddingText is the text used to place a task in embedding space for grouping.
func (t Task) EmbeddingText() string {
	return fmt.Sprintf("%s %s %s", t.Title, t.Description, t.Type)
}

// FeatureText is the text embedded into the estimator feature vector.
func (t Task) FeatureText() string {
	return fmt.Sprintf("%s %s", t.Title, t.Description)
}

// Minutes is a convenience for building tasks with an explicit duration.
func Minutes(m int) *int {
	return &m
}

var validate = validator.New()

// Validate checks required fields and enum values. A failure is reported as a
// MissingRequiredField error carrying the offending task id and field.
func (t Task) Validate() error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return NewError(KindMissingRequiredField, err.Error()).WithTask(t.ID)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, jsonFieldName(fe.Field()))
	}
	first := verrs[0]
	msg := fmt.Sprintf("task %d: field '%s' failed rule '%s' (value: '%v')",
		t.ID, jsonFieldName(first.Field()), first.Tag(), first.Value())
	return NewError(KindMissingRequiredField, msg).
		WithTask(t.ID).
		WithDetail("fields", fields)
}

// ValidateBatch validates every task and rejects duplicate ids.
func ValidateBatch(tasks []Task) error {
	seen := make(map[int]struct{}, len(tasks))
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, dup := seen[t.ID]; dup {
			return NewError(KindMissingRequiredField, fmt.Sprintf("task %d: duplicate id in batch", t.ID)).
				WithTask(t.ID).
				WithDetail("fields", []string{"id"})
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

func jsonFieldName(field string) string {
	switch field {
	case "ID":
		return "id"
	case "DueDate":
		return "dueDate"
	case "EstimatedDuration":
		return "estimatedDuration"
	default:
		return strings.ToLower(field)
	}
}
