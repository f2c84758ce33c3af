// Package calendar exports pomodoro schedules to Google Calendar.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/josephgoksu/tasksage/internal/briefing"
)

// TaskIDProperty is the private extended property that links an event to its task.
const TaskIDProperty = "tasksage_task_id"

// EventStore is the slice of the Calendar API the exporter needs.
type EventStore interface {
	FindByTaskID(ctx context.Context, calendarID string, taskID int) (*gcal.Event, error)
	Insert(ctx context.Context, calendarID string, ev *gcal.Event) (*gcal.Event, error)
	Patch(ctx context.Context, calendarID, eventID string, ev *gcal.Event) (*gcal.Event, error)
}

// Result counts what an export changed.
type Result struct {
	Created int
	Updated int
}

// Exporter writes schedule entries as calendar events. Re-exporting a task
// moves its existing event instead of adding a second one.
type Exporter struct {
	store      EventStore
	calendarID string
	timeZone   string
}

// NewExporter creates an exporter. An empty timeZone uses each entry's own offset.
func NewExporter(store EventStore, calendarID, timeZone string) *Exporter {
	return &Exporter{store: store, calendarID: calendarID, timeZone: timeZone}
}

// Export upserts one event per entry. It stops at the first API failure and
// reports what was written before it.
func (e *Exporter) Export(ctx context.Context, entries []briefing.Entry) (Result, error) {
	var res Result
	for _, entry := range entries {
		ev := e.toEvent(entry)

		existing, err := e.store.FindByTaskID(ctx, e.calendarID, entry.Item.TaskID)
		if err != nil {
			return res, fmt.Errorf("look up event for task %d: %w", entry.Item.TaskID, err)
		}

		if existing != nil {
			if _, err := e.store.Patch(ctx, e.calendarID, existing.Id, ev); err != nil {
				return res, fmt.Errorf("update event for task %d: %w", entry.Item.TaskID, err)
			}
			res.Updated++
			continue
		}

		if _, err := e.store.Insert(ctx, e.calendarID, ev); err != nil {
			return res, fmt.Errorf("create event for task %d: %w", entry.Item.TaskID, err)
		}
		res.Created++
	}
	slog.Debug("calendar export finished", "created", res.Created, "updated", res.Updated)
	return res, nil
}

func (e *Exporter) toEvent(entry briefing.Entry) *gcal.Event {
	it := entry.Item
	var desc strings.Builder
	fmt.Fprintf(&desc, "%d pomodoros (%d min work, %d min breaks)\n", it.PomodoroCount, it.EstimatedMinutes, it.BreakMinutes)
	fmt.Fprintf(&desc, "Difficulty: %s, energy: %s\n", it.Difficulty, it.EnergyLevel)
	if entry.Reasoning != "" {
		fmt.Fprintf(&desc, "Why now: %s\n", entry.Reasoning)
	}

	title := entry.Title
	if title == "" {
		title = fmt.Sprintf("Task %d", it.TaskID)
	}

	return &gcal.Event{
		Summary:     title,
		Description: desc.String(),
		Start:       e.eventTime(it.StartTime),
		End:         e.eventTime(it.EndTime),
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: strconv.Itoa(it.TaskID)},
		},
	}
}

func (e *Exporter) eventTime(t time.Time) *gcal.EventDateTime {
	return &gcal.EventDateTime{DateTime: t.Format(time.RFC3339), TimeZone: e.timeZone}
}

// GoogleStore is the EventStore backed by the Calendar API.
type GoogleStore struct {
	srv *gcal.Service
}

// NewGoogleStore wraps an authenticated service.
func NewGoogleStore(srv *gcal.Service) *GoogleStore {
	return &GoogleStore{srv: srv}
}

// FindByTaskID returns the event tagged with taskID, or nil.
func (s *GoogleStore) FindByTaskID(ctx context.Context, calendarID string, taskID int) (*gcal.Event, error) {
	events, err := s.srv.Events.List(calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%d", TaskIDProperty, taskID)).
		ShowDeleted(false).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) == 0 {
		return nil, nil
	}
	return events.Items[0], nil
}

func (s *GoogleStore) Insert(ctx context.Context, calendarID string, ev *gcal.Event) (*gcal.Event, error) {
	return s.srv.Events.Insert(calendarID, ev).Context(ctx).Do()
}

func (s *GoogleStore) Patch(ctx context.Context, calendarID, eventID string, ev *gcal.Event) (*gcal.Event, error) {
	return s.srv.Events.Patch(calendarID, eventID, ev).Context(ctx).Do()
}
