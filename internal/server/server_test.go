package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/tasksage/internal/dependency"
	"github.com/josephgoksu/tasksage/internal/grouping"
	"github.com/josephgoksu/tasksage/internal/planner"
	"github.com/josephgoksu/tasksage/internal/priority"
	"github.com/josephgoksu/tasksage/internal/schedule"
	"github.com/josephgoksu/tasksage/internal/similarity"
	"github.com/josephgoksu/tasksage/internal/task"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

// stubPlanner returns canned results so handler mapping can be tested in isolation.
type stubPlanner struct {
	err     error
	gotNow  time.Time
	gotTask task.Task
}

func (p *stubPlanner) GroupTasks(_ context.Context, _ []task.Task) ([]grouping.Group, error) {
	if p.err != nil {
		return nil, p.err
	}
	return []grouping.Group{{Name: "Work: Login", TaskIDs: []int{1, 2}}}, nil
}

func (p *stubPlanner) InferDependencies(_ context.Context, t task.Task, now time.Time) ([]dependency.InferredTask, error) {
	p.gotTask, p.gotNow = t, now
	return []dependency.InferredTask{}, p.err
}

func (p *stubPlanner) PrioritizeTasks(_ context.Context, tasks []task.Task, now time.Time) ([]priority.Assessment, error) {
	p.gotNow = now
	if p.err != nil {
		return nil, p.err
	}
	out := make([]priority.Assessment, len(tasks))
	for i, t := range tasks {
		out[i] = priority.Assessment{ID: t.ID, Priority: t.Priority, PriorityScore: 50, Reasoning: "standard prioritization"}
	}
	return out, nil
}

func (p *stubPlanner) CreateSchedule(_ context.Context, _ []task.Task, now time.Time) ([]schedule.Item, error) {
	p.gotNow = now
	return []schedule.Item{}, p.err
}

func (p *stubPlanner) FindSimilar(_ context.Context, _ task.Task, _ []task.Task, _ float64) ([]planner.Match, error) {
	return []planner.Match{{ID: 2, Similarity: 0.9}}, p.err
}

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: 1, Title: "Fix login bug", Description: "OAuth callback fails", Type: task.TypeWork, Priority: task.PriorityHigh, Status: task.StatusTodo, EstimatedDuration: task.Minutes(60)},
		{ID: 2, Title: "Fix login redirect", Description: "OAuth callback loops", Type: task.TypeWork, Priority: task.PriorityMedium, Status: task.StatusTodo, EstimatedDuration: task.Minutes(30)},
		{ID: 3, Title: "Buy groceries", Type: task.TypePersonal, Priority: task.PriorityLow, Status: task.StatusTodo},
	}
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	srv := New(&stubPlanner{}, Config{APIKey: "secret", Version: "1.2.3"})
	rec := do(t, srv.Handler(), http.MethodGet, "/health", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "healthy", Version: "1.2.3"}, resp)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestAPIKey(t *testing.T) {
	srv := New(&stubPlanner{}, Config{APIKey: "secret"})
	body := BatchRequest{Tasks: sampleTasks()}

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"wrong", map[string]string{"api-key": "nope"}, http.StatusForbidden},
		{"valid", map[string]string{"api-key": "secret"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv.Handler(), http.MethodPost, "/group_tasks", body, tt.headers)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusOK {
				assert.Equal(t, KindUnauthorized, decodeError(t, rec).Kind)
			}
		})
	}
}

func TestAPIKey_DisabledWhenEmpty(t *testing.T) {
	srv := New(&stubPlanner{}, Config{})
	rec := do(t, srv.Handler(), http.MethodPost, "/group_tasks", BatchRequest{Tasks: sampleTasks()}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEngineErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"insufficient", task.InsufficientData(1, 2), http.StatusBadRequest, string(task.KindInsufficientData)},
		{"missing field", task.NewError(task.KindMissingRequiredField, "title").WithTask(4), http.StatusBadRequest, string(task.KindMissingRequiredField)},
		{"oracle", task.OracleUnavailable(0, errors.New("down")), http.StatusServiceUnavailable, string(task.KindOracleUnavailable)},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(&stubPlanner{err: tt.err}, Config{})
			rec := do(t, srv.Handler(), http.MethodPost, "/group_tasks", BatchRequest{Tasks: sampleTasks()}, nil)
			assert.Equal(t, tt.wantCode, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestBadRequests(t *testing.T) {
	srv := New(&stubPlanner{}, Config{})

	rec := do(t, srv.Handler(), http.MethodPost, "/prioritize_tasks", "{not json", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, KindInvalidRequest, decodeError(t, rec).Kind)

	rec = do(t, srv.Handler(), http.MethodPost, "/infer_dependencies", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(task.KindMissingRequiredField), decodeError(t, rec).Kind)

	rec = do(t, srv.Handler(), http.MethodPost, "/prioritize_tasks", BatchRequest{Tasks: sampleTasks(), Now: "tomorrow"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(task.KindInvalidDateFormat), decodeError(t, rec).Kind)

	rec = do(t, srv.Handler(), http.MethodGet, "/group_tasks", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNowOverride(t *testing.T) {
	stub := &stubPlanner{}
	srv := New(stub, Config{}, WithClock(func() time.Time { return fixedNow }))

	rec := do(t, srv.Handler(), http.MethodPost, "/create_pomodoro_schedule", BatchRequest{Tasks: sampleTasks()}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.gotNow.Equal(fixedNow))

	rec = do(t, srv.Handler(), http.MethodPost, "/infer_dependencies",
		TaskRequest{Task: &sampleTasks()[0], Now: "2026-01-02T15:04:05Z"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), stub.gotNow.UTC())
	assert.Equal(t, 1, stub.gotTask.ID)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCORS(t *testing.T) {
	srv := New(&stubPlanner{}, Config{AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/group_tasks", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestEndToEnd_WithHashingOracle(t *testing.T) {
	engine := planner.New(similarity.NewHashingOracle(0), planner.Options{})
	srv := New(engine, Config{APIKey: "k"}, WithClock(func() time.Time { return fixedNow }))
	h := srv.Handler()
	auth := map[string]string{"api-key": "k"}

	t.Run("group", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/group_tasks", BatchRequest{Tasks: sampleTasks()}, auth)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var groups []grouping.Group
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
		seen := 0
		for _, g := range groups {
			seen += len(g.TaskIDs)
		}
		assert.LessOrEqual(t, seen, 3)
	})

	t.Run("group needs two tasks", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/group_tasks", BatchRequest{Tasks: sampleTasks()[:1]}, auth)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(task.KindInsufficientData), decodeError(t, rec).Kind)
	})

	t.Run("prioritize", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/prioritize_tasks", BatchRequest{Tasks: sampleTasks()}, auth)
		require.Equal(t, http.StatusOK, rec.Code)
		var got []priority.Assessment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 3)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].PriorityScore, got[i].PriorityScore)
		}
	})

	t.Run("schedule", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/create_pomodoro_schedule", BatchRequest{Tasks: sampleTasks()}, auth)
		require.Equal(t, http.StatusOK, rec.Code)
		var items []schedule.Item
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 3)
		assert.True(t, items[0].StartTime.Equal(fixedNow))
	})

	t.Run("briefing", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/schedule_briefing", BatchRequest{Tasks: sampleTasks()}, auth)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp BriefingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Schedule, 3)
		assert.Contains(t, resp.Briefing.Summary, "3 tasks")
	})

	t.Run("validation", func(t *testing.T) {
		bad := sampleTasks()
		bad[1].Title = ""
		rec := do(t, h, http.MethodPost, "/prioritize_tasks", BatchRequest{Tasks: bad}, auth)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, string(task.KindMissingRequiredField), body.Kind)
		assert.Equal(t, 2, body.TaskID)
	})

	t.Run("similar", func(t *testing.T) {
		tasks := sampleTasks()
		rec := do(t, h, http.MethodPost, "/find_similar_tasks",
			SimilarRequest{Target: &tasks[0], Tasks: tasks, Threshold: 0.01}, auth)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp SimilarResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		for _, m := range resp.Matches {
			assert.NotEqual(t, 1, m.ID)
		}
	})
}
