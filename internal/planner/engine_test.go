package planner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/josephgoksu/tasksage/internal/dependency"
	"github.com/josephgoksu/tasksage/internal/estimator"
	"github.com/josephgoksu/tasksage/internal/grouping"
	"github.com/josephgoksu/tasksage/internal/similarity"
	"github.com/josephgoksu/tasksage/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

// prefixOracle returns the vector registered for the longest title prefix of the text.
type prefixOracle struct {
	mu      sync.Mutex
	vectors map[string][]float64
	err     error
	calls   int
}

func (o *prefixOracle) Embed(_ context.Context, text string) ([]float64, error) {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	best := ""
	for k := range o.vectors {
		if strings.HasPrefix(text, k) && len(k) > len(best) {
			best = k
		}
	}
	if best == "" {
		return []float64{0, 0}, nil
	}
	return o.vectors[best], nil
}

func (o *prefixOracle) Similarity(a, b []float64) float64 {
	return similarity.CosineSimilarity(a, b)
}

// MockEmbedder implements embedding.Embedder for testing
type MockEmbedder struct {
	mu      sync.Mutex
	Batches [][]string
}

func (m *MockEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	m.mu.Lock()
	m.Batches = append(m.Batches, texts)
	m.mu.Unlock()
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{float64(len(texts[i])), 1}
	}
	return out, nil
}

func exampleBatch() []task.Task {
	return []task.Task{
		{ID: 1, Title: "Write contract for client", Type: task.TypeWork, Priority: task.PriorityHigh, Status: task.StatusTodo, DueDate: "2026-10-17", EstimatedDuration: task.Minutes(120)},
		{ID: 2, Title: "Team meeting", Type: task.TypeMeeting, Priority: task.PriorityMedium, Status: task.StatusTodo, EstimatedDuration: task.Minutes(30)},
		{ID: 3, Title: "Blocked review", Type: task.TypeWork, Priority: task.PriorityMedium, Status: task.StatusBlocked, EstimatedDuration: task.Minutes(60)},
	}
}

func TestEngine_EndToEndExample(t *testing.T) {
	engine := New(similarity.NewHashingOracle(0), Options{})
	ctx := context.Background()
	batch := exampleBatch()

	ranked, err := engine.PrioritizeTasks(ctx, batch, now)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	rankedIDs := []int{ranked[0].ID, ranked[1].ID, ranked[2].ID}
	assert.Equal(t, []int{1, 3, 2}, rankedIDs)

	items, err := engine.CreateSchedule(ctx, batch, now)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, i, item.Order)
		assert.Equal(t, rankedIDs[i], item.TaskID)
		assert.GreaterOrEqual(t, item.PomodoroCount, 1)
		assert.Equal(t, item.PomodoroCount*25, item.EstimatedMinutes)
		assert.Equal(t, item.PomodoroCount*5, item.BreakMinutes)
	}

	deps, err := engine.InferDependencies(ctx, batch[0], now)
	require.NoError(t, err)
	require.Len(t, deps, 4)
	assert.Equal(t, "Legal Review for Write contract for client", deps[0].Title)
	assert.Equal(t, dependency.KindBuffer, deps[3].DependencyType)
}

func TestEngine_GroupTasks(t *testing.T) {
	oracle := &prefixOracle{vectors: map[string][]float64{
		"Fix login":  {0, 0},
		"Fix signup": {0, 0.1},
		"Yoga class": {10, 0},
		"Yoga mat":   {10, 0.1},
		"Call mom":   {50, 50},
		"Buy stamps": {-50, 50},
	}}
	tasks := []task.Task{
		{ID: 1, Title: "Fix login bug", Type: task.TypeWork, Priority: task.PriorityMedium, Status: task.StatusTodo},
		{ID: 2, Title: "Yoga class", Type: task.TypePersonal, Priority: task.PriorityLow, Status: task.StatusTodo},
		{ID: 3, Title: "Fix signup bug", Type: task.TypeWork, Priority: task.PriorityHigh, Status: task.StatusTodo},
		{ID: 4, Title: "Yoga mat order", Type: task.TypePersonal, Priority: task.PriorityLow, Status: task.StatusTodo},
		{ID: 5, Title: "Call mom", Type: task.TypePersonal, Priority: task.PriorityCritical, Status: task.StatusTodo},
		{ID: 6, Title: "Buy stamps", Type: task.TypeAdmin, Priority: task.PriorityLow, Status: task.StatusTodo},
	}

	engine := New(oracle, Options{Grouping: &grouping.Options{Adaptive: false, FixedRadius: 1}, EmbedConcurrency: 2})
	groups, err := engine.GroupTasks(context.Background(), tasks)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, []int{1, 3}, groups[0].TaskIDs)
	assert.Equal(t, "Work: Login", groups[0].Name)
	assert.Equal(t, task.PriorityHigh, groups[0].Priority)
	assert.Equal(t, []int{2, 4}, groups[1].TaskIDs)
	assert.Equal(t, "Personal: Yoga", groups[1].Name)
	assert.Equal(t, []int{5}, groups[2].TaskIDs)
	assert.Equal(t, "Individual #5: Call mom", groups[2].Name)
	assert.Equal(t, len(tasks), oracle.calls)

	again, err := engine.GroupTasksFixed(context.Background(), tasks)
	require.NoError(t, err)
	assert.Equal(t, groups, again)
}

func TestEngine_GroupTasksErrors(t *testing.T) {
	ctx := context.Background()
	batch := exampleBatch()

	engine := New(similarity.NewHashingOracle(0), Options{})
	_, err := engine.GroupTasks(ctx, batch[:1])
	assert.ErrorIs(t, err, task.ErrInsufficientData)

	invalid := exampleBatch()
	invalid[1].Title = ""
	_, err = engine.GroupTasks(ctx, invalid)
	require.ErrorIs(t, err, task.ErrMissingRequiredField)
	var terr *task.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 2, terr.TaskID)

	failing := New(&prefixOracle{err: errors.New("connection refused")}, Options{})
	_, err = failing.GroupTasks(ctx, batch)
	assert.ErrorIs(t, err, task.ErrOracleUnavailable)

	noOracle := New(nil, Options{})
	_, err = noOracle.GroupTasks(ctx, batch)
	assert.ErrorIs(t, err, task.ErrOracleUnavailable)
}

func TestEngine_BatchOracleChunks(t *testing.T) {
	mock := &MockEmbedder{}
	engine := New(similarity.NewEmbedderOracle(mock), Options{EmbedBatchSize: 2})

	batch := append(exampleBatch(), task.Task{ID: 4, Title: "Plan sprint", Type: task.TypeWork, Priority: task.PriorityLow, Status: task.StatusTodo})
	_, err := engine.GroupTasks(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, mock.Batches, 2)
	for _, b := range mock.Batches {
		assert.Len(t, b, 2)
	}
}

func TestEngine_PrioritizeDegradesWithoutOracle(t *testing.T) {
	ctx := context.Background()
	batch := exampleBatch()

	failing := New(&prefixOracle{err: errors.New("timeout")}, Options{PriorityEstimator: estimator.Constant(0)})
	ranked, err := failing.PrioritizeTasks(ctx, batch, now)
	require.NoError(t, err)
	assert.Equal(t, 125.0, ranked[0].PriorityScore, "estimator skipped when features cannot be built")

	noOracle := New(nil, Options{})
	ranked, err = noOracle.PrioritizeTasks(ctx, batch, now)
	require.NoError(t, err)
	assert.Len(t, ranked, 3)
}

func TestEngine_PrioritizeWithEstimator(t *testing.T) {
	var seen [][]float64
	var mu sync.Mutex
	regressor := estimator.Func(func(_ context.Context, features []float64) (float64, error) {
		mu.Lock()
		seen = append(seen, features)
		mu.Unlock()
		return 25, nil
	})

	engine := New(similarity.NewHashingOracle(16), Options{PriorityEstimator: regressor})
	ranked, err := engine.PrioritizeTasks(context.Background(), exampleBatch(), now)
	require.NoError(t, err)

	assert.Equal(t, 75.0, ranked[0].PriorityScore)
	require.Len(t, seen, 3)
	for _, f := range seen {
		assert.Len(t, f, 16+len(task.Types)+4)
	}
}

func TestEngine_InferDependencies(t *testing.T) {
	ctx := context.Background()

	engine := New(similarity.NewHashingOracle(0), Options{DependencyEstimator: estimator.Constant(2)})
	deps, err := engine.InferDependencies(ctx, task.Task{
		ID: 9, Title: "Learn Rust", Type: task.TypeLearning, Priority: task.PriorityLow, Status: task.StatusTodo,
	}, now)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, dependency.KindPreparation, deps[0].DependencyType)

	plain := New(nil, Options{})
	deps, err = plain.InferDependencies(ctx, task.Task{
		ID: 10, Title: "Water plants", Type: task.TypePersonal, Priority: task.PriorityLow, Status: task.StatusTodo,
	}, now)
	require.NoError(t, err)
	assert.NotNil(t, deps)
	assert.Empty(t, deps)

	_, err = plain.InferDependencies(ctx, task.Task{ID: 11, Title: "Unknown type", Type: "development", Priority: task.PriorityLow, Status: task.StatusTodo}, now)
	assert.ErrorIs(t, err, task.ErrMissingRequiredField)
}

func TestEngine_ConcurrentCallsKeepNames(t *testing.T) {
	ctx := context.Background()
	engine := New(similarity.NewHashingOracle(0), Options{})
	contract := task.Task{ID: 1, Title: "Sign contract", Type: task.TypeWork, Priority: task.PriorityHigh, Status: task.StatusTodo}
	batch := exampleBatch()

	wantDeps, err := engine.InferDependencies(ctx, contract, now)
	require.NoError(t, err)
	require.NotEmpty(t, wantDeps)
	assert.Equal(t, "Legal Review for Sign contract", wantDeps[0].Title)
	wantGroups, err := engine.GroupTasks(ctx, batch)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				deps, err := engine.InferDependencies(ctx, contract, now)
				if assert.NoError(t, err) {
					assert.Equal(t, wantDeps, deps)
				}
				groups, err := engine.GroupTasks(ctx, batch)
				if assert.NoError(t, err) {
					assert.Equal(t, wantGroups, groups)
				}
			}
		}()
	}
	wg.Wait()
}

func TestEngine_FindSimilar(t *testing.T) {
	oracle := &prefixOracle{vectors: map[string][]float64{
		"Target": {1, 0},
		"Close":  {0.9, 0.1},
		"Closer": {1, 0.01},
		"Far":    {0, 1},
	}}
	engine := New(oracle, Options{})

	target := task.Task{ID: 1, Title: "Target", Type: task.TypeWork, Priority: task.PriorityLow, Status: task.StatusTodo}
	candidates := []task.Task{
		target,
		{ID: 2, Title: "Close", Type: task.TypeWork, Priority: task.PriorityLow, Status: task.StatusTodo},
		{ID: 3, Title: "Far", Type: task.TypeWork, Priority: task.PriorityLow, Status: task.StatusTodo},
		{ID: 4, Title: "Closer", Type: task.TypeWork, Priority: task.PriorityLow, Status: task.StatusTodo},
	}

	matches, err := engine.FindSimilar(context.Background(), target, candidates, 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 4, matches[0].ID)
	assert.Equal(t, 2, matches[1].ID)
	assert.Greater(t, matches[0].Similarity, matches[1].Similarity)

	matches, err = engine.FindSimilar(context.Background(), target, candidates, 0.999)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 4, matches[0].ID)
}
