package grouping

import (
	"testing"

	"github.com/josephgoksu/tasksage/internal/similarity"
	"github.com/josephgoksu/tasksage/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkTask(id int, title string, typ task.Type, prio task.Priority, minutes int) task.Task {
	return task.Task{
		ID:                id,
		Title:             title,
		Type:              typ,
		Priority:          prio,
		Status:            task.StatusTodo,
		EstimatedDuration: task.Minutes(minutes),
	}
}

func fixtureBatch() ([]task.Task, [][]float64) {
	tasks := []task.Task{
		mkTask(1, "Draft quarterly report", task.TypeWork, task.PriorityMedium, 60),
		mkTask(2, "Review quarterly numbers", task.TypeWork, task.PriorityHigh, 30),
		mkTask(3, "Email quarterly summary", task.TypeCommunication, task.PriorityLow, 15),
		mkTask(4, "Sketch logo", task.TypeCreative, task.PriorityLow, 90),
		mkTask(5, "Pick logo colors", task.TypeCreative, task.PriorityMedium, 45),
		mkTask(6, "Renew passport before the trip abroad", task.TypePersonal, task.PriorityCritical, 120),
		mkTask(7, "Water plants", task.TypePersonal, task.PriorityLow, 10),
	}
	vectors := [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1},
		{10, 10}, {10.1, 10},
		{50, 50},
		{-50, 50},
	}
	return tasks, vectors
}

func TestEngine_GroupFixedRadius(t *testing.T) {
	tasks, vectors := fixtureBatch()
	engine := NewEngine(Options{Adaptive: false})

	res, err := engine.Group(tasks, vectors)
	require.NoError(t, err)
	assert.Equal(t, DefaultFixedRadius, res.Radius)
	require.Len(t, res.Groups, 3)

	quarterly := res.Groups[0]
	assert.Equal(t, []int{1, 2, 3}, quarterly.TaskIDs)
	assert.Equal(t, "Work: Quarterly", quarterly.Name)
	assert.Equal(t, task.PriorityHigh, quarterly.Priority)
	assert.Equal(t, 105, quarterly.EstimatedDuration)

	logo := res.Groups[1]
	assert.Equal(t, []int{4, 5}, logo.TaskIDs)
	assert.Equal(t, "Creative: Logo", logo.Name)
	assert.Equal(t, task.PriorityMedium, logo.Priority)
	assert.Equal(t, 135, logo.EstimatedDuration)

	individual := res.Groups[2]
	assert.Equal(t, []int{6}, individual.TaskIDs)
	assert.Equal(t, "Individual #6: Renew passport before the trip...", individual.Name)
	assert.Equal(t, task.PriorityCritical, individual.Priority)
	assert.Equal(t, 120, individual.EstimatedDuration)

	assert.Equal(t, Noise, res.Labels[6], "low priority outlier is left ungrouped")
}

func TestEngine_GroupAdaptiveRadius(t *testing.T) {
	tasks := []task.Task{
		mkTask(1, "Fix login bug", task.TypeWork, task.PriorityMedium, 30),
		mkTask(2, "Fix signup bug", task.TypeWork, task.PriorityMedium, 30),
		mkTask(3, "Yoga class", task.TypePersonal, task.PriorityLow, 60),
		mkTask(4, "Yoga mat order", task.TypePersonal, task.PriorityLow, 15),
	}
	vectors := [][]float64{{0, 0}, {0, 0.1}, {10, 0}, {10, 0.1}}

	engine := NewEngine(DefaultOptions())
	res, err := engine.Group(tasks, vectors)
	require.NoError(t, err)

	// sorted distances: 0.1, 0.1, 10, 10, ~10, ~10; rank 1.5 interpolates 0.1..10
	assert.InDelta(t, 5.05, res.Radius, 1e-9)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, []int{1, 2}, res.Groups[0].TaskIDs)
	assert.Equal(t, []int{3, 4}, res.Groups[1].TaskIDs)
	assert.Equal(t, "Personal: Yoga", res.Groups[1].Name)
}

func TestEngine_GroupedMembersWithinRadius(t *testing.T) {
	tasks, vectors := fixtureBatch()
	engine := NewEngine(Options{Adaptive: false, FixedRadius: 1})

	res, err := engine.Group(tasks, vectors)
	require.NoError(t, err)

	index := make(map[int]int, len(tasks))
	for i, tk := range tasks {
		index[tk.ID] = i
	}
	for _, g := range res.Groups {
		for _, a := range g.TaskIDs {
			for _, b := range g.TaskIDs {
				d := similarity.EuclideanDistance(vectors[index[a]], vectors[index[b]])
				assert.LessOrEqual(t, d, res.Radius, "tasks %d and %d", a, b)
			}
		}
	}
}

func TestEngine_GroupSubsetAndDeterminism(t *testing.T) {
	tasks, vectors := fixtureBatch()
	engine := NewEngine(DefaultOptions())

	first, err := engine.Group(tasks, vectors)
	require.NoError(t, err)
	second, err := engine.Group(tasks, vectors)
	require.NoError(t, err)
	assert.Equal(t, first.Groups, second.Groups)

	ids := make(map[int]bool)
	for _, tk := range tasks {
		ids[tk.ID] = true
	}
	seen := make(map[int]bool)
	for _, g := range first.Groups {
		require.NotEmpty(t, g.TaskIDs)
		for _, id := range g.TaskIDs {
			assert.True(t, ids[id], "unknown id %d", id)
			assert.False(t, seen[id], "id %d in more than one group", id)
			seen[id] = true
		}
	}
}

func TestEngine_GroupErrors(t *testing.T) {
	engine := NewEngine(DefaultOptions())

	_, err := engine.Group([]task.Task{mkTask(1, "Solo", task.TypeWork, task.PriorityLow, 10)}, [][]float64{{0}})
	require.Error(t, err)
	assert.ErrorIs(t, err, task.ErrInsufficientData)

	_, err = engine.Group(nil, nil)
	assert.ErrorIs(t, err, task.ErrInsufficientData)

	tasks, vectors := fixtureBatch()
	_, err = engine.Group(tasks, vectors[:2])
	assert.ErrorIs(t, err, task.ErrOracleUnavailable)
}

func TestEngine_AllNoise(t *testing.T) {
	tasks := []task.Task{
		mkTask(1, "Alpha", task.TypeWork, task.PriorityLow, 10),
		mkTask(2, "Beta", task.TypeWork, task.PriorityMedium, 10),
	}
	vectors := [][]float64{{0, 0}, {100, 100}}

	res, err := NewEngine(Options{Adaptive: false}).Group(tasks, vectors)
	require.NoError(t, err)
	assert.Empty(t, res.Groups)
	assert.Equal(t, []int{Noise, Noise}, res.Labels)
}

func TestDBSCAN(t *testing.T) {
	vectors := [][]float64{{0}, {1}, {2}, {10}, {11}, {30}}

	labels := DBSCAN(vectors, 1.0, 2)
	assert.Equal(t, []int{0, 0, 0, 1, 1, Noise}, labels)

	// a border point needs a core neighbour
	labels = DBSCAN([][]float64{{0}, {1}, {2}}, 1.0, 3)
	assert.Equal(t, []int{0, 0, 0}, labels)

	labels = DBSCAN([][]float64{{0}, {2}}, 1.0, 2)
	assert.Equal(t, []int{Noise, Noise}, labels)
}

func TestMinSamples(t *testing.T) {
	assert.Equal(t, 2, MinSamples(2))
	assert.Equal(t, 2, MinSamples(29))
	assert.Equal(t, 3, MinSamples(30))
	assert.Equal(t, 10, MinSamples(105))
}
