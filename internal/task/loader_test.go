package task

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonList = `[
  {"id": 1, "title": "Write contract", "type": "work", "priority": "high", "status": "todo", "dueDate": "2026-10-17", "estimatedDuration": 120},
  {"id": 2, "title": "Team meeting", "type": "meeting", "priority": "medium", "status": "todo"}
]`

const jsonEnvelope = `{"tasks": [{"id": 3, "title": "Blocked review", "type": "work", "priority": "medium", "status": "blocked", "estimatedDuration": 60}]}`

const yamlList = `
- id: 4
  title: Sketch logo ideas
  type: creative
  priority: low
  status: in_progress
  estimatedDuration: 90
`

const yamlEnvelope = `
tasks:
  - id: 5
    title: Read chapter 3
    type: learning
    priority: medium
    status: todo
`

func TestLoader_Load(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/batch/list.json", []byte(jsonList), 0644))
	require.NoError(t, afero.WriteFile(fs, "/batch/envelope.json", []byte(jsonEnvelope), 0644))
	require.NoError(t, afero.WriteFile(fs, "/batch/list.yaml", []byte(yamlList), 0644))
	require.NoError(t, afero.WriteFile(fs, "/batch/envelope.yml", []byte(yamlEnvelope), 0644))

	loader := NewLoader(fs)

	tasks, err := loader.Load("/batch/list.json")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Write contract", tasks[0].Title)
	assert.Equal(t, 120, tasks[0].Duration())
	assert.Equal(t, DefaultDuration, tasks[1].Duration())
	assert.Equal(t, "2026-10-17", tasks[0].DueDate)

	tasks, err = loader.Load("/batch/envelope.json")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, StatusBlocked, tasks[0].Status)

	tasks, err = loader.Load("/batch/list.yaml")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, TypeCreative, tasks[0].Type)
	assert.Equal(t, 90, tasks[0].Duration())

	tasks, err = loader.Load("/batch/envelope.yml")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 5, tasks[0].ID)
}

func TestLoader_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/empty.json", []byte("  "), 0644))
	require.NoError(t, afero.WriteFile(fs, "/broken.json", []byte("{"), 0644))

	loader := NewLoader(fs)

	_, err := loader.Load("/missing.json")
	assert.Error(t, err)

	_, err = loader.Load("/empty.json")
	assert.Error(t, err)

	_, err = loader.Load("/broken.json")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("tasks.YML"))
	assert.Equal(t, FormatYAML, FormatFromPath("tasks.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("tasks.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("tasks"))
}
