package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Batch is the envelope accepted by task files and the HTTP API.
type Batch struct {
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// Loader reads task batches from files. It uses an afero.Fs so tests can run
// against an in-memory filesystem.
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a loader over the given filesystem.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// NewOsLoader creates a loader over the operating system filesystem.
func NewOsLoader() *Loader {
	return NewLoader(afero.NewOsFs())
}

// Load reads a task file. The format is taken from the extension (.json,
// .yaml, .yml). The file may hold a bare list or a {"tasks": [...]} envelope.
func (l *Loader) Load(path string) ([]Task, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read task file %s: %w", path, err)
	}
	tasks, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("parse task file %s: %w", path, err)
	}
	return tasks, nil
}

// FormatFromPath infers the file format from its extension, defaulting to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a task list or batch envelope in the given format.
func Decode(data []byte, format string) ([]Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty task data")
	}

	switch format {
	case FormatYAML:
		var list []Task
		if err := yaml.Unmarshal(trimmed, &list); err == nil {
			return list, nil
		}
		var batch Batch
		if err := yaml.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return batch.Tasks, nil
	case FormatJSON:
		if trimmed[0] == '[' {
			var list []Task
			if err := json.Unmarshal(trimmed, &list); err != nil {
				return nil, fmt.Errorf("decode json: %w", err)
			}
			return list, nil
		}
		var batch Batch
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return batch.Tasks, nil
	default:
		return nil, fmt.Errorf("unsupported task format: %s", format)
	}
}
