package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/tasksage/internal/briefing"
	"github.com/josephgoksu/tasksage/internal/config"
	"github.com/josephgoksu/tasksage/internal/llm"
	"github.com/josephgoksu/tasksage/internal/logger"
	"github.com/josephgoksu/tasksage/internal/planner"
	"github.com/josephgoksu/tasksage/internal/similarity"
	"github.com/josephgoksu/tasksage/internal/task"
	"github.com/josephgoksu/tasksage/internal/ui"
)

// taskFs backs task file reads. Tests swap in an in-memory filesystem.
var taskFs afero.Fs = afero.NewOsFs()

// buildOracle returns the configured similarity oracle.
func buildOracle(ctx context.Context, engineCfg config.EngineConfig) (similarity.Oracle, error) {
	embCfg, err := config.LoadEmbeddingConfig()
	if err != nil {
		return nil, err
	}
	if embCfg.Provider == llm.ProviderHashing {
		return similarity.NewHashingOracle(engineCfg.HashDimensions), nil
	}

	embedder, err := llm.NewEmbeddingModel(ctx, embCfg)
	if err != nil {
		return nil, fmt.Errorf("create embedding model: %w", err)
	}
	slog.Debug("using embedding oracle", "provider", embCfg.Provider, "model", embCfg.EmbeddingModel)
	return similarity.NewEmbedderOracle(embedder), nil
}

// buildEngine wires the planner from config: oracle, tuning and estimators.
func buildEngine(ctx context.Context) (*planner.Engine, error) {
	engineCfg, err := config.LoadEngineConfig()
	if err != nil {
		return nil, err
	}
	oracle, err := buildOracle(ctx, engineCfg)
	if err != nil {
		return nil, err
	}

	estCfg, err := config.LoadEstimatorConfig()
	if err != nil {
		return nil, err
	}
	prio, deps, err := estCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("create estimators: %w", err)
	}

	opts := engineCfg.PlannerOptions()
	opts.PriorityEstimator = prio
	opts.DependencyEstimator = deps
	return planner.New(oracle, opts), nil
}

// buildBriefer returns a model-backed briefer when llm.provider is set, and
// the built-in one otherwise or on any setup failure.
func buildBriefer(ctx context.Context) *briefing.Briefer {
	cfg, ok, err := config.LoadLLMConfig()
	if err != nil {
		slog.Warn("ignoring llm config", "error", err)
		return briefing.New(nil)
	}
	if !ok {
		return briefing.New(nil)
	}
	chat, err := llm.NewChatModel(ctx, cfg)
	if err != nil {
		slog.Warn("chat model unavailable, using built-in briefing", "provider", cfg.Provider, "error", err)
		return briefing.New(nil)
	}
	return briefing.New(chat)
}

// loadTasks reads a task file, or stdin when path is "-".
func loadTasks(cmd *cobra.Command, path string) ([]task.Task, error) {
	var (
		tasks []task.Task
		err   error
	)
	if path == "-" {
		var data []byte
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		tasks, err = task.Decode(data, stdinFormat(data))
	} else {
		tasks, err = task.NewLoader(taskFs).Load(path)
	}
	if err != nil {
		return nil, err
	}
	logger.SetInput(path, len(tasks))
	return tasks, nil
}

// stdinFormat sniffs JSON by its first character and treats anything else as YAML.
func stdinFormat(data []byte) string {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return task.FormatJSON
	}
	return task.FormatYAML
}

// parseNowFlag resolves --now. Accepts RFC 3339 or a local "2006-01-02 15:04".
func parseNowFlag(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, task.NewError(task.KindInvalidDateFormat,
		fmt.Sprintf("--now must be RFC 3339 or \"YYYY-MM-DD HH:MM\", got %q", raw))
}

// tableWidth caps table columns to the terminal when writing to one.
func tableWidth(cmd *cobra.Command, columns int) int {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return ui.ColumnLimit(f, columns)
	}
	return 0
}

func titlesOf(tasks []task.Task) map[int]string {
	m := make(map[int]string, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t.Title
	}
	return m
}
