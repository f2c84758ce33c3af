package planner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/josephgoksu/tasksage/internal/similarity"
	"github.com/josephgoksu/tasksage/internal/task"
)

// embedAll embeds texts[i] for tasks[i]. Batch-capable oracles get chunks of
// batchSize; others get one call per text. Calls run concurrently up to limit.
// The first failure cancels the rest and is reported as OracleUnavailable for
// the task that triggered it.
func (e *Engine) embedAll(ctx context.Context, tasks []task.Task, texts []string) ([][]float64, error) {
	if e.oracle == nil {
		return nil, task.NewError(task.KindOracleUnavailable, "no similarity oracle configured")
	}

	out := make([][]float64, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	if batcher, ok := e.oracle.(similarity.BatchOracle); ok {
		for lo := 0; lo < len(texts); lo += e.batchSize {
			hi := min(lo+e.batchSize, len(texts))
			g.Go(func() error {
				vecs, err := batcher.EmbedBatch(gctx, texts[lo:hi])
				if err != nil {
					return task.OracleUnavailable(tasks[lo].ID, err)
				}
				copy(out[lo:hi], vecs)
				return nil
			})
		}
	} else {
		for i, text := range texts {
			g.Go(func() error {
				vec, err := e.oracle.Embed(gctx, text)
				if err != nil {
					return task.OracleUnavailable(tasks[i].ID, err)
				}
				out[i] = vec
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func embeddingTexts(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.EmbeddingText()
	}
	return out
}

func featureTexts(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.FeatureText()
	}
	return out
}
