package reconcile

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when a non-positive limit is passed to RunAll.
const DefaultConcurrency = 4

// RunAll runs every task with at most limit in flight and returns one outcome per
// task, in task order.
//
// A failing task never cancels its siblings: errors and panics are captured in the
// task's own Outcome. Cancelling ctx stops tasks that have not started yet; they are
// reported with ctx.Err().
func RunAll[R any](ctx context.Context, tasks []Task[R], limit int) []Outcome[R] {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	outcomes := make([]Outcome[R], len(tasks))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, task := range tasks {
		outcomes[i].Key = task.Key

		if err := ctx.Err(); err != nil {
			outcomes[i].Err = err
			continue
		}

		g.Go(func() error {
			outcomes[i] = runOne(ctx, task)
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}

func runOne[R any](ctx context.Context, task Task[R]) (out Outcome[R]) {
	out.Key = task.Key
	start := time.Now()

	defer func() {
		out.Duration = time.Since(start)
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("task %s panicked: %v\n%s", task.Key, r, debug.Stack())
		}
	}()

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	out.Result, out.Err = task.Run(ctx)
	return out
}
