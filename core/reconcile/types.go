package reconcile

import (
	"context"
	"time"
)

// Task is one independent unit of work, typically one cinema batch.
type Task[R any] struct {
	// Key identifies the unit in outcomes and logs (e.g., the cinema name).
	Key string

	// Run performs the work. It must own its transaction; tasks share no mutable state.
	Run func(ctx context.Context) (R, error)
}

// Outcome is the result of one task.
type Outcome[R any] struct {
	// Key is copied from the task.
	Key string

	// Result is the value returned by Run. It is the zero value when Err is set
	// unless Run returned both.
	Result R

	// Err is the failure of this task only. Sibling tasks are unaffected.
	Err error

	// Duration is the wall time spent inside Run.
	Duration time.Duration
}

// Succeeded reports whether the task finished without error.
func (o Outcome[R]) Succeeded() bool {
	return o.Err == nil
}

// Summary aggregates success and failure counts over a set of outcomes.
type Summary struct {
	// Total is the number of tasks run.
	Total int `json:"total"`

	// Succeeded is the number of tasks that returned no error.
	Succeeded int `json:"succeeded"`

	// Failed is the number of tasks that returned an error or panicked.
	Failed int `json:"failed"`
}

// Summarize counts outcomes.
func Summarize[R any](outcomes []Outcome[R]) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Succeeded() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
