package reconcile

import (
	"errors"
	"fmt"
)

// ErrMissingFilmReference means a showing group could not be tied to a persisted film.
var ErrMissingFilmReference = errors.New("film reference could not be resolved")

// ReconciliationError aborts one cinema's batch. The transaction is rolled back and
// nothing for that cinema is written in this run.
type ReconciliationError struct {
	Cinema string
	Step   string
	Err    error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconcile %q failed at %s: %v", e.Cinema, e.Step, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// RecordDropError describes a single film or showing candidate that was skipped.
// It never aborts the batch.
type RecordDropError struct {
	Cinema string `json:"cinema"`
	Path   string `json:"path"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e RecordDropError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: dropped %s: %s", e.Cinema, e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: dropped %s (%q): %s", e.Cinema, e.Path, e.Value, e.Reason)
}
