package showtimes

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	coreReconcile "showtime-manager/core/reconcile"
	"showtime-manager/feature/showtimes/reconcile"
	"showtime-manager/feature/showtimes/validate"
)

// RunReport is the outcome of one producer batch.
type RunReport struct {
	RunID    string `json:"run_id"`
	Producer string `json:"producer"`
	// Source is the storage key or file path the batch came from, if any.
	Source string `json:"source,omitempty"`
	// Rejected is set when the batch failed validation. Nothing was written.
	Rejected   bool                  `json:"rejected"`
	Validation []validate.FieldError `json:"validation,omitempty"`
	// Error is set when the batch could not be fetched.
	Error    string                `json:"error,omitempty"`
	Cinemas  []CinemaReport        `json:"cinemas"`
	Totals   coreReconcile.Summary `json:"totals"`
	Archived string                `json:"archived,omitempty"`
}

// Processed reports whether the batch reached reconciliation.
func (r *RunReport) Processed() bool {
	return !r.Rejected && r.Error == ""
}

// CinemaReport is the outcome of one cinema group.
type CinemaReport struct {
	Cinema           string                      `json:"cinema"`
	CinemaID         uint                        `json:"cinema_id,omitempty"`
	Success          bool                        `json:"success"`
	InsertedFilms    int                         `json:"inserted_films"`
	UpdatedFilms     int                         `json:"updated_films"`
	InsertedShowings int                         `json:"inserted_showings"`
	SkippedShowings  int                         `json:"skipped_showings"`
	DroppedRecords   int                         `json:"dropped_records"`
	Dropped          []reconcile.RecordDropError `json:"dropped,omitempty"`
	Reason           string                      `json:"reason,omitempty"`
	Duration         time.Duration               `json:"duration" swaggertype:"integer"`
}

func (r *RunReport) total() {
	r.Totals = coreReconcile.Summary{Total: len(r.Cinemas)}
	for _, c := range r.Cinemas {
		if c.Success {
			r.Totals.Succeeded++
		} else {
			r.Totals.Failed++
		}
	}
}

// Summary renders the report as plain text, one row per cinema.
func (r *RunReport) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "run %s producer %s", r.RunID, r.Producer)
	if r.Source != "" {
		fmt.Fprintf(&sb, " (%s)", r.Source)
	}
	sb.WriteString(": ")

	switch {
	case r.Error != "":
		fmt.Fprintf(&sb, "not processed: %s\n", r.Error)
		return sb.String()
	case r.Rejected:
		fmt.Fprintf(&sb, "rejected with %d field error(s)\n", len(r.Validation))
		for _, f := range r.Validation {
			fmt.Fprintf(&sb, "  %s [%s] %s\n", f.Path, f.Rule, f.Message)
		}
		return sb.String()
	}

	fmt.Fprintf(&sb, "%d cinema(s), %d succeeded, %d failed\n", r.Totals.Total, r.Totals.Succeeded, r.Totals.Failed)

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CINEMA\tSTATUS\tNEW FILMS\tUPDATED FILMS\tNEW SHOWINGS\tSKIPPED\tDROPPED\tDURATION\tREASON")
	for _, c := range r.Cinemas {
		status := "ok"
		if !c.Success {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			c.Cinema, status, c.InsertedFilms, c.UpdatedFilms, c.InsertedShowings,
			c.SkippedShowings, c.DroppedRecords, c.Duration.Round(time.Millisecond), c.Reason)
	}
	_ = w.Flush()

	return sb.String()
}
