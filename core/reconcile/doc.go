// Package reconcile provides the generic orchestration used by ingestion runs.
//
// Reconciliation of one cinema is a single transactional unit of work that shares
// no mutable state with other cinemas. This package runs such units side by side
// and keeps their failures apart; the domain logic itself lives in
// feature/showtimes/reconcile.
//
// # Runner
//
// RunAll executes a slice of Task values with bounded concurrency (errgroup with
// SetLimit). Each task's error or panic is captured in its own Outcome, so one
// failing cinema never aborts its siblings. Outcomes come back in task order.
//
// # Cache
//
// Cache is a TTL cache with singleflight stampede protection. It backs read-only
// views such as per-cinema statistics, which are invalidated after a cinema is
// reconciled.
//
// # Usage Example
//
//	tasks := []reconcile.Task[*Result]{{Key: "Lux", Run: func(ctx context.Context) (*Result, error) {
//	    return engine.Reconcile(ctx, group)
//	}}}
//	outcomes := reconcile.RunAll(ctx, tasks, cfg.Ingest.Concurrency)
//	summary := reconcile.Summarize(outcomes)
package reconcile
