// Package lock provides per-cinema mutual exclusion across ingestion processes.
//
// Two processes reconciling the same cinema at once would race on inserts. The
// unique indexes reject the loser, but the lock turns that into a clean "locked"
// skip instead of a constraint violation. The redis implementation uses
// SET NX PX with a random token and a compare-and-delete release script.
package lock
