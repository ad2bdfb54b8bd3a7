// Package reconcile merges one validated cinema group into the store.
//
// Each group is applied in its own transaction:
//
//  1. upsert the cinema by name (only last_updated changes for a known cinema)
//  2. load the cinema's films and insert the unseen ones, filling optional fields of known ones
//  3. load the cinema's showings and insert the unseen ones
//
// Films match on (cinema, trimmed title, trimmed url). Showings match on
// (cinema, film, start instant at millisecond precision). Nothing is ever deleted.
//
// Records that cannot be used (blank film key, unparseable or inverted times) are
// dropped and reported as RecordDropError values; the rest of the group still commits.
// Any storage failure rolls the group back and surfaces as a *ReconciliationError.
package reconcile
