// Package showtimes wires the showtime pipeline together: producer batches are
// validated, split into cinema groups and reconciled concurrently, one transaction
// per cinema.
//
// # Ingestion
//
// Batches arrive over HTTP (POST /showtimes/ingest/:producer), from the storage
// bucket (IngestStorage, one object per producer under the batch prefix) or from
// local files (IngestFiles). Each produces a RunReport:
//
//   - a batch failing validation is Rejected and nothing is written
//   - every accepted cinema group gets a CinemaReport with its counts, or the reason it failed
//   - a failing cinema never affects the others
//
// Groups naming the same cinema are serialized. When redis is enabled a per-cinema
// lock also keeps separate processes apart.
//
// After a commit that inserted films a FilmsInserted event is published for the
// enrichment step.
//
// # Read side
//
// Cinemas, CinemaStats (cached per cinema, invalidated on reconciliation),
// PendingEnrichment and SetEnrichment back the remaining routes.
package showtimes
