// Package integrity provides health checks for the showtime pipeline's infrastructure.
//
// # Checks Provided
//
//   - Structure: the batch and archive folders exist in the storage bucket (fixable).
//   - Schema: the cinemas, films, showings and film_enrichments tables carry the expected columns.
//   - Batches: every pending producer batch passes validation. Nothing is reconciled.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/schema : Runs schema check.
//   - GET /integrity/batches : Validates pending batches.
package integrity
