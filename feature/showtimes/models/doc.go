// Package models defines the persisted showtime tables and the producer batch shape.
//
// Persisted: Cinema (unique name), Film (unique cinema_id, title, url), Showing
// (unique cinema_id, film_id, start_time) and FilmEnrichment (one per film).
// The unique indexes are the last line of defence against concurrent duplicate writers.
//
// Producer shape: a batch is a JSON array of CinemaGroup values. Validation tags on
// these types are read by the validate package.
package models
