// Package enrichment is the boundary used by the asynchronous enrichment step.
// It lists films that have no film_enrichments row and upserts that row by film id.
package enrichment
