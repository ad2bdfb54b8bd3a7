// Package queue publishes domain events to RabbitMQ.
//
// After a cinema batch commits with new films, the ingestion service publishes a
// films.inserted event so enrichment workers can backfill metadata without polling.
// Messages are persistent JSON on a durable queue. Publishing happens after commit
// and a failure never undoes reconciliation.
package queue
