// Package config provides configuration management for the Showtime Manager.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from the `default` struct tags of
// each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Storage: MinIO credentials, bucket and batch/archive prefixes
//   - Log: Logging level and format
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Ingest: reconciliation concurrency, lock TTL, archiving, stats cache
//   - Redis: optional per-cinema lock
//   - Queue: optional AMQP notifications for the enrichment step
//
// Environment variables map to keys by replacing dots with underscores,
// e.g. DATABASE_DRIVER or INGEST_CONCURRENCY.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Ingest.Concurrency)
package config
