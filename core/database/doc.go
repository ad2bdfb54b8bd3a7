// Package database handles database connections, migrations and schema inspection.
//
// It wraps GORM and selects the dialect from configuration: MySQL (default),
// PostgreSQL, or SQLite for embedded runs and tests.
//
// # Connect
//
// Connect opens the pool, applies timeouts from TimeoutSeconds to the DSN and the
// initial ping, and silences the GORM logger so optional-database warnings stay
// readable. SQLite pools are pinned to one open connection so ":memory:" databases
// behave like a single shared store.
//
// # Migrations
//
// Migrate is a thin AutoMigrate wrapper. Feature packages pass their models; the
// unique indexes declared on those models are the backstop for concurrent writers.
//
// # Schema Inspection
//
// GetTableColumns returns live column definitions (PRAGMA table_info, SHOW COLUMNS,
// or information_schema depending on the dialect). The schema integrity check
// compares them against the GORM models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "showings")
package database
