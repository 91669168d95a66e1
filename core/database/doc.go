// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) that opens
// the mirror database from the application's configuration. SQLite is the
// default driver (the mirror is a single table and travels well as a file);
// MySQL serves deployments that already run one.
//
// # Connect
//
// Connect opens the configured driver, applies the pool settings, and pings
// the database before returning it. The mirror lives in this database, so
// callers treat a connection failure as fatal.
//
// # Schema Inspection
//
// GetTableColumns retrieves column definitions for a table in a dialect-aware
// way (PRAGMA table_info on sqlite, SHOW COLUMNS on mysql). The check command
// uses it to verify the cases table matches the model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "cases")
package database
