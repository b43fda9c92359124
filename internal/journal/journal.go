// Package journal records validation runs. Each run appends one entry
// naming the document and the finding counts, so operators can inspect a
// history of what was validated and how it went. Backends mirror the
// datafile drivers: in-memory for tests, SQLite for single-node use,
// Postgres for shared deployments.
package journal

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Driver identifies a concrete journal backend.
type Driver string

const (
	// DriverMemory keeps entries in process memory (default, tests).
	DriverMemory Driver = "memory"
	// DriverSQLite stores entries in a local SQLite file.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores entries in Postgres.
	DriverPostgres Driver = "postgres"
)

// Entry is one recorded validation run.
type Entry struct {
	Document   string    `json:"document"`
	RecordedAt time.Time `json:"recorded_at"`
	Warnings   int       `json:"warnings"`
	Errors     int       `json:"errors"`
	Fatals     int       `json:"fatals"`
}

// Journal appends and lists validation-run entries.
type Journal interface {
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context) ([]Entry, error)
	Driver() Driver
}

// Open selects a Journal implementation using environment variables.
//
//	STUDYCORE_JOURNAL_DRIVER: memory|sqlite|postgres (default memory)
//	STUDYCORE_JOURNAL_SQLITE_PATH: sqlite database file (default studycore.db)
//	STUDYCORE_JOURNAL_POSTGRES_DSN: postgres connection string
func Open(ctx context.Context) (Journal, error) {
	driver := os.Getenv("STUDYCORE_JOURNAL_DRIVER")
	if driver == "" {
		driver = string(DriverMemory)
	}
	switch Driver(driver) {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return OpenSQLite(os.Getenv("STUDYCORE_JOURNAL_SQLITE_PATH"))
	case DriverPostgres:
		return OpenPostgres(ctx, os.Getenv("STUDYCORE_JOURNAL_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown journal driver %s", driver)
	}
}
