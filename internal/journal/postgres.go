package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	postgresDriverName = "pgx"
	defaultPostgresDSN = "postgres://localhost/studycore?sslmode=disable"
)

// Postgres stores journal entries in a Postgres database.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres opens the journal against the provided DSN (falls back to a
// local default).
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	db, err := sql.Open(postgresDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS runs (
		id BIGSERIAL PRIMARY KEY,
		document TEXT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL,
		warnings INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		fatals INTEGER NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Driver identifies the backend.
func (p *Postgres) Driver() Driver { return DriverPostgres }

// Append records an entry.
func (p *Postgres) Append(ctx context.Context, entry Entry) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO runs(document, recorded_at, warnings, errors, fatals) VALUES($1,$2,$3,$4,$5)`,
		entry.Document, entry.RecordedAt.UTC(), entry.Warnings, entry.Errors, entry.Fatals)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns all entries in append order.
func (p *Postgres) List(ctx context.Context) ([]Entry, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT document, recorded_at, warnings, errors, fatals FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Document, &e.RecordedAt, &e.Warnings, &e.Errors, &e.Fatals); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return entries, nil
}

// Close releases the underlying database handle.
func (p *Postgres) Close() error { return p.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (p *Postgres) DB() *sql.DB { return p.db }
