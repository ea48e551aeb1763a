// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/live-results/cliparse"
)

// Open connects to the configured database and verifies the connection.
// The driver name matches cfg.DatabaseType: "sqlite" (modernc),
// "postgres" (lib/pq) or "pgx" (jackc/pgx stdlib).
func Open(cfg cliparse.Config) (*sql.DB, error) {
	switch cfg.DatabaseType {
	case cliparse.DatabaseSQLite, cliparse.DatabasePostgres, cliparse.DatabasePgx:
	default:
		return nil, fmt.Errorf("no SQL driver for database type %q", cfg.DatabaseType)
	}

	conn, err := sql.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	// under concurrent submissions.
	if cfg.DatabaseType == cliparse.DatabaseSQLite {
		conn.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to types understood by both SQLite and PostgreSQL.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var schema = []string{
	// Parties
	`CREATE TABLE IF NOT EXISTS party (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT ''
)`,

	// Districts
	`CREATE TABLE IF NOT EXISTS district (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    province TEXT NOT NULL DEFAULT ''
)`,

	// Candidates
	`CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    party_id TEXT NOT NULL DEFAULT '',
    district_id TEXT NOT NULL DEFAULT '',
    constituency INTEGER NOT NULL DEFAULT 0,
    election_year INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS idx_candidate_district ON candidate(district_id)`,

	// Results: one row per electoral unit
	`CREATE TABLE IF NOT EXISTS result (
    district_id TEXT NOT NULL,
    constituency INTEGER NOT NULL,
    election_year INTEGER NOT NULL,
    election_type TEXT NOT NULL DEFAULT '',
    tallies TEXT NOT NULL,
    winner_id TEXT NOT NULL,
    winner_party_id TEXT NOT NULL,
    runner_up_id TEXT NOT NULL DEFAULT '',
    margin BIGINT NOT NULL CHECK (margin >= 0),
    total_votes BIGINT NOT NULL DEFAULT 0,
    rejected_votes BIGINT NOT NULL DEFAULT 0,
    turnout DOUBLE PRECISION,
    version BIGINT NOT NULL,
    last_updated BIGINT NOT NULL,
    PRIMARY KEY (district_id, constituency, election_year)
)`,
	`CREATE INDEX IF NOT EXISTS idx_result_last_updated ON result(last_updated)`,
	`CREATE INDEX IF NOT EXISTS idx_result_district ON result(district_id)`,
}
