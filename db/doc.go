// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open(cfg)

  - sqlite: modernc.org/sqlite (pure Go, default, used by tests)
  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5/stdlib

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - party: id, name, display color
  - district: id, unique name, province
  - candidate: id, name, party, district, constituency, year
  - result: one row per (district_id, constituency, election_year)

Result rows keep the tally list as JSON text, the derived winner, the
winner's party at write time, a version used for compare-and-swap writes,
and last_updated in Unix nanoseconds.

# Indexes

  - result.last_updated (live feed)
  - result.district_id
  - candidate.district_id
*/
package db
