// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the live election results server.

Operators submit per-constituency vote tallies. The server derives the winner,
runner-up and margin, keeps a national seat and vote summary current, and
pushes every change to connected browsers over Server-Sent Events.

# Starting the Server

	DATABASE_URL=results.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --jwt-secret ...

A .env file in the working directory is read first if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string, or a file path for SQLite
  - JWT_SECRET (--jwt-secret): HMAC secret for admin tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres, pgx or memory (default: sqlite)
  - CORS_ORIGIN (--cors): allowed origins, comma separated (default: *)
  - TOTAL_SEATS (--seats): seats in the election (default: 275)
  - LIVE_LIMIT (--live-limit): size of the live feed (default: 10)
  - SUBSCRIBER_BUFFER: events queued per live client (default: 64)
  - DIRECTORY_CACHE_SIZE: cached reference entries (default: 1024)
  - MAX_SUBMIT_ATTEMPTS: retries for conflicting writes (default: 3)
  - HEARTBEAT_INTERVAL: SSE keep-alive period (default: 30s)

# Architecture

  - ingest: validation, derivation and the per-unit write path
  - aggregate: the incremental national summary
  - broadcast: the fan-out hub for live events
  - store: result persistence (SQL or memory)
  - directory: parties, districts and candidates, with an LRU cache
  - handlers: HTTP request handlers (results, reference data, events)
  - router: service wiring and route definitions
  - middleware: CORS, logging, JWT role checks, JSON helpers
  - auth: JWT verification
  - db: connection and schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
