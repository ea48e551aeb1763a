// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded before the environment is
read. Variables already set in the process environment win over .env.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required unless memory)
  - DatabaseType: sqlite, postgres, pgx or memory (default: sqlite)
  - JWTSecret: HMAC secret used to verify bearer tokens (required)
  - TotalSeats: Seats in the election (default: 275)
  - LiveLimit: Default size of the live feed (default: 10)
  - CORSOrigin: Allowed origins, comma separated (default: *)
  - SubscriberBuffer: Per-viewer event buffer (default: 64)
  - DirectoryCacheSize: LRU size for name lookups (default: 1024)
  - MaxSubmitAttempts: Write retries on version conflict (default: 3)
  - HeartbeatInterval: Idle ping for live streams (default: 30s)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-cors         Allowed CORS origins
	-jwt-secret   JWT secret
	-seats        Total seats
	-live-limit   Live feed size

# Environment Variables

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	CORS_ORIGIN          → -cors
	JWT_SECRET           → -jwt-secret
	TOTAL_SEATS          → -seats
	LIVE_LIMIT           → -live-limit
	SUBSCRIBER_BUFFER
	DIRECTORY_CACHE_SIZE
	MAX_SUBMIT_ATTEMPTS
	HEARTBEAT_INTERVAL   (Go duration, e.g. 15s)

CLI flags take precedence over environment variables.
*/
package cliparse
