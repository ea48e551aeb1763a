package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               int
	DatabaseURL        string
	DatabaseType       string
	JWTSecret          string
	TotalSeats         int
	LiveLimit          int
	CORSOrigin         string
	SubscriberBuffer   int
	DirectoryCacheSize int
	MaxSubmitAttempts  int
	HeartbeatInterval  time.Duration
}

// Supported database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabasePgx      = "pgx"
	DatabaseMemory   = "memory"
)

// ParseFlags validates flags and fills the rest from the environment.
// A .env file in the working directory is loaded first if present.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Missing .env is fine; real env vars are never overridden.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("live-results", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres, pgx or memory)")
	fs.StringVar(&cfg.CORSOrigin, "cors", "", "Allowed CORS origins, comma separated")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")

	// Election tuning
	fs.IntVar(&cfg.TotalSeats, "seats", 0, "Total seats in the election")
	fs.IntVar(&cfg.LiveLimit, "live-limit", 0, "Default size of the live feed")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	var err error
	if cfg.Port, err = intSetting(cfg.Port, "PORT", 3318); err != nil {
		return Config{}, err
	}
	if cfg.TotalSeats, err = intSetting(cfg.TotalSeats, "TOTAL_SEATS", 275); err != nil {
		return Config{}, err
	}
	if cfg.LiveLimit, err = intSetting(cfg.LiveLimit, "LIVE_LIMIT", 10); err != nil {
		return Config{}, err
	}
	if cfg.SubscriberBuffer, err = intSetting(0, "SUBSCRIBER_BUFFER", 64); err != nil {
		return Config{}, err
	}
	if cfg.DirectoryCacheSize, err = intSetting(0, "DIRECTORY_CACHE_SIZE", 1024); err != nil {
		return Config{}, err
	}
	if cfg.MaxSubmitAttempts, err = intSetting(0, "MAX_SUBMIT_ATTEMPTS", 3); err != nil {
		return Config{}, err
	}

	cfg.HeartbeatInterval = 30 * time.Second
	if raw := os.Getenv("HEARTBEAT_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, errors.New("invalid HEARTBEAT_INTERVAL env variable")
		}
		cfg.HeartbeatInterval = d
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabasePgx, DatabaseMemory:
	default:
		return Config{}, errors.New("unsupported database type: " + cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseType != DatabaseMemory {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = os.Getenv("CORS_ORIGIN")
		if cfg.CORSOrigin == "" {
			cfg.CORSOrigin = "*"
		}
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	return cfg, nil
}

// intSetting keeps a flag value if set, else reads env, else uses the default.
func intSetting(flagValue int, env string, def int) (int, error) {
	if flagValue != 0 {
		return flagValue, nil
	}
	raw := os.Getenv(env)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, errors.New("invalid " + env + " env variable")
	}
	return v, nil
}
