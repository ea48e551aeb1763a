// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("TOTAL_SEATS", "165")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.TotalSeats != 165 {
		t.Errorf("expected 165 seats, got %d", cfg.TotalSeats)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-jwt-secret", "s1", "-seats", "100"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.TotalSeats != 100 {
		t.Errorf("expected 100 seats, got %d", cfg.TotalSeats)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-jwt-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected sqlite by default, got %s", cfg.DatabaseType)
	}
	if cfg.TotalSeats != 275 {
		t.Errorf("expected 275 seats, got %d", cfg.TotalSeats)
	}
	if cfg.LiveLimit != 10 {
		t.Errorf("expected live limit 10, got %d", cfg.LiveLimit)
	}
	if cfg.MaxSubmitAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.MaxSubmitAttempts)
	}
	if cfg.HeartbeatInterval != 30*time.Second {
		t.Errorf("expected 30s heartbeat, got %s", cfg.HeartbeatInterval)
	}
	if cfg.CORSOrigin != "*" {
		t.Errorf("expected wildcard CORS, got %q", cfg.CORSOrigin)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database url", map[string]string{"JWT_SECRET": "s"}, nil},
		{"missing jwt secret", map[string]string{"DATABASE_URL": "file:x.db"}, nil},
		{"bad port", map[string]string{"PORT": "abc", "DATABASE_URL": "x", "JWT_SECRET": "s"}, nil},
		{"bad database type", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s"}, []string{"-t", "mongo"}},
		{"bad heartbeat", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s", "HEARTBEAT_INTERVAL": "soon"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			defer os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseFlags_MemoryNeedsNoURL(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-t", "memory", "-jwt-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("expected empty database URL, got %q", cfg.DatabaseURL)
	}
}
