// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/live-results/auth"
	"github.com/danielhkuo/live-results/cliparse"
	"github.com/danielhkuo/live-results/db"
	"github.com/danielhkuo/live-results/models"
)

// TestJWTSecret signs every token issued in tests
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The file lives in t.TempDir() and disappears with the test.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := GetTestConfig()
	cfg.DatabaseURL = "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"

	conn, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseType:       cliparse.DatabaseSQLite,
		JWTSecret:          TestJWTSecret,
		TotalSeats:         models.DefaultTotalSeats,
		LiveLimit:          10,
		CORSOrigin:         "*",
		SubscriberBuffer:   16,
		DirectoryCacheSize: 64,
		MaxSubmitAttempts:  3,
		HeartbeatInterval:  time.Second,
	}
}

// CreateTestParty inserts a party row
func CreateTestParty(t *testing.T, db *sql.DB, id, name, color string) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO party (id, name, color) VALUES ($1, $2, $3)`, id, name, color)
	if err != nil {
		t.Fatalf("Failed to create test party: %v", err)
	}
}

// CreateTestDistrict inserts a district row
func CreateTestDistrict(t *testing.T, db *sql.DB, id, name string) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO district (id, name, province) VALUES ($1, $2, 'Bagmati')`, id, name)
	if err != nil {
		t.Fatalf("Failed to create test district: %v", err)
	}
}

// CreateTestCandidate inserts a candidate row; partyID may be empty
func CreateTestCandidate(t *testing.T, db *sql.DB, id, name, partyID string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO candidate (id, name, party_id, district_id, constituency, election_year)
		VALUES ($1, $2, $3, '', 0, 0)
	`, id, name, partyID)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
}

// SeedReferenceData creates the parties, district and candidates used by
// the election scenarios: candidates A and B belong to parties PA and PB,
// candidate C is independent.
func SeedReferenceData(t *testing.T, db *sql.DB) {
	t.Helper()

	CreateTestParty(t, db, "PA", "Party A", "#FF0000")
	CreateTestParty(t, db, "PB", "Party B", "#0000FF")
	CreateTestDistrict(t, db, "ktm", "Kathmandu")
	CreateTestDistrict(t, db, "ltp", "Lalitpur")
	CreateTestCandidate(t, db, "A", "Candidate A", "PA")
	CreateTestCandidate(t, db, "B", "Candidate B", "PB")
	CreateTestCandidate(t, db, "C", "Candidate C", "")
}

// IssueTestToken returns a bearer token for the given role
func IssueTestToken(t *testing.T, role string) string {
	t.Helper()

	token, err := auth.NewJWT(TestJWTSecret).IssueToken("tester", role, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
