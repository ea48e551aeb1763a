// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func TestIssueAndVerify(t *testing.T) {
	j := NewJWT("secret")

	token, err := j.IssueToken("operator-1", "admin", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	id, err := j.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if id.Subject != "operator-1" {
		t.Errorf("expected subject operator-1, got %s", id.Subject)
	}
	if id.Role != "admin" {
		t.Errorf("expected role admin, got %s", id.Role)
	}
}

func TestVerifyRejects(t *testing.T) {
	j := NewJWT("secret")
	other := NewJWT("other-secret")

	wrongKey, _ := other.IssueToken("x", "admin", time.Hour)
	expired, _ := j.IssueToken("x", "admin", -time.Minute)
	noRole, _ := j.IssueToken("x", "", time.Hour)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, claims{Role: "admin", StandardClaims: jwt.StandardClaims{Subject: "x"}})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"wrong key", wrongKey, ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
		{"missing role", noRole, ErrInvalidToken},
		{"alg none", unsigned, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Verify(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	j := NewJWT("secret")

	tests := []struct {
		name     string
		identity Identity
		role     string
		want     bool
	}{
		{"admin as admin", Identity{Subject: "a", Role: "admin"}, "admin", true},
		{"admin as viewer", Identity{Subject: "a", Role: "admin"}, "viewer", true},
		{"viewer as viewer", Identity{Subject: "v", Role: "viewer"}, "viewer", true},
		{"viewer as admin", Identity{Subject: "v", Role: "viewer"}, "admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := j.RequireRole(tt.identity, tt.role); got != tt.want {
				t.Errorf("RequireRole = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"Basic dXNlcjpwYXNz", ""},
		{"", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		if got := BearerToken(tt.header); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
