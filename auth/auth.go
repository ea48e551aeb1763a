// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the verified caller behind a bearer token
type Identity struct {
	Subject string
	Role    string
}

type claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// JWT verifies HMAC-signed bearer tokens issued by the identity service
type JWT struct {
	secret []byte
	now    func() time.Time
}

func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret), now: time.Now}
}

// Verify parses and validates a token string, returning the caller identity
func (j *JWT) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" || c.Role == "" {
		return Identity{}, fmt.Errorf("%w: subject and role are required", ErrInvalidToken)
	}

	return Identity{Subject: c.Subject, Role: c.Role}, nil
}

// RequireRole reports whether the identity holds the role.
// Admins satisfy every role.
func (j *JWT) RequireRole(id Identity, role string) bool {
	return id.Role == role || id.Role == "admin"
}

// IssueToken signs a token for subject with the given role.
// Used by tests and operator tooling; end users get tokens elsewhere.
func (j *JWT) IssueToken(subject, role string, ttl time.Duration) (string, error) {
	now := j.now()
	c := claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
