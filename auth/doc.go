// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies bearer tokens and checks roles.

Tokens are issued by an external identity service and signed with HMAC
(HS256). This package only checks them; it stores no users or passwords.

# Verification

	j := auth.NewJWT(cfg.JWTSecret)
	id, err := j.Verify(auth.BearerToken(r.Header.Get("Authorization")))

Verify rejects tokens that are missing, malformed, expired, signed with a
different key or algorithm, or that lack a subject or role claim.

# Roles

	j.RequireRole(id, "admin")

Admins satisfy every role. Submitting, deleting and recomputing results,
and creating reference data, all require admin.

# Issuing

IssueToken exists for tests and operator tooling:

	token, err := j.IssueToken("ops", "admin", time.Hour)
*/
package auth
