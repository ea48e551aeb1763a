// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (duration_ms).

# Authorization

Admin routes are wrapped with RequireRole:

	mux.HandleFunc("POST /results", middleware.WithLogging(
		middleware.RequireRole(verifier, models.RoleAdmin, h.Submit)))

A missing or invalid bearer token gets 401. A valid token without the role
gets 403. The verified identity is available through IdentityFrom.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigin, mux),
	}

The origin setting is "*" or a comma-separated allow list. "*" answers with
a wildcard and no credentials. Listed origins are echoed back with
Access-Control-Allow-Credentials.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.WriteError(w, err)

WriteError maps models.ErrValidation to 400, ErrNotFound to 404,
ErrConflict to 409 and ErrStoreUnavailable to 503. Anything else is a 500.
Only client errors echo the error text.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
