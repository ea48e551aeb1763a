// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires the service components together and defines the HTTP
routes.

# Service Wiring

NewServices builds the store, the cached directory, the resolver, the
aggregate engine, the broadcast hub, the ingestion gateway and the JWT
verifier. Pass a nil *sql.DB for the in-memory store:

	svc, err := router.NewServices(ctx, conn, cfg)
	mux := router.NewRouter(svc, cfg)

The aggregate is recomputed from the store before NewServices returns, so a
restarted server reports the same summary it had before.

# Endpoints

Health:

	GET /health

Results (public):

	GET /results
	GET /results/live?limit=N
	GET /results/national-summary
	GET /results/district/{districtId}
	GET /results/{districtId}/{constituency}/{year}

Results (admin, Authorization: Bearer <jwt> with role "admin"):

	POST   /results
	DELETE /results/{districtId}/{constituency}/{year}
	POST   /results/recompute

Reference data (GET public, POST admin):

	/parties
	/districts
	/candidates?district=ID

Live events:

	GET /events
*/
package router
