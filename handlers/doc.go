// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the live results API.

# Handler Types

  - ResultsHandler: result queries, the national summary, and the admin
    submit, delete and recompute operations
  - DirectoryHandler: parties, districts and candidates
  - EventsHandler: the Server-Sent Events stream

Handlers take their collaborators through constructors:

	results := handlers.NewResultsHandler(store, engine, gateway, resolver, cfg)

# Results

	GET    /results                                   → List
	GET    /results/live?limit=N                      → Live (newest first)
	GET    /results/national-summary                  → NationalSummary
	GET    /results/district/{districtId}             → ByDistrict
	GET    /results/{districtId}/{constituency}/{year} → Get
	POST   /results                                   → Submit (admin)
	DELETE /results/{districtId}/{constituency}/{year} → Delete (admin)
	POST   /results/recompute                         → Recompute (admin)

Every result leaves the API in the same resolved shape, with names, party
colors and formatted vote counts.

Submit answers 201 the first time a unit is counted and 200 after that.
Winner, runner-up and margin are computed from the tallies. Any that the
client sends are ignored.

# Live Events

GET /events is a text/event-stream. The first event is a snapshot holding
the national summary and the live feed. After that come result_created,
result_updated, result_deleted, party_created, district_created and
candidate_created as they happen. Comment lines (": ping") keep idle
connections open. Nothing is replayed: reconnecting clients rely on the
fresh snapshot.

# Error Handling

Errors go through middleware.WriteError:

	400 Bad Request          - Validation failed
	401 Unauthorized         - Missing or invalid bearer token
	403 Forbidden            - Token lacks the admin role
	404 Not Found            - Unit or reference not found
	409 Conflict             - Write lost a race after retries
	503 Service Unavailable  - Database unreachable
*/
package handlers
