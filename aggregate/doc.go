// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package aggregate maintains the national summary: seats won per party.

The engine is incremental. After every committed write the ingestion
gateway calls

	engine.ApplyDelta(key, oldParty, newParty, lastUpdated)

where a nil party means "no result". All four transitions are handled:
new unit, winner changes party, winner party unchanged, unit deleted.

The engine keeps its own record of which party each unit is credited to.
That record, not the caller's oldParty, decides what gets decremented, so a
stale caller cannot double count. Disagreements are logged.

Recompute rebuilds everything from the result store and is used at start-up
and by the admin recompute endpoint. Summarize copies the counters under a
read lock, so a reader sees either the state before or after a delta.

Invariant: the sum of SeatsWon over all parties equals Counted.
*/
package aggregate
