// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ingest is the write path for constituency results.

A submission goes through these steps:

 1. Validate the key and payload, and check that every candidate exists in the
    candidate directory. Failures wrap models.ErrValidation and change
    nothing.
 2. Derive the ordered tallies, positions, percentages, winner, runner-up,
    margin and winner party. Clients never supply these.
 3. Take the per-key lock. Units with different keys never contend.
 4. Read the previous result and stamp LastUpdated as max(now, previous+1ns).
 5. Compare-and-swap upsert on the stored version. models.ErrConflict is
    retried up to MaxSubmitAttempts.
 6. Apply the seat delta to the aggregate engine.
 7. Release the per-key lock, resolve names and publish result_created or
    result_updated.

Steps 4 to 6 run under the per-key lock. The hub takes its own registry lock
on publish, and the two are never held together. When the store fails,
neither the aggregate nor subscribers see anything.

Delete follows the same locking and publishes result_deleted after the lock
is released.
*/
package ingest
