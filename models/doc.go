// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - UnitKey: district + constituency + election year
  - CandidateTally: one candidate's votes, share and rank within a unit
  - Result: the stored outcome for one unit (winner, runner-up, margin)
  - Party, District, Candidate: reference data
  - NationalSummary: seats won per party, derived from all results

# Resolved Types

ResolvedResult is the single display shape used by every query and every
live event. It carries human-readable district, candidate and party names.

# Request Types

  - SubmitResultRequest: district, constituency, election_year, candidates
  - CreatePartyRequest, CreateDistrictRequest, CreateCandidateRequest

# Errors

Sentinel errors are wrapped with fmt.Errorf and matched with errors.Is:

	ErrValidation       → 400
	ErrNotFound         → 404
	ErrConflict         → 409
	ErrStoreUnavailable → 503

# Events

	result_created, result_updated, result_deleted
	party_created, district_created, candidate_created
	snapshot (sent once per live connection)
*/
package models
