// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package directory

import (
	"context"

	"github.com/danielhkuo/live-results/models"
)

// CandidateDirectory resolves candidate references.
// Unknown IDs return models.ErrNotFound.
type CandidateDirectory interface {
	ResolveCandidate(ctx context.Context, id string) (models.Candidate, error)
}

// PartyDirectory resolves party display metadata.
type PartyDirectory interface {
	ResolveParty(ctx context.Context, id string) (models.Party, error)
}

// DistrictDirectory resolves district display metadata.
type DistrictDirectory interface {
	ResolveDistrict(ctx context.Context, id string) (models.District, error)
}

// Directory is the full reference-data surface.
type Directory interface {
	CandidateDirectory
	PartyDirectory
	DistrictDirectory

	ListParties(ctx context.Context) ([]models.Party, error)
	ListDistricts(ctx context.Context) ([]models.District, error)
	ListCandidates(ctx context.Context, districtID string) ([]models.Candidate, error)

	CreateParty(ctx context.Context, p models.Party) error
	CreateDistrict(ctx context.Context, d models.District) error
	CreateCandidate(ctx context.Context, c models.Candidate) error
}
