// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package directory

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/live-results/models"
)

// Resolver turns stored results into the display shape used by every
// query response and every live event.
type Resolver struct {
	candidates CandidateDirectory
	parties    PartyDirectory
	districts  DistrictDirectory
	logger     *slog.Logger
}

func NewResolver(candidates CandidateDirectory, parties PartyDirectory, districts DistrictDirectory, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{candidates: candidates, parties: parties, districts: districts, logger: logger}
}

// Format resolves names for one result. Lookups that fail fall back to the
// raw IDs so a committed result is always publishable.
func (r *Resolver) Format(ctx context.Context, res models.Result) models.ResolvedResult {
	out := models.ResolvedResult{
		District:       r.district(ctx, res.Key.DistrictID),
		Constituency:   res.Key.Constituency,
		ElectionYear:   res.Key.ElectionYear,
		ElectionType:   res.ElectionType,
		Candidates:     make([]models.ResolvedTally, 0, len(res.Candidates)),
		Margin:         res.Margin,
		MarginText:     humanize.Comma(res.Margin),
		TotalVotes:     res.TotalVotes,
		TotalVotesText: humanize.Comma(res.TotalVotes),
		RejectedVotes:  res.RejectedVotes,
		Turnout:        res.Turnout,
		LastUpdated:    res.LastUpdated,
	}

	for _, t := range res.Candidates {
		ref := r.candidate(ctx, t.CandidateID)
		out.Candidates = append(out.Candidates, models.ResolvedTally{
			Candidate:  ref,
			Votes:      t.Votes,
			Percentage: t.Percentage,
			Position:   t.Position,
		})
		switch t.CandidateID {
		case res.WinnerID:
			w := ref
			out.Winner = &w
		case res.RunnerUpID:
			ru := ref
			out.RunnerUp = &ru
		}
	}

	return out
}

// FormatAll resolves a list, preserving order.
func (r *Resolver) FormatAll(ctx context.Context, results []models.Result) []models.ResolvedResult {
	out := make([]models.ResolvedResult, 0, len(results))
	for _, res := range results {
		out = append(out, r.Format(ctx, res))
	}
	return out
}

// Party returns display metadata for a party ID, with defaults for
// independents and unknown parties.
func (r *Resolver) Party(ctx context.Context, id string) models.PartyRef {
	if id == "" || id == models.IndependentPartyID {
		return models.PartyRef{ID: models.IndependentPartyID, Name: "Independent", Color: models.DefaultPartyColor}
	}
	p, err := r.parties.ResolveParty(ctx, id)
	if err != nil {
		r.logger.Warn("party lookup failed", "party_id", id, "error", err)
		return models.PartyRef{ID: id, Name: id, Color: models.DefaultPartyColor}
	}
	color := p.Color
	if color == "" {
		color = models.DefaultPartyColor
	}
	return models.PartyRef{ID: p.ID, Name: p.Name, Color: color}
}

func (r *Resolver) candidate(ctx context.Context, id string) models.CandidateRef {
	c, err := r.candidates.ResolveCandidate(ctx, id)
	if err != nil {
		r.logger.Warn("candidate lookup failed", "candidate_id", id, "error", err)
		return models.CandidateRef{ID: id, Name: id, Party: r.Party(ctx, "")}
	}
	return models.CandidateRef{ID: c.ID, Name: c.Name, Party: r.Party(ctx, c.PartyID)}
}

func (r *Resolver) district(ctx context.Context, id string) models.DistrictRef {
	d, err := r.districts.ResolveDistrict(ctx, id)
	if err != nil {
		r.logger.Warn("district lookup failed", "district_id", id, "error", err)
		return models.DistrictRef{ID: id, Name: id}
	}
	return models.DistrictRef{ID: d.ID, Name: d.Name}
}
