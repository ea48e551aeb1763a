// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/danielhkuo/live-results/directory"
	"github.com/danielhkuo/live-results/models"
)

// Payload is everything a submission carries besides its key.
type Payload struct {
	ElectionType  string
	Candidates    []models.TallyInput
	TotalVotes    int64
	RejectedVotes int64
	Turnout       *float64
}

// PayloadFrom splits a request body into key and payload.
func PayloadFrom(req models.SubmitResultRequest) (models.UnitKey, Payload) {
	return req.Key(), Payload{
		ElectionType:  req.ElectionType,
		Candidates:    req.Candidates,
		TotalVotes:    req.TotalVotes,
		RejectedVotes: req.RejectedVotes,
		Turnout:       req.Turnout,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}

// ValidateKey checks that all three key components are present.
func ValidateKey(key models.UnitKey) error {
	if strings.TrimSpace(key.DistrictID) == "" {
		return invalid("district is required")
	}
	if key.Constituency < 1 {
		return invalid("constituency must be >= 1")
	}
	if key.ElectionYear < 1 {
		return invalid("election_year must be >= 1")
	}
	return nil
}

// Validate checks the shape of a submission without consulting any
// directory.
func Validate(key models.UnitKey, p Payload) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if len(p.Candidates) == 0 {
		return invalid("at least one candidate tally is required")
	}

	seen := make(map[string]struct{}, len(p.Candidates))
	var sum int64
	for i, c := range p.Candidates {
		if strings.TrimSpace(c.CandidateID) == "" {
			return invalid("candidate %d has no id", i)
		}
		if c.Votes < 0 {
			return invalid("candidate %s has negative votes", c.CandidateID)
		}
		if _, dup := seen[c.CandidateID]; dup {
			return invalid("candidate %s appears more than once", c.CandidateID)
		}
		seen[c.CandidateID] = struct{}{}
		if c.Votes > math.MaxInt64-sum {
			return invalid("candidate votes overflow at %s", c.CandidateID)
		}
		sum += c.Votes
	}

	if p.TotalVotes < 0 {
		return invalid("total_votes must be >= 0")
	}
	if p.TotalVotes > 0 && p.TotalVotes < sum {
		return invalid("total_votes %d is less than the candidate sum %d", p.TotalVotes, sum)
	}
	if p.RejectedVotes < 0 {
		return invalid("rejected_votes must be >= 0")
	}
	if p.Turnout != nil && (math.IsNaN(*p.Turnout) || *p.Turnout < 0 || *p.Turnout > 1) {
		return invalid("turnout must be within [0, 1]")
	}
	return nil
}

// Derive validates p and builds the Result it describes: tallies ordered by
// votes (ties by candidate ID), positions, percentages, winner, runner-up,
// margin, and the winner's party. Every candidate must be known to
// candidates. Version and LastUpdated are left for the caller.
func Derive(ctx context.Context, key models.UnitKey, p Payload, candidates directory.CandidateDirectory) (models.Result, error) {
	if err := Validate(key, p); err != nil {
		return models.Result{}, err
	}

	parties := make(map[string]string, len(p.Candidates))
	for _, c := range p.Candidates {
		known, err := candidates.ResolveCandidate(ctx, c.CandidateID)
		switch {
		case errors.Is(err, models.ErrNotFound):
			return models.Result{}, invalid("unknown candidate %s", c.CandidateID)
		case err != nil:
			return models.Result{}, err
		}
		parties[c.CandidateID] = known.PartyID
	}

	tallies := make([]models.CandidateTally, len(p.Candidates))
	var sum int64
	for i, c := range p.Candidates {
		tallies[i] = models.CandidateTally{CandidateID: c.CandidateID, Votes: c.Votes}
		sum += c.Votes
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Votes != tallies[j].Votes {
			return tallies[i].Votes > tallies[j].Votes
		}
		return tallies[i].CandidateID < tallies[j].CandidateID
	})

	denom := p.TotalVotes
	if denom == 0 {
		denom = sum
	}
	for i := range tallies {
		tallies[i].Position = i + 1
		tallies[i].Percentage = percentage(tallies[i].Votes, denom)
	}

	r := models.Result{
		Key:           key,
		ElectionType:  p.ElectionType,
		Candidates:    tallies,
		WinnerID:      tallies[0].CandidateID,
		Margin:        tallies[0].Votes,
		TotalVotes:    p.TotalVotes,
		RejectedVotes: p.RejectedVotes,
		Turnout:       p.Turnout,
	}
	if len(tallies) > 1 {
		r.RunnerUpID = tallies[1].CandidateID
		r.Margin = tallies[0].Votes - tallies[1].Votes
	}

	r.WinnerPartyID = parties[r.WinnerID]
	if r.WinnerPartyID == "" {
		r.WinnerPartyID = models.IndependentPartyID
	}
	return r, nil
}

func percentage(votes, denom int64) float64 {
	if denom <= 0 {
		return 0
	}
	return math.Round(float64(votes)/float64(denom)*10000) / 100
}
