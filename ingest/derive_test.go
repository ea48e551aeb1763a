// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/danielhkuo/live-results/models"
)

func TestValidate(t *testing.T) {
	good := models.UnitKey{DistrictID: "ktm", Constituency: 1, ElectionYear: 2084}
	half := 0.5
	over := 1.5

	tests := []struct {
		name    string
		key     models.UnitKey
		payload Payload
		wantErr bool
	}{
		{"valid", good, Payload{Candidates: []models.TallyInput{{CandidateID: "A", Votes: 1}}, Turnout: &half}, false},
		{"zero votes allowed", good, Payload{Candidates: []models.TallyInput{{CandidateID: "A", Votes: 0}}}, false},
		{"missing district", models.UnitKey{Constituency: 1, ElectionYear: 2084}, Payload{Candidates: []models.TallyInput{{CandidateID: "A"}}}, true},
		{"zero constituency", models.UnitKey{DistrictID: "ktm", ElectionYear: 2084}, Payload{Candidates: []models.TallyInput{{CandidateID: "A"}}}, true},
		{"zero year", models.UnitKey{DistrictID: "ktm", Constituency: 1}, Payload{Candidates: []models.TallyInput{{CandidateID: "A"}}}, true},
		{"no candidates", good, Payload{}, true},
		{"negative votes", good, Payload{Candidates: []models.TallyInput{{CandidateID: "A", Votes: -1}}}, true},
		{"empty candidate id", good, Payload{Candidates: []models.TallyInput{{CandidateID: " ", Votes: 1}}}, true},
		{"duplicate candidate", good, Payload{Candidates: []models.TallyInput{{CandidateID: "A", Votes: 1}, {CandidateID: "A", Votes: 2}}}, true},
		{"negative total", good, Payload{Candidates: []models.TallyInput{{CandidateID: "A"}}, TotalVotes: -1}, true},
		{"negative rejected", good, Payload{Candidates: []models.TallyInput{{CandidateID: "A"}}, RejectedVotes: -1}, true},
		{"total matches sum", good, Payload{Candidates: []models.TallyInput{{CandidateID: "A", Votes: 6}, {CandidateID: "B", Votes: 4}}, TotalVotes: 10}, false},
		{"total below sum", good, Payload{Candidates: []models.TallyInput{{CandidateID: "A", Votes: 6}, {CandidateID: "B", Votes: 5}}, TotalVotes: 10}, true},
		{"votes overflow", good, Payload{Candidates: []models.TallyInput{{CandidateID: "A", Votes: math.MaxInt64 - 1}, {CandidateID: "B", Votes: 10}}}, true},
		{"votes at int64 limit", good, Payload{Candidates: []models.TallyInput{{CandidateID: "A", Votes: math.MaxInt64 - 10}, {CandidateID: "B", Votes: 10}}}, false},
		{"turnout above one", good, Payload{Candidates: []models.TallyInput{{CandidateID: "A"}}, Turnout: &over}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.key, tt.payload)
			if tt.wantErr {
				if !errors.Is(err, models.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDerive(t *testing.T) {
	dir := newTestDirectory(t)
	key := models.UnitKey{DistrictID: "ktm", Constituency: 1, ElectionYear: 2084}
	ctx := context.Background()

	t.Run("two candidates", func(t *testing.T) {
		r, err := Derive(ctx, key, Payload{
			Candidates: []models.TallyInput{{CandidateID: "B", Votes: 9000}, {CandidateID: "A", Votes: 12000}},
		}, dir)
		if err != nil {
			t.Fatal(err)
		}
		if r.WinnerID != "A" || r.RunnerUpID != "B" || r.Margin != 3000 {
			t.Errorf("unexpected derivation: winner=%s runner=%s margin=%d", r.WinnerID, r.RunnerUpID, r.Margin)
		}
		if r.WinnerPartyID != "PA" {
			t.Errorf("expected winner party PA, got %s", r.WinnerPartyID)
		}
		if r.Candidates[0].Position != 1 || r.Candidates[1].Position != 2 {
			t.Errorf("unexpected positions: %+v", r.Candidates)
		}
		if r.Candidates[0].Percentage != 57.14 || r.Candidates[1].Percentage != 42.86 {
			t.Errorf("unexpected percentages: %+v", r.Candidates)
		}
	})

	t.Run("percentages use total votes when given", func(t *testing.T) {
		r, err := Derive(ctx, key, Payload{
			Candidates: []models.TallyInput{{CandidateID: "A", Votes: 250}, {CandidateID: "B", Votes: 250}},
			TotalVotes: 1000,
		}, dir)
		if err != nil {
			t.Fatal(err)
		}
		if r.Candidates[0].Percentage != 25 {
			t.Errorf("expected 25%%, got %v", r.Candidates[0].Percentage)
		}
	})

	t.Run("ties break on candidate id", func(t *testing.T) {
		r, err := Derive(ctx, key, Payload{
			Candidates: []models.TallyInput{{CandidateID: "B", Votes: 100}, {CandidateID: "A", Votes: 100}},
		}, dir)
		if err != nil {
			t.Fatal(err)
		}
		if r.WinnerID != "A" || r.RunnerUpID != "B" || r.Margin != 0 {
			t.Errorf("unexpected tie handling: %+v", r)
		}
	})

	t.Run("single candidate", func(t *testing.T) {
		r, err := Derive(ctx, key, Payload{Candidates: []models.TallyInput{{CandidateID: "C", Votes: 42}}}, dir)
		if err != nil {
			t.Fatal(err)
		}
		if r.RunnerUpID != "" || r.Margin != 42 {
			t.Errorf("expected no runner-up and margin 42, got %q %d", r.RunnerUpID, r.Margin)
		}
		if r.WinnerPartyID != models.IndependentPartyID {
			t.Errorf("expected independent winner, got %s", r.WinnerPartyID)
		}
	})

	t.Run("all zero votes", func(t *testing.T) {
		r, err := Derive(ctx, key, Payload{
			Candidates: []models.TallyInput{{CandidateID: "A"}, {CandidateID: "B"}},
		}, dir)
		if err != nil {
			t.Fatal(err)
		}
		if r.Candidates[0].Percentage != 0 || r.Margin != 0 {
			t.Errorf("unexpected zero-vote derivation: %+v", r)
		}
	})

	t.Run("unknown candidate", func(t *testing.T) {
		_, err := Derive(ctx, key, Payload{Candidates: []models.TallyInput{{CandidateID: "ghost", Votes: 1}}}, dir)
		if !errors.Is(err, models.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

// TestMarginProperty checks margin, ordering and winner/runner-up
// consistency over random tallies
func TestMarginProperty(t *testing.T) {
	dir := newTestDirectory(t)
	ctx := context.Background()
	key := models.UnitKey{DistrictID: "ktm", Constituency: 1, ElectionYear: 2084}
	rng := rand.New(rand.NewSource(7))
	ids := []string{"A", "B", "C", "D", "E"}

	for i := 0; i < 200; i++ {
		n := rng.Intn(len(ids)) + 1
		perm := rng.Perm(len(ids))[:n]
		p := Payload{}
		for _, idx := range perm {
			p.Candidates = append(p.Candidates, models.TallyInput{CandidateID: ids[idx], Votes: rng.Int63n(5000)})
		}

		r, err := Derive(ctx, key, p, dir)
		if err != nil {
			t.Fatal(err)
		}

		for j := 1; j < len(r.Candidates); j++ {
			if r.Candidates[j-1].Votes < r.Candidates[j].Votes {
				t.Fatalf("tallies not sorted: %+v", r.Candidates)
			}
		}
		if r.WinnerID != r.Candidates[0].CandidateID {
			t.Fatalf("winner %s is not first tally", r.WinnerID)
		}
		if n == 1 {
			if r.RunnerUpID != "" || r.Margin != r.Candidates[0].Votes {
				t.Fatalf("single candidate derivation wrong: %+v", r)
			}
			continue
		}
		if r.WinnerID == r.RunnerUpID {
			t.Fatal("winner equals runner-up")
		}
		if want := r.Candidates[0].Votes - r.Candidates[1].Votes; r.Margin != want || r.Margin < 0 {
			t.Fatalf("margin %d, want %d", r.Margin, want)
		}
	}
}
