// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/live-results/models"
	"github.com/danielhkuo/live-results/store"
)

type fakeNamer struct{}

func (fakeNamer) Party(_ context.Context, id string) models.PartyRef {
	return models.PartyRef{ID: id, Name: "Party " + id, Color: "#" + id}
}

func key(n int) models.UnitKey {
	return models.UnitKey{DistrictID: "ktm", Constituency: n, ElectionYear: 2084}
}

func ptr(s string) *string { return &s }

func assertBalanced(t *testing.T, s models.NationalSummary) {
	t.Helper()
	sum := 0
	for _, p := range s.Parties {
		sum += p.SeatsWon
	}
	if sum != s.Counted {
		t.Errorf("seats sum %d != counted %d", sum, s.Counted)
	}
}

func seatsOf(s models.NationalSummary, party string) int {
	return s.Parties[party].SeatsWon
}

func TestApplyDeltaTransitions(t *testing.T) {
	e := NewEngine(275, store.NewMemory(), fakeNamer{}, nil)
	ctx := context.Background()
	t0 := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	// absent -> counted
	e.ApplyDelta(key(1), nil, ptr("A"), t0)
	s := e.Summarize(ctx)
	if s.Counted != 1 || seatsOf(s, "A") != 1 {
		t.Fatalf("after create: %+v", s)
	}
	if s.Parties["A"].Name != "Party A" || s.Parties["A"].Color != "#A" {
		t.Errorf("party metadata not applied: %+v", s.Parties["A"])
	}
	assertBalanced(t, s)

	// unchanged winner party
	e.ApplyDelta(key(1), ptr("A"), ptr("A"), t0.Add(time.Second))
	s = e.Summarize(ctx)
	if s.Counted != 1 || seatsOf(s, "A") != 1 {
		t.Fatalf("after no-op: %+v", s)
	}
	if !s.LastUpdated.Equal(t0.Add(time.Second)) {
		t.Errorf("last updated should advance, got %v", s.LastUpdated)
	}

	// party change
	e.ApplyDelta(key(1), ptr("A"), ptr("B"), t0.Add(2*time.Second))
	s = e.Summarize(ctx)
	if s.Counted != 1 || seatsOf(s, "A") != 0 || seatsOf(s, "B") != 1 {
		t.Fatalf("after flip: %+v", s)
	}
	if _, ok := s.Parties["A"]; ok {
		t.Error("parties with zero seats should be dropped")
	}
	assertBalanced(t, s)

	// deletion
	e.ApplyDelta(key(1), ptr("B"), nil, t0.Add(3*time.Second))
	s = e.Summarize(ctx)
	if s.Counted != 0 || len(s.Parties) != 0 {
		t.Fatalf("after delete: %+v", s)
	}
	if !s.LastUpdated.IsZero() {
		t.Errorf("empty aggregate should have zero last updated, got %v", s.LastUpdated)
	}
	if s.TotalSeats != 275 {
		t.Errorf("expected 275 total seats, got %d", s.TotalSeats)
	}
}

func TestApplyDeltaTrustsOwnRecord(t *testing.T) {
	e := NewEngine(10, store.NewMemory(), fakeNamer{}, nil)
	ctx := context.Background()
	now := time.Now().UTC()

	e.ApplyDelta(key(1), nil, ptr("A"), now)

	// Caller reports the wrong previous party
	e.ApplyDelta(key(1), ptr("B"), ptr("C"), now.Add(time.Second))
	s := e.Summarize(ctx)
	if seatsOf(s, "A") != 0 || seatsOf(s, "B") != 0 || seatsOf(s, "C") != 1 {
		t.Errorf("engine record should decide the decrement: %+v", s.Parties)
	}
	assertBalanced(t, s)

	// Caller claims a new count for a unit the engine already holds
	e.ApplyDelta(key(1), nil, ptr("C"), now.Add(2*time.Second))
	s = e.Summarize(ctx)
	if s.Counted != 1 || seatsOf(s, "C") != 1 {
		t.Errorf("no double counting expected: %+v", s)
	}
}

func TestDeleteRecomputesLastUpdated(t *testing.T) {
	e := NewEngine(10, store.NewMemory(), fakeNamer{}, nil)
	t0 := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	e.ApplyDelta(key(1), nil, ptr("A"), t0)
	e.ApplyDelta(key(2), nil, ptr("B"), t0.Add(time.Minute))
	e.ApplyDelta(key(2), ptr("B"), nil, t0.Add(2*time.Minute))

	s := e.Summarize(context.Background())
	if !s.LastUpdated.Equal(t0) {
		t.Errorf("expected last updated to fall back to %v, got %v", t0, s.LastUpdated)
	}
}

func TestRecomputeMatchesStore(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	mem := store.NewMemory(
		models.Result{Key: key(1), WinnerID: "a1", WinnerPartyID: "A", LastUpdated: t0},
		models.Result{Key: key(2), WinnerID: "a2", WinnerPartyID: "A", LastUpdated: t0.Add(time.Minute)},
		models.Result{Key: key(3), WinnerID: "b1", WinnerPartyID: "B", LastUpdated: t0.Add(30 * time.Second)},
	)
	e := NewEngine(275, mem, fakeNamer{}, nil)

	if err := e.Recompute(ctx); err != nil {
		t.Fatal(err)
	}

	s := e.Summarize(ctx)
	if s.Counted != 3 || seatsOf(s, "A") != 2 || seatsOf(s, "B") != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if !s.LastUpdated.Equal(t0.Add(time.Minute)) {
		t.Errorf("expected max last updated, got %v", s.LastUpdated)
	}
	if p, ok := e.Party(key(3)); !ok || p != "B" {
		t.Errorf("expected unit 3 credited to B, got %q %v", p, ok)
	}
	assertBalanced(t, s)
}

// TestIncrementalEqualsRecompute replays random transitions against both
// the engine and a store, then checks a fresh recompute agrees
func TestIncrementalEqualsRecompute(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	parties := []string{"A", "B", "C", "D"}

	mem := store.NewMemory()
	incremental := NewEngine(275, mem, fakeNamer{}, nil)
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 500; i++ {
		k := key(rng.Intn(20) + 1)
		now = now.Add(time.Second)

		prev, err := mem.Get(ctx, k)
		exists := err == nil
		var oldParty *string
		if exists {
			oldParty = ptr(prev.WinnerPartyID)
		}

		if exists && rng.Intn(10) == 0 {
			if _, err := mem.Delete(ctx, k); err != nil {
				t.Fatal(err)
			}
			incremental.ApplyDelta(k, oldParty, nil, now)
			continue
		}

		party := parties[rng.Intn(len(parties))]
		next := models.Result{Key: k, WinnerID: "w", WinnerPartyID: party, LastUpdated: now}
		if _, _, err := mem.Upsert(ctx, next, prev.Version); err != nil {
			t.Fatal(err)
		}
		incremental.ApplyDelta(k, oldParty, ptr(party), now)
	}

	fresh := NewEngine(275, mem, fakeNamer{}, nil)
	if err := fresh.Recompute(ctx); err != nil {
		t.Fatal(err)
	}

	a, b := incremental.Summarize(ctx), fresh.Summarize(ctx)
	if a.Counted != b.Counted {
		t.Errorf("counted: incremental %d, recompute %d", a.Counted, b.Counted)
	}
	for _, p := range parties {
		if seatsOf(a, p) != seatsOf(b, p) {
			t.Errorf("party %s: incremental %d, recompute %d", p, seatsOf(a, p), seatsOf(b, p))
		}
	}
	assertBalanced(t, a)
}

// TestSummarizeNeverTorn hammers the engine with flips while readers check
// that every snapshot balances
func TestSummarizeNeverTorn(t *testing.T) {
	e := NewEngine(275, store.NewMemory(), fakeNamer{}, nil)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		e.ApplyDelta(key(i), nil, ptr("A"), time.Now())
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := key(w*2 + 1)
				party, _ := e.Party(k)
				next := "A"
				if party == "A" {
					next = fmt.Sprintf("P%d", w)
				}
				e.ApplyDelta(k, ptr(party), ptr(next), time.Now())
			}
		}(w)
	}

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-stop:
				return
			default:
				s := e.Summarize(ctx)
				sum := 0
				for _, p := range s.Parties {
					sum += p.SeatsWon
				}
				if sum != s.Counted || s.Counted != 10 {
					t.Errorf("torn summary: sum=%d counted=%d", sum, s.Counted)
					return
				}
			}
		}
	}()

	wg.Wait()
	close(stop)
	<-readerDone
}
