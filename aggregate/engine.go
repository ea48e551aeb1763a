// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/live-results/models"
	"github.com/danielhkuo/live-results/store"
)

// Source is the read side of the result store used for full recomputes.
type Source interface {
	List(ctx context.Context, filter store.ListFilter) ([]models.Result, error)
}

// PartyNamer supplies display metadata for a party ID.
type PartyNamer interface {
	Party(ctx context.Context, id string) models.PartyRef
}

type unit struct {
	party   string
	updated time.Time
}

// Engine maintains seats won per party incrementally. Its per-unit record
// of the current winner's party is the reference for every delta; counters
// and records change together under mu, so readers never observe half of
// a transition.
type Engine struct {
	mu          sync.RWMutex
	totalSeats  int
	seats       map[string]int
	units       map[models.UnitKey]unit
	lastUpdated time.Time

	source Source
	namer  PartyNamer
	logger *slog.Logger
}

func NewEngine(totalSeats int, source Source, namer PartyNamer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		totalSeats: totalSeats,
		seats:      make(map[string]int),
		units:      make(map[models.UnitKey]unit),
		source:     source,
		namer:      namer,
		logger:     logger,
	}
}

// ApplyDelta records that the unit's winner moved from oldParty to
// newParty. nil means "no result": nil→p is a new count, p→nil a deletion.
// oldParty is cross-checked against the engine's own record; when they
// disagree the record wins and the drift is logged.
func (e *Engine) ApplyDelta(key models.UnitKey, oldParty, newParty *string, updated time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, had := e.units[key]
	if had != (oldParty != nil) || (had && prev.party != *oldParty) {
		e.logger.Warn("aggregate drift",
			"key", key.String(),
			"recorded_party", partyOrNone(had, prev.party),
			"reported_party", partyOrNone(oldParty != nil, deref(oldParty)),
		)
	}

	if had {
		e.decrement(prev.party)
		delete(e.units, key)
	}
	if newParty != nil {
		e.seats[*newParty]++
		e.units[key] = unit{party: *newParty, updated: updated}
		if updated.After(e.lastUpdated) {
			e.lastUpdated = updated
		}
	} else if had && !prev.updated.Before(e.lastUpdated) {
		e.lastUpdated = e.maxUpdated()
	}
}

// Recompute rebuilds every counter from the store. It holds the write lock
// while reading, so the result reflects every upsert that completed before
// it started and no delta interleaves with the rebuild.
func (e *Engine) Recompute(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	results, err := e.source.List(ctx, store.ListFilter{})
	if err != nil {
		return fmt.Errorf("recompute: %w", err)
	}

	seats := make(map[string]int)
	units := make(map[models.UnitKey]unit, len(results))
	var last time.Time
	for _, r := range results {
		seats[r.WinnerPartyID]++
		units[r.Key] = unit{party: r.WinnerPartyID, updated: r.LastUpdated}
		if r.LastUpdated.After(last) {
			last = r.LastUpdated
		}
	}

	e.seats, e.units, e.lastUpdated = seats, units, last
	e.logger.Info("aggregate recomputed", "counted", len(units), "parties", len(seats))
	return nil
}

// Summarize returns the national summary. Counters are copied under the
// read lock; party names are resolved after it is released.
func (e *Engine) Summarize(ctx context.Context) models.NationalSummary {
	e.mu.RLock()
	seats := make(map[string]int, len(e.seats))
	for p, n := range e.seats {
		seats[p] = n
	}
	counted := len(e.units)
	last := e.lastUpdated
	e.mu.RUnlock()

	summary := models.NationalSummary{
		TotalSeats:  e.totalSeats,
		Counted:     counted,
		Parties:     make(map[string]models.PartySeats, len(seats)),
		LastUpdated: last,
	}
	for id, n := range seats {
		ref := e.namer.Party(ctx, id)
		summary.Parties[id] = models.PartySeats{Name: ref.Name, SeatsWon: n, Color: ref.Color}
	}
	return summary
}

// Party returns the party currently credited with the unit, if any.
func (e *Engine) Party(key models.UnitKey) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	u, ok := e.units[key]
	return u.party, ok
}

func (e *Engine) decrement(party string) {
	e.seats[party]--
	if e.seats[party] <= 0 {
		delete(e.seats, party)
	}
}

func (e *Engine) maxUpdated() time.Time {
	var last time.Time
	for _, u := range e.units {
		if u.updated.After(last) {
			last = u.updated
		}
	}
	return last
}

func partyOrNone(ok bool, party string) string {
	if !ok {
		return "<none>"
	}
	return party
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
