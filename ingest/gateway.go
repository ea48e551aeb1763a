// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/live-results/aggregate"
	"github.com/danielhkuo/live-results/directory"
	"github.com/danielhkuo/live-results/models"
	"github.com/danielhkuo/live-results/store"
)

// DefaultMaxAttempts bounds compare-and-swap retries per submission.
const DefaultMaxAttempts = 3

// Publisher receives every committed change. Publish must not block.
type Publisher interface {
	Publish(name string, payload any)
}

// Outcome is what Submit reports back to the caller.
type Outcome struct {
	Result  models.ResolvedResult
	Created bool
}

// Gateway is the single write path for results.
type Gateway struct {
	store      store.ResultStore
	engine     *aggregate.Engine
	resolver   *directory.Resolver
	candidates directory.CandidateDirectory
	publisher  Publisher
	locks      *keyLocks

	maxAttempts int
	now         func() time.Time
	logger      *slog.Logger
}

func NewGateway(
	st store.ResultStore,
	engine *aggregate.Engine,
	resolver *directory.Resolver,
	candidates directory.CandidateDirectory,
	publisher Publisher,
	maxAttempts int,
	logger *slog.Logger,
) *Gateway {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		store:       st,
		engine:      engine,
		resolver:    resolver,
		candidates:  candidates,
		publisher:   publisher,
		locks:       newKeyLocks(),
		maxAttempts: maxAttempts,
		now:         time.Now,
		logger:      logger,
	}
}

// Submit validates and stores the result for key, updates the national
// aggregate and publishes result_created or result_updated. Nothing is
// changed or published when validation or the store fails.
func (g *Gateway) Submit(ctx context.Context, key models.UnitKey, p Payload) (Outcome, error) {
	derived, err := Derive(ctx, key, p, g.candidates)
	if err != nil {
		return Outcome{}, err
	}

	saved, created, err := g.commit(ctx, key, derived)
	if err != nil {
		return Outcome{}, err
	}

	// The key lock is released before the hub is touched.
	resolved := g.resolver.Format(ctx, saved)
	name := models.EventResultUpdated
	if created {
		name = models.EventResultCreated
	}
	g.publisher.Publish(name, resolved)

	g.logger.Info("result accepted",
		"key", key.String(),
		"created", created,
		"winner", saved.WinnerID,
		"party", saved.WinnerPartyID,
		"margin", saved.Margin,
		"version", saved.Version,
	)
	return Outcome{Result: resolved, Created: created}, nil
}

// commit runs the read, upsert and aggregate delta for key under its lock.
func (g *Gateway) commit(ctx context.Context, key models.UnitKey, derived models.Result) (models.Result, bool, error) {
	unlock := g.locks.lock(key)
	defer unlock()

	var (
		saved     models.Result
		created   bool
		prevParty *string
	)
	for attempt := 1; ; attempt++ {
		prev, err := g.store.Get(ctx, key)
		var expected int64
		prevParty = nil
		switch {
		case err == nil:
			expected = prev.Version
			party := prev.WinnerPartyID
			prevParty = &party
		case errors.Is(err, models.ErrNotFound):
		default:
			return models.Result{}, false, err
		}

		next := derived
		next.LastUpdated = nextTimestamp(g.now(), prev.LastUpdated)

		saved, created, err = g.store.Upsert(ctx, next, expected)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrConflict) || attempt >= g.maxAttempts {
			g.logger.Error("submit failed", "key", key.String(), "attempt", attempt, "error", err)
			return models.Result{}, false, err
		}
		g.logger.Warn("submit conflict, retrying", "key", key.String(), "attempt", attempt)
	}

	newParty := saved.WinnerPartyID
	g.engine.ApplyDelta(key, prevParty, &newParty, saved.LastUpdated)
	return saved, created, nil
}

// Delete removes the result for key, decrements the aggregate and publishes
// result_deleted with the removed record.
func (g *Gateway) Delete(ctx context.Context, key models.UnitKey) (models.ResolvedResult, error) {
	if err := ValidateKey(key); err != nil {
		return models.ResolvedResult{}, err
	}

	removed, err := g.remove(ctx, key)
	if err != nil {
		return models.ResolvedResult{}, err
	}

	resolved := g.resolver.Format(ctx, removed)
	g.publisher.Publish(models.EventResultDeleted, resolved)

	g.logger.Info("result deleted", "key", key.String(), "party", removed.WinnerPartyID)
	return resolved, nil
}

func (g *Gateway) remove(ctx context.Context, key models.UnitKey) (models.Result, error) {
	unlock := g.locks.lock(key)
	defer unlock()

	removed, err := g.store.Delete(ctx, key)
	if err != nil {
		return models.Result{}, err
	}

	party := removed.WinnerPartyID
	g.engine.ApplyDelta(key, &party, nil, nextTimestamp(g.now(), removed.LastUpdated))
	return removed, nil
}

// nextTimestamp keeps LastUpdated strictly increasing per key even when the
// wall clock stalls or steps back.
func nextTimestamp(now, prev time.Time) time.Time {
	now = now.UTC()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond).UTC()
	}
	return now
}
