// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/danielhkuo/live-results/models"
)

// Memory is an in-process ResultStore. Stored values are copied on the way
// in and out so callers never share tally slices with the store.
type Memory struct {
	mu      sync.RWMutex
	results map[models.UnitKey]models.Result
}

func NewMemory(seed ...models.Result) *Memory {
	results := make(map[models.UnitKey]models.Result, len(seed))
	for _, r := range seed {
		if r.Version == 0 {
			r.Version = 1
		}
		results[r.Key] = clone(r)
	}
	return &Memory{results: results}
}

func (m *Memory) Get(_ context.Context, key models.UnitKey) (models.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[key]
	if !ok {
		return models.Result{}, fmt.Errorf("%w: result %s", models.ErrNotFound, key)
	}
	return clone(r), nil
}

func (m *Memory) Upsert(_ context.Context, r models.Result, expectedVersion int64) (models.Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.results[r.Key]
	switch {
	case expectedVersion == 0 && exists:
		return models.Result{}, false, fmt.Errorf("%w: result %s already exists", models.ErrConflict, r.Key)
	case expectedVersion != 0 && (!exists || current.Version != expectedVersion):
		return models.Result{}, false, fmt.Errorf("%w: result %s changed since version %d", models.ErrConflict, r.Key, expectedVersion)
	}

	r.Version = expectedVersion + 1
	m.results[r.Key] = clone(r)
	return clone(r), !exists, nil
}

func (m *Memory) List(_ context.Context, filter ListFilter) ([]models.Result, error) {
	m.mu.RLock()
	items := make([]models.Result, 0, len(m.results))
	for _, r := range m.results {
		if filter.DistrictID != "" && r.Key.DistrictID != filter.DistrictID {
			continue
		}
		items = append(items, clone(r))
	}
	m.mu.RUnlock()

	sortResults(items, filter.Order)
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (m *Memory) ListByDistrict(ctx context.Context, districtID string) ([]models.Result, error) {
	return m.List(ctx, ListFilter{DistrictID: districtID})
}

func (m *Memory) Delete(_ context.Context, key models.UnitKey) (models.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[key]
	if !ok {
		return models.Result{}, fmt.Errorf("%w: result %s", models.ErrNotFound, key)
	}
	delete(m.results, key)
	return r, nil
}

func clone(r models.Result) models.Result {
	r.Candidates = append([]models.CandidateTally(nil), r.Candidates...)
	if r.Turnout != nil {
		v := *r.Turnout
		r.Turnout = &v
	}
	return r
}
