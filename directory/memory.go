// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package directory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/danielhkuo/live-results/models"
)

// Memory is an in-process Directory used by tests and memory-backed runs.
type Memory struct {
	mu         sync.RWMutex
	parties    map[string]models.Party
	districts  map[string]models.District
	candidates map[string]models.Candidate
}

func NewMemory() *Memory {
	return &Memory{
		parties:    make(map[string]models.Party),
		districts:  make(map[string]models.District),
		candidates: make(map[string]models.Candidate),
	}
}

func (m *Memory) ResolveCandidate(_ context.Context, id string) (models.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.candidates[id]
	if !ok {
		return models.Candidate{}, fmt.Errorf("%w: candidate %s", models.ErrNotFound, id)
	}
	return c, nil
}

func (m *Memory) ResolveParty(_ context.Context, id string) (models.Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.parties[id]
	if !ok {
		return models.Party{}, fmt.Errorf("%w: party %s", models.ErrNotFound, id)
	}
	return p, nil
}

func (m *Memory) ResolveDistrict(_ context.Context, id string) (models.District, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.districts[id]
	if !ok {
		return models.District{}, fmt.Errorf("%w: district %s", models.ErrNotFound, id)
	}
	return d, nil
}

func (m *Memory) ListParties(_ context.Context) ([]models.Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]models.Party, 0, len(m.parties))
	for _, p := range m.parties {
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (m *Memory) ListDistricts(_ context.Context) ([]models.District, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]models.District, 0, len(m.districts))
	for _, d := range m.districts {
		items = append(items, d)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (m *Memory) ListCandidates(_ context.Context, districtID string) ([]models.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]models.Candidate, 0)
	for _, c := range m.candidates {
		if districtID == "" || c.DistrictID == districtID {
			items = append(items, c)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (m *Memory) CreateParty(_ context.Context, p models.Party) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parties[p.ID] = p
	return nil
}

func (m *Memory) CreateDistrict(_ context.Context, d models.District) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.districts[d.ID] = d
	return nil
}

func (m *Memory) CreateCandidate(_ context.Context, c models.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates[c.ID] = c
	return nil
}
