// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package directory

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/danielhkuo/live-results/models"
)

// Cached puts an LRU in front of a Directory's resolve calls. Every
// submission resolves each of its candidates, and every event resolves
// district and party names, so the hit rate is high.
// Only successful lookups are cached; creates refresh the entry.
type Cached struct {
	Directory

	candidates *lru.Cache[string, models.Candidate]
	parties    *lru.Cache[string, models.Party]
	districts  *lru.Cache[string, models.District]
}

func NewCached(inner Directory, size int) (*Cached, error) {
	candidates, err := lru.New[string, models.Candidate](size)
	if err != nil {
		return nil, fmt.Errorf("candidate cache: %w", err)
	}
	parties, err := lru.New[string, models.Party](size)
	if err != nil {
		return nil, fmt.Errorf("party cache: %w", err)
	}
	districts, err := lru.New[string, models.District](size)
	if err != nil {
		return nil, fmt.Errorf("district cache: %w", err)
	}
	return &Cached{
		Directory:  inner,
		candidates: candidates,
		parties:    parties,
		districts:  districts,
	}, nil
}

func (c *Cached) ResolveCandidate(ctx context.Context, id string) (models.Candidate, error) {
	if v, ok := c.candidates.Get(id); ok {
		return v, nil
	}
	v, err := c.Directory.ResolveCandidate(ctx, id)
	if err != nil {
		return models.Candidate{}, err
	}
	c.candidates.Add(id, v)
	return v, nil
}

func (c *Cached) ResolveParty(ctx context.Context, id string) (models.Party, error) {
	if v, ok := c.parties.Get(id); ok {
		return v, nil
	}
	v, err := c.Directory.ResolveParty(ctx, id)
	if err != nil {
		return models.Party{}, err
	}
	c.parties.Add(id, v)
	return v, nil
}

func (c *Cached) ResolveDistrict(ctx context.Context, id string) (models.District, error) {
	if v, ok := c.districts.Get(id); ok {
		return v, nil
	}
	v, err := c.Directory.ResolveDistrict(ctx, id)
	if err != nil {
		return models.District{}, err
	}
	c.districts.Add(id, v)
	return v, nil
}

func (c *Cached) CreateParty(ctx context.Context, p models.Party) error {
	if err := c.Directory.CreateParty(ctx, p); err != nil {
		return err
	}
	c.parties.Add(p.ID, p)
	return nil
}

func (c *Cached) CreateDistrict(ctx context.Context, d models.District) error {
	if err := c.Directory.CreateDistrict(ctx, d); err != nil {
		return err
	}
	c.districts.Add(d.ID, d)
	return nil
}

func (c *Cached) CreateCandidate(ctx context.Context, cand models.Candidate) error {
	if err := c.Directory.CreateCandidate(ctx, cand); err != nil {
		return err
	}
	c.candidates.Add(cand.ID, cand)
	return nil
}
