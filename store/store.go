// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sort"

	"github.com/danielhkuo/live-results/models"
)

// Order selects the sort applied by List.
type Order int

const (
	// OrderByUnit sorts by district, constituency, then election year.
	OrderByUnit Order = iota
	// OrderByLastUpdated sorts newest first (the live feed).
	OrderByLastUpdated
)

type ListFilter struct {
	DistrictID string // empty means all districts
	Order      Order
	Limit      int // 0 means no limit
}

// ResultStore is the authoritative keyed store of one Result per unit.
type ResultStore interface {
	// Get returns models.ErrNotFound when no result exists for key.
	Get(ctx context.Context, key models.UnitKey) (models.Result, error)

	// Upsert writes r under r.Key. With expectedVersion 0 the key must be
	// absent; otherwise the stored version must equal expectedVersion.
	// A lost race returns models.ErrConflict. The returned Result carries
	// the new version.
	Upsert(ctx context.Context, r models.Result, expectedVersion int64) (models.Result, bool, error)

	List(ctx context.Context, filter ListFilter) ([]models.Result, error)
	ListByDistrict(ctx context.Context, districtID string) ([]models.Result, error)

	// Delete removes the result for key and returns what was removed.
	Delete(ctx context.Context, key models.UnitKey) (models.Result, error)
}

func sortResults(items []models.Result, order Order) {
	switch order {
	case OrderByLastUpdated:
		sort.SliceStable(items, func(i, j int) bool {
			if !items[i].LastUpdated.Equal(items[j].LastUpdated) {
				return items[i].LastUpdated.After(items[j].LastUpdated)
			}
			return unitLess(items[i].Key, items[j].Key)
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return unitLess(items[i].Key, items[j].Key)
		})
	}
}

func unitLess(a, b models.UnitKey) bool {
	if a.DistrictID != b.DistrictID {
		return a.DistrictID < b.DistrictID
	}
	if a.Constituency != b.Constituency {
		return a.Constituency < b.Constituency
	}
	return a.ElectionYear < b.ElectionYear
}
