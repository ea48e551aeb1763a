// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package directory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/live-results/models"
)

// SQL reads and writes reference data in the party, district and
// candidate tables.
type SQL struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) ResolveCandidate(ctx context.Context, id string) (models.Candidate, error) {
	var c models.Candidate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, party_id, district_id, constituency, election_year
		FROM candidate
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.PartyID, &c.DistrictID, &c.Constituency, &c.ElectionYear)
	if err == sql.ErrNoRows {
		return models.Candidate{}, fmt.Errorf("%w: candidate %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("%w: candidate %s: %w", models.ErrStoreUnavailable, id, err)
	}
	return c, nil
}

func (s *SQL) ResolveParty(ctx context.Context, id string) (models.Party, error) {
	var p models.Party
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, color FROM party WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Color)
	if err == sql.ErrNoRows {
		return models.Party{}, fmt.Errorf("%w: party %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.Party{}, fmt.Errorf("%w: party %s: %w", models.ErrStoreUnavailable, id, err)
	}
	return p, nil
}

func (s *SQL) ResolveDistrict(ctx context.Context, id string) (models.District, error) {
	var d models.District
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, province FROM district WHERE id = $1
	`, id).Scan(&d.ID, &d.Name, &d.Province)
	if err == sql.ErrNoRows {
		return models.District{}, fmt.Errorf("%w: district %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.District{}, fmt.Errorf("%w: district %s: %w", models.ErrStoreUnavailable, id, err)
	}
	return d, nil
}

func (s *SQL) ListParties(ctx context.Context) ([]models.Party, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM party ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	parties := []models.Party{}
	for rows.Next() {
		var p models.Party
		if err := rows.Scan(&p.ID, &p.Name, &p.Color); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (s *SQL) ListDistricts(ctx context.Context) ([]models.District, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, province FROM district ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	districts := []models.District{}
	for rows.Next() {
		var d models.District
		if err := rows.Scan(&d.ID, &d.Name, &d.Province); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
		}
		districts = append(districts, d)
	}
	return districts, rows.Err()
}

func (s *SQL) ListCandidates(ctx context.Context, districtID string) ([]models.Candidate, error) {
	query := `SELECT id, name, party_id, district_id, constituency, election_year FROM candidate`
	var args []any
	if districtID != "" {
		query += ` WHERE district_id = $1`
		args = append(args, districtID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.PartyID, &c.DistrictID, &c.Constituency, &c.ElectionYear); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (s *SQL) CreateParty(ctx context.Context, p models.Party) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO party (id, name, color) VALUES ($1, $2, $3)
	`, p.ID, p.Name, p.Color)
	if err != nil {
		return fmt.Errorf("%w: party %s: %w", models.ErrStoreUnavailable, p.ID, err)
	}
	return nil
}

func (s *SQL) CreateDistrict(ctx context.Context, d models.District) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO district (id, name, province) VALUES ($1, $2, $3)
	`, d.ID, d.Name, d.Province)
	if err != nil {
		return fmt.Errorf("%w: district %s: %w", models.ErrStoreUnavailable, d.ID, err)
	}
	return nil
}

func (s *SQL) CreateCandidate(ctx context.Context, c models.Candidate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidate (id, name, party_id, district_id, constituency, election_year)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Name, c.PartyID, c.DistrictID, c.Constituency, c.ElectionYear)
	if err != nil {
		return fmt.Errorf("%w: candidate %s: %w", models.ErrStoreUnavailable, c.ID, err)
	}
	return nil
}
