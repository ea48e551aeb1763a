// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/live-results/models"
)

const resultColumns = `district_id, constituency, election_year, election_type, tallies,
	winner_id, winner_party_id, runner_up_id, margin, total_votes, rejected_votes,
	turnout, version, last_updated`

// SQL is a ResultStore backed by database/sql. The same queries run on
// SQLite and PostgreSQL.
type SQL struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQL(db *sql.DB, logger *slog.Logger) *SQL {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQL{db: db, logger: logger}
}

func (s *SQL) Get(ctx context.Context, key models.UnitKey) (models.Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+resultColumns+`
		FROM result
		WHERE district_id = $1 AND constituency = $2 AND election_year = $3
	`, key.DistrictID, key.Constituency, key.ElectionYear)

	r, err := scanResult(row)
	if err == sql.ErrNoRows {
		return models.Result{}, fmt.Errorf("%w: result %s", models.ErrNotFound, key)
	}
	if err != nil {
		return models.Result{}, s.unavailable("get", key, err)
	}
	return r, nil
}

func (s *SQL) Upsert(ctx context.Context, r models.Result, expectedVersion int64) (models.Result, bool, error) {
	tallies, err := json.Marshal(r.Candidates)
	if err != nil {
		return models.Result{}, false, fmt.Errorf("failed to encode tallies: %w", err)
	}

	var turnout sql.NullFloat64
	if r.Turnout != nil {
		turnout = sql.NullFloat64{Float64: *r.Turnout, Valid: true}
	}
	r.Version = expectedVersion + 1

	if expectedVersion == 0 {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO result (`+resultColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, r.Key.DistrictID, r.Key.Constituency, r.Key.ElectionYear, r.ElectionType, string(tallies),
			r.WinnerID, r.WinnerPartyID, r.RunnerUpID, r.Margin, r.TotalVotes, r.RejectedVotes,
			turnout, r.Version, r.LastUpdated.UnixNano())
		if err != nil {
			if isUniqueViolation(err) {
				return models.Result{}, false, fmt.Errorf("%w: result %s already exists", models.ErrConflict, r.Key)
			}
			return models.Result{}, false, s.unavailable("insert", r.Key, err)
		}
		return r, true, nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE result
		SET election_type = $1, tallies = $2, winner_id = $3, winner_party_id = $4,
		    runner_up_id = $5, margin = $6, total_votes = $7, rejected_votes = $8,
		    turnout = $9, version = $10, last_updated = $11
		WHERE district_id = $12 AND constituency = $13 AND election_year = $14 AND version = $15
	`, r.ElectionType, string(tallies), r.WinnerID, r.WinnerPartyID,
		r.RunnerUpID, r.Margin, r.TotalVotes, r.RejectedVotes,
		turnout, r.Version, r.LastUpdated.UnixNano(),
		r.Key.DistrictID, r.Key.Constituency, r.Key.ElectionYear, expectedVersion)
	if err != nil {
		return models.Result{}, false, s.unavailable("update", r.Key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.Result{}, false, s.unavailable("update", r.Key, err)
	}
	if n == 0 {
		return models.Result{}, false, fmt.Errorf("%w: result %s changed since version %d", models.ErrConflict, r.Key, expectedVersion)
	}
	return r, false, nil
}

func (s *SQL) List(ctx context.Context, filter ListFilter) ([]models.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM result`
	var args []any
	if filter.DistrictID != "" {
		query += ` WHERE district_id = $1`
		args = append(args, filter.DistrictID)
	}

	switch filter.Order {
	case OrderByLastUpdated:
		query += ` ORDER BY last_updated DESC, district_id, constituency, election_year`
	default:
		query += ` ORDER BY district_id, constituency, election_year`
	}
	if filter.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.unavailable("list", models.UnitKey{DistrictID: filter.DistrictID}, err)
	}
	defer rows.Close()

	results := []models.Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, s.unavailable("scan", models.UnitKey{DistrictID: filter.DistrictID}, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.unavailable("list", models.UnitKey{DistrictID: filter.DistrictID}, err)
	}

	return results, nil
}

func (s *SQL) ListByDistrict(ctx context.Context, districtID string) ([]models.Result, error) {
	return s.List(ctx, ListFilter{DistrictID: districtID})
}

func (s *SQL) Delete(ctx context.Context, key models.UnitKey) (models.Result, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Result{}, s.unavailable("delete", key, err)
	}
	defer tx.Rollback()

	r, err := scanResult(tx.QueryRowContext(ctx, `
		SELECT `+resultColumns+`
		FROM result
		WHERE district_id = $1 AND constituency = $2 AND election_year = $3
	`, key.DistrictID, key.Constituency, key.ElectionYear))
	if err == sql.ErrNoRows {
		return models.Result{}, fmt.Errorf("%w: result %s", models.ErrNotFound, key)
	}
	if err != nil {
		return models.Result{}, s.unavailable("delete", key, err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM result
		WHERE district_id = $1 AND constituency = $2 AND election_year = $3
	`, key.DistrictID, key.Constituency, key.ElectionYear)
	if err != nil {
		return models.Result{}, s.unavailable("delete", key, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Result{}, s.unavailable("delete", key, err)
	}
	return r, nil
}

func (s *SQL) unavailable(op string, key models.UnitKey, err error) error {
	s.logger.Error("result store failure", "op", op, "key", key.String(), "error", err)
	return fmt.Errorf("%w: %s: %w", models.ErrStoreUnavailable, op, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (models.Result, error) {
	var (
		r           models.Result
		tallies     string
		turnout     sql.NullFloat64
		lastUpdated int64
	)
	err := row.Scan(
		&r.Key.DistrictID, &r.Key.Constituency, &r.Key.ElectionYear, &r.ElectionType, &tallies,
		&r.WinnerID, &r.WinnerPartyID, &r.RunnerUpID, &r.Margin, &r.TotalVotes, &r.RejectedVotes,
		&turnout, &r.Version, &lastUpdated,
	)
	if err != nil {
		return models.Result{}, err
	}

	if err := json.Unmarshal([]byte(tallies), &r.Candidates); err != nil {
		return models.Result{}, fmt.Errorf("failed to parse tallies: %w", err)
	}
	if turnout.Valid {
		v := turnout.Float64
		r.Turnout = &v
	}
	r.LastUpdated = time.Unix(0, lastUpdated).UTC()
	return r, nil
}

// isUniqueViolation recognises primary key and unique constraint failures
// from every supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
