package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Result is a finished game session.
type Result struct {
	ID         string
	StartedAt  time.Time
	Duration   time.Duration
	Score      int
	Hits       int
	Misses     int
	ShapeCount int
	Pointer    string
	CreatedAt  time.Time
}

// ResultRepository provides access to recorded sessions.
type ResultRepository struct {
	db *sql.DB
}

// Results returns the result repository for this store.
func (s *Store) Results() *ResultRepository {
	return &ResultRepository{db: s.db}
}

const resultColumns = `id, started_at, duration_ms, score, hits, misses, shape_count, pointer, created_at`

// Record inserts a finished session. A missing ID is filled with a new UUID
// and a missing pointer mode defaults to "hand".
func (r *ResultRepository) Record(res *Result) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if res.Pointer == "" {
		res.Pointer = "hand"
	}
	res.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO results (`+resultColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.StartedAt, res.Duration.Milliseconds(), res.Score, res.Hits, res.Misses,
		res.ShapeCount, res.Pointer, res.CreatedAt,
	)
	return err
}

// GetByID retrieves a result by its ID.
func (r *ResultRepository) GetByID(id string) (*Result, error) {
	res, err := scanResult(r.db.QueryRow(
		`SELECT `+resultColumns+` FROM results WHERE id = ?`,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// Best returns the highest scoring result; earlier sessions win ties.
func (r *ResultRepository) Best() (*Result, error) {
	res, err := scanResult(r.db.QueryRow(
		`SELECT ` + resultColumns + ` FROM results ORDER BY score DESC, started_at ASC LIMIT 1`,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// List returns up to limit results ordered by score, best first.
// A non-positive limit returns every result.
func (r *ResultRepository) List(limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := r.db.Query(
		`SELECT `+resultColumns+` FROM results ORDER BY score DESC, started_at ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Count returns the number of recorded sessions.
func (r *ResultRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&n)
	return n, err
}

// Delete removes a result by its ID.
func (r *ResultRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*Result, error) {
	res := &Result{}
	var durationMs int64

	err := row.Scan(&res.ID, &res.StartedAt, &durationMs, &res.Score, &res.Hits, &res.Misses,
		&res.ShapeCount, &res.Pointer, &res.CreatedAt)
	if err != nil {
		return nil, err
	}

	res.Duration = time.Duration(durationMs) * time.Millisecond
	return res, nil
}
