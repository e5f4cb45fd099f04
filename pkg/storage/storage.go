// Package storage persists learned scores in a local SQLite database so
// ratings survive between runs.
package storage

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/asmundg/shopr/pkg/ranker"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS scores (
  key        TEXT PRIMARY KEY,
  rating     REAL NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_scores_rating ON scores(rating);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// LoadScores reads the full score store into memory.
func (d *DB) LoadScores(ctx context.Context) (ranker.Scores, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT key, rating FROM scores")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := ranker.NewScores()
	for rows.Next() {
		var key string
		var rating float64
		if err := rows.Scan(&key, &rating); err != nil {
			return nil, err
		}
		scores[key] = rating
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// SaveScores writes the store back, replacing any prior rating per key.
// Keys absent from scores are left untouched; the store only grows.
func (d *DB) SaveScores(ctx context.Context, scores ranker.Scores) error {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scores(key, rating, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET rating = excluded.rating, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, rating := range scores {
		if _, err = stmt.ExecContext(ctx, key, rating); err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

type StoreStats struct {
	Keys      int
	MinRating float64
	MaxRating float64
	AvgRating float64
	UpdatedAt time.Time
}

// Stats summarizes the score store for the `db stats` command.
func (d *DB) Stats(ctx context.Context) (StoreStats, error) {
	var s StoreStats
	var minR, maxR, avgR sql.NullFloat64
	var updated sql.NullString

	err := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(*), MIN(rating), MAX(rating), AVG(rating), MAX(updated_at) FROM scores",
	).Scan(&s.Keys, &minR, &maxR, &avgR, &updated)
	if err != nil {
		return StoreStats{}, err
	}

	s.MinRating = minR.Float64
	s.MaxRating = maxR.Float64
	s.AvgRating = avgR.Float64
	if updated.Valid {
		// Parse SQLite CURRENT_TIMESTAMP format, then RFC3339.
		if t, perr := time.Parse("2006-01-02 15:04:05", updated.String); perr == nil {
			s.UpdatedAt = t
		} else if t2, perr2 := time.Parse(time.RFC3339, updated.String); perr2 == nil {
			s.UpdatedAt = t2
		}
	}
	return s, nil
}
