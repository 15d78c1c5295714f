package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/partisan/pkg/partisan/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Scores cascade with their run.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	method TEXT NOT NULL,
	measure TEXT,
	options_json TEXT
);

CREATE TABLE IF NOT EXISTS scores (
	run_id TEXT NOT NULL,
	rank INTEGER NOT NULL,
	topic INTEGER NOT NULL,
	label TEXT,
	polarization REAL,
	random REAL,
	n_docs INTEGER NOT NULL,
	fallback INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY(run_id, rank),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run and its scores in one transaction.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, created_at, method, measure, options_json)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	method=excluded.method,
	measure=excluded.measure,
	options_json=excluded.options_json;
`, r.ID, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.Method, r.Measure, r.Options)
	if err != nil {
		return fmt.Errorf("upsert run %s: %w", r.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE run_id = ?`, r.ID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO scores (run_id, rank, topic, label, polarization, random, n_docs, fallback)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, sc := range r.Scores {
		if _, err := stmt.ExecContext(ctx, r.ID, i, sc.Topic, sc.Label,
			nullable(sc.Polarization), nullable(sc.Random), sc.Docs, sc.Fallback); err != nil {
			return fmt.Errorf("insert score for topic %d: %w", sc.Topic, err)
		}
	}

	return tx.Commit()
}

// GetRun loads a run with its scores in rank order.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	var (
		r       store.Run
		created string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, created_at, method, measure, options_json
FROM runs WHERE id = ?`, id).Scan(&r.ID, &created, &r.Method, &r.Measure, &r.Options)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}

	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return store.Run{}, false, fmt.Errorf("run %s created_at: %w", id, err)
	}
	if r.Scores, err = s.loadScores(ctx, id); err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// ListRuns returns the newest runs; ULIDs sort by creation time.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	runs := make([]store.Run, 0, len(ids))
	for _, id := range ids {
		r, ok, err := s.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			runs = append(runs, r)
		}
	}
	return runs, nil
}

func (s *sqliteStore) loadScores(ctx context.Context, runID string) ([]store.Score, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT topic, label, polarization, random, n_docs, fallback
FROM scores WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Score
	for rows.Next() {
		var (
			sc         store.Score
			label      sql.NullString
			pola, rand sql.NullFloat64
		)
		if err := rows.Scan(&sc.Topic, &label, &pola, &rand, &sc.Docs, &sc.Fallback); err != nil {
			return nil, err
		}
		sc.Label = label.String
		sc.Polarization = fromNullable(pola)
		sc.Random = fromNullable(rand)
		out = append(out, sc)
	}
	return out, rows.Err()
}

// SQLite has no NaN; it is stored as NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
