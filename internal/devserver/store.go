package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/bekirdag/jobdesk/internal/job"
)

// ErrNotFound is returned when no job has the requested id.
var ErrNotFound = errors.New("job not found")

// Store keeps jobs in SQLite. Rows keep their insertion order, which is the
// order List returns them in.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (or creates) the database at path. ":memory:" gives a
// private in-memory database.
func OpenStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" a single database and serialises writers.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS jobs (
			seq           INTEGER PRIMARY KEY AUTOINCREMENT,
			id            TEXT NOT NULL UNIQUE,
			sku           TEXT NOT NULL,
			status        TEXT NOT NULL DEFAULT 'pending',
			assigned_user TEXT NOT NULL DEFAULT '',
			create_at     TEXT NOT NULL,
			details       TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("job store migration failed: %w", err)
		}
	}
	return nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const selectColumns = `SELECT id, sku, status, assigned_user, create_at, details FROM jobs`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (job.Job, error) {
	var j job.Job
	err := row.Scan(&j.ID, &j.SKU, &j.Status, &j.AssignedUser, &j.CreateAt, &j.Details)
	return j, err
}

func (s *Store) List(ctx context.Context) ([]job.Job, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []job.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

func (s *Store) Get(ctx context.Context, id string) (job.Job, error) {
	j, err := scanJob(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return job.Job{}, ErrNotFound
	}
	if err != nil {
		return job.Job{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return j, nil
}

// Create inserts j. A missing id, status or createAt is filled in.
func (s *Store) Create(ctx context.Context, j job.Job) (job.Job, error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Status == "" {
		j.Status = job.StatusPending
	}
	if j.CreateAt == "" {
		j.CreateAt = job.FormatTimestamp(time.Now())
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, sku, status, assigned_user, create_at, details)
		VALUES (?, ?, ?, ?, ?, ?)
	`, j.ID, j.SKU, j.Status, j.AssignedUser, j.CreateAt, j.Details)
	if err != nil {
		return job.Job{}, fmt.Errorf("insert job %s: %w", j.ID, err)
	}
	return j, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status job.Status) (job.Job, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE jobs SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return job.Job{}, fmt.Errorf("update status for job %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return job.Job{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

// CountByStatus groups the stored jobs by status.
func (s *Store) CountByStatus(ctx context.Context) (map[job.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count jobs by status: %w", err)
	}
	defer rows.Close()

	counts := map[job.Status]int{}
	for rows.Next() {
		var (
			status job.Status
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
