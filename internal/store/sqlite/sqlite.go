package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/totrackit/totrackit/internal/process"
	"github.com/totrackit/totrackit/internal/store"
)

// DB implements store.Store for SQLite (modernc.org/sqlite driver, CGO-free).
// Path is a filesystem path to the database file; use ":memory:" for
// in-memory. The one-ACTIVE-per-(name,process_id) rule is enforced by a
// partial unique index, so Save is a single atomic insert.

type DB struct {
	db *sql.DB
}

// New opens a SQLite database at path.
func New(path string) (*DB, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("empty sqlite path")
	}
	d, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	// single writer avoids SQLITE_BUSY under concurrent creates
	d.SetMaxOpenConns(1)
	_, _ = d.Exec("PRAGMA busy_timeout=3000;")
	return &DB{db: d}, nil
}

func (s *DB) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS processes(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			process_id TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP NULL,
			deadline TIMESTAMP NULL,
			tags TEXT NULL,
			context TEXT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_processes_unique_active
			ON processes(name, process_id) WHERE status = 'ACTIVE';`,
		`CREATE INDEX IF NOT EXISTS idx_processes_name_pid ON processes(name, process_id);`,
		`CREATE INDEX IF NOT EXISTS idx_processes_status ON processes(status);`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *DB) Close() error { return s.db.Close() }

func (s *DB) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *DB) Save(ctx context.Context, p *process.Process) error {
	tags, err := store.EncodeTags(p.Tags)
	if err != nil {
		return err
	}
	pctx, err := store.EncodeContext(p.Context)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO processes(name, process_id, status, started_at, completed_at, deadline, tags, context)
		VALUES(?, ?, ?, ?, NULL, ?, ?, ?);`,
		p.Name, p.ProcessID, string(p.Status), p.StartedAt.UTC(),
		nullTime(p.Deadline), nullStr(tags), nullStr(pctx))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateActive
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (s *DB) FindByNameAndID(ctx context.Context, name, id string) (*process.Process, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, process_id, status, started_at, completed_at, deadline, tags, context
		FROM processes
		WHERE name=? AND process_id=?
		ORDER BY started_at DESC, id DESC
		LIMIT 1;`, name, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	procs, err := scanProcesses(rows)
	if err != nil {
		return nil, err
	}
	if len(procs) == 0 {
		return nil, store.ErrNotFound
	}
	return procs[0], nil
}

func (s *DB) Update(ctx context.Context, p *process.Process) error {
	// The status predicate makes the transition one-shot under races:
	// a row that already turned terminal is left untouched.
	res, err := s.db.ExecContext(ctx, `
		UPDATE processes SET status=?, completed_at=? WHERE id=? AND status='ACTIVE';`,
		string(p.Status), nullTime(p.CompletedAt), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM processes WHERE id=?;`, p.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		return store.ErrNotActive
	}
	return nil
}

func (s *DB) FindByFilters(ctx context.Context, q store.Query) ([]*process.Process, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, name, process_id, status, started_at, completed_at, deadline, tags, context
		FROM processes WHERE 1=1`)
	args := make([]any, 0, 3)
	if q.Name != "" {
		sb.WriteString(" AND name=?")
		args = append(args, q.Name)
	}
	if q.ID != "" {
		sb.WriteString(" AND process_id=?")
		args = append(args, q.ID)
	}
	if q.Status != "" {
		sb.WriteString(" AND status=?")
		args = append(args, string(q.Status))
	}
	sb.WriteString(" ORDER BY started_at DESC, id DESC;")
	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanProcesses(rows)
}

func (s *DB) CountByStatus(ctx context.Context, status process.Status) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM processes WHERE status=?;`, string(status)).Scan(&n)
	return n, err
}

// isUniqueViolation checks the typed driver error for a unique constraint
// code; error text is never inspected.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanProcesses(rows *sql.Rows) ([]*process.Process, error) {
	out := make([]*process.Process, 0)
	for rows.Next() {
		var (
			p           process.Process
			status      string
			completedAt sql.NullTime
			deadline    sql.NullTime
			tags        sql.NullString
			pctx        sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.ProcessID, &status, &p.StartedAt, &completedAt, &deadline, &tags, &pctx); err != nil {
			return nil, err
		}
		p.Status = process.Status(status)
		p.StartedAt = p.StartedAt.UTC()
		if completedAt.Valid {
			t := completedAt.Time.UTC()
			p.CompletedAt = &t
		}
		if deadline.Valid {
			t := deadline.Time.UTC()
			p.Deadline = &t
		}
		var err error
		if p.Tags, err = store.DecodeTags(tags.String); err != nil {
			return nil, err
		}
		if p.Context, err = store.DecodeContext(pctx.String); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
