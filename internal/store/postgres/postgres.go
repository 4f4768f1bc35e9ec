package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/totrackit/totrackit/internal/process"
	"github.com/totrackit/totrackit/internal/store"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

type DB struct {
	db *sql.DB
}

func New(dsn string) (*DB, error) {
	d, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{db: d}, nil
}

// Configure applies pool settings from the store config.
func (p *DB) Configure(cfg store.Config) {
	if cfg.MaxOpenConns > 0 {
		p.db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		p.db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxAge > 0 {
		p.db.SetConnMaxLifetime(cfg.ConnMaxAge)
	}
}

func (p *DB) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS processes(
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			process_id TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ NULL,
			deadline TIMESTAMPTZ NULL,
			tags TEXT NULL,
			context TEXT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_processes_unique_active
			ON processes(name, process_id) WHERE status = 'ACTIVE';`,
		`CREATE INDEX IF NOT EXISTS idx_processes_name_pid ON processes(name, process_id);`,
		`CREATE INDEX IF NOT EXISTS idx_processes_status ON processes(status);`,
	}
	for _, q := range stmts {
		if _, err := p.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (p *DB) Close() error { return p.db.Close() }

func (p *DB) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *DB) Save(ctx context.Context, pr *process.Process) error {
	tags, err := store.EncodeTags(pr.Tags)
	if err != nil {
		return err
	}
	pctx, err := store.EncodeContext(pr.Context)
	if err != nil {
		return err
	}
	err = p.db.QueryRowContext(ctx, `
		INSERT INTO processes(name, process_id, status, started_at, completed_at, deadline, tags, context)
		VALUES($1, $2, $3, $4, NULL, $5, $6, $7)
		RETURNING id;`,
		pr.Name, pr.ProcessID, string(pr.Status), pr.StartedAt.UTC(),
		nullTime(pr.Deadline), nullStr(tags), nullStr(pctx)).Scan(&pr.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateActive
		}
		return err
	}
	return nil
}

func (p *DB) FindByNameAndID(ctx context.Context, name, id string) (*process.Process, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, process_id, status, started_at, completed_at, deadline, tags, context
		FROM processes
		WHERE name=$1 AND process_id=$2
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

func (p *DB) Update(ctx context.Context, pr *process.Process) error {
	// The status predicate makes the transition one-shot under races:
	// a row that already turned terminal is left untouched.
	res, err := p.db.ExecContext(ctx, `
		UPDATE processes SET status=$1, completed_at=$2 WHERE id=$3 AND status='ACTIVE';`,
		string(pr.Status), nullTime(pr.CompletedAt), pr.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		err := p.db.QueryRowContext(ctx, `SELECT 1 FROM processes WHERE id=$1;`, pr.ID).Scan(&one)
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

func (p *DB) FindByFilters(ctx context.Context, q store.Query) ([]*process.Process, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, name, process_id, status, started_at, completed_at, deadline, tags, context
		FROM processes WHERE 1=1`)
	args := make([]any, 0, 3)
	if q.Name != "" {
		args = append(args, q.Name)
		fmt.Fprintf(&sb, " AND name=$%d", len(args))
	}
	if q.ID != "" {
		args = append(args, q.ID)
		fmt.Fprintf(&sb, " AND process_id=$%d", len(args))
	}
	if q.Status != "" {
		args = append(args, string(q.Status))
		fmt.Fprintf(&sb, " AND status=$%d", len(args))
	}
	sb.WriteString(" ORDER BY started_at DESC, id DESC;")
	rows, err := p.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanProcesses(rows)
}

func (p *DB) CountByStatus(ctx context.Context, status process.Status) (int64, error) {
	var n int64
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM processes WHERE status=$1;`, string(status)).Scan(&n)
	return n, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
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
			pr          process.Process
			status      string
			completedAt sql.NullTime
			deadline    sql.NullTime
			tags        sql.NullString
			pctx        sql.NullString
		)
		if err := rows.Scan(&pr.ID, &pr.Name, &pr.ProcessID, &status, &pr.StartedAt, &completedAt, &deadline, &tags, &pctx); err != nil {
			return nil, err
		}
		pr.Status = process.Status(status)
		pr.StartedAt = pr.StartedAt.UTC()
		if completedAt.Valid {
			t := completedAt.Time.UTC()
			pr.CompletedAt = &t
		}
		if deadline.Valid {
			t := deadline.Time.UTC()
			pr.Deadline = &t
		}
		var err error
		if pr.Tags, err = store.DecodeTags(tags.String); err != nil {
			return nil, err
		}
		if pr.Context, err = store.DecodeContext(pctx.String); err != nil {
			return nil, err
		}
		out = append(out, &pr)
	}
	return out, rows.Err()
}
