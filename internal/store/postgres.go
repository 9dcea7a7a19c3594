package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgxpool.Pool used by Postgres.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS dashboard_snapshot (
	id         SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ingest_history (
	id         UUID PRIMARY KEY,
	file_name  TEXT NOT NULL,
	source     TEXT NOT NULL,
	sensors    JSONB NOT NULL DEFAULT '[]',
	overall    JSONB NOT NULL DEFAULT '{}',
	error      TEXT NOT NULL DEFAULT '',
	error_code TEXT NOT NULL DEFAULT '',
	client_ip  TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS ingest_history_created_at_idx
	ON ingest_history (created_at DESC);
`

const (
	loadSnapshotSQL = `SELECT data FROM dashboard_snapshot WHERE id = 1`

	saveSnapshotSQL = `
INSERT INTO dashboard_snapshot (id, data, updated_at)
VALUES (1, $1, now())
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`

	insertIngestSQL = `
INSERT INTO ingest_history (id, file_name, source, sensors, overall, error, error_code, client_ip, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	trimIngestSQL = `
DELETE FROM ingest_history
WHERE id NOT IN (
	SELECT id FROM ingest_history ORDER BY created_at DESC LIMIT $1
)`

	recentIngestsSQL = `
SELECT id::text, file_name, source, sensors, overall, error, error_code, client_ip, user_agent, created_at
FROM ingest_history
ORDER BY created_at DESC
LIMIT $1`
)

// Postgres stores dashboard state in PostgreSQL. The snapshot is a single
// JSONB row; ingest history is one row per attempt.
type Postgres struct {
	db           DBTX
	pool         *pgxpool.Pool
	historyLimit int
}

// NewPostgres wraps an open pool. Call Migrate before first use.
func NewPostgres(pool *pgxpool.Pool, historyLimit int) *Postgres {
	p := newPostgres(pool, historyLimit)
	p.pool = pool
	return p
}

func newPostgres(db DBTX, historyLimit int) *Postgres {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Postgres{db: db, historyLimit: historyLimit}
}

// Migrate creates the tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context) (Snapshot, error) {
	var data []byte
	if err := p.db.QueryRow(ctx, loadSnapshotSQL).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrEmpty
		}
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (p *Postgres) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := p.db.Exec(ctx, saveSnapshotSQL, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (p *Postgres) AppendIngest(ctx context.Context, rec IngestRecord) error {
	sensors, err := json.Marshal(rec.Sensors)
	if err != nil {
		return fmt.Errorf("encode sensors: %w", err)
	}
	overall, err := json.Marshal(rec.Overall)
	if err != nil {
		return fmt.Errorf("encode overall: %w", err)
	}

	if _, err := p.db.Exec(ctx, insertIngestSQL,
		rec.ID, rec.FileName, rec.Source, sensors, overall, rec.Error, rec.ErrorCode, rec.ClientIP, rec.UserAgent, rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert ingest record: %w", err)
	}

	if _, err := p.db.Exec(ctx, trimIngestSQL, p.historyLimit); err != nil {
		return fmt.Errorf("trim ingest history: %w", err)
	}
	return nil
}

func (p *Postgres) RecentIngests(ctx context.Context, limit int) ([]IngestRecord, error) {
	if limit <= 0 || limit > p.historyLimit {
		limit = p.historyLimit
	}

	rows, err := p.db.Query(ctx, recentIngestsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query ingest history: %w", err)
	}
	defer rows.Close()

	var out []IngestRecord
	for rows.Next() {
		var (
			rec              IngestRecord
			sensors, overall []byte
			createdAt        time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.FileName, &rec.Source, &sensors, &overall,
			&rec.Error, &rec.ErrorCode, &rec.ClientIP, &rec.UserAgent, &createdAt); err != nil {
			return nil, fmt.Errorf("scan ingest record: %w", err)
		}
		if err := json.Unmarshal(sensors, &rec.Sensors); err != nil {
			return nil, fmt.Errorf("decode sensors: %w", err)
		}
		if err := json.Unmarshal(overall, &rec.Overall); err != nil {
			return nil, fmt.Errorf("decode overall: %w", err)
		}
		rec.CreatedAt = createdAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read ingest history: %w", err)
	}
	return out, nil
}

// Close closes the underlying pool when the store owns one.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Open connects with cfg, verifies the connection and runs migrations.
func Open(ctx context.Context, cfg *pgxpool.Config, historyLimit int) (*Postgres, error) {
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	p := NewPostgres(pool, historyLimit)
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Postgres)(nil)
)
