package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	_ "modernc.org/sqlite"
)

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DB bundles the sql handle with the pgx pool when Postgres is in use.
// Pool is nil for SQLite.
type DB struct {
	SQL  *sql.DB
	Pool *pgxpool.Pool
}

// Rebind rewrites ? placeholders to $N for Postgres. Queries in this package
// are written with ? and rebound per driver.
func (d *DB) Rebind(query string) string {
	if d.Pool == nil {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to the database named by the DSN. Postgres DSNs go through a
// pgx pool; anything else is treated as a SQLite path for local runs.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("db.open", "dsn", cfg.DSN)
	if isPostgresDSN(cfg.DSN) {
		pc, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			logger.Error("db.open.failed", "error", err)
			return nil, err
		}
		if cfg.MaxConns > 0 {
			pc.MaxConns = cfg.MaxConns
		}
		if cfg.MinConns > 0 {
			pc.MinConns = cfg.MinConns
		}
		if cfg.MaxConnLifetime > 0 {
			pc.MaxConnLifetime = cfg.MaxConnLifetime
		}
		if cfg.MaxConnIdleTime > 0 {
			pc.MaxConnIdleTime = cfg.MaxConnIdleTime
		}
		pc.ConnConfig.RuntimeParams["application_name"] = "claim-analyzer"
		if cfg.StatementTimeout > 0 {
			pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
		}

		dialCtx := ctx
		if cfg.DialTimeout > 0 {
			var cancel context.CancelFunc
			dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
			defer cancel()
		}
		pool, err := pgxpool.NewWithConfig(dialCtx, pc)
		if err != nil {
			logger.Error("db.open.failed", "error", err)
			return nil, err
		}
		db := stdlib.OpenDBFromPool(pool)
		logger.Info("db.open.ok", "driver", "pgx")
		return &DB{SQL: db, Pool: pool}, nil
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		logger.Error("db.open.failed", "error", err)
		return nil, err
	}
	// modernc sqlite serializes writes itself; one connection avoids
	// SQLITE_BUSY under concurrent pipeline stages.
	db.SetMaxOpenConns(1)
	logger.Info("db.open.ok", "driver", "sqlite")
	return &DB{SQL: db}, nil
}

// Close closes the database connections gracefully
func (d *DB) Close(logger *slog.Logger) {
	logger.Info("db.close")
	if d.SQL != nil {
		if err := d.SQL.Close(); err != nil {
			logger.Error("db.close.failed", "error", err)
		}
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
}

// HealthCheck pings using database/sql to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return d.SQL.PingContext(ctx)
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS analysis_jobs (
		id             TEXT PRIMARY KEY,
		claim_id       TEXT,
		source_path    TEXT NOT NULL,
		filename       TEXT NOT NULL,
		file_ext       TEXT NOT NULL,
		status         TEXT NOT NULL,
		started_at     TIMESTAMP NOT NULL,
		finished_at    TIMESTAMP,
		error_message  TEXT,
		ocr_text       TEXT,
		ocr_method     TEXT,
		ocr_pages      INTEGER,
		ocr_confidence REAL
	)`,
	`CREATE TABLE IF NOT EXISTS claims (
		id                 TEXT PRIMARY KEY,
		job_id             TEXT NOT NULL,
		filename           TEXT NOT NULL,
		patient_name       TEXT NOT NULL,
		policy_number      TEXT NOT NULL,
		claim_amount       TEXT NOT NULL,
		date_of_service    TEXT NOT NULL,
		insurance_provider TEXT NOT NULL,
		patient_age        TEXT NOT NULL,
		verdict            TEXT NOT NULL,
		checks_json        TEXT NOT NULL,
		reputation_json    TEXT,
		recommendations_json TEXT,
		created_at         TIMESTAMP NOT NULL,
		updated_at         TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_claims_job_id ON claims (job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_claims_verdict ON claims (verdict)`,
}

// Migrate applies the schema. Statements are portable across Postgres and
// SQLite so local and deployed runs stay on the same DDL.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error("db.migrate.failed", "error", err)
			return err
		}
	}
	logger.Info("db.migrate.ok", "statements", len(schemaStatements))
	return nil
}
