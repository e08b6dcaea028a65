package store

import (
	"context"
	"time"

	"github.com/dealscout/backend/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the store uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 5
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS search_logs (
	id           TEXT PRIMARY KEY,
	user_id      TEXT,
	query        TEXT NOT NULL,
	vertical     TEXT NOT NULL,
	result_count INTEGER NOT NULL DEFAULT 0,
	best_price   NUMERIC(12,2),
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS interactions (
	id           TEXT PRIMARY KEY,
	user_id      TEXT,
	product_name TEXT NOT NULL,
	vendor       TEXT NOT NULL,
	price        NUMERIC(12,2) NOT NULL,
	action       TEXT NOT NULL,
	summary      TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_search_logs_created_at ON search_logs(created_at);
CREATE INDEX IF NOT EXISTS idx_search_logs_user_id ON search_logs(user_id);
CREATE INDEX IF NOT EXISTS idx_interactions_user_id ON interactions(user_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) LogSearch(ctx context.Context, entry domain.SearchLogEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO search_logs (id, user_id, query, vertical, result_count, best_price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, nullableUser(entry.UserID), entry.Query, string(entry.Vertical),
		entry.ResultCount, entry.BestPrice, entry.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: log search %q", entry.Query)
}

func (s *PostgresStore) TrackInteraction(ctx context.Context, entry domain.InteractionEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO interactions (id, user_id, product_name, vendor, price, action, summary, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, nullableUser(entry.UserID), entry.ProductName, entry.Vendor,
		entry.Price, entry.Action, entry.Summary(), entry.CreatedAt,
	)
	return eris.Wrap(err, "postgres: track interaction")
}
