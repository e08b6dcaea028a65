package store

import (
	"context"
	"database/sql"

	"github.com/dealscout/backend/internal/domain"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS search_logs (
	id           TEXT PRIMARY KEY,
	user_id      TEXT,
	query        TEXT NOT NULL,
	vertical     TEXT NOT NULL,
	result_count INTEGER NOT NULL DEFAULT 0,
	best_price   REAL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS interactions (
	id           TEXT PRIMARY KEY,
	user_id      TEXT,
	product_name TEXT NOT NULL,
	vendor       TEXT NOT NULL,
	price        REAL NOT NULL,
	action       TEXT NOT NULL,
	summary      TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_search_logs_created_at ON search_logs(created_at);
CREATE INDEX IF NOT EXISTS idx_interactions_user_id ON interactions(user_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LogSearch(ctx context.Context, entry domain.SearchLogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_logs (id, user_id, query, vertical, result_count, best_price, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, nullableUser(entry.UserID), entry.Query, string(entry.Vertical),
		entry.ResultCount, entry.BestPrice, entry.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: log search %q", entry.Query)
}

func (s *SQLiteStore) TrackInteraction(ctx context.Context, entry domain.InteractionEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, user_id, product_name, vendor, price, action, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, nullableUser(entry.UserID), entry.ProductName, entry.Vendor,
		entry.Price, entry.Action, entry.Summary(), entry.CreatedAt.UTC(),
	)
	return eris.Wrap(err, "sqlite: track interaction")
}
