package store

import (
	"context"

	"github.com/dealscout/backend/internal/domain"
	"github.com/rotisserie/eris"
)

// Supported store drivers
const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store persists search history and interaction tracking.
type Store interface {
	domain.SearchLogRepository

	Migrate(ctx context.Context) error
	Close() error
}

// Open connects to the configured backend and applies its schema.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		st  Store
		err error
	)

	switch driver {
	case "", DriverNone:
		return Nop{}, nil
	case DriverPostgres:
		st, err = NewPostgres(ctx, dsn)
	case DriverSQLite:
		st, err = NewSQLite(dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// nullableUser maps an anonymous user id to SQL NULL
func nullableUser(userID string) any {
	if userID == "" {
		return nil
	}
	return userID
}
