package store

import (
	"context"

	"github.com/dealscout/backend/internal/domain"
)

// Nop discards every record. Used when no database is configured.
type Nop struct{}

func (Nop) LogSearch(context.Context, domain.SearchLogEntry) error          { return nil }
func (Nop) TrackInteraction(context.Context, domain.InteractionEntry) error { return nil }
func (Nop) Migrate(context.Context) error                                   { return nil }
func (Nop) Close() error                                                    { return nil }
