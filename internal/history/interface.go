package history

import (
	"context"

	"github.com/ServerWatch/conn-monitor/internal/domain"
)

// Store records connections the monitor has observed.
// Implementations: BoltDB (primary), ClickHouse (optional mirror via the
// writer package).
type Store interface {
	// Append stores a newly observed connection
	Append(ctx context.Context, event *domain.ConnectionEvent) error

	// Recent returns up to limit entries, newest first
	Recent(ctx context.Context, limit int) ([]*domain.ConnectionEvent, error)

	// Last returns the most recent entry, or nil when the journal is empty
	Last(ctx context.Context) (*domain.ConnectionEvent, error)

	// Close closes the store
	Close() error
}
