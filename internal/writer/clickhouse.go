package writer

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/rs/zerolog/log"

	"github.com/ServerWatch/conn-monitor/internal/domain"
)

const insertConnections = "INSERT INTO connections (id, observed_at, region, server_id, session_id, address, source, content_hash)"

// ClickHouseWriter writes connection events to ClickHouse in batches.
// Duplicate events (same server/session observed twice, e.g. after a
// monitor restart re-reading an unchanged log) are dropped by content hash
// before they reach the batch.
type ClickHouseWriter struct {
	conn clickhouse.Conn
	cfg  BatchConfig

	batch     []*domain.ConnectionEvent
	seen      map[string]struct{} // content hashes already batched or sent
	lastFlush time.Time
}

// NewClickHouseWriter creates a new batch writer
func NewClickHouseWriter(conn clickhouse.Conn, cfg BatchConfig) *ClickHouseWriter {
	if cfg.MaxSize <= 0 {
		cfg = DefaultBatchConfig()
	}
	return &ClickHouseWriter{
		conn:      conn,
		cfg:       cfg,
		batch:     make([]*domain.ConnectionEvent, 0, cfg.MaxSize),
		seen:      make(map[string]struct{}),
		lastFlush: time.Now(),
	}
}

// WriteConnection adds a connection event to the batch
func (w *ClickHouseWriter) WriteConnection(ctx context.Context, event *domain.ConnectionEvent) error {
	hash := connectionHash(event)
	if _, dup := w.seen[hash]; dup {
		log.Debug().
			Str("server_id", event.ServerID).
			Str("session_id", event.SessionID).
			Msg("Duplicate connection event, skipping")
		return nil
	}
	w.seen[hash] = struct{}{}

	// Copy so later caller mutations cannot reach the pending batch
	eventCopy := *event
	w.batch = append(w.batch, &eventCopy)

	if len(w.batch) >= w.cfg.MaxSize || time.Since(w.lastFlush).Milliseconds() >= w.cfg.FlushTimeout {
		return w.Flush(ctx)
	}
	return nil
}

// Flush forces writing all pending events
func (w *ClickHouseWriter) Flush(ctx context.Context) error {
	if len(w.batch) == 0 {
		return nil
	}

	snapshot := make([]*domain.ConnectionEvent, len(w.batch))
	copy(snapshot, w.batch)
	w.batch = w.batch[:0]
	w.lastFlush = time.Now()

	batch, err := w.conn.PrepareBatch(ctx, insertConnections)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, event := range snapshot {
		err := batch.Append(
			event.ID,
			event.ObservedAt,
			event.Region,
			event.ServerID,
			event.SessionID,
			event.Address,
			event.Source,
			connectionHash(event),
		)
		if err != nil {
			return fmt.Errorf("failed to append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Debug().
		Int("batch_size", len(snapshot)).
		Msg("Connection events written to ClickHouse")

	return nil
}

// Close flushes and closes the writer
func (w *ClickHouseWriter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return w.Flush(ctx)
}
