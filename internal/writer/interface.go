package writer

import (
	"context"

	"github.com/ServerWatch/conn-monitor/internal/domain"
)

// EventWriter mirrors connection events to ClickHouse in batches
type EventWriter interface {
	// WriteConnection adds a connection event to the batch
	WriteConnection(ctx context.Context, event *domain.ConnectionEvent) error

	// Flush forces writing all pending events
	Flush(ctx context.Context) error

	// Close flushes pending events and closes the writer
	Close() error
}

// BatchConfig configures batch behavior
type BatchConfig struct {
	MaxSize      int   // Maximum events per batch
	FlushTimeout int64 // Maximum milliseconds to wait before flush
}

// DefaultBatchConfig returns the default batching settings.
// Connection events are rare (one per server travel), so small batches
// with a short flush window keep the mirror close to real time.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxSize:      50,
		FlushTimeout: 2000,
	}
}
