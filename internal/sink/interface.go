package sink

import (
	"context"

	"github.com/ServerWatch/conn-monitor/internal/domain"
)

// Sink receives classified poll results from the service loop.
// The core never pushes; the service fans results out to sinks, so the
// monitor itself stays free of any notification mechanism.
type Sink interface {
	// Publish delivers one poll result. Called only when the outcome
	// changed since the previous poll, never for cache hits.
	Publish(ctx context.Context, result domain.PollResult) error
}
