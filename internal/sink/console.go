package sink

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ServerWatch/conn-monitor/internal/domain"
	"github.com/ServerWatch/conn-monitor/internal/mapping"
)

// ConsoleSink renders poll results as log lines, the reference display
// for headless use. Region codes are mapped to display names.
type ConsoleSink struct {
	regions *mapping.RegionMap
}

// NewConsoleSink creates a console sink. A nil region map falls back to
// raw region codes.
func NewConsoleSink(regions *mapping.RegionMap) *ConsoleSink {
	if regions == nil {
		regions = mapping.Empty()
	}
	return &ConsoleSink{regions: regions}
}

// Publish delivers one poll result
func (s *ConsoleSink) Publish(ctx context.Context, result domain.PollResult) error {
	if result.Found() {
		rec := result.Record
		log.Info().
			Str("region", s.regions.DisplayName(rec.Region)).
			Str("server_id", rec.ServerID).
			Str("session_id", rec.SessionID).
			Str("address", rec.ServerAddress).
			Msg(result.Status.Message())
		return nil
	}

	event := log.Info()
	if result.Status == domain.StatusUnavailable {
		event = log.Warn().Str("reason", result.Reason)
	}
	event.Str("status", result.Status.String()).Msg(result.Status.Message())
	return nil
}
