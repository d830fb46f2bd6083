package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ServerWatch/conn-monitor/internal/config"
	"github.com/ServerWatch/conn-monitor/internal/domain"
	"github.com/ServerWatch/conn-monitor/internal/history"
	"github.com/ServerWatch/conn-monitor/internal/monitor"
	"github.com/ServerWatch/conn-monitor/internal/sink"
	"github.com/ServerWatch/conn-monitor/internal/writer"
)

// MonitorService is the scheduler around one ConnectionMonitor: it
// serializes polls (the monitor's cache is single-owner), coalesces rapid
// change signals with a quiet-period debounce, fans results out to sinks
// and journals newly observed connections.
type MonitorService struct {
	cfg   *config.Config
	mon   *monitor.Monitor
	sinks []sink.Sink

	histStore history.Store      // optional
	chWriter  writer.EventWriter // optional

	kickCh chan struct{}
	stopCh chan struct{}

	// Published snapshot for the status API. The monitor itself is only
	// touched by the service goroutine.
	mu      sync.RWMutex
	current domain.PollResult

	lastStatus  domain.PollStatus
	havePublish bool
	lastSession string
}

// NewMonitorService creates the service. histStore and chWriter may be nil.
func NewMonitorService(cfg *config.Config, mon *monitor.Monitor, sinks []sink.Sink, histStore history.Store, chWriter writer.EventWriter) (*MonitorService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if mon == nil {
		return nil, fmt.Errorf("monitor is required")
	}

	return &MonitorService{
		cfg:       cfg,
		mon:       mon,
		sinks:     sinks,
		histStore: histStore,
		chWriter:  chWriter,
		kickCh:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}, nil
}

// Notify signals that the log file may have changed (e.g. from a file
// watcher). Signals arriving while one is already pending are dropped;
// the debounce in the loop coalesces bursts into a single poll.
func (s *MonitorService) Notify() {
	select {
	case s.kickCh <- struct{}{}:
	default:
	}
}

// Current returns the most recently published poll result
func (s *MonitorService) Current() domain.PollResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Start runs the poll loop until the context is cancelled or Stop is called
func (s *MonitorService) Start(ctx context.Context) error {
	log.Info().
		Str("file", s.cfg.LogPath).
		Dur("interval", s.cfg.PollInterval).
		Int("read_budget", s.cfg.ReadBudget).
		Msg("Starting connection monitor")

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	s.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.pollOnce(ctx)
		case <-s.kickCh:
			if !s.quietPeriod(ctx) {
				return nil
			}
			s.pollOnce(ctx)
		}
	}
}

// Stop stops the service loop and flushes the mirror
func (s *MonitorService) Stop() error {
	close(s.stopCh)
	if s.chWriter != nil {
		if err := s.chWriter.Close(); err != nil {
			return fmt.Errorf("failed to flush history mirror: %w", err)
		}
	}
	return nil
}

// quietPeriod waits out a burst of change signals before polling, resetting
// the timer on every further signal. Returns false when the loop must exit.
func (s *MonitorService) quietPeriod(ctx context.Context) bool {
	if s.cfg.Debounce <= 0 {
		return true
	}

	timer := time.NewTimer(s.cfg.Debounce)
	defer timer.Stop()
	for {
		select {
		case <-s.kickCh:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(s.cfg.Debounce)
		case <-timer.C:
			return true
		case <-ctx.Done():
			return false
		case <-s.stopCh:
			return false
		}
	}
}

// pollOnce runs one poll cycle and handles its outcome
func (s *MonitorService) pollOnce(ctx context.Context) {
	ctx, span := startSpan(ctx, "monitor.poll",
		attribute.String("log.path", s.cfg.LogPath),
	)

	result := s.mon.Poll(s.cfg.LogPath)
	span.SetAttributes(
		attribute.String("poll.status", result.Status.String()),
		attribute.Bool("poll.from_cache", result.FromCache),
	)
	endSpanWithError(span, nil, result.Status.String())

	s.mu.Lock()
	s.current = result
	s.mu.Unlock()

	// Cache hits repeat a known outcome; nothing to publish or journal.
	if result.FromCache {
		return
	}

	newSession := result.Found() &&
		(!s.havePublish || result.Record.SessionID != s.lastSession)
	changed := !s.havePublish || result.Status != s.lastStatus || newSession

	s.lastStatus = result.Status
	s.havePublish = true
	if result.Found() {
		s.lastSession = result.Record.SessionID
	}

	if changed {
		s.publish(ctx, result)
	}
	if newSession {
		s.journal(ctx, result)
	}
}

func (s *MonitorService) publish(ctx context.Context, result domain.PollResult) {
	for _, snk := range s.sinks {
		if err := snk.Publish(ctx, result); err != nil {
			log.Warn().Err(err).Msg("Sink publish failed")
		}
	}
}

// journal appends a freshly observed connection to the local history store
// and the optional ClickHouse mirror. Journal failures never affect the
// poll outcome.
func (s *MonitorService) journal(ctx context.Context, result domain.PollResult) {
	event := domain.FromRecord(uuid.NewString(), result.Record, s.cfg.LogPath, result.PolledAt)

	if s.histStore != nil {
		if err := s.histStore.Append(ctx, event); err != nil {
			log.Warn().Err(err).Msg("Failed to append history entry")
		}
	}
	if s.chWriter != nil {
		if err := s.chWriter.WriteConnection(ctx, event); err != nil {
			log.Warn().Err(err).Msg("Failed to mirror connection event")
		}
	}
}
