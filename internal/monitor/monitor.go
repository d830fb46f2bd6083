package monitor

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ServerWatch/conn-monitor/internal/domain"
	"github.com/ServerWatch/conn-monitor/internal/gamelog"
	"github.com/ServerWatch/conn-monitor/internal/logsource"
)

// DefaultReadBudget is the default tail window in lines
const DefaultReadBudget = 5000

// LineSource yields every line currently in a log file, oldest first.
// Implementations: logsource.Reader (real files), test fakes.
type LineSource interface {
	ReadAll(path string) ([]string, error)
}

// Config holds the fixed inputs of a monitor
type Config struct {
	ReadBudget int                   // tail window in lines, 0 means DefaultReadBudget
	Marker     string                // connection-event substring, "" means gamelog.DefaultMarker
	Exclusions []gamelog.ExcludeFunc // nil means gamelog.DefaultExclusions()
}

// Monitor owns the freshness cache for one log file and turns polls into
// PollResult values. Every failure path resolves to a result; nothing
// escapes Poll as an error.
//
// The cache has single-owner semantics: Poll must be serialized by the
// caller (the service loop does this), it is not internally synchronized.
type Monitor struct {
	source    LineSource
	extractor *gamelog.Extractor

	budget     int
	marker     string
	exclusions []gamelog.ExcludeFunc

	// freshness cache
	lastModTime time.Time
	lastRecord  *domain.ConnectionRecord
	lastStatus  domain.PollStatus
	haveStatus  bool
}

// New creates a monitor over the given line source and extractor
func New(source LineSource, extractor *gamelog.Extractor, cfg Config) *Monitor {
	if cfg.ReadBudget <= 0 {
		cfg.ReadBudget = DefaultReadBudget
	}
	if cfg.Marker == "" {
		cfg.Marker = gamelog.DefaultMarker
	}
	if cfg.Exclusions == nil {
		cfg.Exclusions = gamelog.DefaultExclusions()
	}
	if extractor == nil {
		extractor = gamelog.NewExtractor()
	}

	return &Monitor{
		source:     source,
		extractor:  extractor,
		budget:     cfg.ReadBudget,
		marker:     cfg.Marker,
		exclusions: cfg.Exclusions,
	}
}

// LastRecord returns a copy of the cached record, or nil if none yet
func (m *Monitor) LastRecord() *domain.ConnectionRecord {
	if m.lastRecord == nil {
		return nil
	}
	rec := *m.lastRecord
	return &rec
}

// Poll runs one poll cycle against path.
//
// State machine:
//  1. Path missing: report file_missing, cache untouched.
//  2. Modification time unchanged since the last successful read: serve the
//     cached outcome without touching the file.
//  3. Otherwise read, locate the newest non-excluded marker line in the
//     tail window, extract fields.
//
// Read contention (Unavailable) never advances the cached modification
// time, so the next poll retries the full read instead of wedging on stale
// data. A negative locate/extract outcome keeps the previously cached
// record: last-known values stay visible until a newer event replaces
// them.
func (m *Monitor) Poll(path string) domain.PollResult {
	now := time.Now()

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.PollResult{Status: domain.StatusFileMissing, PolledAt: now}
		}
		// Existing path we cannot stat: same contention class as a denied open
		return domain.PollResult{Status: domain.StatusUnavailable, Reason: err.Error(), PolledAt: now}
	}

	modTime := stat.ModTime()
	if m.haveStatus && !modTime.After(m.lastModTime) {
		return m.cachedResult(now)
	}

	lines, err := m.source.ReadAll(path)
	if err != nil {
		if logsource.IsMissing(err) {
			// File vanished between stat and open
			return domain.PollResult{Status: domain.StatusFileMissing, PolledAt: now}
		}
		log.Debug().Err(err).Str("file", path).Msg("Log read unavailable, will retry next poll")
		return domain.PollResult{Status: domain.StatusUnavailable, Reason: err.Error(), PolledAt: now}
	}

	// The read succeeded, so this content version is now fully observed
	// whatever the locate/extract outcome.
	m.lastModTime = modTime
	m.haveStatus = true

	line, ok := gamelog.FindLatest(lines, m.budget, m.marker, m.exclusions)
	if !ok {
		m.lastStatus = domain.StatusNotFound
		return domain.PollResult{Status: domain.StatusNotFound, PolledAt: now}
	}

	rec, ok := m.extractor.Parse(line)
	if !ok {
		log.Warn().Str("line", truncate(line, 200)).Msg("Marker line did not match any pattern")
		m.lastStatus = domain.StatusNoFieldMatch
		return domain.PollResult{Status: domain.StatusNoFieldMatch, PolledAt: now}
	}

	m.lastRecord = rec
	m.lastStatus = domain.StatusFound

	recCopy := *rec
	return domain.PollResult{Status: domain.StatusFound, Record: &recCopy, PolledAt: now}
}

// cachedResult serves an unchanged file from the freshness cache.
// A cached record wins over a later negative outcome: last-known values
// stay visible while the file is quiet.
func (m *Monitor) cachedResult(now time.Time) domain.PollResult {
	if m.lastRecord != nil {
		rec := *m.lastRecord
		return domain.PollResult{Status: domain.StatusFound, Record: &rec, FromCache: true, PolledAt: now}
	}
	return domain.PollResult{Status: m.lastStatus, FromCache: true, PolledAt: now}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
