package domain

import "time"

// ConnectionRecord represents one successfully parsed server-connection event.
// A record is only ever created fully populated; there is no partial state.
type ConnectionRecord struct {
	Region        string
	ServerID      string
	SessionID     string
	ServerAddress string
}

// PollStatus classifies the outcome of a single poll
type PollStatus int

const (
	// StatusFound means a connection record was extracted (or served from cache)
	StatusFound PollStatus = iota
	// StatusNotFound means the file was readable but no line carried the marker
	StatusNotFound
	// StatusNoFieldMatch means a marker line was found but no pattern matched it
	StatusNoFieldMatch
	// StatusUnavailable means the file exists but could not be read (lock contention)
	StatusUnavailable
	// StatusFileMissing means the log file does not exist
	StatusFileMissing
)

// String returns the short identifier for the status
func (s PollStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusNoFieldMatch:
		return "no_field_match"
	case StatusUnavailable:
		return "unavailable"
	case StatusFileMissing:
		return "file_missing"
	default:
		return "unknown"
	}
}

// Message returns the human-readable text the presentation layer shows for the status
func (s PollStatus) Message() string {
	switch s {
	case StatusFound:
		return "Connected"
	case StatusNotFound:
		return "No connection event in log"
	case StatusNoFieldMatch:
		return "Connection event found but not recognized"
	case StatusUnavailable:
		return "Log file locked, retrying"
	case StatusFileMissing:
		return "Log file not found (game not running?)"
	default:
		return "Unknown status"
	}
}

// PollResult is the tagged outcome of ConnectionMonitor.Poll.
// Record is non-nil only when Status is StatusFound. FromCache marks a
// result served from the freshness cache without re-reading the file.
// Reason carries detail for StatusUnavailable.
type PollResult struct {
	Status    PollStatus
	Record    *ConnectionRecord
	FromCache bool
	Reason    string
	PolledAt  time.Time
}

// Found reports whether the result carries a connection record
func (r PollResult) Found() bool {
	return r.Status == StatusFound && r.Record != nil
}
