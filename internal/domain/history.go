package domain

import "time"

// ConnectionEvent is one journal entry recording that the monitor observed
// a new server connection. Written to the local history store and, when
// mirroring is enabled, to ClickHouse.
type ConnectionEvent struct {
	ID         string // uuid
	ObservedAt time.Time
	Region     string
	ServerID   string
	SessionID  string
	Address    string
	Source     string // log file path the event was read from
}

// FromRecord builds a journal entry for a freshly extracted record
func FromRecord(id string, rec *ConnectionRecord, source string, observedAt time.Time) *ConnectionEvent {
	return &ConnectionEvent{
		ID:         id,
		ObservedAt: observedAt,
		Region:     rec.Region,
		ServerID:   rec.ServerID,
		SessionID:  rec.SessionID,
		Address:    rec.ServerAddress,
		Source:     source,
	}
}
