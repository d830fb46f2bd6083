package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.etcd.io/bbolt"

	"github.com/ServerWatch/conn-monitor/internal/domain"
)

const bucketName = "connections"

// BoltDBStore implements Store using BoltDB.
// Keys are RFC3339Nano observation timestamps plus the entry ID, so a
// cursor walks the journal in chronological order.
type BoltDBStore struct {
	db *bbolt.DB
}

// NewBoltDBStore opens (or creates) the journal database
func NewBoltDBStore(dbPath string) (*BoltDBStore, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		// A lock here usually means another monitor instance is running
		return nil, fmt.Errorf("failed to open boltdb (file may be locked by another process): %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	log.Info().
		Str("db_path", dbPath).
		Msg("BoltDB history store initialized")

	return &BoltDBStore{db: db}, nil
}

// Append stores a newly observed connection
func (s *BoltDBStore) Append(ctx context.Context, event *domain.ConnectionEvent) error {
	val, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		return b.Put(makeKey(event), val)
	})
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	log.Debug().
		Str("server_id", event.ServerID).
		Str("region", event.Region).
		Msg("History entry appended")

	return nil
}

// Recent returns up to limit entries, newest first
func (s *BoltDBStore) Recent(ctx context.Context, limit int) ([]*domain.ConnectionEvent, error) {
	if limit <= 0 {
		return nil, nil
	}

	var entries []*domain.ConnectionEvent
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		c := b.Cursor()
		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			var event domain.ConnectionEvent
			if err := json.Unmarshal(v, &event); err != nil {
				log.Warn().Err(err).Msg("Skipping unreadable history entry")
				continue
			}
			entries = append(entries, &event)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	return entries, nil
}

// Last returns the most recent entry, or nil when the journal is empty
func (s *BoltDBStore) Last(ctx context.Context) (*domain.ConnectionEvent, error) {
	entries, err := s.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0], nil
}

// Close closes the store
func (s *BoltDBStore) Close() error {
	return s.db.Close()
}

func makeKey(event *domain.ConnectionEvent) []byte {
	return []byte(event.ObservedAt.UTC().Format(time.RFC3339Nano) + "/" + event.ID)
}
