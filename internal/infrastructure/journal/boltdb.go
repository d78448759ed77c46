package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/setuponce/backend/domain"
)

// Store keeps recent notifications per business in a BoltDB file. Each
// business gets a nested bucket keyed by creation time, so cursors walk in
// chronological order.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the root bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "notifications"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Append stores a notification under its business.
func (s *Store) Append(n domain.Notification) (domain.Notification, error) {
	if s == nil || s.db == nil {
		return n, bolt.ErrDatabaseNotOpen
	}
	if n.BusinessID == "" {
		return n, domain.ErrInvalidPayload
	}
	entry := Entry{Notification: n}
	entry.normalize()

	payload, err := json.Marshal(entry)
	if err != nil {
		return n, err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(s.bucket).CreateBucketIfNotExists([]byte(entry.BusinessID))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(buildKey(entry, seq), payload)
	})
	return entry.Notification, err
}

// Recent returns up to limit notifications of a business, newest first.
func (s *Store) Recent(businessID string, limit int) ([]domain.Notification, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	items := []domain.Notification{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket).Bucket([]byte(businessID))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil && len(items) < limit; k, v = c.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			items = append(items, entry.Notification)
		}
		return nil
	})
	return items, err
}

// Size returns the number of stored notifications across all businesses.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(s.bucket)
		return root.ForEach(func(k, v []byte) error {
			if v != nil {
				return nil
			}
			count += root.Bucket(k).Stats().KeyN
			return nil
		})
	})
	return count, err
}

// Cleanup removes notifications older than the provided timestamp.
func (s *Store) Cleanup(olderThan time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	cutoff := []byte(fmt.Sprintf("%020d", olderThan.UnixNano()))
	var removed int
	err := s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(s.bucket)
		var names [][]byte
		if err := root.ForEach(func(k, v []byte) error {
			if v == nil {
				names = append(names, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, name := range names {
			b := root.Bucket(name)
			var stale [][]byte
			c := b.Cursor()
			for k, _ := c.First(); k != nil && bytes.Compare(k, cutoff) < 0; k, _ = c.Next() {
				stale = append(stale, append([]byte(nil), k...))
			}
			for _, k := range stale {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
			removed += len(stale)
		}
		return nil
	})
	return removed, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// buildKey orders entries by creation time; the per-business sequence breaks
// ties between entries written within the same clock tick.
func buildKey(entry Entry, seq uint64) []byte {
	return []byte(fmt.Sprintf("%020d_%020d", entry.CreatedAt.UnixNano(), seq))
}
