package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	reportBucket     = "reports"
	expiryValueBytes = 8
)

var errBucketMissing = errors.New("report bucket missing")

// boltStore keeps fingerprint -> expiry (unix seconds, big endian) in one bucket.
type boltStore struct {
	db       *bolt.DB
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	mu          sync.Mutex
	nextCleanup time.Time
}

func openBolt(path string, opts Options, now func() time.Time) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(reportBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{
		db:          db,
		ttl:         opts.ReportTTL,
		interval:    opts.CleanupInterval,
		now:         now,
		nextCleanup: now().Add(opts.CleanupInterval),
	}, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *boltStore) ClaimReport(fingerprint string) (bool, error) {
	if b == nil || b.db == nil {
		return true, nil
	}
	now := b.now()
	b.sweepIfDue(now)

	claimed := false
	err := b.update(func(bucket *bolt.Bucket) error {
		key := []byte(fingerprint)
		if expiry, ok := decodeExpiry(bucket.Get(key)); ok && expiry.After(now) {
			return nil
		}
		claimed = true
		return bucket.Put(key, encodeExpiry(now.Add(b.ttl)))
	})
	if err != nil {
		return false, fmt.Errorf("claim report %s: %w", fingerprint, err)
	}
	return claimed, nil
}

func (b *boltStore) ForgetReport(fingerprint string) error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.update(func(bucket *bolt.Bucket) error {
		return bucket.Delete([]byte(fingerprint))
	})
}

func (b *boltStore) update(fn func(*bolt.Bucket) error) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(reportBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return fn(bucket)
	})
}

// sweepIfDue deletes expired fingerprints at most once per cleanup interval.
// A failed sweep is retried on the next call.
func (b *boltStore) sweepIfDue(now time.Time) {
	b.mu.Lock()
	if now.Before(b.nextCleanup) {
		b.mu.Unlock()
		return
	}
	b.nextCleanup = now.Add(b.interval)
	b.mu.Unlock()

	err := b.update(func(bucket *bolt.Bucket) error {
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if expiry, ok := decodeExpiry(v); !ok || !expiry.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		b.mu.Lock()
		b.nextCleanup = now
		b.mu.Unlock()
	}
}

func (b *boltStore) count() (int, error) {
	n := 0
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(reportBucket))
		if bucket == nil {
			return errBucketMissing
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}

func encodeExpiry(t time.Time) []byte {
	buf := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(buf, uint64(t.Unix()))
	return buf
}

func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
