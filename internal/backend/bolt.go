package backend

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// DefaultBoltBucket is the bucket name used inside the Bolt file.
const DefaultBoltBucket = "hyperstorage"

// Bolt is a Backend persisted in a local BoltDB file: the durable,
// process-wide string store analogous to a browser's storage area.
// All entries live in a single bucket.
type Bolt struct {
	db     *bolt.DB
	bucket []byte
}

// NewBolt opens (creating if needed) the Bolt database at path and ensures
// the bucket exists. The caller owns the returned backend and must Close it.
func NewBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("bolt open %s: %w", path, err)
	}
	bucket := []byte(DefaultBoltBucket)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt bucket create: %w", err)
	}
	return &Bolt{db: db, bucket: bucket}, nil
}

// Get returns the entry stored under key.
func (b *Bolt) Get(_ context.Context, key string) (string, bool, error) {
	var value string
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		// The bucket is created in NewBolt; raw points into the mmap and is
		// only valid inside the transaction, hence the copy.
		raw := tx.Bucket(b.bucket).Get([]byte(key))
		if raw != nil {
			value = string(raw)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("bolt get %s: %w", key, err)
	}
	return value, found, nil
}

// Set stores value under key in a single write transaction.
func (b *Bolt) Set(_ context.Context, key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("bolt set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (b *Bolt) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("bolt delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}
