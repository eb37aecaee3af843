package bolt

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sellerdesk/couponctl/internal/store"
	bolt "go.etcd.io/bbolt"
)

var _ store.Store = (*Store)(nil)

var (
	// BucketStorage holds credential fields.
	BucketStorage = []byte("storage")
	// BucketCookies holds session cookies, see internal/cookiejar.
	BucketCookies = []byte("cookies")
)

// Open opens (creating if needed) the bolt file and its buckets. The handle is
// shared by the credential store and the cookie jar; bolt takes an exclusive
// file lock so a file can only be opened once per process.
func Open(path string) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(BucketStorage); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(BucketCookies)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Store is a BoltDB-backed store.Store.
type Store struct {
	db *bolt.DB
}

// New wraps an opened bolt handle.
func New(db *bolt.DB) *Store {
	return &Store{db: db}
}

// Close closes underlying Bolt DB.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get reads a field.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	default:
	}
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(BucketStorage).Get([]byte(key)); v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	return value, found, err
}

// Set writes a field.
func (s *Store) Set(ctx context.Context, key, value string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketStorage).Put([]byte(key), []byte(value))
	})
}

// Remove deletes the given fields in one transaction.
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(BucketStorage)
		for _, k := range keys {
			if err := bkt.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}
