package blob

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// Bucket names.
const (
	bucketData  = "blob_data"
	bucketTypes = "blob_types"
)

// BoltStore keeps blobs in a local bbolt file, keyed by path.
type BoltStore struct {
	db      *bolt.DB
	baseURL string
}

// OpenBoltStore opens the file at dbPath and creates the buckets.
func OpenBoltStore(dbPath, baseURL string) (*BoltStore, error) {
	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{bucketData, bucketTypes} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db, baseURL: baseURL}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Upload(_ context.Context, path string, obj Object) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucketData)).Put([]byte(path), obj.Data); err != nil {
			return fmt.Errorf("failed to upload %s: %w", path, err)
		}
		return tx.Bucket([]byte(bucketTypes)).Put([]byte(path), []byte(obj.ContentType))
	})
}

func (s *BoltStore) Get(_ context.Context, path string) (Object, error) {
	var obj Object
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketData)).Get([]byte(path))
		if data == nil {
			return ErrNotFound
		}
		// values are only valid inside the transaction
		obj.Data = append([]byte(nil), data...)
		obj.ContentType = string(tx.Bucket([]byte(bucketTypes)).Get([]byte(path)))
		return nil
	})
	return obj, err
}

func (s *BoltStore) Delete(_ context.Context, path string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucketData)).Delete([]byte(path)); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketTypes)).Delete([]byte(path))
	})
}

func (s *BoltStore) PublicURL(path string) string {
	return publicURL(s.baseURL, path)
}

var _ Store = (*BoltStore)(nil)
