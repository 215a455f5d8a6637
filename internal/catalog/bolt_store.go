package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"

	"github.com/neotoxic-off/glacier/internal/signature"
)

var bucketSignatures = []byte("signatures")

// BoltStore is the embedded, document-store-shaped Store backend: one
// bucket holding JSON-encoded Record values keyed by file name. Grounded
// on daemon/manager/cas_bolt.go's bucket-per-collection pattern, renamed
// from "cas" to "signatures" to mirror the original agent's
// COLLECTION_NAME_SIGNATURES constant.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (creating if necessary) a bolt database at path
// and ensures the signatures bucket exists.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Clean(path), 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to open bolt store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketSignatures)
		return e
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: failed to create signatures bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Save implements Store.
func (b *BoltStore) Save(ctx context.Context, record signature.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketSignatures)
		if bk == nil {
			return bolt.ErrBucketNotFound
		}
		if v := bk.Get([]byte(record.FileName)); v != nil {
			return ErrAlreadyExists
		}

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("catalog: failed to marshal record: %w", err)
		}
		return bk.Put([]byte(record.FileName), data)
	})
}

// Load implements Store.
func (b *BoltStore) Load(ctx context.Context, fileName string) (signature.Record, error) {
	var record signature.Record

	if err := ctx.Err(); err != nil {
		return record, err
	}

	err := b.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketSignatures)
		if bk == nil {
			return ErrNotFound
		}
		v := bk.Get([]byte(fileName))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &record)
	})

	return record, err
}

// Close implements Store.
func (b *BoltStore) Close() error {
	return b.db.Close()
}
