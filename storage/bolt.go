package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const snapshotBucket = "snapshots"

type boltSnapshotStore struct {
	db *bolt.DB
}

// NewBoltSnapshotStore opens (or creates) the local snapshot database.
func NewBoltSnapshotStore(path string) (SnapshotStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare snapshot bucket: %w", err)
	}
	return &boltSnapshotStore{db: db}, nil
}

func (s *boltSnapshotStore) Save(ctx context.Context, store string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %s: %w", store, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(snapshotBucket)).Put([]byte(store), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", store, err)
	}
	return nil
}

func (s *boltSnapshotStore) Load(ctx context.Context, store string, out interface{}) (bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(snapshotBucket)).Get([]byte(store))
		if v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to read snapshot %s: %w", store, err)
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal snapshot %s: %w", store, err)
	}
	return true, nil
}

func (s *boltSnapshotStore) Close() error {
	return s.db.Close()
}
