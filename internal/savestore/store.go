// Package savestore keeps saved program states in a bbolt file, one
// record per owner.
package savestore

import (
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"cbot/internal/robot"
)

var bucket = []byte("snapshots")

// ErrNotFound is returned when no record exists for an owner.
var ErrNotFound = errors.New("savestore: no snapshot")

// Record is one saved program with everything needed to resume it.
type Record struct {
	Owner       string      `msgpack:"owner"`
	Name        string      `msgpack:"name"`
	Entry       string      `msgpack:"entry"`
	Fingerprint string      `msgpack:"fingerprint"`
	SavedAt     time.Time   `msgpack:"saved_at"`
	Source      []byte      `msgpack:"source"`
	Bot         robot.State `msgpack:"bot"`
	Data        []byte      `msgpack:"data"`
}

// Size is the encoded payload size reported by listings.
func (r Record) Size() int { return len(r.Source) + len(r.Data) }

// Store is an open snapshot file.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("savestore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Put stores r under its owner, replacing an older record.
func (s *Store) Put(r Record) error {
	if r.Owner == "" {
		return errors.New("savestore: record without owner")
	}
	if r.SavedAt.IsZero() {
		r.SavedAt = time.Now().UTC()
	}
	data, err := msgpack.Marshal(&r)
	if err != nil {
		return fmt.Errorf("savestore: encode %s: %w", r.Owner, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(r.Owner), data)
	})
}

// Get loads the record of owner.
func (s *Store) Get(owner string) (Record, error) {
	var r Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucket).Get([]byte(owner))
		if v == nil {
			return fmt.Errorf("%w for %s", ErrNotFound, owner)
		}
		return msgpack.Unmarshal(v, &r)
	})
	return r, err
}

// List returns all records ordered by owner.
func (s *Store) List() ([]Record, error) {
	var out []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(k, v []byte) error {
			var r Record
			if err := msgpack.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("savestore: decode %s: %w", k, err)
			}
			out = append(out, r)
			return nil
		})
	})
	return out, err
}

// Delete removes the record of owner; a missing record is not an error.
func (s *Store) Delete(owner string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(owner))
	})
}
