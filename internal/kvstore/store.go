// Copyright 2024 The kufu Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kvstore wraps a bbolt database carrying the four buckets the
// filesystem manager owns: reverse-index, inode, dentry and data. It supplies
// only byte-to-byte bucket access and multi-bucket transactions; the
// filesystem manager (internal/vfs) is the only caller and owns the encoding
// of what those bytes mean.
package kvstore

import (
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/clusterfs/kufu/internal/kerrors"
)

// Bucket names, as byte strings on disk (spec.md §6 "On-disk KV layout").
var (
	BucketRIndex = []byte("reverse-index")
	BucketInode  = []byte("inode")
	BucketDentry = []byte("dentry")
	BucketData   = []byte("data")

	// ephemeralBuckets are dropped and recreated on every process start;
	// BucketData survives restarts (spec.md §3 "Lifecycle").
	ephemeralBuckets = [][]byte{BucketRIndex, BucketInode, BucketDentry}
)

// Store owns the bbolt handle backing the four buckets. All reads and writes
// to those buckets go through it; no other package touches *bolt.DB.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if absent) the bbolt file at path, drops and
// recreates the ephemeral buckets, and ensures the persistent Data bucket
// exists without touching its contents.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", kerrors.ErrStoreIO, path, err)
	}

	s := &Store{db: db}
	if err := s.resetEphemeralBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) resetEphemeralBuckets() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range ephemeralBuckets {
			if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		if _, err := tx.CreateBucketIfNotExists(BucketData); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: resetting ephemeral buckets: %v", kerrors.ErrStoreTransaction, err)
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: closing store: %v", kerrors.ErrStoreIO, err)
	}
	return nil
}

// View runs fn in a read-only transaction. Per spec.md §5, callers must not
// suspend (block on I/O outside the store) while holding tx.
func (s *Store) View(fn func(tx *bolt.Tx) error) error {
	if err := s.db.View(fn); err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrStoreTransaction, err)
	}
	return nil
}

// Update runs fn in a read-write transaction spanning any subset of the four
// buckets, giving exactly the "all or nothing across several buckets"
// primitive spec.md §4.2 requires.
func (s *Store) Update(fn func(tx *bolt.Tx) error) error {
	if err := s.db.Update(fn); err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrStoreTransaction, err)
	}
	return nil
}
