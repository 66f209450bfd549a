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

package vfs

import (
	"fmt"
	"path"

	bolt "go.etcd.io/bbolt"

	"github.com/clusterfs/kufu/clock"
	"github.com/clusterfs/kufu/internal/inodealloc"
	"github.com/clusterfs/kufu/internal/kerrors"
	"github.com/clusterfs/kufu/internal/kvstore"
)

// Manager is the filesystem manager of spec.md §4.2: the sole owner of the
// RIndex/Inode/Dentry/Data buckets, offering mount_dir, mount_file,
// edit_file, join_dir and the get_*/update_inode lookups as synchronous,
// blocking operations on the underlying store.
type Manager struct {
	store *kvstore.Store
	ids   *inodealloc.Allocator
	clock clock.Clock
}

func NewManager(store *kvstore.Store, ids *inodealloc.Allocator, c clock.Clock) *Manager {
	return &Manager{store: store, ids: ids, clock: c}
}

// MountDir implements spec.md §4.2 mount_dir: idempotent directory creation.
func (m *Manager) MountDir(p string, parentInode uint64) (uint64, error) {
	if existing, ok, err := m.lookupRIndex(p); err != nil {
		return 0, err
	} else if ok {
		return existing, nil
	}

	inode, _ := m.ids.Next()
	now := TimestampFromTime(m.clock.Now())

	attrs := InodeAttributes{
		Inode:               inode,
		Size:                0,
		LastAccessed:        now,
		LastModified:        now,
		LastMetadataChanged: now,
		Kind:                Directory,
		Mode:                0o777,
		Hardlinks:           1,
	}

	entries := map[string]DirEntry{".": {Kind: Directory, Inode: inode}}
	if parentInode != 0 {
		entries[".."] = DirEntry{Kind: Directory, Inode: parentInode}
	}
	dentry := DentryAttributes{Parent: parentInode, Name: path.Base(p), Entries: entries}

	if err := m.commitMount(p, inode, attrs, &dentry, nil); err != nil {
		return 0, err
	}

	if parentInode != 0 {
		if err := m.JoinDir(parentInode, inode, path.Base(p), Directory); err != nil {
			return 0, err
		}
	}

	return inode, nil
}

// MountFile implements spec.md §4.2 mount_file: reuses the inode if path is
// already present in RIndex (content is overwritten), else allocates.
func (m *Manager) MountFile(p string, parentInode uint64, content []byte) (uint64, error) {
	inode, existed, err := m.lookupRIndex(p)
	if err != nil {
		return 0, err
	}

	now := TimestampFromTime(m.clock.Now())

	if !existed {
		inode, _ = m.ids.Next()
	}

	attrs := InodeAttributes{
		Inode:               inode,
		Size:                uint64(len(content)),
		LastAccessed:        now,
		LastModified:        now,
		LastMetadataChanged: now,
		Kind:                File,
		Mode:                0o777,
		Hardlinks:           1,
	}

	if err := m.commitMount(p, inode, attrs, nil, content); err != nil {
		return 0, err
	}

	if parentInode != 0 {
		if err := m.JoinDir(parentInode, inode, path.Base(p), File); err != nil {
			return 0, err
		}
	}

	return inode, nil
}

// commitMount performs the RIndex/Inode[/Dentry][/Data] insertion as one
// atomic transaction (spec.md §4.2 "Transaction discipline").
func (m *Manager) commitMount(p string, inode uint64, attrs InodeAttributes, dentry *DentryAttributes, data []byte) error {
	attrBytes, err := kvstore.MarshalYAML(attrs)
	if err != nil {
		return err
	}

	var dentryBytes []byte
	if dentry != nil {
		dentryBytes, err = kvstore.MarshalYAML(dentry)
		if err != nil {
			return err
		}
	}

	key := kvstore.InodeKey(inode)

	return m.store.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(kvstore.BucketRIndex).Put([]byte(p), key); err != nil {
			return err
		}
		if err := tx.Bucket(kvstore.BucketInode).Put(key, attrBytes); err != nil {
			return err
		}
		if dentryBytes != nil {
			if err := tx.Bucket(kvstore.BucketDentry).Put(key, dentryBytes); err != nil {
				return err
			}
		}
		if data != nil {
			if err := tx.Bucket(kvstore.BucketData).Put(key, data); err != nil {
				return err
			}
		}
		return nil
	})
}

// EditFile implements spec.md §4.2 edit_file.
func (m *Manager) EditFile(p string, content []byte) error {
	inode, ok, err := m.lookupRIndex(p)
	if err != nil {
		return err
	}
	if !ok {
		return kerrors.NewInodeAttrNotFound(0)
	}

	attrs, err := m.GetInodeAttr(inode)
	if err != nil {
		return err
	}

	now := TimestampFromTime(m.clock.Now())
	attrs.Size = uint64(len(content))
	attrs.LastModified = now
	attrs.LastMetadataChanged = now

	if err := m.UpdateInode(inode, attrs); err != nil {
		return err
	}

	key := kvstore.InodeKey(inode)
	return m.store.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvstore.BucketData).Put(key, content)
	})
}

// JoinDir implements spec.md §4.2 join_dir: no-op when parentInode == 0,
// otherwise an atomic fetch-and-update on the parent's Dentry entry.
func (m *Manager) JoinDir(parentInode, childInode uint64, name string, kind FileKind) error {
	if parentInode == 0 {
		return nil
	}

	key := kvstore.InodeKey(parentInode)

	return m.store.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(kvstore.BucketDentry)
		raw := b.Get(key)
		if raw == nil {
			return kerrors.NewDentryAttrNotFound(parentInode)
		}

		var dentry DentryAttributes
		if err := kvstore.UnmarshalYAML(raw, &dentry); err != nil {
			return err
		}
		if dentry.Entries == nil {
			dentry.Entries = map[string]DirEntry{}
		}
		dentry.Entries[name] = DirEntry{Kind: kind, Inode: childInode}

		encoded, err := kvstore.MarshalYAML(&dentry)
		if err != nil {
			return err
		}
		return b.Put(key, encoded)
	})
}

// GetInodeAttr implements spec.md §4.2 get_inode_attr.
func (m *Manager) GetInodeAttr(inode uint64) (InodeAttributes, error) {
	var attrs InodeAttributes
	key := kvstore.InodeKey(inode)

	err := m.store.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(kvstore.BucketInode).Get(key)
		if raw == nil {
			return kerrors.NewInodeAttrNotFound(inode)
		}
		return kvstore.UnmarshalYAML(raw, &attrs)
	})
	if err != nil {
		return InodeAttributes{}, err
	}
	return attrs, nil
}

// GetDentry implements spec.md §4.2 get_dentry.
func (m *Manager) GetDentry(inode uint64) (DentryAttributes, error) {
	var dentry DentryAttributes
	key := kvstore.InodeKey(inode)

	err := m.store.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(kvstore.BucketDentry).Get(key)
		if raw == nil {
			return kerrors.NewDentryAttrNotFound(inode)
		}
		return kvstore.UnmarshalYAML(raw, &dentry)
	})
	if err != nil {
		return DentryAttributes{}, err
	}
	return dentry, nil
}

// GetData implements spec.md §4.2 get_data.
func (m *Manager) GetData(inode uint64) ([]byte, error) {
	var data []byte
	key := kvstore.InodeKey(inode)

	err := m.store.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(kvstore.BucketData).Get(key)
		if raw == nil {
			return kerrors.NewClusterObjectDataNotFound(inode)
		}
		data = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DeleteData removes the Data entry for inode. It is the storage primitive
// behind the object storage façade's delete (spec.md §4.3): per spec.md §9
// Open Questions, the façade intentionally does not cascade this into the
// parent Dentry or the Inode/RIndex entries, so this method mirrors that by
// touching only the Data bucket.
func (m *Manager) DeleteData(inode uint64) error {
	key := kvstore.InodeKey(inode)
	return m.store.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvstore.BucketData).Delete(key)
	})
}

// GetInode implements spec.md §4.2 get_inode: resolves a path via RIndex.
func (m *Manager) GetInode(p string) (uint64, error) {
	inode, ok, err := m.lookupRIndex(p)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, kerrors.NewInodeAttrNotFound(0)
	}
	return inode, nil
}

// UpdateInode implements spec.md §4.2 update_inode: replaces the Inode entry.
func (m *Manager) UpdateInode(inode uint64, attrs InodeAttributes) error {
	encoded, err := kvstore.MarshalYAML(attrs)
	if err != nil {
		return err
	}
	key := kvstore.InodeKey(inode)
	return m.store.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvstore.BucketInode).Put(key, encoded)
	})
}

func (m *Manager) lookupRIndex(p string) (uint64, bool, error) {
	var inode uint64
	var found bool

	err := m.store.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(kvstore.BucketRIndex).Get([]byte(p))
		if raw == nil {
			return nil
		}
		decoded, err := kvstore.DecodeInodeKey(raw)
		if err != nil {
			return err
		}
		inode, found = decoded, true
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("%w: looking up %q: %v", kerrors.ErrStoreIO, p, err)
	}
	return inode, found, nil
}
