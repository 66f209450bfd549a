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

// Package vfs is the filesystem manager: the sole owner of the four KV
// buckets (spec.md §3 "Ownership"). Every reader and writer — the object
// storage façade and the FUSE request handler alike — goes through it.
package vfs

import (
	"sort"
	"time"
)

// FileKind mirrors spec.md §3's InodeAttributes.kind enum.
type FileKind int

const (
	File FileKind = iota
	Directory
	Symlink
)

// DiskBlockSize is the fixed block size used for block-count reporting
// (spec.md §3).
const DiskBlockSize = 512

// Timestamp is the signed-epoch-seconds/unsigned-nanoseconds pair spec.md §3
// requires for every InodeAttributes time field.
type Timestamp struct {
	Seconds     int64  `yaml:"seconds"`
	Nanoseconds uint32 `yaml:"nanoseconds"`
}

func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanoseconds: uint32(t.Nanosecond())}
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanoseconds))
}

// InodeAttributes is spec.md §3's InodeAttributes entity, YAML-encoded into
// the Inode bucket.
type InodeAttributes struct {
	Inode                 uint64            `yaml:"inode"`
	OpenFileHandles       uint32            `yaml:"open_file_handles"`
	Size                  uint64            `yaml:"size"`
	LastAccessed          Timestamp         `yaml:"last_accessed"`
	LastModified          Timestamp         `yaml:"last_modified"`
	LastMetadataChanged   Timestamp         `yaml:"last_metadata_changed"`
	Kind                  FileKind          `yaml:"kind"`
	Mode                  uint32            `yaml:"mode"`
	Hardlinks             uint32            `yaml:"hardlinks"`
	UID                   uint32            `yaml:"uid"`
	GID                   uint32            `yaml:"gid"`
	Xattrs                map[string][]byte `yaml:"xattrs"`
}

// DirEntry is one binding inside a DentryAttributes.entries mapping.
type DirEntry struct {
	Kind  FileKind `yaml:"kind"`
	Inode uint64   `yaml:"inode"`
}

// DentryAttributes is spec.md §3's DentryAttributes entity, YAML-encoded
// into the Dentry bucket. Entries is a plain map; callers that need the
// "ordered by name" iteration spec.md §3 and §4.4 require go through
// SortedNames.
type DentryAttributes struct {
	Parent  uint64              `yaml:"parent"`
	Name    string              `yaml:"name"`
	Entries map[string]DirEntry `yaml:"entries"`
}

// SortedNames returns d.Entries' keys in the natural (lexicographic)
// ordering spec.md §3 and §4.4's readdir rely on.
func (d *DentryAttributes) SortedNames() []string {
	names := make([]string, 0, len(d.Entries))
	for name := range d.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
