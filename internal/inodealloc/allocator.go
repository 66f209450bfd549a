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

// Package inodealloc hands out the process-wide, strictly increasing inode
// numbers every mounted path gets. Zero is reserved ("no parent") so the
// counter itself starts at 1 and is never persisted: the buckets it numbers
// are ephemeral and rebuilt from the watch streams on every start.
package inodealloc

import (
	"encoding/binary"
	"sync/atomic"
)

// Allocator is a lock-free, monotonically increasing inode counter. The zero
// value is ready to use and begins issuing inode 1.
type Allocator struct {
	counter uint64
}

// Next returns a fresh inode number and its 8-byte big-endian encoding.
// Concurrent callers observe pairwise distinct, strictly increasing values.
func (a *Allocator) Next() (uint64, [8]byte) {
	n := atomic.AddUint64(&a.counter, 1)

	var key [8]byte
	binary.BigEndian.PutUint64(key[:], n)
	return n, key
}
